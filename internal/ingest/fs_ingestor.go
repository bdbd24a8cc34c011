package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/core/async"
)

// FSIngestor reads recognized-text files from the local filesystem and hands
// them to the processing queue. Files with content already queued by this
// instance are reported as deduplicated and not queued again.
type FSIngestor struct {
	queue  async.Queue
	logger *slog.Logger

	mu     sync.Mutex
	seen   map[string]uuid.UUID // content hash -> job id
	hashes map[uuid.UUID]string // in-flight job id -> content hash
}

func NewFSIngestor(q async.Queue, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{
		queue:  q,
		logger: logger,
		seen:   make(map[string]uuid.UUID),
		hashes: make(map[uuid.UUID]string),
	}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		i.logger.Error("abs path error", "path", path, "error", err)
		return out, fmt.Errorf("abs path: %w", err)
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		i.logger.Warn("unsupported or missing extension", "path", abs, "extension", ext)
		return out, fmt.Errorf("%w: unsupported or missing extension %q", common.ErrInvalidInput, ext)
	}

	hashHex, err := hashFile(abs)
	if err != nil {
		i.logger.Error("failed to hash file", "path", abs, "error", err)
		return out, err
	}
	out = IngestionResult{SourcePath: abs, HashHex: hashHex, FileExt: ext}

	i.mu.Lock()
	if id, ok := i.seen[hashHex]; ok {
		i.mu.Unlock()
		out.JobID = id.String()
		out.Deduplicated = true
		i.logger.Info("file already queued", "path", abs, "job_id", id)
		return out, nil
	}
	job := async.NewJob(abs)
	job.TraceID = common.RequestIDFromContext(ctx)
	i.seen[hashHex] = job.ID
	i.hashes[job.ID] = hashHex
	i.mu.Unlock()

	if err := i.queue.Enqueue(ctx, job); err != nil {
		i.mu.Lock()
		delete(i.seen, hashHex)
		delete(i.hashes, job.ID)
		i.mu.Unlock()
		return out, fmt.Errorf("enqueue: %w", err)
	}

	out.JobID = job.ID.String()
	out.QueuedAt = job.SubmittedAt
	return out, nil
}

// IngestDirectory scans root, skipping hidden entries if requested, and
// calls IngestPath for each text file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	paths, stats, err := ScanDirectory(ctx, root, skipHidden)
	if err != nil {
		return nil, stats, err
	}

	results := make([]IngestionResult, 0, len(paths))
	for _, path := range paths {
		r, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			continue
		}
		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
	}

	i.logger.Info("directory ingested", "root", root,
		"matched", stats.Matched, "succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated, "failed", stats.Failed)
	return results, stats, nil
}

// HandleResult is meant for async.WithResultHandler. A failed job's content
// is forgotten so the same file can be ingested again.
func (i *FSIngestor) HandleResult(res async.Result) {
	i.mu.Lock()
	defer i.mu.Unlock()
	hash, ok := i.hashes[res.Job.ID]
	if !ok {
		return
	}
	delete(i.hashes, res.Job.ID)
	if res.Status == constants.JobStatusFailed && i.seen[hash] == res.Job.ID {
		delete(i.seen, hash)
		i.logger.Info("failed job released for re-ingest", "job_id", res.Job.ID, "path", res.Job.Path)
	}
}

// Consume ingests paths emitted by a watcher until ctx is done or the
// channels close.
func (i *FSIngestor) Consume(ctx context.Context, paths <-chan string, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-paths:
			if !ok {
				return
			}
			start := time.Now()
			r, err := i.IngestPath(ctx, p)
			if err != nil {
				i.logger.Error("watch ingest failed", "path", p, "error", err)
				continue
			}
			i.logger.Debug("watch ingest", "path", p, "job_id", r.JobID,
				"deduplicated", r.Deduplicated, "elapsed_ms", time.Since(start).Milliseconds())
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			i.logger.Warn("watcher reported error", "error", err)
		}
	}
}
