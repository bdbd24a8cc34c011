package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/ingest"
)

type IngestionServer struct {
	UnimplementedIngestionServiceServer
	ingestor ingest.Ingestor
	logger   *slog.Logger
}

func NewIngestionServer(ing ingest.Ingestor, logger *slog.Logger) *IngestionServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionServer{ingestor: ing, logger: logger}
}

// IngestFile expects {"path": string} and queues the file for processing.
func (s *IngestionServer) IngestFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	path := strings.TrimSpace(stringField(req, "path"))
	if path == "" {
		log.Error("ingest request missing path")
		return nil, status.Error(codes.InvalidArgument, "path is required")
	}

	log.Info("starting file ingest", "path", path)
	r, err := s.ingestor.IngestPath(ctx, path)
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			return nil, status.Errorf(codes.InvalidArgument, "ingest: %v", err)
		}
		return nil, status.Errorf(codes.FailedPrecondition, "ingest: %v", err)
	}
	log.Info("file ingest succeeded", "path", r.SourcePath, "job_id", r.JobID, "deduplicated", r.Deduplicated)

	return structpb.NewStruct(resultMap(r))
}

// IngestDirectory expects {"root_path": string, "skip_hidden"?: bool}.
// skip_hidden defaults to true when absent.
func (s *IngestionServer) IngestDirectory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	root := strings.TrimSpace(stringField(req, "root_path"))
	if root == "" {
		log.Error("ingest directory request missing root_path")
		return nil, status.Error(codes.InvalidArgument, "root_path is required")
	}
	skipHidden := true
	if v, ok := req.GetFields()["skip_hidden"]; ok {
		skipHidden = v.GetBoolValue()
	}

	log.Info("starting directory ingest", "root", root, "skip_hidden", skipHidden)
	results, stats, err := s.ingestor.IngestDirectory(ctx, root, skipHidden)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "ingest directory: %v", err)
	}
	log.Info("directory ingest completed", "root", root, "scanned", stats.Scanned, "matched", stats.Matched,
		"succeeded", stats.Succeeded, "deduplicated", stats.Deduplicated, "failed", stats.Failed)

	items := make([]any, 0, len(results))
	for _, r := range results {
		items = append(items, resultMap(r))
	}
	return structpb.NewStruct(map[string]any{
		"scanned":      stats.Scanned,
		"matched":      stats.Matched,
		"succeeded":    stats.Succeeded,
		"deduplicated": stats.Deduplicated,
		"failed":       stats.Failed,
		"results":      items,
	})
}

func resultMap(r ingest.IngestionResult) map[string]any {
	queuedAt := ""
	if !r.QueuedAt.IsZero() {
		queuedAt = r.QueuedAt.UTC().Format(time.RFC3339)
	}
	return map[string]any{
		"source_path":      r.SourcePath,
		"job_id":           r.JobID,
		"deduplicated":     r.Deduplicated,
		"content_hash_hex": r.HashHex,
		"file_ext":         r.FileExt,
		"queued_at":        queuedAt,
		"error":            r.Err,
	}
}
