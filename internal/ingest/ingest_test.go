package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/core/async"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []async.Job
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, job async.Job) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
	return nil
}

func (q *recordingQueue) Shutdown(context.Context) {}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	writeFile(t, filepath.Join(root, "a.TXT"), "a")
	writeFile(t, filepath.Join(root, "scan.ocr"), "c")
	writeFile(t, filepath.Join(root, "image.png"), "x")
	writeFile(t, filepath.Join(root, "nested", "d.txt"), "d")
	writeFile(t, filepath.Join(root, ".hidden", "e.txt"), "e")
	writeFile(t, filepath.Join(root, ".f.txt"), "f")

	tests := []struct {
		name       string
		skipHidden bool
		wantFiles  []string
	}{
		{"skip hidden", true, []string{"a.TXT", "b.txt", "nested/d.txt", "scan.ocr"}},
		{"include hidden", false, []string{".f.txt", ".hidden/e.txt", "a.TXT", "b.txt", "nested/d.txt", "scan.ocr"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, stats, err := ScanDirectory(context.Background(), root, tt.skipHidden)
			if err != nil {
				t.Fatalf("ScanDirectory: %v", err)
			}
			if int(stats.Matched) != len(tt.wantFiles) {
				t.Errorf("Matched = %d, want %d", stats.Matched, len(tt.wantFiles))
			}
			if len(paths) != len(tt.wantFiles) {
				t.Fatalf("paths = %v", paths)
			}
			for i, want := range tt.wantFiles {
				if paths[i] != filepath.Join(root, want) {
					t.Errorf("[%d] = %s, want %s", i, paths[i], filepath.Join(root, want))
				}
			}
		})
	}
}

func TestScanDirectory_Errors(t *testing.T) {
	if _, _, err := ScanDirectory(context.Background(), "  ", true); err == nil {
		t.Error("expected error for empty root")
	}
	if _, _, err := ScanDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), true); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestFSIngestor_IngestDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one.txt"), "Invoice # A-1")
	writeFile(t, filepath.Join(root, "two.txt"), "Invoice # A-2")
	writeFile(t, filepath.Join(root, "copy.txt"), "Invoice # A-1")

	q := &recordingQueue{}
	ing := NewFSIngestor(q, quietLogger())
	results, stats, err := ing.IngestDirectory(context.Background(), root, true)
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if stats.Succeeded != 3 || stats.Deduplicated != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if len(q.jobs) != 2 {
		t.Errorf("queued %d jobs, want 2", len(q.jobs))
	}
	// copy.txt sorts first, so one.txt is the duplicate
	for _, r := range results {
		if filepath.Base(r.SourcePath) == "one.txt" && !r.Deduplicated {
			t.Errorf("one.txt should be deduplicated: %+v", r)
		}
		if r.JobID == "" || r.HashHex == "" || r.FileExt != "txt" {
			t.Errorf("incomplete result: %+v", r)
		}
	}
}

func TestFSIngestor_IngestPath(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "inv.txt")
	writeFile(t, txt, "text")
	png := filepath.Join(dir, "inv.png")
	writeFile(t, png, "img")

	ing := NewFSIngestor(&recordingQueue{}, quietLogger())
	ctx := common.WithRequestID(context.Background(), "req-1")

	if _, err := ing.IngestPath(ctx, png); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("png error = %v, want ErrInvalidInput", err)
	}
	if _, err := ing.IngestPath(ctx, filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}

	r, err := ing.IngestPath(ctx, txt)
	if err != nil {
		t.Fatalf("IngestPath: %v", err)
	}
	if r.Deduplicated || r.QueuedAt.IsZero() {
		t.Errorf("result = %+v", r)
	}
	q := ing.queue.(*recordingQueue)
	if len(q.jobs) != 1 || q.jobs[0].TraceID != "req-1" {
		t.Errorf("jobs = %+v", q.jobs)
	}
}

func TestFSIngestor_EnqueueFailureAllowsRetry(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "inv.txt")
	writeFile(t, txt, "text")

	q := &recordingQueue{err: async.ErrQueueClosed}
	ing := NewFSIngestor(q, quietLogger())
	if _, err := ing.IngestPath(context.Background(), txt); !errors.Is(err, async.ErrQueueClosed) {
		t.Fatalf("error = %v, want ErrQueueClosed", err)
	}

	q.err = nil
	r, err := ing.IngestPath(context.Background(), txt)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if r.Deduplicated {
		t.Error("failed enqueue must not mark content as seen")
	}
}

func TestFSIngestor_HandleResult(t *testing.T) {
	tests := []struct {
		name      string
		status    constants.JobStatus
		wantDedup bool
	}{
		{"failed job is released", constants.JobStatusFailed, false},
		{"stored job stays deduplicated", constants.JobStatusStored, true},
		{"review job stays deduplicated", constants.JobStatusReview, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txt := filepath.Join(t.TempDir(), "inv.txt")
			writeFile(t, txt, "text")

			q := &recordingQueue{}
			ing := NewFSIngestor(q, quietLogger())
			if _, err := ing.IngestPath(context.Background(), txt); err != nil {
				t.Fatalf("IngestPath: %v", err)
			}
			ing.HandleResult(async.Result{Job: q.jobs[0], Status: tt.status})

			r, err := ing.IngestPath(context.Background(), txt)
			if err != nil {
				t.Fatalf("second IngestPath: %v", err)
			}
			if r.Deduplicated != tt.wantDedup {
				t.Errorf("Deduplicated = %v, want %v", r.Deduplicated, tt.wantDedup)
			}
			if len(ing.hashes) > 1 {
				t.Errorf("in-flight hashes = %d, want at most 1", len(ing.hashes))
			}
		})
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "existing.txt")
	writeFile(t, existing, "old")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    50 * time.Millisecond,
		SkipHidden:  true,
		Logger:      quietLogger(),
	})
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	next := func() string {
		t.Helper()
		select {
		case p := <-events:
			return p
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watcher event")
			return ""
		}
	}

	if got := next(); got != existing {
		t.Fatalf("initial event = %s, want %s", got, existing)
	}

	fresh := filepath.Join(root, "fresh.txt")
	writeFile(t, filepath.Join(root, "ignored.png"), "x")
	writeFile(t, fresh, "new")
	if got := next(); got != fresh {
		t.Fatalf("event = %s, want %s", got, fresh)
	}

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	if _, _, err := StartWatcher(context.Background(), WatchConfig{Logger: quietLogger()}); err == nil {
		t.Fatal("expected error without roots")
	}
}
