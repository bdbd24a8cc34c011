package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileReader_Read(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inv.txt")
	if err := os.WriteFile(path, []byte(sampleInvoice), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewFileReader(nil).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if src.Text != sampleInvoice {
		t.Errorf("Text mismatch")
	}
	if src.SourcePath != path {
		t.Errorf("SourcePath = %q, want %q", src.SourcePath, path)
	}
	if want := HeuristicConfidence(sampleInvoice); src.OverallConfidence != want {
		t.Errorf("OverallConfidence = %v, want heuristic %v", src.OverallConfidence, want)
	}
}

func TestFileReader_Sidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inv.txt")
	if err := os.WriteFile(path, []byte("Total: 1.00"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path+ConfidenceSuffix, []byte("0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewFileReader(nil).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if src.OverallConfidence != 0.5 {
		t.Errorf("OverallConfidence = %v, want 0.5", src.OverallConfidence)
	}
}

func TestFileReader_Errors(t *testing.T) {
	dir := t.TempDir()
	r := NewFileReader(nil)

	if _, err := r.Read(context.Background(), filepath.Join(dir, "scan.png")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := r.Read(context.Background(), filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Read(ctx, filepath.Join(dir, "x.txt")); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestHeuristicConfidence(t *testing.T) {
	if got := HeuristicConfidence(""); got != 0.2 {
		t.Errorf("HeuristicConfidence(empty) = %v, want 0.2", got)
	}
	rich := HeuristicConfidence(sampleInvoice)
	if rich <= 0.2 || rich > 1 {
		t.Errorf("HeuristicConfidence(sample) = %v, want in (0.2, 1]", rich)
	}
}
