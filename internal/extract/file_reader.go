package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/invoices-tracker/constants"
)

// ConfidenceSuffix names the optional sidecar file holding the recognizer's
// overall confidence (0..1) for a text file, e.g. "inv.txt.conf".
const ConfidenceSuffix = ".conf"

// FileReader reads recognized text written to disk by the upstream OCR step.
type FileReader struct {
	logger *slog.Logger
}

func NewFileReader(logger *slog.Logger) *FileReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileReader{logger: logger}
}

func (r *FileReader) Read(ctx context.Context, path string) (TextSource, error) {
	if err := ctx.Err(); err != nil {
		return TextSource{}, err
	}
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.IsAllowedExt(ext) {
		r.logger.Error("unsupported text extension", "path", path, "extension", ext)
		return TextSource{}, fmt.Errorf("unsupported extension: %q", ext)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return TextSource{}, fmt.Errorf("read text: %w", err)
	}
	src := TextSource{Text: string(b), SourcePath: path}

	if c, ok := r.sidecarConfidence(path); ok {
		src.OverallConfidence = c
	} else {
		src.OverallConfidence = HeuristicConfidence(src.Text)
	}
	r.logger.Debug("text loaded", "path", path, "bytes", len(b), "overall_confidence", src.OverallConfidence)
	return src, nil
}

func (r *FileReader) sidecarConfidence(path string) (float32, bool) {
	b, err := os.ReadFile(path + ConfidenceSuffix)
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 32)
	if err != nil || v < 0 || v > 1 {
		r.logger.Warn("ignoring malformed confidence sidecar", "path", path+ConfidenceSuffix)
		return 0, false
	}
	return float32(v), true
}
