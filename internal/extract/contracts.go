package extract

import (
	"context"

	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

// TextSource is the output of the upstream recognition step.
// OverallConfidence is informational only; extraction and validation ignore it.
type TextSource struct {
	Text              string
	OverallConfidence float32
	SourcePath        string // empty when the text did not come from a file
}

// TextReader loads recognized text for a path (stage 1: file -> text).
type TextReader interface {
	Read(ctx context.Context, path string) (TextSource, error)
}

// FieldExtractor turns recognized text into a structured record (stage 2: text -> fields).
type FieldExtractor interface {
	Extract(text string) entity.InvoiceRecord
}
