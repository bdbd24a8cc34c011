package extract

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

// MatchConfidence is recorded for every field a pattern matched. It does not
// depend on match quality.
const MatchConfidence = 95

// Extractor pulls invoice fields out of recognized text with ordered regex
// patterns. It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	patterns []fieldPatterns
	logger   *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{patterns: defaultPatterns, logger: logger}
}

// FieldNames lists the fields this extractor reports, in extraction order.
func (e *Extractor) FieldNames() []string {
	out := make([]string, 0, len(e.patterns))
	for _, fp := range e.patterns {
		out = append(out, fp.field)
	}
	return out
}

// Extract never fails: a field no pattern recognizes is left nil with
// confidence 0, and a value that fails normalization reverts to nil while
// keeping its match confidence.
func (e *Extractor) Extract(text string) entity.InvoiceRecord {
	raw := make(map[string]string, len(e.patterns))
	rec := entity.NewInvoiceRecord()

	for _, fp := range e.patterns {
		rec.Confidence[fp.field] = 0
		for _, re := range fp.patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			v := strings.TrimSpace(m[1])
			if v == "" {
				// an all-whitespace capture counts as no match
				break
			}
			raw[fp.field] = v
			rec.Confidence[fp.field] = MatchConfidence
			break
		}
	}

	if v, ok := raw[constants.FieldInvoiceNumber]; ok {
		n := NormalizeInvoiceNumber(v)
		rec.InvoiceNumber = &n
	}
	if v, ok := raw[constants.FieldVendor]; ok {
		n := NormalizeVendor(v)
		rec.Vendor = &n
	}
	if v, ok := raw[constants.FieldAmount]; ok {
		rec.Amount = NormalizeAmount(v)
		if rec.Amount == nil {
			e.logger.Debug("amount did not parse", "raw", v)
		}
	}
	if v, ok := raw[constants.FieldTax]; ok {
		rec.Tax = NormalizeAmount(v)
		if rec.Tax == nil {
			e.logger.Debug("tax did not parse", "raw", v)
		}
	}
	if v, ok := raw[constants.FieldDate]; ok {
		d := NormalizeDate(v)
		rec.Date = &d
	}

	e.logger.Debug("fields extracted",
		"matched", len(raw),
		"text_bytes", len(text),
		"mean_confidence", rec.MeanConfidence(),
	)
	return rec
}
