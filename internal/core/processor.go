package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/core/textclean"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/extract"
	"github.com/joseph-ayodele/invoices-tracker/internal/repository"
	"github.com/joseph-ayodele/invoices-tracker/internal/validation"
)

// Outcome is the result of running one text through the processor.
type Outcome struct {
	Record entity.InvoiceRecord `json:"record"`
	Valid  bool                 `json:"valid"`
	Errors []string             `json:"errors"`
	Stored *entity.Invoice      `json:"stored,omitempty"`
}

// JobStatus maps the outcome onto the intake job lifecycle.
func (o Outcome) JobStatus() constants.JobStatus {
	switch {
	case o.Stored != nil:
		return constants.JobStatusStored
	case o.Valid:
		return constants.JobStatusExtracted
	default:
		return constants.JobStatusReview
	}
}

// Processor coordinates text cleanup, field extraction, rule validation and
// persistence of approved invoices.
type Processor struct {
	logger    *slog.Logger
	reader    extract.TextReader
	extractor extract.FieldExtractor
	invoices  repository.InvoiceRepository

	// mu serializes validation and the following insert; the validator
	// keeps the approved-number set.
	mu        sync.Mutex
	validator *validation.Validator
}

// NewProcessor wires the stages. invoices may be nil, in which case approved
// records are validated but not stored.
func NewProcessor(
	logger *slog.Logger,
	reader extract.TextReader,
	extractor extract.FieldExtractor,
	validator *validation.Validator,
	invoices repository.InvoiceRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if reader == nil {
		reader = extract.NewFileReader(logger)
	}
	if extractor == nil {
		extractor = extract.NewExtractor(logger)
	}
	if validator == nil {
		validator = validation.NewValidator(nil, logger)
	}
	return &Processor{
		logger:    logger,
		reader:    reader,
		extractor: extractor,
		validator: validator,
		invoices:  invoices,
	}
}

// ProcessFile reads recognized text from path and processes it.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Outcome, error) {
	log := common.LoggerFromContext(ctx, p.logger)
	src, err := p.reader.Read(ctx, path)
	if err != nil {
		log.Error("processor.read.failed", "path", path, "error", err)
		return Outcome{}, fmt.Errorf("read %s: %w", path, err)
	}
	return p.Process(ctx, src)
}

// Process extracts and validates src. Approved records are persisted; a
// storage failure is returned together with the outcome computed so far.
func (p *Processor) Process(ctx context.Context, src extract.TextSource) (Outcome, error) {
	log := common.LoggerFromContext(ctx, p.logger)
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	start := time.Now()

	text := textclean.Normalize(src.Text)
	rec := p.extractor.Extract(text)
	log.Debug("processor extract stage success",
		"source", src.SourcePath,
		"overall_confidence", src.OverallConfidence,
		"mean_confidence", rec.MeanConfidence(),
	)

	p.mu.Lock()
	defer p.mu.Unlock()

	valid, errs := p.validator.Validate(&rec)
	out := Outcome{Record: rec, Valid: valid, Errors: errs}
	if !valid {
		log.Info("invoice requires review",
			"invoice_number", entity.StrOrEmpty(rec.InvoiceNumber),
			"source", src.SourcePath,
			"errors", len(errs),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return out, nil
	}

	if p.invoices != nil {
		stored, err := p.invoices.Insert(ctx, rec)
		if err != nil {
			number := entity.StrOrEmpty(rec.InvoiceNumber)
			if !errors.Is(err, common.ErrDuplicate) {
				// not stored, so a retry must not be reported as a duplicate
				p.validator.Revoke(number)
			}
			log.Error("processor.store.failed", "invoice_number", number, "error", err)
			return out, fmt.Errorf("store invoice: %w", err)
		}
		out.Stored = stored
	}

	log.Info("invoice approved",
		"invoice_number", entity.StrOrEmpty(rec.InvoiceNumber),
		"vendor", entity.StrOrEmpty(rec.Vendor),
		"stored", out.Stored != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
