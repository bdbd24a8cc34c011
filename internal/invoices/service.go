package invoices

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/core"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/export"
	"github.com/joseph-ayodele/invoices-tracker/internal/extract"
	"github.com/joseph-ayodele/invoices-tracker/internal/repository"
)

const (
	MaxTextBytes  = 1 << 20
	MaxListLimit  = 1000
	MaxNumberSize = 64
)

// Service handles invoice business logic shared by the gRPC and HTTP transports.
type Service struct {
	processor *core.Processor
	repo      repository.InvoiceRepository
	exporter  *export.Service
	logger    *slog.Logger
}

// NewService creates a new invoice service.
func NewService(processor *core.Processor, repo repository.InvoiceRepository, exporter *export.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		processor: processor,
		repo:      repo,
		exporter:  exporter,
		logger:    logger,
	}
}

// SubmitRequest carries recognized text from an upstream OCR step.
type SubmitRequest struct {
	Text              string  `json:"text"`
	OverallConfidence float32 `json:"overall_confidence"`
	SourcePath        string  `json:"source_path,omitempty"`
}

// ListRequest represents invoice listing parameters.
type ListRequest struct {
	Status string `json:"status"`
	Limit  int    `json:"limit"`
}

// Submit extracts, validates and (when approved) stores one invoice text.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (core.Outcome, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	v := common.NewValidator()
	v.Field("text", req.Text, common.Required, common.MaxBytes(MaxTextBytes))
	v.Field("overall_confidence", req.OverallConfidence, common.FloatRange(0, 1))
	if err := common.ValidateAndReturnError(v); err != nil {
		log.Error("invalid submit request", "error", v.ErrorMessage())
		return core.Outcome{}, err
	}

	out, err := s.processor.Process(ctx, extract.TextSource{
		Text:              req.Text,
		OverallConfidence: req.OverallConfidence,
		SourcePath:        req.SourcePath,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return out, common.AlreadyExistsError(err.Error())
		}
		log.Error("failed to process invoice", "error", err)
		return out, common.ToStatus(err)
	}

	log.Info("invoice submitted",
		"invoice_number", entity.StrOrEmpty(out.Record.InvoiceNumber),
		"status", out.Record.Status,
		"stored", out.Stored != nil,
	)
	return out, nil
}

func (s *Service) listFilter(log *slog.Logger, req ListRequest) (repository.ListFilter, error) {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	v := common.NewValidator()
	v.Field("status", req.Status, common.OneOf(
		string(constants.StatusPending),
		string(constants.StatusApproved),
		string(constants.StatusReviewRequired),
	))
	v.Field("limit", req.Limit, common.Range(0, MaxListLimit))
	if err := common.ValidateAndReturnError(v); err != nil {
		log.Error("invalid list request", "error", v.ErrorMessage())
		return repository.ListFilter{}, err
	}
	return repository.ListFilter{Status: constants.InvoiceStatus(req.Status), Limit: req.Limit}, nil
}

// List returns stored invoices, newest first.
func (s *Service) List(ctx context.Context, req ListRequest) ([]*entity.Invoice, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	filter, err := s.listFilter(log, req)
	if err != nil {
		return nil, err
	}
	invs, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list invoices", "error", err)
		return nil, status.Errorf(codes.Internal, "list invoices: %v", err)
	}
	log.Debug("invoices listed", "status", req.Status, "count", len(invs))
	return invs, nil
}

// Get looks up one stored invoice by number. The number is normalized the
// same way extraction normalizes it.
func (s *Service) Get(ctx context.Context, number string) (*entity.Invoice, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	v := common.NewValidator()
	v.Field("invoice_number", number, common.Required, common.MaxLength(MaxNumberSize))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}

	number = extract.NormalizeInvoiceNumber(number)
	inv, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFoundError("invoice " + number + " not found")
		}
		log.Error("failed to get invoice", "invoice_number", number, "error", err)
		return nil, status.Errorf(codes.Internal, "get invoice: %v", err)
	}
	return inv, nil
}

// Stats summarizes stored invoices.
func (s *Service) Stats(ctx context.Context) (*entity.Stats, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	st, err := s.repo.Stats(ctx)
	if err != nil {
		log.Error("failed to compute stats", "error", err)
		return nil, status.Errorf(codes.Internal, "stats: %v", err)
	}
	return st, nil
}

// Export renders stored invoices as an XLSX workbook.
func (s *Service) Export(ctx context.Context, req ListRequest) ([]byte, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	filter, err := s.listFilter(log, req)
	if err != nil {
		return nil, err
	}
	b, err := s.exporter.ExportInvoicesXLSX(ctx, filter)
	if err != nil {
		log.Error("failed to export invoices", "error", err)
		return nil, status.Errorf(codes.Internal, "export: %v", err)
	}
	return b, nil
}
