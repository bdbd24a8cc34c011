package server

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/invoices"
	"github.com/joseph-ayodele/invoices-tracker/internal/utils"
)

type InvoiceServer struct {
	UnimplementedInvoiceServiceServer
	svc    *invoices.Service
	logger *slog.Logger
}

func NewInvoiceServer(svc *invoices.Service, logger *slog.Logger) *InvoiceServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvoiceServer{svc: svc, logger: logger}
}

// SubmitText expects {"text": string, "overall_confidence"?: number, "source_path"?: string}.
func (s *InvoiceServer) SubmitText(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	in := invoices.SubmitRequest{
		Text:              stringField(req, "text"),
		OverallConfidence: float32(numberField(req, "overall_confidence")),
		SourcePath:        strings.TrimSpace(stringField(req, "source_path")),
	}
	out, err := s.svc.Submit(ctx, in)
	if err != nil {
		return nil, err
	}
	resp, err := utils.ToPBOutcome(out)
	if err != nil {
		log.Error("failed to encode outcome", "error", err)
		return nil, status.Error(codes.Internal, "encode outcome")
	}
	return resp, nil
}

// ListInvoices expects {"status"?: string, "limit"?: number}.
func (s *InvoiceServer) ListInvoices(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	invs, err := s.svc.List(ctx, listRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := utils.ToPBInvoiceList(invs)
	if err != nil {
		log.Error("failed to encode invoices", "error", err)
		return nil, status.Error(codes.Internal, "encode invoices")
	}
	return resp, nil
}

// GetInvoice expects {"invoice_number": string}.
func (s *InvoiceServer) GetInvoice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	inv, err := s.svc.Get(ctx, stringField(req, "invoice_number"))
	if err != nil {
		return nil, err
	}
	resp, err := utils.ToPBInvoice(inv)
	if err != nil {
		log.Error("failed to encode invoice", "error", err)
		return nil, status.Error(codes.Internal, "encode invoice")
	}
	return resp, nil
}

func (s *InvoiceServer) GetStats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	log := common.LoggerFromContext(ctx, s.logger)
	st, err := s.svc.Stats(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := utils.ToPBStats(st)
	if err != nil {
		log.Error("failed to encode stats", "error", err)
		return nil, status.Error(codes.Internal, "encode stats")
	}
	return resp, nil
}

// ExportInvoices returns XLSX bytes; accepts the same filter as ListInvoices.
func (s *InvoiceServer) ExportInvoices(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	b, err := s.svc.Export(ctx, listRequest(req))
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bytes(b), nil
}

func listRequest(req *structpb.Struct) invoices.ListRequest {
	return invoices.ListRequest{
		Status: stringField(req, "status"),
		Limit:  int(numberField(req, "limit")),
	}
}

func stringField(req *structpb.Struct, key string) string {
	if req == nil {
		return ""
	}
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func numberField(req *structpb.Struct, key string) float64 {
	if req == nil {
		return 0
	}
	v, ok := req.GetFields()[key]
	if !ok {
		return 0
	}
	return v.GetNumberValue()
}
