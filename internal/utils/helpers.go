package utils

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/invoices-tracker/internal/core"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

func strOrNil(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func confidenceMap(m map[string]int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// RecordMap flattens an extracted record into structpb-compatible values.
func RecordMap(r entity.InvoiceRecord) map[string]any {
	return map[string]any{
		"invoice_number": strOrNil(r.InvoiceNumber),
		"vendor":         strOrNil(r.Vendor),
		"amount":         floatOrNil(r.Amount),
		"tax":            floatOrNil(r.Tax),
		"date":           strOrNil(r.Date),
		"status":         string(r.Status),
		"confidence":     confidenceMap(r.Confidence),
	}
}

// InvoiceMap flattens a stored invoice into structpb-compatible values.
func InvoiceMap(inv *entity.Invoice) map[string]any {
	return map[string]any{
		"id":             inv.ID.String(),
		"invoice_number": inv.InvoiceNumber,
		"vendor":         strOrNil(inv.Vendor),
		"amount":         floatOrNil(inv.Amount),
		"tax":            floatOrNil(inv.Tax),
		"date":           strOrNil(inv.Date),
		"status":         string(inv.Status),
		"confidence":     confidenceMap(inv.Confidence),
		"created_at":     inv.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":     inv.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ToPBInvoice(inv *entity.Invoice) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(InvoiceMap(inv))
	if err != nil {
		return nil, fmt.Errorf("encode invoice %s: %w", inv.InvoiceNumber, err)
	}
	return s, nil
}

func ToPBInvoiceList(invs []*entity.Invoice) (*structpb.Struct, error) {
	items := make([]any, 0, len(invs))
	for _, inv := range invs {
		items = append(items, InvoiceMap(inv))
	}
	return structpb.NewStruct(map[string]any{"invoices": items})
}

func ToPBOutcome(out core.Outcome) (*structpb.Struct, error) {
	errs := make([]any, 0, len(out.Errors))
	for _, e := range out.Errors {
		errs = append(errs, e)
	}
	m := map[string]any{
		"record": RecordMap(out.Record),
		"valid":  out.Valid,
		"errors": errs,
		"stored": nil,
	}
	if out.Stored != nil {
		m["stored"] = InvoiceMap(out.Stored)
	}
	return structpb.NewStruct(m)
}

func ToPBStats(st *entity.Stats) (*structpb.Struct, error) {
	byStatus := make(map[string]any, len(st.ByStatus))
	for k, v := range st.ByStatus {
		byStatus[string(k)] = v
	}
	return structpb.NewStruct(map[string]any{
		"total_invoices": st.TotalInvoices,
		"total_amount":   st.TotalAmount,
		"avg_confidence": st.AvgConfidence,
		"by_status":      byStatus,
	})
}
