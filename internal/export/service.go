package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/repository"
)

const (
	InvoicesSheet = "Invoices"
	SummarySheet  = "Summary"
)

// Headers are the column titles of the invoices sheet, in order.
var Headers = []string{
	"Invoice Number",
	"Vendor",
	"Date",
	"Amount",
	"Tax",
	"Status",
	"Avg Confidence",
	"Created At",
}

// Service is a tiny façade over the invoice repository that produces XLSX bytes for exports.
type Service struct {
	invoices repository.InvoiceRepository
	logger   *slog.Logger
}

func NewService(repo repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: repo, logger: logger}
}

// ExportInvoicesXLSX returns an XLSX workbook (as bytes) with one row per
// stored invoice matching filter, plus a summary sheet.
func (s *Service) ExportInvoicesXLSX(ctx context.Context, filter repository.ListFilter) ([]byte, error) {
	start := time.Now()

	invs, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	stats, err := s.invoices.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", InvoicesSheet); err != nil {
		return nil, err
	}
	if err := writeInvoices(f, invs); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	if err := writeSummary(f, stats); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(InvoicesSheet)
	f.SetActiveSheet(activeIndex)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"status", filter.Status,
		"rows", len(invs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeInvoices(f *excelize.File, invs []*entity.Invoice) error {
	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(InvoicesSheet, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, inv := range invs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(InvoicesSheet, cell, v)
		}

		write(1, inv.InvoiceNumber)
		write(2, entity.StrOrEmpty(inv.Vendor))
		write(3, entity.StrOrEmpty(inv.Date))
		if inv.Amount != nil {
			write(4, *inv.Amount)
		}
		if inv.Tax != nil {
			write(5, *inv.Tax)
		}
		write(6, string(inv.Status))
		write(7, entity.MeanConfidence(inv.Confidence))
		write(8, inv.CreatedAt.UTC().Format(time.RFC3339))

		row++
	}

	_ = f.SetColWidth(InvoicesSheet, "A", "A", 18) // number
	_ = f.SetColWidth(InvoicesSheet, "B", "B", 28) // vendor
	_ = f.SetColWidth(InvoicesSheet, "C", "C", 12) // date
	_ = f.SetColWidth(InvoicesSheet, "D", "E", 12) // amounts
	_ = f.SetColWidth(InvoicesSheet, "F", "G", 16)
	_ = f.SetColWidth(InvoicesSheet, "H", "H", 22) // created
	return nil
}

func writeSummary(f *excelize.File, stats *entity.Stats) error {
	rows := [][]any{
		{"Total Invoices", stats.TotalInvoices},
		{"Total Amount", stats.TotalAmount},
		{"Avg Confidence", stats.AvgConfidence},
	}

	statuses := make([]string, 0, len(stats.ByStatus))
	for st := range stats.ByStatus {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		rows = append(rows, []any{"Status: " + st, stats.ByStatus[constants.InvoiceStatus(st)]})
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 24)
	return nil
}
