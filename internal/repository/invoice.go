package repository

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

const (
	invoicesTable = "invoices"

	// timestampLayout is fixed-width so text ordering matches time ordering.
	timestampLayout = "2006-01-02T15:04:05.000000Z07:00"
)

var invoiceColumns = []string{
	"id", "invoice_number", "vendor", "amount", "tax", "date",
	"status", "confidence", "created_at", "updated_at",
}

// ListFilter narrows List results. Zero values mean no filter.
type ListFilter struct {
	Status constants.InvoiceStatus
	Limit  int
}

type InvoiceRepository interface {
	Insert(ctx context.Context, rec entity.InvoiceRecord) (*entity.Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type invoiceRepository struct {
	drv     *entsql.Driver
	dialect string
	now     func() time.Time
	logger  *slog.Logger
}

func NewInvoiceRepository(db *DB, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{
		drv:     db.Driver,
		dialect: db.Dialect,
		now:     time.Now,
		logger:  logger,
	}
}

func (r *invoiceRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.dialect)
}

func (r *invoiceRepository) Insert(ctx context.Context, rec entity.InvoiceRecord) (*entity.Invoice, error) {
	if rec.InvoiceNumber == nil || *rec.InvoiceNumber == "" {
		return nil, common.NewAppError("INVALID_RECORD", "invoice number is required", common.ErrInvalidInput)
	}
	conf := rec.Confidence
	if conf == nil {
		conf = map[string]int{}
	}
	confJSON, err := json.Marshal(conf)
	if err != nil {
		return nil, fmt.Errorf("marshal confidence: %w", err)
	}

	now := r.now().UTC()
	inv := &entity.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: *rec.InvoiceNumber,
		Vendor:        rec.Vendor,
		Amount:        rec.Amount,
		Tax:           rec.Tax,
		Date:          rec.Date,
		Status:        rec.Status,
		Confidence:    conf,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if inv.Status == "" {
		inv.Status = constants.StatusPending
	}

	query, args := r.builder().Insert(invoicesTable).
		Columns(invoiceColumns...).
		Values(
			inv.ID.String(),
			inv.InvoiceNumber,
			optional(inv.Vendor),
			optional(inv.Amount),
			optional(inv.Tax),
			optional(inv.Date),
			string(inv.Status),
			string(confJSON),
			now.Format(timestampLayout),
			now.Format(timestampLayout),
		).Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn("duplicate invoice number", "invoice_number", inv.InvoiceNumber)
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicate, inv.InvoiceNumber)
		}
		r.logger.Error("failed to insert invoice", "invoice_number", inv.InvoiceNumber, "error", err)
		return nil, fmt.Errorf("%w: insert invoice: %v", common.ErrDatabase, err)
	}

	r.logger.Debug("invoice stored", "id", inv.ID, "invoice_number", inv.InvoiceNumber)
	return inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter ListFilter) ([]*entity.Invoice, error) {
	b := r.builder()
	sel := b.Select(invoiceColumns...).From(b.Table(invoicesTable))
	if filter.Status != "" {
		sel = sel.Where(entsql.EQ("status", string(filter.Status)))
	}
	sel = sel.OrderBy(entsql.Desc("created_at"), entsql.Asc("invoice_number"))
	if filter.Limit > 0 {
		sel = sel.Limit(filter.Limit)
	}

	query, args := sel.Query()
	invoices, err := r.query(ctx, query, args)
	if err != nil {
		r.logger.Error("failed to list invoices", "status", filter.Status, "error", err)
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	b := r.builder()
	query, args := b.Select(invoiceColumns...).
		From(b.Table(invoicesTable)).
		Where(entsql.EQ("invoice_number", number)).
		Limit(1).
		Query()

	invoices, err := r.query(ctx, query, args)
	if err != nil {
		r.logger.Error("failed to get invoice", "invoice_number", number, "error", err)
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, fmt.Errorf("%w: invoice %s", common.ErrNotFound, number)
	}
	return invoices[0], nil
}

func (r *invoiceRepository) Stats(ctx context.Context) (*entity.Stats, error) {
	b := r.builder()
	stats := &entity.Stats{ByStatus: make(map[constants.InvoiceStatus]int)}

	// totals
	query, args := b.Select(entsql.Count("*"), entsql.Sum("amount")).
		From(b.Table(invoicesTable)).
		Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("%w: stats totals: %v", common.ErrDatabase, err)
	}
	var (
		count int64
		total stdsql.NullFloat64
	)
	if rows.Next() {
		if err := rows.Scan(&count, &total); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%w: scan totals: %v", common.ErrDatabase, err)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	stats.TotalInvoices = int(count)
	stats.TotalAmount = roundTo(total.Float64, 2)

	// per-status counts
	query, args = b.Select("status", entsql.Count("*")).
		From(b.Table(invoicesTable)).
		GroupBy("status").
		Query()
	rows = &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("%w: stats by status: %v", common.ErrDatabase, err)
	}
	for rows.Next() {
		var (
			st string
			n  int64
		)
		if err := rows.Scan(&st, &n); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%w: scan status count: %v", common.ErrDatabase, err)
		}
		stats.ByStatus[constants.InvoiceStatus(st)] = int(n)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	// mean over every stored confidence value
	query, args = b.Select("confidence").From(b.Table(invoicesTable)).Query()
	rows = &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("%w: stats confidence: %v", common.ErrDatabase, err)
	}
	var sum, n int
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%w: scan confidence: %v", common.ErrDatabase, err)
		}
		conf, err := decodeConfidence(raw)
		if err != nil {
			r.logger.Warn("skipping unreadable confidence", "error", err)
			continue
		}
		for _, v := range conf {
			sum += v
			n++
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	if n > 0 {
		stats.AvgConfidence = roundTo(float64(sum)/float64(n), 2)
	}

	return stats, nil
}

func (r *invoiceRepository) query(ctx context.Context, query string, args []any) ([]*entity.Invoice, error) {
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("%w: query invoices: %v", common.ErrDatabase, err)
	}

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, inv)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return out, nil
}

func scanInvoice(rows *entsql.Rows) (*entity.Invoice, error) {
	var (
		id, number, status, confRaw, created, updated string
		vendor, date                                  stdsql.NullString
		amount, tax                                   stdsql.NullFloat64
	)
	if err := rows.Scan(&id, &number, &vendor, &amount, &tax, &date, &status, &confRaw, &created, &updated); err != nil {
		return nil, fmt.Errorf("%w: scan invoice: %v", common.ErrDatabase, err)
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice id %q: %v", common.ErrDatabase, id, err)
	}
	conf, err := decodeConfidence(confRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %s confidence: %v", common.ErrDatabase, number, err)
	}
	createdAt, err := time.Parse(timestampLayout, created)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %s created_at: %v", common.ErrDatabase, number, err)
	}
	updatedAt, err := time.Parse(timestampLayout, updated)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %s updated_at: %v", common.ErrDatabase, number, err)
	}

	return &entity.Invoice{
		ID:            uid,
		InvoiceNumber: number,
		Vendor:        nullString(vendor),
		Amount:        nullFloat(amount),
		Tax:           nullFloat(tax),
		Date:          nullString(date),
		Status:        constants.InvoiceStatus(status),
		Confidence:    conf,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

func closeRows(rows *entsql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return nil
}

func decodeConfidence(raw string) (map[string]int, error) {
	conf := map[string]int{}
	if raw == "" {
		return conf, nil
	}
	if err := json.Unmarshal([]byte(raw), &conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(ns stdsql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullFloat(nf stdsql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
