package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoices-tracker/constants"
)

// InvoiceRecord is the structured result of field extraction. Absent fields are nil.
type InvoiceRecord struct {
	InvoiceNumber *string                 `json:"invoice_number"`
	Vendor        *string                 `json:"vendor"`
	Amount        *float64                `json:"amount"`
	Tax           *float64                `json:"tax"`
	Date          *string                 `json:"date"`
	Status        constants.InvoiceStatus `json:"status"`
	Confidence    map[string]int          `json:"confidence"`
}

// NewInvoiceRecord returns an empty pending record.
func NewInvoiceRecord() InvoiceRecord {
	return InvoiceRecord{
		Status:     constants.StatusPending,
		Confidence: make(map[string]int, len(constants.Fields())),
	}
}

// FormFields is the flat view consumed by downstream form automation.
// Status and confidence are not included.
type FormFields struct {
	InvoiceNumber string   `json:"invoice_number"`
	Vendor        string   `json:"vendor"`
	Amount        *float64 `json:"amount"`
	Tax           *float64 `json:"tax"`
	Date          string   `json:"date"`
}

func (r InvoiceRecord) FormFields() FormFields {
	return FormFields{
		InvoiceNumber: StrOrEmpty(r.InvoiceNumber),
		Vendor:        StrOrEmpty(r.Vendor),
		Amount:        r.Amount,
		Tax:           r.Tax,
		Date:          StrOrEmpty(r.Date),
	}
}

// MeanConfidence returns the arithmetic mean of the confidence map, 0 when empty.
func (r InvoiceRecord) MeanConfidence() float64 {
	return MeanConfidence(r.Confidence)
}

// MeanConfidence averages all values of m; an empty or nil map averages to 0.
func MeanConfidence(m map[string]int) float64 {
	if len(m) == 0 {
		return 0
	}
	var sum int
	for _, v := range m {
		sum += v
	}
	return float64(sum) / float64(len(m))
}

// Invoice is a validated record as stored by the repository.
type Invoice struct {
	ID            uuid.UUID               `json:"id"`
	InvoiceNumber string                  `json:"invoice_number"`
	Vendor        *string                 `json:"vendor,omitempty"`
	Amount        *float64                `json:"amount,omitempty"`
	Tax           *float64                `json:"tax,omitempty"`
	Date          *string                 `json:"date,omitempty"`
	Status        constants.InvoiceStatus `json:"status"`
	Confidence    map[string]int          `json:"confidence"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// Stats summarizes the stored invoices.
type Stats struct {
	TotalInvoices int                             `json:"total_invoices"`
	TotalAmount   float64                         `json:"total_amount"`
	AvgConfidence float64                         `json:"avg_confidence"`
	ByStatus      map[constants.InvoiceStatus]int `json:"by_status"`
}

// StrOrEmpty dereferences p, returning "" for nil.
func StrOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
