// Package validation applies the business rules an extracted invoice must
// pass before it may be stored.
package validation

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/extract"
)

// Validator owns the approved vendor list and the set of invoice numbers it
// has approved. It is not safe for concurrent use; callers serialize access.
type Validator struct {
	vendors  []string
	approved map[string]struct{}
	logger   *slog.Logger
}

// NewValidator builds a validator over the given approved vendors. A nil
// slice falls back to the built-in defaults.
func NewValidator(vendors []string, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	if vendors == nil {
		vendors = constants.DefaultVendors
	}
	lowered := make([]string, len(vendors))
	for i, v := range vendors {
		lowered[i] = strings.ToLower(v)
	}
	return &Validator{
		vendors:  lowered,
		approved: make(map[string]struct{}),
		logger:   logger,
	}
}

// Validate runs every rule in order and collects all violations. It sets
// rec.Status to approved or review_required and, on approval, records the
// invoice number so later submissions of it are reported as duplicates.
func (v *Validator) Validate(rec *entity.InvoiceRecord) (bool, []string) {
	var errs []string

	number := entity.StrOrEmpty(rec.InvoiceNumber)
	if number == "" {
		errs = append(errs, "Invoice number is missing")
	} else if v.IsApproved(number) {
		errs = append(errs, fmt.Sprintf("Duplicate invoice number: %s", number))
	}

	vendor := entity.StrOrEmpty(rec.Vendor)
	if vendor == "" {
		errs = append(errs, "Vendor name is missing")
	} else if !v.IsVendorApproved(vendor) {
		errs = append(errs, fmt.Sprintf("Vendor '%s' not in approved list", vendor))
	}

	// a nil amount never also reports the positivity rule
	if rec.Amount == nil {
		errs = append(errs, "Invoice amount is missing")
	} else if *rec.Amount <= 0 {
		errs = append(errs, "Invoice amount must be greater than 0")
	}

	date := entity.StrOrEmpty(rec.Date)
	if date == "" {
		errs = append(errs, "Invoice date is missing")
	} else if !extract.IsCanonicalDate(date) {
		errs = append(errs, "Invalid invoice date format")
	}

	mean := roundTo(rec.MeanConfidence(), 2)
	if mean < constants.ConfidenceThreshold {
		errs = append(errs, fmt.Sprintf("Low OCR confidence (%s%%). Manual review required.",
			strconv.FormatFloat(mean, 'f', -1, 64)))
	}

	valid := len(errs) == 0
	if valid {
		rec.Status = constants.StatusApproved
		v.approved[number] = struct{}{}
	} else {
		rec.Status = constants.StatusReviewRequired
	}

	v.logger.Debug("invoice validated",
		"invoice_number", number,
		"status", rec.Status,
		"violations", len(errs),
		"mean_confidence", mean,
	)
	return valid, errs
}

// IsVendorApproved matches case-insensitively by substring in either direction.
func (v *Validator) IsVendorApproved(vendor string) bool {
	vl := strings.ToLower(vendor)
	for _, a := range v.vendors {
		if strings.Contains(vl, a) || strings.Contains(a, vl) {
			return true
		}
	}
	return false
}

// IsApproved reports whether number was approved by this validator.
func (v *Validator) IsApproved(number string) bool {
	_, ok := v.approved[number]
	return ok
}

// Revoke forgets an approval, for when the approved record could not be
// stored and may be submitted again.
func (v *Validator) Revoke(number string) {
	delete(v.approved, number)
}

// ApprovedCount is the size of the duplicate-tracking set.
func (v *Validator) ApprovedCount() int {
	return len(v.approved)
}

func roundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
