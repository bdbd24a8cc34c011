package entity

import (
	"testing"

	"github.com/joseph-ayodele/invoices-tracker/constants"
)

func TestFormFields(t *testing.T) {
	num, vendor := "INV-7", "XYZ Corp"
	amount := 99.5
	rec := NewInvoiceRecord()
	rec.InvoiceNumber = &num
	rec.Vendor = &vendor
	rec.Amount = &amount
	rec.Confidence[constants.FieldAmount] = 95

	got := rec.FormFields()
	if got.InvoiceNumber != "INV-7" || got.Vendor != "XYZ Corp" || got.Date != "" {
		t.Errorf("FormFields() = %+v", got)
	}
	if got.Amount == nil || *got.Amount != 99.5 || got.Tax != nil {
		t.Errorf("FormFields() amounts = %v, %v", got.Amount, got.Tax)
	}
}

func TestMeanConfidence(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]int
		want float64
	}{
		{"nil", nil, 0},
		{"empty", map[string]int{}, 0},
		{"four of five", map[string]int{"a": 95, "b": 95, "c": 95, "d": 95, "e": 0}, 76},
		{"all matched", map[string]int{"a": 95, "b": 95}, 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeanConfidence(tt.m); got != tt.want {
				t.Errorf("MeanConfidence() = %v, want %v", got, tt.want)
			}
		})
	}
}
