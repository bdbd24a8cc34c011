package extract

import (
	"slices"
	"strings"
	"testing"

	"github.com/joseph-ayodele/invoices-tracker/constants"
)

const sampleInvoice = `ABC Company Inc.
123 Business Street

Invoice Number: INV-2024-001
Date: 15/09/2024

Item Description      Quantity    Price
Product A             2           $50.00
Product B             1           $75.00

Grand Total:                    $134.25
`

func TestExtract_SampleInvoice(t *testing.T) {
	rec := NewExtractor(nil).Extract(sampleInvoice)

	if rec.InvoiceNumber == nil || *rec.InvoiceNumber != "INV-2024-001" {
		t.Errorf("InvoiceNumber = %v, want INV-2024-001", rec.InvoiceNumber)
	}
	if rec.Date == nil || *rec.Date != "2024-09-15" {
		t.Errorf("Date = %v, want 2024-09-15", rec.Date)
	}
	if rec.Vendor == nil || *rec.Vendor != "ABC Company Inc." {
		t.Errorf("Vendor = %v, want ABC Company Inc.", rec.Vendor)
	}
	if rec.Amount == nil || *rec.Amount != 134.25 {
		t.Errorf("Amount = %v, want 134.25", rec.Amount)
	}
	if rec.Tax != nil {
		t.Errorf("Tax = %v, want nil", *rec.Tax)
	}
	if rec.Status != constants.StatusPending {
		t.Errorf("Status = %q, want pending", rec.Status)
	}

	want := map[string]int{
		constants.FieldInvoiceNumber: 95,
		constants.FieldDate:          95,
		constants.FieldVendor:        95,
		constants.FieldAmount:        95,
		constants.FieldTax:           0,
	}
	if len(rec.Confidence) != len(want) {
		t.Fatalf("confidence has %d entries, want %d: %v", len(rec.Confidence), len(want), rec.Confidence)
	}
	for k, v := range want {
		if got := rec.Confidence[k]; got != v {
			t.Errorf("confidence[%s] = %d, want %d", k, got, v)
		}
	}
	if got := rec.MeanConfidence(); got != 76 {
		t.Errorf("MeanConfidence() = %v, want 76", got)
	}
}

func TestExtract_ConfidenceAlwaysHasFixedFields(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n\t",
		"random words with no invoice content",
		"Total: ,",
		"\x00\xff\xfe binary junk $$$ ###",
		strings.Repeat("Invoice # ", 1000),
		"Tax: 1,2,3,4\nVAT: 9.99",
	}
	fields := constants.Fields()

	e := NewExtractor(nil)
	for _, in := range inputs {
		rec := e.Extract(in)
		if len(rec.Confidence) != len(fields) {
			t.Errorf("Extract(%.20q): %d confidence entries, want %d", in, len(rec.Confidence), len(fields))
		}
		for _, f := range fields {
			c, ok := rec.Confidence[f]
			if !ok {
				t.Errorf("Extract(%.20q): missing confidence for %s", in, f)
			}
			if c < 0 || c > 100 {
				t.Errorf("Extract(%.20q): confidence[%s] = %d out of range", in, f, c)
			}
		}
	}
}

func TestExtract_EmptyTextIsAllNil(t *testing.T) {
	rec := NewExtractor(nil).Extract("")
	if rec.InvoiceNumber != nil || rec.Vendor != nil || rec.Amount != nil || rec.Tax != nil || rec.Date != nil {
		t.Errorf("expected all fields nil, got %+v", rec)
	}
	if rec.MeanConfidence() != 0 {
		t.Errorf("MeanConfidence() = %v, want 0", rec.MeanConfidence())
	}
}

func TestExtract_UnparseableAmountKeepsConfidence(t *testing.T) {
	rec := NewExtractor(nil).Extract("Total: ,\n")
	if rec.Amount != nil {
		t.Errorf("Amount = %v, want nil", *rec.Amount)
	}
	if rec.Confidence[constants.FieldAmount] != MatchConfidence {
		t.Errorf("confidence[amount] = %d, want %d", rec.Confidence[constants.FieldAmount], MatchConfidence)
	}
}

func TestExtract_PatternOrder(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
		want  string
	}{
		{
			name:  "invoice hash form",
			text:  "Invoice #: abc-123\n",
			field: constants.FieldInvoiceNumber,
			want:  "ABC-123",
		},
		{
			name:  "invoice number without a digit is not matched",
			text:  "Invoice #: ABC-XYZ\n",
			field: constants.FieldInvoiceNumber,
			want:  "<nil>",
		},
		{
			name:  "bill number form",
			text:  "Bill No. 7781\n",
			field: constants.FieldInvoiceNumber,
			want:  "7781",
		},
		{
			name:  "first pattern wins over later phrasing",
			text:  "Amount Due: $10.00\nTotal: $12.00\n",
			field: constants.FieldAmount,
			want:  "12",
		},
		{
			name:  "subtotal is caught by the total pattern",
			text:  "Subtotal: $125.00\nGrand Total: $134.25\n",
			field: constants.FieldAmount,
			want:  "125",
		},
		{
			name:  "amount due when no total line",
			text:  "Amount Due: 1,050.5\n",
			field: constants.FieldAmount,
			want:  "1050.5",
		},
		{
			name:  "gst used as tax",
			text:  "GST: $4.50\n",
			field: constants.FieldTax,
			want:  "4.5",
		},
		{
			name:  "long form date",
			text:  "Issued 3 March 2024\n",
			field: constants.FieldDate,
			want:  "2024-03-03",
		},
		{
			name:  "vendor from line",
			text:  "  From: Tech Solutions   Ltd\n  42 Some Road\n",
			field: constants.FieldVendor,
			want:  "Tech Solutions Ltd",
		},
		{
			name:  "vendor pattern hits a header line",
			text:  "INVOICE\n42 Some Road\n",
			field: constants.FieldVendor,
			want:  "INVOICE",
		},
	}

	e := NewExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.Extract(tt.text)
			got := fieldString(rec.InvoiceNumber, rec.Vendor, rec.Date, rec.Amount, rec.Tax, tt.field)
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.field, got, tt.want)
			}
			wantConf := MatchConfidence
			if tt.want == "<nil>" {
				wantConf = 0
			}
			if rec.Confidence[tt.field] != wantConf {
				t.Errorf("confidence[%s] = %d, want %d", tt.field, rec.Confidence[tt.field], wantConf)
			}
		})
	}
}

func fieldString(num, vendor, date *string, amount, tax *float64, field string) string {
	deref := func(p *string) string {
		if p == nil {
			return "<nil>"
		}
		return *p
	}
	num2 := func(p *float64) string {
		if p == nil {
			return "<nil>"
		}
		return strconvFloat(*p)
	}
	switch field {
	case constants.FieldInvoiceNumber:
		return deref(num)
	case constants.FieldVendor:
		return deref(vendor)
	case constants.FieldDate:
		return deref(date)
	case constants.FieldAmount:
		return num2(amount)
	case constants.FieldTax:
		return num2(tax)
	}
	return ""
}

func TestFieldNamesMatchFixedSet(t *testing.T) {
	got := NewExtractor(nil).FieldNames()
	if !slices.Equal(got, constants.Fields()) {
		t.Errorf("FieldNames() = %v, want %v", got, constants.Fields())
	}
}
