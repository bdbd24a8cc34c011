package extract

import (
	"strconv"
	"testing"
)

func strconvFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantNil bool
		want    float64
	}{
		{name: "grouped thousands", input: "1,234.56", want: 1234.56},
		{name: "plain integer", input: "42", want: 42},
		{name: "trailing point", input: "99.", want: 99},
		{name: "surrounding whitespace", input: "  7.50 ", want: 7.5},
		{name: "zero", input: "0", want: 0},
		{name: "commas only", input: ",,", wantNil: true},
		{name: "empty", input: "", wantNil: true},
		{name: "letters", input: "abc", wantNil: true},
		{name: "lone point", input: ".", wantNil: true},
		{name: "negative", input: "-5.00", wantNil: true},
		{name: "infinity", input: "Inf", wantNil: true},
		{name: "not a number", input: "NaN", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAmount(tt.input)
			if tt.wantNil {
				if got != nil {
					t.Errorf("NormalizeAmount(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("NormalizeAmount(%q) = nil, want %v", tt.input, tt.want)
			}
			if *got != tt.want {
				t.Errorf("NormalizeAmount(%q) = %v, want %v", tt.input, *got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"15/09/2024", "2024-09-15"},
		{"09/15/2024", "2024-09-15"},
		{"05/09/2024", "2024-09-05"}, // day-first wins when ambiguous
		{"15-09-2024", "2024-09-15"},
		{"09-15-2024", "2024-09-15"},
		{"15/09/24", "2024-09-15"},
		{"09/15/24", "2024-09-15"},
		{"1/2/2024", "2024-02-01"},
		{"15 September 2024", "2024-09-15"},
		{"15 Sep 2024", "2024-09-15"},
		{"15 sep 2024", "2024-09-15"},
		{"15 Sept 2024", "15 Sept 2024"},
		{"31/02/2024", "31/02/2024"},
		{"not a date", "not a date"},
		{"2024-09-15", "2024-09-15"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeDate(tt.input); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	inputs := []string{"15/09/2024", "09-15-2024", "15/09/24", "3 March 2024", "2 Jan 2023"}
	for _, in := range inputs {
		once := NormalizeDate(in)
		if !IsCanonicalDate(once) {
			t.Errorf("NormalizeDate(%q) = %q, not canonical", in, once)
		}
		if twice := NormalizeDate(once); twice != once {
			t.Errorf("NormalizeDate not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeVendor(t *testing.T) {
	tests := map[string]string{
		"ABC   Company\n Inc.": "ABC Company Inc.",
		"  XYZ Corp  ":         "XYZ Corp",
		"Tech\tSolutions Ltd":  "Tech Solutions Ltd",
	}
	for in, want := range tests {
		if got := NormalizeVendor(in); got != want {
			t.Errorf("NormalizeVendor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeInvoiceNumber(t *testing.T) {
	if got := NormalizeInvoiceNumber("  inv-2024-001 "); got != "INV-2024-001" {
		t.Errorf("NormalizeInvoiceNumber = %q", got)
	}
}

func TestIsCanonicalDate(t *testing.T) {
	tests := map[string]bool{
		"2024-09-15": true,
		"2024-9-15":  false,
		"2024-02-30": false,
		"15/09/2024": false,
		"":           false,
	}
	for in, want := range tests {
		if got := IsCanonicalDate(in); got != want {
			t.Errorf("IsCanonicalDate(%q) = %v, want %v", in, got, want)
		}
	}
}
