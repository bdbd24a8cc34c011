package textclean

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "crlf", input: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "tabs", input: "Total:\t\t$5.00", want: "Total: $5.00"},
		{name: "trailing spaces", input: "ABC Inc.   \nDate: 1/2/2024  ", want: "ABC Inc.\nDate: 1/2/2024"},
		{name: "blank runs", input: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "ruler lines", input: "Items\n------\nTotal: 1.00", want: "Items\n\nTotal: 1.00"},
		{name: "leading indentation kept", input: "  From: X", want: "  From: X"},
		{name: "outer newlines trimmed", input: "\n\nABC\n\n", want: "ABC"},
		{name: "digits untouched", input: "Date: 05/09/2024", want: "Date: 05/09/2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
