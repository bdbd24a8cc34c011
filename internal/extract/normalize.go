package extract

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CanonicalDateLayout is the YYYY-MM-DD form dates are normalized to.
const CanonicalDateLayout = "2006-01-02"

// dateLayouts are tried in order; day-first wins on ambiguous numeric dates.
var dateLayouts = []string{
	"2/1/2006",
	"1/2/2006",
	"2-1-2006",
	"1-2-2006",
	"2/1/06",
	"1/2/06",
	"2 January 2006",
	"2 Jan 2006",
}

// NormalizeAmount strips thousands separators and parses a non-negative
// decimal. It returns nil when the value does not parse.
func NormalizeAmount(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return &f
}

// NormalizeInvoiceNumber uppercases and trims an identifier.
func NormalizeInvoiceNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeVendor collapses runs of whitespace, including newlines, to single spaces.
func NormalizeVendor(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeDate reformats s as YYYY-MM-DD using the first layout that parses.
// Unrecognized input is returned unchanged.
func NormalizeDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(CanonicalDateLayout)
		}
	}
	return s
}

// IsCanonicalDate reports whether s is a real calendar date in strict YYYY-MM-DD form.
func IsCanonicalDate(s string) bool {
	_, err := time.Parse(CanonicalDateLayout, s)
	return err == nil
}
