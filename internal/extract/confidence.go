package extract

import (
	"regexp"
	"strings"
)

var (
	reDateLike   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b20\d{2}-\d{2}-\d{2}\b`)
	reCurrency   = regexp.MustCompile(`\b(usd|eur|gbp|cad|aud|inr|jpy)\b|[$£€]`)
	reAmountLike = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+\.\d{2}\b`)
	reInvoiceish = regexp.MustCompile(`\b(invoice|bill\s*no|total|amount\s*due)\b`)
)

// HeuristicConfidence scores recognized text in 0..1 by the invoice artifacts
// it contains. Used when the recognition step did not report its own confidence.
func HeuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if reDateLike.MatchString(txtL) {
		score += 0.2
	}
	if reCurrency.MatchString(txtL) {
		score += 0.15
	}
	if reAmountLike.MatchString(txtL) {
		score += 0.15
	}
	if reInvoiceish.MatchString(txtL) {
		score += 0.2
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
