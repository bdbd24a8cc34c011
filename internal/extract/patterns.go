package extract

import (
	"regexp"

	"github.com/joseph-ayodele/invoices-tracker/constants"
)

// fieldPatterns is one field and its candidate patterns, tried in order.
type fieldPatterns struct {
	field    string
	patterns []*regexp.Regexp
}

// Identifier captures must contain a digit, otherwise "Invoice Number: X"
// is captured by the "Invoice #" pattern as the word "Number".
const identifierCapture = `([A-Z0-9\-]*\d[A-Z0-9\-]*)`

const moneyCapture = `\s*:?\s*\$?\s*([\d,]+\.?\d{0,2})`

func mustCompile(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)` + expr)
}

// defaultPatterns is ordered; reordering changes results when patterns overlap.
var defaultPatterns = []fieldPatterns{
	{
		field: constants.FieldInvoiceNumber,
		patterns: []*regexp.Regexp{
			mustCompile(`Invoice\s*#?\s*:?\s*` + identifierCapture),
			mustCompile(`Invoice\s*Number\s*:?\s*` + identifierCapture),
			mustCompile(`Bill\s*No\.?\s*:?\s*` + identifierCapture),
		},
	},
	{
		field: constants.FieldDate,
		patterns: []*regexp.Regexp{
			mustCompile(`Date\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
			mustCompile(`Invoice\s*Date\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
			mustCompile(`(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4})`),
		},
	},
	{
		field: constants.FieldVendor,
		patterns: []*regexp.Regexp{
			mustCompile(`^([A-Z][A-Za-z\s&\.]+(?:Inc|LLC|Ltd|Corp|Company)?)`),
			mustCompile(`From\s*:?\s*([A-Z][A-Za-z\s&\.]+)`),
		},
	},
	{
		field: constants.FieldAmount,
		patterns: []*regexp.Regexp{
			mustCompile(`Total` + moneyCapture),
			mustCompile(`Amount\s*Due` + moneyCapture),
			mustCompile(`Grand\s*Total` + moneyCapture),
		},
	},
	{
		field: constants.FieldTax,
		patterns: []*regexp.Regexp{
			mustCompile(`Tax` + moneyCapture),
			mustCompile(`GST` + moneyCapture),
			mustCompile(`VAT` + moneyCapture),
		},
	},
}
