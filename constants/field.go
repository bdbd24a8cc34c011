package constants

// Field names carried in every confidence map, in extraction order.
const (
	FieldInvoiceNumber = "invoice_number"
	FieldDate          = "date"
	FieldVendor        = "vendor"
	FieldAmount        = "amount"
	FieldTax           = "tax"
)

var allFields = []string{
	FieldInvoiceNumber,
	FieldDate,
	FieldVendor,
	FieldAmount,
	FieldTax,
}

// Fields returns the fixed, ordered set of extracted field names.
func Fields() []string {
	out := make([]string, len(allFields))
	copy(out, allFields)
	return out
}

// DefaultVendors is the approved vendor list used when no vendor master file exists.
var DefaultVendors = []string{"ABC Company Inc", "XYZ Corp", "Tech Solutions Ltd"}

// ConfidenceThreshold is the minimum mean field confidence for approval.
const ConfidenceThreshold = 70.0
