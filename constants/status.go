package constants

// InvoiceStatus is the lifecycle status of an extracted invoice record.
type InvoiceStatus string

// Stable values (store these exact strings in DB).
const (
	StatusPending        InvoiceStatus = "pending"         // freshly extracted, not yet validated
	StatusApproved       InvoiceStatus = "approved"        // passed every business rule
	StatusReviewRequired InvoiceStatus = "review_required" // one or more rules failed
)

// JobStatus is the terminal status of an intake job run by the processor.
type JobStatus string

const (
	JobStatusExtracted JobStatus = "EXTRACTED" // approved, no repository to store into
	JobStatusStored    JobStatus = "STORED"    // validated and persisted
	JobStatusReview    JobStatus = "REVIEW"    // validated, needs manual review
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure (I/O, storage)
)
