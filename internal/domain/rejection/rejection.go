package rejection

import (
	"database/sql"
	"time"
)

// Rejection is one payment-rejection work item loaded from a CSV row.
// Identity is (InvoiceNumber, FileName) and is immutable after creation.
type Rejection struct {
	InvoiceNumber int64
	FileName      string
	Carrier       string
	Paycode       sql.NullString
	RejCodes      [4]string
	Remarks       [4]string
	LineItemPost  bool
	Group         int
	Completed     bool
	Comment       sql.NullString
	BatchNumber   sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Pending reports whether the record still needs to be posted: neither
// completed nor permanently skipped with an explanatory comment.
func (r *Rejection) Pending() bool {
	return !r.Completed && !r.Comment.Valid
}

// SetComment marks the record as skipped with an explanation. A commented
// record is never simultaneously marked complete.
func (r *Rejection) SetComment(text string) {
	r.Comment = sql.NullString{String: text, Valid: true}
	r.Completed = false
}

// MarkCompleted marks the record as successfully posted.
func (r *Rejection) MarkCompleted() {
	r.Completed = true
	r.Comment = sql.NullString{}
}

// SetPaycode stores a resolved paycode on the record.
func (r *Rejection) SetPaycode(code string) {
	r.Paycode = sql.NullString{String: code, Valid: true}
}

// SetBatchNumber stamps the batch the record is being posted under.
func (r *Rejection) SetBatchNumber(batch string) {
	r.BatchNumber = sql.NullString{String: batch, Valid: true}
}

// InvoiceNumberMin and InvoiceNumberMax bound valid 9-digit invoice numbers.
const (
	InvoiceNumberMin = 100_000_000
	InvoiceNumberMax = 999_999_999
)

// ValidInvoiceNumber reports whether n falls in the accepted 9-digit range.
func ValidInvoiceNumber(n int64) bool {
	return n >= InvoiceNumberMin && n <= InvoiceNumberMax
}

// AllowedCarriers is the fixed allow-list of insurance payer names accepted
// on input rows. Carrier values are normalized to upper case before the
// check.
var AllowedCarriers = map[string]struct{}{
	"AETNA":             {},
	"CIGNA":             {},
	"EMBLEM":            {},
	"EMPIRE BCBS":       {},
	"FIDELIS":           {},
	"GHI":               {},
	"HEALTHFIRST":       {},
	"HUMANA":            {},
	"MEDICAID":          {},
	"MEDICARE":          {},
	"OXFORD":            {},
	"UMR":               {},
	"UNITED HEALTHCARE": {},
	"1199":              {},
}

// CarrierAllowed reports whether the (already upper-cased) carrier name is
// on the allow-list.
func CarrierAllowed(carrier string) bool {
	_, ok := AllowedCarriers[carrier]
	return ok
}
