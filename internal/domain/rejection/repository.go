package rejection

import "context"

// Repository defines the operations for persisting and retrieving Rejection
// records. Records are keyed by (InvoiceNumber, FileName), inserted once per
// ingested row and updated after every observable processing step; they are
// never deleted.
type Repository interface {
	// AddBatch inserts the given records, silently skipping any whose key
	// already exists (re-running against the same file must not duplicate).
	AddBatch(ctx context.Context, recs []*Rejection) error
	// Update persists the mutable fields (paycode, completion, comment,
	// batch number) of an existing record.
	Update(ctx context.Context, rec *Rejection) error
	// Get fetches one record by key.
	Get(ctx context.Context, invoiceNumber int64, fileName string) (*Rejection, error)
	// ListPending returns records for (fileName, group) that are neither
	// completed nor commented, in insertion order.
	ListPending(ctx context.Context, fileName string, group int) ([]*Rejection, error)
	// CountUnposted returns how many records for (fileName, group) are still
	// incomplete and uncommented. Zero means the file may be archived for
	// that group.
	CountUnposted(ctx context.Context, fileName string, group int) (int, error)
}
