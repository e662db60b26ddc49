package entry

import "context"

// Repository is the document-store boundary used by the ingestion pipeline.
// Writes are append-only inserts plus a single patch per entry for the
// aggregate back-reference; there is no cross-document transaction, so a crash
// between the insert and patch phases can leave unlinked records.
type Repository interface {
	// InsertEntry stores a scored entry and returns its identifier
	InsertEntry(ctx context.Context, e *ScoredEntry) (string, error)

	// InsertAggregate stores a batch aggregate and returns its identifier
	InsertAggregate(ctx context.Context, a *AggregateRecord) (string, error)

	// SetEntryAggregate patches a stored entry with its aggregate identifier
	SetEntryAggregate(ctx context.Context, entryID, aggregateID string) error
}
