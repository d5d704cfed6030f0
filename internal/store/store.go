// Package store implements the remote-store adapter: generic CRUD over
// named collections keyed by exact-match filters. The production
// implementation runs over PostgreSQL (pgx); tests run the same SQL against
// in-memory SQLite.
package store

import "context"

// Collection names used by the client.
const (
	CollectionJobs       = "jobs"
	CollectionEntries    = "entries"
	CollectionSignatures = "signatures"
	CollectionItems      = "job_items"
	CollectionPhotos     = "job_photos"
)

// Row is a single record as column→value pairs. Values are restricted to
// the scalar types the wire supports: string, bool, int64, float64 and nil.
type Row map[string]any

// Filter selects records by exact match on every listed column.
type Filter map[string]any

// Store is the generic CRUD surface of the remote relational store.
// Implementations must treat every call as an independent operation; the
// client never relies on cross-call transactional guarantees.
type Store interface {
	// Select returns every record of the collection.
	Select(ctx context.Context, collection string) ([]Row, error)

	// Insert adds one record.
	Insert(ctx context.Context, collection string, rec Row) error

	// Update applies patch to every record matching the filter.
	Update(ctx context.Context, collection string, patch Row, match Filter) error

	// Delete removes every record matching the filter. Deleting zero
	// records is not an error.
	Delete(ctx context.Context, collection string, match Filter) error

	// Upsert inserts the record or, if a record with the same value in
	// conflictKey exists, replaces its remaining columns wholesale.
	Upsert(ctx context.Context, collection string, rec Row, conflictKey string) error
}
