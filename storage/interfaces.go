package storage

import (
	"context"

	"github.com/poiesic/sciencepedia/core"
	"github.com/poiesic/sciencepedia/index"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// IndexRepository persists the ordered keyword index.
// It is also an index.Source, so a Searcher can run directly against storage.
type IndexRepository interface {
	Repository
	index.Source

	// Reset removes every stored entry.
	Reset(ctx context.Context) error

	// AddEntries appends entries in order. An entry whose slug is already
	// stored replaces the old value and keeps the old position.
	// Returns the number of slugs that were not stored before.
	AddEntries(ctx context.Context, entries ...core.Entry) (int, error)

	// GetEntry retrieves the entry stored under slug.
	// Returns ErrNotFound if the slug is not stored.
	GetEntry(ctx context.Context, slug string) (*core.Entry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// LoadIndex reads every entry, in stored order, into an in-memory index.
	LoadIndex(ctx context.Context) (*index.Index, error)
}

// MetadataRepository persists the description of the stored index.
type MetadataRepository interface {
	Repository

	// SaveMetadata replaces the stored metadata. UpdatedAt is set to now if zero.
	SaveMetadata(ctx context.Context, meta *core.IndexMeta) error

	// LoadMetadata returns the stored metadata, or nil, nil if none was saved.
	LoadMetadata(ctx context.Context) (*core.IndexMeta, error)
}
