package badger

import (
	"context"
	"iter"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sciencepedia/core"
	"github.com/poiesic/sciencepedia/index"
	"github.com/poiesic/sciencepedia/storage"
)

// ctxCheckInterval is how many entries a scan reads between context checks.
const ctxCheckInterval = 1024

// IndexRepository implements storage.IndexRepository for BadgerDB.
type IndexRepository struct {
	backend *Backend
	posSeq  *badger.Sequence
	logger  *slog.Logger
}

var _ storage.IndexRepository = (*IndexRepository)(nil)

// NewIndexRepository creates a new IndexRepository.
func NewIndexRepository(backend *Backend) (*IndexRepository, error) {
	posSeq, err := backend.GetSequence(positionSeq)
	if err != nil {
		return nil, err
	}

	return &IndexRepository{
		backend: backend,
		posSeq:  posSeq,
		logger:  backend.logger,
	}, nil
}

// Close releases the position sequence.
func (r *IndexRepository) Close() error {
	return r.posSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *IndexRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Reset removes every stored entry together with the index metadata, which
// no longer describes anything. The position sequence is kept so positions
// never go backwards.
func (r *IndexRepository) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.DropPrefix([]byte(entryPrefix), []byte(slugPrefix), []byte(indexMetaKey))
}

// AddEntries appends entries in order.
func (r *IndexRepository) AddEntries(ctx context.Context, entries ...core.Entry) (int, error) {
	added := 0
	err := r.backend.update(ctx, func(tx *badger.Txn) error {
		for i := range entries {
			entry := &entries[i]
			if err := core.ValidateEntry(entry); err != nil {
				return err
			}

			slugKey := makeSlugKey(entry.Slug)
			pos, found, err := readPosition(tx, slugKey)
			if err != nil {
				return err
			}
			if !found {
				pos, err = r.posSeq.Next()
				if err != nil {
					return err
				}
				if err := tx.Set(slugKey, storage.MarshalPosition(pos)); err != nil {
					return err
				}
				added++
			}

			if err := tx.Set(makeEntryKey(pos), storage.MarshalEntry(entry)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// GetEntry retrieves the entry stored under slug.
func (r *IndexRepository) GetEntry(ctx context.Context, slug string) (*core.Entry, error) {
	var result *core.Entry
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		pos, found, err := readPosition(tx, makeSlugKey(slug))
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}
		result, err = readEntry(tx, makeEntryKey(pos))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	})
	return result, err
}

// Lookup implements index.Source. Storage errors are logged and reported as a miss.
func (r *IndexRepository) Lookup(slug string) (core.Entry, bool) {
	entry, err := r.GetEntry(context.Background(), slug)
	if err != nil {
		if err != storage.ErrNotFound {
			r.logger.Warn("failed to look up slug", "slug", slug, "err", err)
		}
		return core.Entry{}, false
	}
	return *entry, true
}

// All implements index.Source. It yields entries in stored order from one
// read-only snapshot. A storage error is logged and ends the sequence early.
func (r *IndexRepository) All() iter.Seq2[string, core.Entry] {
	return func(yield func(string, core.Entry) bool) {
		err := r.scan(context.Background(), func(entry *core.Entry) bool {
			return yield(entry.Slug, *entry)
		})
		if err != nil {
			r.logger.Warn("failed to scan index", "err", err)
		}
	}
}

// Count returns the number of stored entries.
func (r *IndexRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(entryPrefix)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
			if count%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return count, err
}

// LoadIndex reads every entry, in stored order, into an in-memory index.
func (r *IndexRepository) LoadIndex(ctx context.Context) (*index.Index, error) {
	var entries []core.Entry
	err := r.scan(ctx, func(entry *core.Entry) bool {
		entries = append(entries, *entry)
		return true
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("loaded index from storage", "entries", len(entries))
	return index.FromEntries(entries), nil
}

// scan calls fn for each stored entry in position order until fn returns false.
func (r *IndexRepository) scan(ctx context.Context, fn func(entry *core.Entry) bool) error {
	return r.backend.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(entryPrefix)
		it := tx.NewIterator(opts)
		defer it.Close()

		seen := 0
		for it.Rewind(); it.Valid(); it.Next() {
			seen++
			if seen%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			var entry *core.Entry
			err := it.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if !fn(entry) {
				return nil
			}
		}
		return nil
	})
}

// Helper methods

// readPosition reads the position stored under a slug key.
func readPosition(tx *badger.Txn, key []byte) (uint64, bool, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}

	var pos uint64
	err = item.Value(func(val []byte) error {
		var err error
		pos, err = storage.UnmarshalPosition(val)
		return err
	})
	return pos, err == nil, err
}

// readEntry reads an entry from the transaction.
func readEntry(tx *badger.Txn, key []byte) (*core.Entry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.Entry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalEntry(val)
		return err
	})
	return entry, err
}
