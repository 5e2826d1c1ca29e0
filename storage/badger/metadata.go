// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sciencepedia/core"
	"github.com/poiesic/sciencepedia/storage"
)

// MetadataRepository implements storage.MetadataRepository for BadgerDB.
type MetadataRepository struct {
	backend *Backend
}

var _ storage.MetadataRepository = (*MetadataRepository)(nil)

// NewMetadataRepository creates a new MetadataRepository.
func NewMetadataRepository(backend *Backend) *MetadataRepository {
	return &MetadataRepository{
		backend: backend,
	}
}

// Close releases resources. MetadataRepository has no resources to release.
func (r *MetadataRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MetadataRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveMetadata persists the index metadata.
func (r *MetadataRepository) SaveMetadata(ctx context.Context, meta *core.IndexMeta) error {
	return r.backend.update(ctx, func(tx *badger.Txn) error {
		if meta.UpdatedAt.IsZero() {
			meta.UpdatedAt = time.Now().UTC()
		}
		return tx.Set([]byte(indexMetaKey), storage.MarshalIndexMeta(meta))
	})
}

// LoadMetadata retrieves the index metadata.
// Returns nil, nil if no metadata exists.
func (r *MetadataRepository) LoadMetadata(ctx context.Context) (*core.IndexMeta, error) {
	var meta *core.IndexMeta
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(indexMetaKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			meta, unmarshalErr = storage.UnmarshalIndexMeta(val)
			return unmarshalErr
		})
	})

	return meta, err
}
