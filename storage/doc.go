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


// Package storage provides the storage abstraction layer for the keyword index.
//
// The matcher only needs an index.Source. This package defines the repositories
// that persist a precomputed index between runs so it does not have to be
// rebuilt from the sitemaps on every start:
//
//   - IndexRepository: ordered keyword entries, addressable by slug
//   - MetadataRepository: fingerprint and counts of the stored index
//
// # Usage
//
// Open the BadgerDB implementation:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	entries, err := badger.NewIndexRepository(backend)
//
// Use in tests with in-memory storage:
//
//	entries, meta, backend, err := badger.NewMemoryRepositories()
//
// # Ordering
//
// Entries come back in the order they were first added. Re-adding a slug
// replaces its entry but keeps its position, the same rule index.Build follows.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
