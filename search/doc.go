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


// Package search provides layered keyword matching over an index.Source.
//
// The Searcher runs an ordered cascade of match layers and stops at the first
// layer that produces any candidate:
//   - exact slug: the query in slug form is a key of the index
//   - exact name: an entry's lowercased display name equals the query
//   - slug variant: alternate spellings of the slug (separators swapped or stripped)
//   - substring: the query is inside a name (CONTAINS) or a name is inside the query (CONTAINED_IN)
//   - token overlap: F1 of the query and entry token sets
//   - fuzzy: Ratcliff/Obershelp similarity of the query and each name
//
// Layers never merge. Within a layer, equal scores keep the index's
// iteration order. When every layer comes back empty the result is a single
// NOT_FOUND record, which is a normal outcome rather than an error.
//
// A Searcher only reads its source, so one Searcher may be shared by many
// goroutines. SearchAll evaluates a batch of queries on a worker pool.
package search
