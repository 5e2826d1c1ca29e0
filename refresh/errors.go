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


package refresh

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrNoSlugs is returned when a refresh or import produced no slugs at all.
	ErrNoSlugs = errors.New("no slugs found")

	// ErrRepositoryRequired is returned when a refresher is built without its repositories.
	ErrRepositoryRequired = errors.New("index and metadata repositories are required")

	// ErrFetcherRequired is returned by Run when no fetcher was configured.
	ErrFetcherRequired = errors.New("fetcher is required")

	// ErrInvalidBatchSize is returned when the write batch size is < 1.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")

	// ErrUnexpectedStatus is returned for a sitemap response other than 200 OK.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)
