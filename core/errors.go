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


package core

import "errors"

// Parameter and domain validation errors
var (
	// ErrInvalidParameter indicates a caller passed an argument outside its contract.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidTopN indicates a result limit below 1.
	ErrInvalidTopN = errors.New("topN must be at least 1")

	// ErrInvalidEntry indicates an Entry failed validation.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrEmptySlug indicates the Slug field is empty.
	ErrEmptySlug = errors.New("slug cannot be empty")

	// ErrEmptyBaseURL indicates no base URL was supplied for result links.
	ErrEmptyBaseURL = errors.New("base URL cannot be empty")

	// ErrTooManyTokens indicates an encoded Entry claims more tokens than any entry can hold.
	ErrTooManyTokens = errors.New("too many tokens")
)
