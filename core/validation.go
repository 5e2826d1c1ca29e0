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

import "fmt"

// ValidateTopN checks a caller-supplied result limit.
// Values below 1 are rejected, never coerced.
func ValidateTopN(topN int) error {
	if topN < 1 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidParameter, ErrInvalidTopN, topN)
	}
	return nil
}

// ValidateBaseURL checks that result links have a base to hang off.
func ValidateBaseURL(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, ErrEmptyBaseURL)
	}
	return nil
}

// MaxEntryTokens bounds the token count accepted when decoding an Entry.
const MaxEntryTokens = 1024

// ValidateTokenCount runs before an encoded token slice is allocated.
func ValidateTokenCount(length int) error {
	if length > MaxEntryTokens {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyTokens, length, MaxEntryTokens)
	}
	return nil
}

// ValidateEntry validates an Entry according to domain rules.
//
// Validation rules:
//   - Slug must not be empty
//   - Tokens must not exceed MaxEntryTokens
//
// NOT validated:
//   - Name and token contents (derived from Slug, an all-punctuation slug yields no tokens)
func ValidateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if entry.Slug == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptySlug)
	}

	if err := ValidateTokenCount(len(entry.Tokens)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	return nil
}
