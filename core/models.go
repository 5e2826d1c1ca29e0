package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FingerprintSlugs returns the content ID of an ordered slug list.
// Two lists fingerprint equal only if they hold the same slugs in the same order.
func FingerprintSlugs(slugs []string) ID {
	return IDFromContent(strings.Join(slugs, "\n"))
}

// Entry is a single searchable keyword.
type Entry struct {
	Slug   string   // Canonical identifier, unique within an index
	Name   string   // Human-readable display name derived from Slug
	Tokens []string // Lowercase alphanumeric tokens of Name, deduplicated and sorted
}

// MatchKind identifies which cascade layer produced a match.
type MatchKind string

const (
	MatchExact        MatchKind = "EXACT"
	MatchContains     MatchKind = "CONTAINS"
	MatchContainedIn  MatchKind = "CONTAINED_IN"
	MatchTokenOverlap MatchKind = "TOKEN_OVERLAP"
	MatchFuzzy        MatchKind = "FUZZY"
	// MatchNotFound marks the sentinel result returned when no layer matched.
	MatchNotFound MatchKind = "NOT_FOUND"
)

// Match is a scored candidate produced by a matching layer.
type Match struct {
	Slug  string
	Name  string
	Kind  MatchKind
	Score float64
}

// Result is the externally visible shape of a search hit.
// MatchType is always set and is the discriminant consumers branch on;
// NOT_FOUND results carry Query, Status and Suggestion instead of Slug, Name and URL.
type Result struct {
	Slug       string    `json:"slug,omitempty"`
	Name       string    `json:"name,omitempty"`
	URL        string    `json:"url,omitempty"`
	MatchType  MatchKind `json:"match_type"`
	Score      float64   `json:"score"`
	Query      string    `json:"query,omitempty"`
	Status     string    `json:"status,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// Found reports whether the result is an actual hit rather than the NOT_FOUND sentinel.
func (r Result) Found() bool {
	return r.MatchType != MatchNotFound
}

// IndexMeta describes the index currently held in storage.
type IndexMeta struct {
	Fingerprint ID        // FingerprintSlugs of the source slug list
	SlugCount   int       // Slugs in the source list, duplicates included
	EntryCount  int       // Distinct entries written
	UpdatedAt   time.Time // When the index was last written
}
