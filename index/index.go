package index

import (
	"bufio"
	"io"
	"iter"
	"strings"

	"github.com/poiesic/sciencepedia/core"
)

// Source is the read contract the matcher needs from an index.
// Implementations must be safe for concurrent readers.
type Source interface {
	// Lookup returns the entry stored under slug.
	Lookup(slug string) (core.Entry, bool)

	// All yields every (slug, entry) pair in the index's iteration order.
	All() iter.Seq2[string, core.Entry]
}

// Index is an immutable in-memory keyword index.
// Iteration order is the order in which each slug was first added.
type Index struct {
	positions map[string]int
	entries   []core.Entry
}

var _ Source = (*Index)(nil)

func newIndex(capacity int) *Index {
	return &Index{
		positions: make(map[string]int, capacity),
		entries:   make([]core.Entry, 0, capacity),
	}
}

// Build creates an index from a flat slug list.
// Empty slugs are skipped. A repeated slug keeps its first position and its
// entry is rebuilt from the later occurrence.
func Build(slugs []string) *Index {
	ix := newIndex(len(slugs))
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		ix.add(NewEntry(slug))
	}
	return ix
}

// FromEntries creates an index from precomputed entries, for example ones
// loaded from storage. Entries that fail validation are skipped.
func FromEntries(entries []core.Entry) *Index {
	ix := newIndex(len(entries))
	for i := range entries {
		if core.ValidateEntry(&entries[i]) != nil {
			continue
		}
		ix.add(entries[i])
	}
	return ix
}

func (ix *Index) add(entry core.Entry) {
	if pos, ok := ix.positions[entry.Slug]; ok {
		ix.entries[pos] = entry
		return
	}
	ix.positions[entry.Slug] = len(ix.entries)
	ix.entries = append(ix.entries, entry)
}

// Lookup returns the entry stored under slug.
func (ix *Index) Lookup(slug string) (core.Entry, bool) {
	pos, ok := ix.positions[slug]
	if !ok {
		return core.Entry{}, false
	}
	return ix.entries[pos], true
}

// All yields every entry in insertion order.
func (ix *Index) All() iter.Seq2[string, core.Entry] {
	return func(yield func(string, core.Entry) bool) {
		for _, entry := range ix.entries {
			if !yield(entry.Slug, entry) {
				return
			}
		}
	}
}

// Len returns the number of distinct entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Entries returns a copy of the entries in iteration order.
func (ix *Index) Entries() []core.Entry {
	out := make([]core.Entry, len(ix.entries))
	copy(out, ix.entries)
	return out
}

// ReadSlugs reads a newline-separated slug list, trimming whitespace and
// skipping blank lines.
func ReadSlugs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var slugs []string
	for scanner.Scan() {
		slug := strings.TrimSpace(scanner.Text())
		if slug == "" {
			continue
		}
		slugs = append(slugs, slug)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return slugs, nil
}
