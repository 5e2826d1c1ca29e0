package index

import (
	"slices"
	"strings"
	"unicode"

	"github.com/poiesic/sciencepedia/core"
)

// slugEscapes decodes the percent escapes that appear in keyword slugs and
// turns underscores into spaces.
var slugEscapes = strings.NewReplacer(
	"%28", "(",
	"%29", ")",
	"%2C", ",",
	"_", " ",
)

// DisplayName converts a slug into its human-readable name.
func DisplayName(slug string) string {
	return slugEscapes.Replace(slug)
}

// Normalize lowercases s, trims it and collapses internal whitespace runs to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Tokens returns the distinct maximal runs of ASCII letters and digits in s,
// lowercased and sorted. Everything else separates tokens.
func Tokens(s string) []string {
	lower := strings.ToLower(s)
	var tokens []string
	start := -1
	for i := 0; i < len(lower); i++ {
		if isTokenByte(lower[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, lower[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, lower[start:])
	}
	slices.Sort(tokens)
	return slices.Compact(tokens)
}

// TokenSet returns Tokens(s) as a set.
func TokenSet(s string) map[string]struct{} {
	tokens := Tokens(s)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// SlugForm replaces every run of whitespace or hyphens with a single underscore.
func SlugForm(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' {
			if !inRun {
				b.WriteByte('_')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// NewEntry derives a complete Entry from a slug.
func NewEntry(slug string) core.Entry {
	name := DisplayName(slug)
	return core.Entry{
		Slug:   slug,
		Name:   name,
		Tokens: Tokens(name),
	}
}

func isTokenByte(c byte) bool {
	return ('a' <= c && c <= 'z') || ('0' <= c && c <= '9')
}
