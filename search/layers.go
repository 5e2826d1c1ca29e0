package search

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/sciencepedia/core"
	"github.com/poiesic/sciencepedia/index"
)

const (
	// minSlugLen excludes tiny slugs such as "n" or "gl" from the scanning layers.
	minSlugLen = 3

	// minContainedInScore is the smallest name/query length ratio kept for CONTAINED_IN.
	minContainedInScore = 0.3

	// minTokenScore is the smallest F1 kept by the token overlap layer.
	minTokenScore = 0.3

	// fuzzyCutoff is the smallest similarity ratio kept by the fuzzy layer.
	fuzzyCutoff = 0.5
)

// matchFunc is one cascade layer. It returns every candidate it finds, best first.
type matchFunc func(q query, src index.Source) []core.Match

type layer struct {
	name  string
	match matchFunc
}

// cascade is the fixed layer order. The first layer with a candidate decides the result.
var cascade = []layer{
	{name: "exact_slug", match: matchExactSlug},
	{name: "exact_name", match: matchExactName},
	{name: "slug_variant", match: matchSlugVariant},
	{name: "substring", match: matchSubstring},
	{name: "token_overlap", match: matchTokenOverlap},
	{name: "fuzzy", match: matchFuzzy},
}

// matchExactSlug looks the query up as a slug, verbatim and then in slug form.
// It returns at most one match.
func matchExactSlug(q query, src index.Source) []core.Match {
	for _, slug := range []string{q.trimmed, q.slugForm} {
		if slug == "" {
			continue
		}
		if entry, ok := src.Lookup(slug); ok {
			return []core.Match{exact(slug, entry)}
		}
	}
	return nil
}

// matchExactName finds every entry whose normalized name equals the query.
func matchExactName(q query, src index.Source) []core.Match {
	var matches []core.Match
	for slug, entry := range src.All() {
		if index.Normalize(entry.Name) == q.normalized {
			matches = append(matches, exact(slug, entry))
		}
	}
	return matches
}

// matchSlugVariant tries alternate slug spellings, e.g. "glp-1" as "glp1".
func matchSlugVariant(q query, src index.Source) []core.Match {
	var matches []core.Match
	for _, variant := range slugVariants(q.slugForm) {
		if entry, ok := src.Lookup(variant); ok {
			matches = append(matches, exact(variant, entry))
		}
	}
	return matches
}

// slugVariants returns the distinct spellings to try, in order.
func slugVariants(slugForm string) []string {
	candidates := []string{
		slugForm,
		strings.ReplaceAll(slugForm, "-", "_"),
		strings.Map(func(r rune) rune {
			if isSlugSeparator(r) {
				return -1
			}
			return r
		}, slugForm),
		strings.Join(strings.FieldsFunc(slugForm, isSlugSeparator), "_"),
	}

	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" && !slices.Contains(variants, c) {
			variants = append(variants, c)
		}
	}
	return variants
}

func isSlugSeparator(r rune) bool {
	return r == '_' || r == '-'
}

// matchSubstring scores containment in either direction by length ratio.
func matchSubstring(q query, src index.Source) []core.Match {
	// Every name contains the empty string.
	if q.normalized == "" {
		return nil
	}
	queryLen := float64(utf8.RuneCountInString(q.normalized))

	var matches []core.Match
	for slug, entry := range src.All() {
		if utf8.RuneCountInString(slug) < minSlugLen {
			continue
		}
		name := index.Normalize(entry.Name)
		nameLen := utf8.RuneCountInString(name)

		if strings.Contains(name, q.normalized) {
			matches = append(matches, core.Match{
				Slug:  slug,
				Name:  entry.Name,
				Kind:  core.MatchContains,
				Score: queryLen / float64(nameLen),
			})
			continue
		}
		if nameLen >= minSlugLen && strings.Contains(q.normalized, name) {
			score := float64(nameLen) / queryLen
			if score >= minContainedInScore {
				matches = append(matches, core.Match{
					Slug:  slug,
					Name:  entry.Name,
					Kind:  core.MatchContainedIn,
					Score: score,
				})
			}
		}
	}
	sortByScore(matches)
	return matches
}

// matchTokenOverlap scores entries by the F1 of query and entry token sets.
func matchTokenOverlap(q query, src index.Source) []core.Match {
	if len(q.tokens) == 0 {
		return nil
	}

	var matches []core.Match
	for slug, entry := range src.All() {
		if utf8.RuneCountInString(slug) < minSlugLen {
			continue
		}
		score, ok := tokenF1(q.tokens, entry.Tokens)
		if !ok || score < minTokenScore {
			continue
		}
		matches = append(matches, core.Match{
			Slug:  slug,
			Name:  entry.Name,
			Kind:  core.MatchTokenOverlap,
			Score: round3(score),
		})
	}
	sortByScore(matches)
	return matches
}

// tokenF1 returns the harmonic mean of precision (overlap/query tokens) and
// recall (overlap/entry tokens). ok is false when the sets do not overlap.
// entryTokens must be deduplicated.
func tokenF1(queryTokens map[string]struct{}, entryTokens []string) (score float64, ok bool) {
	overlap := 0
	for _, token := range entryTokens {
		if _, found := queryTokens[token]; found {
			overlap++
		}
	}
	if overlap == 0 {
		return 0, false
	}
	precision := float64(overlap) / float64(len(queryTokens))
	recall := float64(overlap) / float64(max(len(entryTokens), 1))
	return 2 * precision * recall / max(precision+recall, 0.001), true
}

// matchFuzzy returns names whose similarity to the query reaches fuzzyCutoff.
// A name shared by several slugs is reported once, under its first slug.
// Equal ratios are ordered by normalized name, descending.
func matchFuzzy(q query, src index.Source) []core.Match {
	sim := newSimilarity(q.normalized)
	seen := make(map[string]struct{})

	var matches []core.Match
	for slug, entry := range src.All() {
		name := index.Normalize(entry.Name)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		ratio, ok := sim.atLeast(name, fuzzyCutoff)
		if !ok {
			continue
		}
		matches = append(matches, core.Match{
			Slug:  slug,
			Name:  entry.Name,
			Kind:  core.MatchFuzzy,
			Score: ratio,
		})
	}
	slices.SortStableFunc(matches, func(a, b core.Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return strings.Compare(index.Normalize(b.Name), index.Normalize(a.Name))
	})
	for i := range matches {
		matches[i].Score = round3(matches[i].Score)
	}
	return matches
}

func exact(slug string, entry core.Entry) core.Match {
	return core.Match{
		Slug:  slug,
		Name:  entry.Name,
		Kind:  core.MatchExact,
		Score: 1.0,
	}
}

// sortByScore orders matches best first; equal scores keep iteration order.
func sortByScore(matches []core.Match) {
	slices.SortStableFunc(matches, func(a, b core.Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
