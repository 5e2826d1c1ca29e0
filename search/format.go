package search

import "github.com/poiesic/sciencepedia/core"

const (
	// StatusNotFound is the Status carried by the NOT_FOUND result.
	StatusNotFound = "NOT_FOUND"

	// NotFoundSuggestion is the static hint attached to the NOT_FOUND result.
	NotFoundSuggestion = "Try synonyms or broader terms."
)

// FormatResults maps matches to results, linking each slug under baseURL.
func FormatResults(baseURL string, matches []core.Match) []core.Result {
	results := make([]core.Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, core.Result{
			Slug:      m.Slug,
			Name:      m.Name,
			URL:       baseURL + m.Slug,
			MatchType: m.Kind,
			Score:     m.Score,
		})
	}
	return results
}

// NotFound returns the single-element result list reported when no layer matched.
func NotFound(query string) []core.Result {
	return []core.Result{{
		Query:      query,
		Status:     StatusNotFound,
		MatchType:  core.MatchNotFound,
		Suggestion: NotFoundSuggestion,
	}}
}
