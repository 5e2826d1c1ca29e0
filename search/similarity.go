package search

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// similarity compares many candidate strings against one fixed query using
// Ratcliff/Obershelp matching blocks. The query is the matcher's second
// sequence so its lookup tables are built once.
// A similarity is not safe for concurrent use.
type similarity struct {
	matcher *difflib.SequenceMatcher
}

func newSimilarity(query string) *similarity {
	return &similarity{
		matcher: difflib.NewMatcher(nil, runes(query)),
	}
}

// atLeast returns the ratio between candidate and the query when it reaches
// cutoff. The cheap upper bounds are checked first.
func (s *similarity) atLeast(candidate string, cutoff float64) (float64, bool) {
	s.matcher.SetSeq1(runes(candidate))
	if s.matcher.RealQuickRatio() < cutoff || s.matcher.QuickRatio() < cutoff {
		return 0, false
	}
	ratio := s.matcher.Ratio()
	if ratio < cutoff {
		return 0, false
	}
	return ratio, true
}

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0, 1]:
// twice the number of matched characters over the total length.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// runes splits s into one element per UTF-8 character.
func runes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}
