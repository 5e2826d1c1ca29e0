package search

import (
	"testing"

	"github.com/poiesic/sciencepedia/core"
	"github.com/poiesic/sciencepedia/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slugsOf(matches []core.Match) []string {
	slugs := make([]string, len(matches))
	for i, m := range matches {
		slugs[i] = m.Slug
	}
	return slugs
}

func TestParseQuery(t *testing.T) {
	q := parseQuery("  Folding  Protein-XYZ ")
	assert.Equal(t, "Folding  Protein-XYZ", q.trimmed)
	assert.Equal(t, "folding protein-xyz", q.normalized)
	assert.Equal(t, "folding_protein_xyz", q.slugForm)
	assert.Len(t, q.tokens, 3)
	assert.Contains(t, q.tokens, "xyz")
}

func TestMatchExactSlug(t *testing.T) {
	ix := index.Build([]string{"protein_folding", "CRISPR", "GLP-1"})

	t.Run("slug form hit", func(t *testing.T) {
		matches := matchExactSlug(parseQuery("Protein Folding"), ix)
		require.Len(t, matches, 1)
		assert.Equal(t, core.Match{Slug: "protein_folding", Name: "protein folding", Kind: core.MatchExact, Score: 1.0}, matches[0])
	})

	t.Run("verbatim hit keeps case", func(t *testing.T) {
		matches := matchExactSlug(parseQuery(" CRISPR "), ix)
		require.Len(t, matches, 1)
		assert.Equal(t, "CRISPR", matches[0].Slug)
	})

	t.Run("verbatim hyphen slug", func(t *testing.T) {
		matches := matchExactSlug(parseQuery("GLP-1"), ix)
		require.Len(t, matches, 1)
		assert.Equal(t, "GLP-1", matches[0].Slug)
	})

	t.Run("miss", func(t *testing.T) {
		assert.Empty(t, matchExactSlug(parseQuery("crispr"), ix))
		assert.Empty(t, matchExactSlug(parseQuery(""), ix))
	})
}

func TestMatchExactName(t *testing.T) {
	ix := index.Build([]string{"Base_Editing", "prime_editing", "BASE_editing"})

	matches := matchExactName(parseQuery("base editing"), ix)
	assert.Equal(t, []string{"Base_Editing", "BASE_editing"}, slugsOf(matches),
		"ties keep index order")
	for _, m := range matches {
		assert.Equal(t, core.MatchExact, m.Kind)
		assert.Equal(t, 1.0, m.Score)
	}

	assert.Empty(t, matchExactName(parseQuery("base"), ix))
}

func TestMatchExactName_RepeatedSeparators(t *testing.T) {
	ix := index.Build([]string{"Caenorhabditis__elegans"})

	for _, q := range []string{"Caenorhabditis  elegans", "caenorhabditis elegans", " CAENORHABDITIS   ELEGANS "} {
		t.Run(q, func(t *testing.T) {
			matches := matchExactName(parseQuery(q), ix)
			require.Len(t, matches, 1)
			assert.Equal(t, "Caenorhabditis__elegans", matches[0].Slug)
			assert.Equal(t, core.MatchExact, matches[0].Kind)
		})
	}
}

func TestSlugVariants(t *testing.T) {
	tests := []struct {
		slugForm string
		want     []string
	}{
		{"glp_1", []string{"glp_1", "glp1"}},
		{"spin__orbit", []string{"spin__orbit", "spinorbit", "spin_orbit"}},
		{"_edge_", []string{"_edge_", "edge"}},
		{"plain", []string{"plain"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.slugForm, func(t *testing.T) {
			assert.Equal(t, tt.want, slugVariants(tt.slugForm))
		})
	}
}

func TestMatchSlugVariant(t *testing.T) {
	ix := index.Build([]string{"glp1", "spin_orbit"})

	matches := matchSlugVariant(parseQuery("GLP-1"), ix)
	require.Len(t, matches, 1)
	assert.Equal(t, "glp1", matches[0].Slug)
	assert.Equal(t, core.MatchExact, matches[0].Kind)

	matches = matchSlugVariant(parseQuery("spin__orbit"), ix)
	require.Len(t, matches, 1)
	assert.Equal(t, "spin_orbit", matches[0].Slug)

	assert.Empty(t, matchSlugVariant(parseQuery("glp 2"), ix))
}

func TestMatchSubstring(t *testing.T) {
	t.Run("contains scores by length ratio", func(t *testing.T) {
		ix := index.Build([]string{"protein_folding"})
		matches := matchSubstring(parseQuery("Protein"), ix)
		require.Len(t, matches, 1)
		assert.Equal(t, core.MatchContains, matches[0].Kind)
		assert.InDelta(t, 7.0/15.0, matches[0].Score, 1e-9)
	})

	t.Run("contained in", func(t *testing.T) {
		ix := index.Build([]string{"quantum_computing"})
		matches := matchSubstring(parseQuery("introduction to quantum computing"), ix)
		require.Len(t, matches, 1)
		assert.Equal(t, core.MatchContainedIn, matches[0].Kind)
		assert.InDelta(t, 17.0/33.0, matches[0].Score, 1e-9)
	})

	t.Run("contained in below threshold is dropped", func(t *testing.T) {
		ix := index.Build([]string{"spin"})
		assert.Empty(t, matchSubstring(parseQuery("a very long sentence about spin dynamics and more"), ix))
	})

	t.Run("short slugs are skipped", func(t *testing.T) {
		ix := index.Build([]string{"gl", "n"})
		assert.Empty(t, matchSubstring(parseQuery("gl"), ix))
		assert.Empty(t, matchSubstring(parseQuery("glx"), ix))
	})

	t.Run("sorted by score", func(t *testing.T) {
		ix := index.Build([]string{"protein_folding_problem", "protein", "protein_folding"})
		matches := matchSubstring(parseQuery("protein fol"), ix)
		assert.Equal(t, []string{"protein_folding", "protein", "protein_folding_problem"}, slugsOf(matches))
		assert.Equal(t, core.MatchContains, matches[0].Kind)
		assert.Equal(t, core.MatchContainedIn, matches[1].Kind)
		assert.InDelta(t, 11.0/15.0, matches[0].Score, 1e-9)
		assert.InDelta(t, 7.0/11.0, matches[1].Score, 1e-9)
		assert.InDelta(t, 11.0/23.0, matches[2].Score, 1e-9)
	})

	t.Run("ties keep index order", func(t *testing.T) {
		ix := index.Build([]string{"b_spin", "a_spin"})
		matches := matchSubstring(parseQuery("spin"), ix)
		assert.Equal(t, []string{"b_spin", "a_spin"}, slugsOf(matches))
	})

	t.Run("empty query", func(t *testing.T) {
		ix := index.Build([]string{"protein_folding"})
		assert.Empty(t, matchSubstring(parseQuery("   "), ix))
	})
}

func TestTokenF1(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		entry  []string
		want   float64
		wantOK bool
	}{
		{"identical sets", "protein folding", []string{"folding", "protein"}, 1.0, true},
		{"superset query", "folding protein xyz", []string{"folding", "protein"}, 0.8, true},
		{"subset query", "protein", []string{"folding", "protein"}, 2.0 / 3.0, true},
		{"disjoint", "quantum", []string{"folding", "protein"}, 0, false},
		{"empty entry", "quantum", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ok := tokenF1(index.TokenSet(tt.query), tt.entry)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, score, 1e-9)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestMatchTokenOverlap(t *testing.T) {
	ix := index.Build([]string{"protein_folding", "folding_%28chemistry%29", "xy", "quantum_dots"})

	matches := matchTokenOverlap(parseQuery("folding protein xyz"), ix)
	require.Len(t, matches, 2)
	assert.Equal(t, "protein_folding", matches[0].Slug)
	assert.Equal(t, core.MatchTokenOverlap, matches[0].Kind)
	assert.Equal(t, 0.8, matches[0].Score)
	// {folding} of {folding, protein, xyz} vs {folding, chemistry}: P=1/3 R=1/2
	assert.Equal(t, "folding_%28chemistry%29", matches[1].Slug)
	assert.Equal(t, 0.4, matches[1].Score)

	assert.Empty(t, matchTokenOverlap(parseQuery("!!!"), ix), "no query tokens")
	assert.Empty(t, matchTokenOverlap(parseQuery("xy"), ix), "short slugs are skipped")
}

func TestMatchTokenOverlap_Threshold(t *testing.T) {
	ix := index.Build([]string{"spin"})
	// P=1/9 R=1 gives F1=0.2
	assert.Empty(t, matchTokenOverlap(parseQuery("a very long sentence about spin dynamics and more"), ix))
}

func TestMatchFuzzy(t *testing.T) {
	ix := index.Build([]string{"classical_mechanics", "quantum_chemistry", "quantum_mechanics"})

	matches := matchFuzzy(parseQuery("quantom mechanicss"), ix)
	require.Len(t, matches, 3)
	assert.Equal(t, []string{"quantum_mechanics", "quantum_chemistry", "classical_mechanics"}, slugsOf(matches))
	assert.Equal(t, 0.914, matches[0].Score)
	assert.Equal(t, 0.629, matches[1].Score)
	assert.Equal(t, 0.595, matches[2].Score)
	for _, m := range matches {
		assert.Equal(t, core.MatchFuzzy, m.Kind)
	}
}

func TestMatchFuzzy_SharedNameUsesFirstSlug(t *testing.T) {
	ix := index.Build([]string{"Protein_Folding", "protein_folding", "protein-folding"})

	matches := matchFuzzy(parseQuery("protien foldnig"), ix)
	require.Len(t, matches, 2, "protein_folding shares its name with Protein_Folding")
	assert.Equal(t, "Protein_Folding", matches[0].Slug)
	assert.Equal(t, 0.867, matches[0].Score)
	assert.Equal(t, "protein-folding", matches[1].Slug)
}

func TestMatchFuzzy_TiesOrderedByNameDescending(t *testing.T) {
	ix := index.Build([]string{"abce", "abcf", "abcg"})

	matches := matchFuzzy(parseQuery("abcd"), ix)
	assert.Equal(t, []string{"abcg", "abcf", "abce"}, slugsOf(matches))
	for _, m := range matches {
		assert.Equal(t, 0.75, m.Score)
	}
}

func TestMatchFuzzy_Cutoff(t *testing.T) {
	ix := index.Build([]string{"quantum_computing"})
	assert.Empty(t, matchFuzzy(parseQuery("zzz_no_such_thing"), ix))
	assert.Empty(t, matchFuzzy(parseQuery(""), ix))
}
