package search

import (
	"strings"

	"github.com/poiesic/sciencepedia/index"
)

// query holds the forms of a raw query string that the layers compare against.
type query struct {
	raw        string
	trimmed    string
	normalized string
	slugForm   string
	tokens     map[string]struct{}
}

func parseQuery(raw string) query {
	normalized := index.Normalize(raw)
	return query{
		raw:        raw,
		trimmed:    strings.TrimSpace(raw),
		normalized: normalized,
		slugForm:   index.SlugForm(normalized),
		tokens:     index.TokenSet(normalized),
	}
}
