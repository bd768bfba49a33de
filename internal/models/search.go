package models

import "strings"

// Searchable records can be matched against a free-text term.
type Searchable interface {
	MatchesSearch(term string) bool
}

// FilterBySearch keeps the items matching term. An empty term keeps
// everything.
func FilterBySearch[T Searchable](items []T, term string) []T {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.MatchesSearch(term) {
			out = append(out, item)
		}
	}
	return out
}

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}
