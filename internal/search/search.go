// Package search filters and ranks plugin identifiers against a query.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// lowered implements fuzzy.Source over lowercased identifiers.
type lowered []string

func (l lowered) String(i int) string { return strings.ToLower(l[i]) }
func (l lowered) Len() int            { return len(l) }

// Rank returns the identifiers matching query.
//
// An empty query returns every identifier in ascending order. Otherwise
// identifiers that do not contain the query as a subsequence are dropped and
// the rest are ordered by descending match score. Equal scores keep the
// scorer's order, so callers must not rely on the order of ties.
func Rank(ids []string, query string) []string {
	if query == "" {
		out := make([]string, len(ids))
		copy(out, ids)
		sort.Strings(out)
		return out
	}

	// Start from a sorted slice so equal scores come out the same way on
	// every call with the same input.
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	matches := fuzzy.FindFrom(strings.ToLower(query), lowered(sorted))
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = sorted[m.Index]
	}
	return out
}
