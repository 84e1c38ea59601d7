// Package search filters and highlights names for the family view.
//
// Queries are always literal text compared without regard to case. Nothing
// here builds a regular expression from user input, so characters such as
// "." or "(" simply match themselves.
package search

import (
	"github.com/vanderheijden86/kinview/pkg/metrics"
)

// Match returns the names that contain query, in their original order.
//
// A blank query returns (nil, false): no filter is active. Any other query
// returns a non-nil slice and true, even when nothing matched, so callers can
// tell "search cleared" apart from "search found nothing".
func Match(names []string, query string) ([]string, bool) {
	return Filter(names, func(s string) string { return s }, query)
}

// Filter is Match over arbitrary items, using key to pick the text to search.
func Filter[T any](items []T, key func(T) string, query string) ([]T, bool) {
	if IsBlank(query) {
		return nil, false
	}
	defer metrics.Timer(metrics.Match)()

	out := make([]T, 0)
	for _, item := range items {
		if ContainsFold(key(item), query) {
			out = append(out, item)
		}
	}
	return out, true
}
