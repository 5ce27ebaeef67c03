package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// rankCategories orders category names for the item form's picker.
// Substring matches rank first, then closest edit distance to the
// query; ties keep feed order. An empty query keeps feed order.
func rankCategories(names []string, query string) []string {
	out := append([]string(nil), names...)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out
	}

	type ranked struct {
		name     string
		contains bool
		dist     int
		idx      int
	}
	rs := make([]ranked, len(out))
	for i, n := range out {
		ln := strings.ToLower(n)
		rs[i] = ranked{
			name:     n,
			contains: strings.Contains(ln, q),
			dist:     levenshtein.ComputeDistance(q, ln),
			idx:      i,
		}
	}
	sort.Slice(rs, func(a, b int) bool {
		if rs[a].contains != rs[b].contains {
			return rs[a].contains
		}
		if rs[a].dist != rs[b].dist {
			return rs[a].dist < rs[b].dist
		}
		return rs[a].idx < rs[b].idx
	})
	for i, r := range rs {
		out[i] = r.name
	}
	return out
}
