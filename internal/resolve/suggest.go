package resolve

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to n candidate titles closest to title by edit
// distance, nearest first. Candidates further than half the longer title's
// length are dropped. Both title and candidates must already be normalized.
func Suggest(title string, candidates []string, n int) []string {
	if title == "" || n <= 0 {
		return nil
	}

	type scored struct {
		title string
		dist  int
	}
	var ranked []scored
	for _, c := range candidates {
		if c == "" {
			continue
		}
		d := levenshtein.ComputeDistance(title, c)
		if d*2 > max(len(title), len(c)) {
			continue
		}
		ranked = append(ranked, scored{c, d})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].dist < ranked[j].dist
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.title
	}
	return out
}
