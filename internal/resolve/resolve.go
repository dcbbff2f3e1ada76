// Package resolve matches publication records against a bibliography index.
package resolve

import (
	"strings"

	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/reference"
)

// Kind records how a publication was matched.
type Kind string

const (
	MatchDOI         Kind = "doi"         // Normalized DOI equality (authoritative)
	MatchTitle       Kind = "title"       // Normalized title equality
	MatchFuzzy       Kind = "fuzzy"       // Longest mutual title containment
	MatchSynthesized Kind = "synthesized" // No entry; built from the record
)

// Match is the entry chosen for a publication.
type Match struct {
	Entry bibtex.Entry
	Kind  Kind
}

// Resolve finds the best bibliography entry for pub. Precedence is DOI,
// then exact normalized title, then fuzzy title containment. It returns
// false when nothing matches; that is not an error.
func Resolve(pub reference.Publication, idx *bibtex.Index) (Match, bool) {
	if idx == nil {
		return Match{}, false
	}

	if pub.DOI != "" {
		if e, ok := idx.ByDOI(pub.DOI); ok {
			return Match{Entry: e, Kind: MatchDOI}, true
		}
	}

	title := bibtex.TitleKey(pub.Title)
	if title == "" {
		return Match{}, false
	}

	if e, ok := idx.ByNormalizedTitle(title); ok {
		return Match{Entry: e, Kind: MatchTitle}, true
	}

	if best := FuzzyTitle(title, idx.Titles()); best != "" {
		if e, ok := idx.ByNormalizedTitle(best); ok {
			return Match{Entry: e, Kind: MatchFuzzy}, true
		}
	}

	return Match{}, false
}

// FuzzyTitle returns the candidate that contains, or is contained in, title
// with the largest min(len(title), len(candidate)). Ties keep the earliest
// candidate, so the result depends on candidate order. Both title and
// candidates must already be normalized. Returns "" if none overlap.
func FuzzyTitle(title string, candidates []string) string {
	best := ""
	bestScore := 0
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if !strings.Contains(title, c) && !strings.Contains(c, title) {
			continue
		}
		score := min(len(title), len(c))
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
