package apa

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/scholarsite/citekit/internal/bibtex"
)

var (
	wordRegex       = regexp.MustCompile(`[\p{L}\p{N}]+`)
	afterColonRegex = regexp.MustCompile(`:\s+\p{Ll}`)
	spaceRunRegex   = regexp.MustCompile(`\s+`)
)

// SentenceCase converts a BibTeX title to APA sentence case.
//
// The title is lower-cased except for words written entirely in capitals
// (acronyms) and brace-protected groups, which are kept verbatim. The first
// letter and the first letter after each colon are capitalized. A trailing
// period is removed.
func SentenceCase(title string) string {
	title = bibtex.FlattenMacros(bibtex.ExpandAccents(title))
	title = unwrapBraces(strings.TrimSpace(title))

	segs := braceSegments(title)
	var b strings.Builder
	for _, seg := range segs {
		if seg.protected {
			b.WriteString(seg.text)
			continue
		}
		b.WriteString(wordRegex.ReplaceAllStringFunc(seg.text, func(w string) string {
			if isAcronym(w) {
				return w
			}
			return strings.ToLower(w)
		}))
	}

	s := bibtex.Unescape(b.String())
	s = strings.TrimSpace(spaceRunRegex.ReplaceAllString(s, " "))
	s = strings.TrimRight(s, ". ")
	s = afterColonRegex.ReplaceAllStringFunc(s, strings.ToUpper)
	if len(segs) > 0 && segs[0].protected {
		return s
	}
	return capitalizeFirst(s)
}

// isAcronym reports whether w has at least two letters and no lower-case ones.
func isAcronym(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 2
}

func capitalizeFirst(s string) string {
	for i, r := range s {
		if unicode.IsLetter(r) {
			return s[:i] + string(unicode.ToUpper(r)) + s[i+utf8.RuneLen(r):]
		}
	}
	return s
}

// unwrapBraces strips braces that enclose the whole string.
func unwrapBraces(s string) string {
	for len(s) >= 2 && s[0] == '{' && closingBrace(s, 0) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

type segment struct {
	text      string
	protected bool
}

// braceSegments splits s into top-level brace groups (protected, braces
// removed) and the text between them. Unbalanced braces are dropped.
func braceSegments(s string) []segment {
	var segs []segment
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		end := closingBrace(s, i)
		if end < 0 {
			break
		}
		if i > start {
			segs = append(segs, segment{text: s[start:i]})
		}
		inner := strings.NewReplacer("{", "", "}", "").Replace(s[i+1 : end])
		segs = append(segs, segment{text: inner, protected: true})
		start = end + 1
		i = end
	}
	if start < len(s) {
		rest := strings.NewReplacer("{", "", "}", "").Replace(s[start:])
		segs = append(segs, segment{text: rest})
	}
	return segs
}

func closingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
