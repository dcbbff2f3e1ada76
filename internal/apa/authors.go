package apa

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/reference"
)

// MaxListedAuthors is the APA 7th limit before the list is elided.
const MaxListedAuthors = 20

var authorSeparator = regexp.MustCompile(`(?i) and `)

var nameSuffixes = map[string]bool{
	"jr": true, "jr.": true, "sr": true, "sr.": true,
	"ii": true, "iii": true, "iv": true,
}

// ParseAuthors splits a BibTeX author field into names. "Last, First",
// "Last, Jr., First", and "First Last" forms are accepted.
func ParseAuthors(field string) []reference.Author {
	field = bibtex.PlainText(field)
	if field == "" {
		return nil
	}

	var authors []reference.Author
	for _, raw := range authorSeparator.Split(field, -1) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		authors = append(authors, parseName(raw))
	}
	return authors
}

func parseName(name string) reference.Author {
	if strings.Contains(name, ",") {
		parts := strings.Split(name, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) >= 3 {
			return reference.Author{Last: parts[0], Suffix: parts[1], First: strings.Join(parts[2:], " ")}
		}
		return reference.Author{Last: parts[0], First: parts[1]}
	}

	tokens := strings.Fields(name)
	if len(tokens) > 1 && nameSuffixes[strings.ToLower(tokens[len(tokens)-1])] {
		suffix := tokens[len(tokens)-1]
		a := parseName(strings.Join(tokens[:len(tokens)-1], " "))
		a.Suffix = suffix
		return a
	}
	if len(tokens) == 1 {
		return reference.Author{Last: tokens[0]}
	}
	return reference.Author{
		Last:  tokens[len(tokens)-1],
		First: strings.Join(tokens[:len(tokens)-1], " "),
	}
}

// Initials abbreviates given names: "Emily J." -> "E. J.",
// "Jean-Paul" -> "J.-P.".
func Initials(given string) string {
	var out []string
	for _, word := range strings.Fields(given) {
		for _, part := range strings.Split(word, ".") {
			if part == "" {
				continue
			}
			var hyphenated []string
			for _, piece := range strings.Split(part, "-") {
				if initial := initialOf(piece); initial != "" {
					hyphenated = append(hyphenated, initial)
				}
			}
			if len(hyphenated) > 0 {
				out = append(out, strings.Join(hyphenated, "-"))
			}
		}
	}
	return strings.Join(out, " ")
}

func initialOf(s string) string {
	s = strings.TrimLeftFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + "."
}

// FormatAuthor renders one author as "Last, F. M." (with ", Jr." if any).
func FormatAuthor(a reference.Author) string {
	name := a.Last
	if initials := Initials(a.First); initials != "" {
		if name == "" {
			name = initials
		} else {
			name += ", " + initials
		}
	}
	if a.Suffix != "" {
		name += ", " + a.Suffix
	}
	return name
}

// FormatAuthors joins authors the APA 7th way: "A", "A, & B", "A, B, & C",
// and for more than twenty, the first nineteen, an ellipsis, then the last.
func FormatAuthors(authors []reference.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if n := FormatAuthor(a); n != "" {
			names = append(names, n)
		}
	}

	switch n := len(names); {
	case n == 0:
		return ""
	case n == 1:
		return names[0]
	case n <= MaxListedAuthors:
		return strings.Join(names[:n-1], ", ") + ", & " + names[n-1]
	default:
		return strings.Join(names[:MaxListedAuthors-1], ", ") + ", …, " + names[n-1]
	}
}
