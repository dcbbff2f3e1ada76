// Package apa formats bibliography entries as APA 7th edition references.
//
// Formatting never fails: a missing field is left out of the reference.
package apa

import (
	"regexp"
	"strings"

	"github.com/scholarsite/citekit/internal/bibtex"
)

// NoDate is the APA placeholder for an unknown year.
const NoDate = "n.d."

var yearRegex = regexp.MustCompile(`\d{4}`)

// Format renders an entry as "Authors (Year). Title. Venue. https://doi.org/...".
func Format(e bibtex.Entry) string {
	var parts []string

	if authors := FormatAuthors(ParseAuthors(e.Field("author"))); authors != "" {
		parts = append(parts, authors)
	}
	parts = append(parts, "("+Year(e)+").")

	if title := SentenceCase(e.Field("title")); title != "" {
		parts = append(parts, terminate(title))
	}
	if venue := Venue(e); venue != "" {
		parts = append(parts, venue)
	}

	ref := strings.Join(parts, " ")

	if doi := DOI(e); doi != "" {
		ref = terminate(strings.TrimRight(ref, ". ")) + " " + bibtex.DOIURL(doi)
	}
	return ref
}

// Year returns the first four-digit run of the year field, then of the
// date field, or "n.d.".
func Year(e bibtex.Entry) string {
	for _, name := range []string{"year", "date"} {
		if y := yearRegex.FindString(e.Field(name)); y != "" {
			return y
		}
	}
	return NoDate
}

// DOI returns the entry's normalized DOI, falling back to a doi.org URL in
// the url field.
func DOI(e bibtex.Entry) string {
	if doi := bibtex.NormalizeDOI(e.Field("doi")); doi != "" {
		return doi
	}
	if url := e.Field("url"); strings.Contains(strings.ToLower(url), "doi.org") {
		return bibtex.NormalizeDOI(url)
	}
	return ""
}

// terminate ends s with a period unless it already ends in terminal punctuation.
func terminate(s string) string {
	if strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}
