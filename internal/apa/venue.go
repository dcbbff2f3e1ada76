package apa

import (
	"regexp"
	"strings"

	"github.com/scholarsite/citekit/internal/bibtex"
)

var (
	dashRunRegex = regexp.MustCompile(`[-‐‑‒–—−]+`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Electronic location identifiers, used when an entry has no page range.
var articleNumberFields = []string{"eid", "art_number", "article-number", "artnum"}

// Venue returns the source part of the reference:
// "Journal, Volume(Issue), Pages." or "Publisher." or "".
func Venue(e bibtex.Entry) string {
	journal := firstField(e, "journal", "journaltitle")
	if journal == "" {
		if publisher := field(e, "publisher"); publisher != "" {
			return terminate(publisher)
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(journal)

	volume := field(e, "volume")
	issue := firstField(e, "number", "issue")
	if volume != "" || issue != "" {
		b.WriteString(", ")
		b.WriteString(volume)
		if issue != "" {
			b.WriteString("(" + issue + ")")
		}
	}

	pages := NormalizePages(field(e, "pages"))
	if pages == "" {
		pages = firstField(e, articleNumberFields...)
	}
	if pages != "" {
		b.WriteString(", ")
		b.WriteString(pages)
	}

	return terminate(b.String())
}

// NormalizePages removes whitespace and replaces hyphen variants with an
// en dash: "1611 -- 1635" -> "1611–1635".
func NormalizePages(pages string) string {
	pages = whitespace.ReplaceAllString(pages, "")
	return dashRunRegex.ReplaceAllString(pages, "–")
}

func field(e bibtex.Entry, name string) string {
	return bibtex.PlainText(e.Field(name))
}

func firstField(e bibtex.Entry, names ...string) string {
	for _, name := range names {
		if v := field(e, name); v != "" {
			return v
		}
	}
	return ""
}
