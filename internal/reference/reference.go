// Package reference defines the publication records published on the site.
package reference

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Publication is one entry of the content document's publications list.
type Publication struct {
	// Identity
	ID  string `json:"id"`
	DOI string `json:"doi,omitempty"` // Bare DOI or https://doi.org/ link

	// Metadata
	Title   string         `json:"title"`
	Authors string         `json:"authors"` // Free text, e.g. "Wallis, Osborn, Taylor"
	Year    FlexibleString `json:"year"`
	Type    string         `json:"type,omitempty"` // journal, conference, report, dataset, article
	Summary string         `json:"summary,omitempty"`

	// Links
	PDF   string `json:"pdf,omitempty"`
	Cite  string `json:"cite,omitempty"`
	Data  string `json:"data,omitempty"`
	Code  string `json:"code,omitempty"`
	Viz   string `json:"viz,omitempty"`
	Thumb string `json:"thumb,omitempty"`
}

var yearRegex = regexp.MustCompile(`\d{4}`)

// YearInt returns the first four-digit run of Year as an int, or 0.
func (p Publication) YearInt() int {
	m := yearRegex.FindString(string(p.Year))
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

// AuthorNames splits the free-text author list into individual names.
//
// Lists already in BibTeX form ("A and B") split on " and "; otherwise
// semicolons separate names when present, and commas when not.
func (p Publication) AuthorNames() []string {
	raw := strings.TrimSpace(p.Authors)
	if raw == "" {
		return nil
	}

	var parts []string
	switch {
	case andSeparator.MatchString(raw):
		parts = andSeparator.Split(raw, -1)
	case strings.Contains(raw, ";"):
		parts = strings.Split(raw, ";")
	default:
		parts = strings.Split(raw, ",")
	}

	var names []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}

var andSeparator = regexp.MustCompile(`(?i)\s+and\s+`)

// FlexibleString can unmarshal from either string or number JSON values.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	// Handle null
	if string(data) == "null" {
		*f = ""
		return nil
	}

	// Try string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	// Try number
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

// MarshalJSON writes all-digit values as JSON numbers so that years
// round-trip the way the content document stores them.
func (f FlexibleString) MarshalJSON() ([]byte, error) {
	s := string(f)
	if s != "" && strings.Trim(s, "0123456789") == "" && s[0] != '0' {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func (f FlexibleString) String() string {
	return string(f)
}
