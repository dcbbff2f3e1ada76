// Package export writes BibTeX for publications that have no bibliography entry.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/reference"
)

// FromPublication synthesizes a minimal @article entry from a publication
// record. Only non-empty title, author, year, and doi fields are written.
// The result always splits back into exactly one entry.
func FromPublication(pub reference.Publication) string {
	var fields []bibtex.Field

	if title := cleanValue(pub.Title); title != "" {
		fields = append(fields, bibtex.Field{Name: "title", Value: title})
	}
	if authors := formatAuthors(pub.AuthorNames()); authors != "" {
		fields = append(fields, bibtex.Field{Name: "author", Value: authors})
	}
	if year := cleanValue(pub.Year.String()); year != "" {
		fields = append(fields, bibtex.Field{Name: "year", Value: year})
	}
	if doi := bibtex.NormalizeDOI(pub.DOI); doi != "" {
		fields = append(fields, bibtex.Field{Name: "doi", Value: doi})
	}

	return bibtex.FormatEntry("article", CiteKey(pub), fields)
}

// CiteKey derives a citation key from the year and a slug of the title:
// "2024-quantifying-exposure-biases".
func CiteKey(pub reference.Publication) string {
	slug := bibtex.Slugify(pub.Title, bibtex.DefaultSlugLen)
	year := strings.TrimSpace(pub.Year.String())
	if year == "" {
		return slug
	}
	return bibtex.Slugify(year, 0) + "-" + slug
}

// formatAuthors joins names in BibTeX style: "Last, First and Last, First".
func formatAuthors(names []string) string {
	var formatted []string
	for _, n := range names {
		if n = cleanValue(n); n != "" {
			formatted = append(formatted, n)
		}
	}
	return strings.Join(formatted, " and ")
}

// cleanValue removes braces so a value cannot unbalance the entry.
func cleanValue(s string) string {
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// WriteBibFile writes BibTeX content to dir/name, creating dir if needed,
// and returns the file path.
func WriteBibFile(dir, name, content string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// AppendToBibFile appends BibTeX content to a file.
func AppendToBibFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	// Ensure we start on a new line
	_, err = file.WriteString("\n" + content)
	return err
}
