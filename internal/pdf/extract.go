// Package pdf reads publication PDFs shipped with the site.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/scholarsite/citekit/internal/bibtex"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// scanPages is how many leading pages are searched; DOIs are usually on page 1.
const scanPages = 3

// Metadata is what can be recovered from the first pages of a PDF.
type Metadata struct {
	DOI   string `json:"doi,omitempty"`
	Title string `json:"title,omitempty"`
}

// Extract reads the first pages of a PDF and returns its DOI and a title
// guess. Missing values are not an error.
func Extract(filePath string) (Metadata, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	var meta Metadata
	pages := min(scanPages, r.NumPage())
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if i == 1 {
			meta.Title = titleFromText(text)
		}
		if meta.DOI == "" {
			meta.DOI = FindDOI(text)
		}
		if meta.DOI != "" {
			break
		}
	}

	return meta, nil
}

// FindDOI returns the first plausible DOI in text, normalized, or "".
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return bibtex.NormalizeDOI(match)
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}

// titleFromText takes the first substantial line that is not a running header.
func titleFromText(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) && FindDOI(line) == "" {
			return line
		}
	}
	return ""
}

// isHeaderLine checks if a line is likely a header/footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"),
		strings.Contains(lower, "copyright"),
		strings.Contains(lower, "volume") && strings.Contains(lower, "issue"),
		strings.Contains(lower, "article") && strings.Contains(lower, "published"),
		strings.HasPrefix(lower, "received"):
		return true
	}
	return false
}
