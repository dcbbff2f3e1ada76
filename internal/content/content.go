// Package content reads and writes the site's content document, the JSON
// file whose publications list drives the publications page.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/reference"
)

// ErrInvalid indicates a content document that is not JSON even after
// lenient cleanup.
var ErrInvalid = errors.New("invalid content document")

const publicationsKey = "publications"

// Document is a content document. Keys other than publications are kept
// verbatim so the file round-trips.
type Document struct {
	Publications []reference.Publication

	other map[string]json.RawMessage
}

// Parse decodes a content document. Strict JSON is tried first, then the
// text is relaxed (BOM, comments, trailing commas) and decoded again. Empty
// input yields an empty document.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Document{other: map[string]json.RawMessage{}}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		relaxed := relax(string(data))
		if err2 := json.Unmarshal([]byte(relaxed), &raw); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err2)
		}
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}

	doc := &Document{other: raw}
	if pubs, ok := raw[publicationsKey]; ok {
		if err := json.Unmarshal(pubs, &doc.Publications); err != nil {
			return nil, fmt.Errorf("%w: publications: %v", ErrInvalid, err)
		}
		delete(raw, publicationsKey)
	}
	return doc, nil
}

// Load reads and parses a content document. A missing file yields an empty
// document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil)
		}
		return nil, fmt.Errorf("reading content: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Marshal encodes the document as indented JSON without HTML escaping.
func (d *Document) Marshal() ([]byte, error) {
	out := make(map[string]any, len(d.other)+1)
	for k, v := range d.other {
		out[k] = v
	}
	pubs := d.Publications
	if pubs == nil {
		pubs = []reference.Publication{}
	}
	out[publicationsKey] = pubs

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing content: %w", err)
	}
	return nil
}

// Find looks a publication up by id, then by DOI, then by normalized title.
func (d *Document) Find(query string) (reference.Publication, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return reference.Publication{}, false
	}

	for _, p := range d.Publications {
		if p.ID == query {
			return p, true
		}
	}
	if doi := bibtex.NormalizeDOI(query); doi != "" {
		for _, p := range d.Publications {
			if bibtex.NormalizeDOI(p.DOI) == doi {
				return p, true
			}
		}
	}
	if title := bibtex.TitleKey(query); title != "" {
		for _, p := range d.Publications {
			if bibtex.TitleKey(p.Title) == title {
				return p, true
			}
		}
	}
	return reference.Publication{}, false
}
