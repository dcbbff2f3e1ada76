// Package bibtex splits, indexes, and normalizes BibTeX bibliography text.
//
// Parsing is best effort: nothing in this package panics on malformed input.
// Entries are kept as raw text and fields are extracted on demand.
package bibtex

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnbalanced is returned by SplitStrict when an entry never closes its braces.
var ErrUnbalanced = errors.New("unbalanced braces")

// entryStartRegex matches the start of an entry: @type{
var entryStartRegex = regexp.MustCompile(`@([A-Za-z][\w-]*)\s*\{`)

// Entry is the raw text of one @type{key, ...} entry, braces included.
type Entry struct {
	text   string
	offset int
}

// NewEntry wraps raw entry text. The text is not validated.
func NewEntry(text string) Entry {
	return Entry{text: text}
}

// Text returns the entry exactly as it appeared in the source.
func (e Entry) Text() string {
	return e.text
}

// Offset returns the byte offset of the entry's @ in the source text.
func (e Entry) Offset() int {
	return e.offset
}

// Type returns the lower-cased entry type (article, inproceedings, ...).
func (e Entry) Type() string {
	m := entryStartRegex.FindStringSubmatch(e.text)
	if len(m) < 2 {
		return ""
	}
	return strings.ToLower(m[1])
}

// Key returns the citation key, or "" if the entry has none.
func (e Entry) Key() string {
	loc := entryStartRegex.FindStringIndex(e.text)
	if loc == nil {
		return ""
	}
	body := e.text[loc[1]:]
	end := strings.IndexAny(body, ",}")
	if end < 0 || body[end] != ',' {
		return ""
	}
	key := strings.TrimSpace(body[:end])
	if strings.Contains(key, "=") {
		return ""
	}
	return key
}

// Field returns the trimmed value of the named field, or "" if absent.
func (e Entry) Field(name string) string {
	return ExtractField(e.text, name)
}

// Split segments bibliography text into entries in source order.
//
// An entry whose braces never balance is dropped and scanning stops there.
func Split(text string) []Entry {
	entries, _ := scanEntries(text)
	return entries
}

// SplitStrict is Split that reports truncation. The returned entries are the
// ones read before the unbalanced entry; the error wraps ErrUnbalanced.
func SplitStrict(text string) ([]Entry, error) {
	entries, bad := scanEntries(text)
	if bad >= 0 {
		return entries, fmt.Errorf("entry at offset %d: %w", bad, ErrUnbalanced)
	}
	return entries, nil
}

// scanEntries returns the balanced entries and the offset of the first
// unterminated one (-1 if none).
func scanEntries(text string) ([]Entry, int) {
	entries := []Entry{}
	pos := 0
	for pos < len(text) {
		loc := entryStartRegex.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		open := pos + loc[1] - 1

		end := matchBrace(text, open)
		if end < 0 {
			return entries, start
		}
		entries = append(entries, Entry{text: text[start : end+1], offset: start})
		pos = end + 1
	}
	return entries, -1
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func matchBrace(s string, open int) int {
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

// Field is one name/value pair of a fully parsed entry.
type Field struct {
	Name  string
	Value string
}

// Fields parses every field of the entry in source order. Names are
// lower-cased and one outer layer of braces or quotes is removed from values.
func (e Entry) Fields() []Field {
	loc := entryStartRegex.FindStringIndex(e.text)
	if loc == nil {
		return nil
	}
	body := e.text[loc[1]:]
	body = strings.TrimSuffix(strings.TrimSpace(body), "}")

	comma := strings.IndexByte(body, ',')
	if comma < 0 {
		return nil
	}
	if key := body[:comma]; strings.Contains(key, "=") {
		// No citation key; the first comma ends a field.
		comma = -1
	}

	var fields []Field
	for _, token := range splitTopLevel(body[comma+1:]) {
		if f, ok := parseFieldToken(token); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// splitTopLevel splits on commas that are outside braces and quotes.
func splitTopLevel(s string) []string {
	var tokens []string
	var buf strings.Builder
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inQuote:
			if ch == '"' && (i == 0 || s[i-1] != '\\') {
				inQuote = false
			}
		case ch == '"' && depth == 0:
			inQuote = true
		case ch == '{':
			depth++
		case ch == '}':
			depth--
		case ch == ',' && depth == 0:
			tokens = append(tokens, buf.String())
			buf.Reset()
			continue
		}
		buf.WriteByte(ch)
	}
	if strings.TrimSpace(buf.String()) != "" {
		tokens = append(tokens, buf.String())
	}
	return tokens
}

var fieldTokenRegex = regexp.MustCompile(`(?s)^\s*([A-Za-z0-9_:-]+)\s*=\s*(.*?)\s*$`)

func parseFieldToken(token string) (Field, bool) {
	m := fieldTokenRegex.FindStringSubmatch(token)
	if m == nil {
		return Field{}, false
	}
	value := m[2]
	if len(value) >= 2 {
		if (value[0] == '{' && value[len(value)-1] == '}' && matchBrace(value, 0) == len(value)-1) ||
			(value[0] == '"' && value[len(value)-1] == '"') {
			value = value[1 : len(value)-1]
		}
	}
	return Field{Name: strings.ToLower(m[1]), Value: collapseSpaces(value)}, true
}

var spaceRunRegex = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRunRegex.ReplaceAllString(s, " "))
}
