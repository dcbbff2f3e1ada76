package bibtex

import (
	"sort"
	"strings"
)

// PreferredFieldOrder is the field order used when re-emitting entries.
// Fields not listed follow in alphabetical order.
var PreferredFieldOrder = []string{
	"author", "title", "year", "journal", "booktitle", "publisher", "editor",
	"volume", "number", "pages", "doi", "url", "institution", "organization",
	"address", "month", "note", "abstract", "keywords", "file",
}

// FormatEntry writes an entry with exactly one brace pair around each value
// and no trailing comma after the last field.
func FormatEntry(entryType, key string, fields []Field) string {
	var b strings.Builder
	b.WriteString("@")
	b.WriteString(entryType)
	b.WriteString("{")
	b.WriteString(key)
	b.WriteString(",\n")

	for i, f := range orderFields(fields) {
		b.WriteString("  ")
		b.WriteString(f.Name)
		b.WriteString(" = {")
		b.WriteString(f.Value)
		b.WriteString("}")
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	b.WriteString("}")
	return b.String()
}

// Normalize re-emits every entry of a bibliography with cleaned values:
// LaTeX macros flattened, inner braces removed, fields in preferred order.
// Entries are separated by a blank line.
func Normalize(text string) string {
	entries := Split(text)
	chunks := make([]string, 0, len(entries))
	for _, e := range entries {
		switch e.Type() {
		case "comment", "preamble", "string":
			continue
		}
		fields := e.Fields()
		cleaned := make([]Field, 0, len(fields))
		for _, f := range fields {
			cleaned = append(cleaned, Field{Name: f.Name, Value: CleanValue(f.Value)})
		}
		chunks = append(chunks, FormatEntry(e.Type(), e.Key(), dedupeFields(cleaned)))
	}
	if len(chunks) == 0 {
		return ""
	}
	return strings.Join(chunks, "\n\n") + "\n"
}

// dedupeFields keeps the last value for repeated field names.
func dedupeFields(fields []Field) []Field {
	pos := make(map[string]int, len(fields))
	var out []Field
	for _, f := range fields {
		if i, ok := pos[f.Name]; ok {
			out[i] = f
			continue
		}
		pos[f.Name] = len(out)
		out = append(out, f)
	}
	return out
}

func orderFields(fields []Field) []Field {
	rank := make(map[string]int, len(PreferredFieldOrder))
	for i, name := range PreferredFieldOrder {
		rank[name] = i
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i].Name]
		rj, jok := rank[out[j].Name]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out
}
