package bibtex

import (
	"strings"
	"testing"
)

func TestNormalize_CleansValues(t *testing.T) {
	input := `@article{k,
  title = {The {DNA} of \emph{Things}},
  doi = "10.1/X",
  author = {M{\"u}ller, Hans}
}`

	want := `@article{k,
  author = {Müller, Hans},
  title = {The DNA of Things},
  doi = {10.1/X}
}
`

	if got := Normalize(input); got != want {
		t.Errorf("Normalize() =\n%s\nwant:\n%s", got, want)
	}
}

func TestNormalize_SkipsCommentsAndKeepsOrder(t *testing.T) {
	input := `@comment{jabref-meta: x}
@misc{b, zeta = {z}, alpha = {a}, year = 2020}
@article{a, title = {T}}`

	got := Normalize(input)
	entries := Split(got)
	if len(entries) != 2 {
		t.Fatalf("Normalize() produced %d entries, want 2:\n%s", len(entries), got)
	}
	if entries[0].Key() != "b" || entries[1].Key() != "a" {
		t.Errorf("Normalize() reordered entries: %q, %q", entries[0].Key(), entries[1].Key())
	}

	// Known fields first, the rest alphabetically.
	yearPos := strings.Index(got, "year")
	alphaPos := strings.Index(got, "alpha")
	zetaPos := strings.Index(got, "zeta")
	if !(yearPos < alphaPos && alphaPos < zetaPos) {
		t.Errorf("unexpected field order:\n%s", got)
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize("no entries here"); got != "" {
		t.Errorf("Normalize() = %q, want empty", got)
	}
}

func TestFormatEntry_RoundTrip(t *testing.T) {
	text := FormatEntry("article", "key1", []Field{
		{Name: "title", Value: "A title, with a comma"},
		{Name: "year", Value: "2024"},
	})

	entries, err := SplitStrict(text)
	if err != nil {
		t.Fatalf("SplitStrict() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].Field("title"); got != "A title, with a comma" {
		t.Errorf("title = %q", got)
	}
	if strings.Contains(text, "},\n}") {
		t.Errorf("last field should not carry a trailing comma:\n%s", text)
	}
}
