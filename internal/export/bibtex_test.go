package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/reference"
)

func TestFromPublication_BasicArticle(t *testing.T) {
	pub := reference.Publication{
		ID:      "2024-quantifying",
		DOI:     "https://doi.org/10.1002/JOC.8401",
		Title:   "Quantifying exposure biases",
		Authors: "Wallis, Osborn, Taylor",
		Year:    "2024",
	}

	got := FromPublication(pub)

	want := `@article{2024-quantifying-exposure-biases,
  author = {Wallis and Osborn and Taylor},
  title = {Quantifying exposure biases},
  year = {2024},
  doi = {10.1002/joc.8401}
}`
	if got != want {
		t.Errorf("FromPublication() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFromPublication_OmitsEmptyFields(t *testing.T) {
	got := FromPublication(reference.Publication{Title: "Only a title"})

	if !strings.HasPrefix(got, "@article{only-a-title,") {
		t.Errorf("key without a year should be the title slug, got:\n%s", got)
	}
	for _, field := range []string{"author", "year", "doi"} {
		if strings.Contains(got, field+" =") {
			t.Errorf("FromPublication() should omit empty %s, got:\n%s", field, got)
		}
	}
	if strings.Contains(got, "},\n}") {
		t.Errorf("FromPublication() should not leave a trailing comma, got:\n%s", got)
	}
}

func TestFromPublication_RoundTrip(t *testing.T) {
	pubs := []reference.Publication{
		{Title: "Quantifying exposure biases", Year: "2024", Authors: "Wallis and Osborn"},
		{Title: "Unbalanced {brace title", Year: "2023"},
		{Title: "Close} first", Authors: "A; B; C"},
		{Title: "", Year: "2020"},
		{},
	}

	for _, pub := range pubs {
		text := FromPublication(pub)

		entries, err := bibtex.SplitStrict(text)
		if err != nil {
			t.Fatalf("SplitStrict(%q) error = %v", text, err)
		}
		if len(entries) != 1 {
			t.Fatalf("synthesized entry split into %d entries:\n%s", len(entries), text)
		}

		e := entries[0]
		if e.Type() != "article" {
			t.Errorf("Type() = %q, want article", e.Type())
		}
		if pub.Year != "" && e.Field("year") != pub.Year.String() {
			t.Errorf("year = %q, want %q", e.Field("year"), pub.Year)
		}
		if pub.Title != "" && e.Field("title") == "" {
			t.Errorf("title missing from:\n%s", text)
		}
	}
}

func TestCiteKey(t *testing.T) {
	tests := []struct {
		pub  reference.Publication
		want string
	}{
		{reference.Publication{Title: "Hello, World!", Year: "2024"}, "2024-hello-world"},
		{reference.Publication{Title: "Évolution des températures"}, "evolution-des-temperatures"},
		{reference.Publication{Year: "2021"}, "2021-citation"},
		{reference.Publication{}, "citation"},
	}

	for _, tt := range tests {
		if got := CiteKey(tt.pub); got != tt.want {
			t.Errorf("CiteKey(%+v) = %q, want %q", tt.pub, got, tt.want)
		}
	}
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{nil, ""},
		{[]string{"Smith, John"}, "Smith, John"},
		{[]string{"Smith, John", "  Doe,   Jane "}, "Smith, John and Doe, Jane"},
		{[]string{"{Acme} Consortium", ""}, "Acme Consortium"},
	}

	for _, tt := range tests {
		if got := formatAuthors(tt.names); got != tt.want {
			t.Errorf("formatAuthors(%q) = %q, want %q", tt.names, got, tt.want)
		}
	}
}

func TestWriteBibFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, err := WriteBibFile(dir, "x.bib", "@misc{x, title = {X}}")
	if err != nil {
		t.Fatalf("WriteBibFile() error = %v", err)
	}
	if path != filepath.Join(dir, "x.bib") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "@misc{x, title = {X}}\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestAppendToBibFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")

	if err := AppendToBibFile(path, "@misc{a, title = {A}}\n"); err != nil {
		t.Fatal(err)
	}
	if err := AppendToBibFile(path, "@misc{b, title = {B}}\n"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	idx := bibtex.BuildIndex(string(data))
	if idx.Len() != 2 {
		t.Errorf("appended file has %d entries, want 2", idx.Len())
	}
	if !idx.HasEntry("b", "") {
		t.Error("second entry not found after append")
	}
}
