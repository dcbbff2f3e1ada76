package content

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/reference"
)

const zenodoBib = `@article{wallis2024,
  author = {Wallis, Emily J. and {Osborn}, Timothy J. and Michael Taylor},
  title = {{Quantifying exposure biases in early instrumental land surface air temperature observations}},
  journal = {International Journal of Climatology},
  year = {2024},
  doi = {https://doi.org/10.1002/JOC.8401},
  abstract = {Early thermometers were exposed differently. We quantify the \emph{biases} this introduced, region by region.},
  file = {papers/wallis2024.pdf}
}

@misc{station_data,
  author = {Wallis, Emily},
  title = {Station data},
  year = {2023},
  url = {https://zenodo.org/records/1}
}
`

func TestFromBibliography(t *testing.T) {
	got := FromBibliography(zenodoBib)

	want := []reference.Publication{
		{
			ID:      "2024-quantifying-exposure-biases-in-early-instrumental",
			DOI:     "https://doi.org/10.1002/joc.8401",
			Title:   "Quantifying exposure biases in early instrumental land surface air temperature observations",
			Authors: "Wallis, Osborn, Taylor",
			Year:    "2024",
			Type:    "journal",
			Summary: "Early thermometers were exposed differently. We quantify the biases this introduced; region by region.",
			PDF:     "papers/wallis2024.pdf",
		},
		{
			ID:      "2023-station-data",
			DOI:     "https://zenodo.org/records/1",
			Title:   "Station data",
			Authors: "Wallis",
			Year:    "2023",
			Type:    "dataset",
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromBibliography() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromEntry_KeyFallback(t *testing.T) {
	p := FromEntry(bibtex.NewEntry(`@techreport{Tech_Report_7, year = {n.d.}}`))
	if p.ID != "n.d.-tech-report-7" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.Type != "report" {
		t.Errorf("Type = %q", p.Type)
	}

	p = FromEntry(bibtex.NewEntry(`@phdthesis{k, title = {Ωμέγα}}`))
	if p.ID != "item" {
		t.Errorf("ID = %q, want item for a title without ASCII words", p.ID)
	}
}

func TestSurnames(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"Wallis, Emily J. and Osborn, Timothy J.", "Wallis, Osborn"},
		{"Emily Wallis AND Tim Osborn", "Wallis, Osborn"},
		{"{Climatic Research Unit}", "Unit"},
		{"Anderson, Ann and Sandberg, Sam", "Anderson, Sandberg"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Surnames(tt.field); got != tt.want {
			t.Errorf("Surnames(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestMapType(t *testing.T) {
	tests := map[string]string{
		"article":       "journal",
		"InProceedings": "conference",
		"techreport":    "report",
		"phdthesis":     "article",
		"misc":          "dataset",
		"book":          "article",
	}
	for in, want := range tests {
		if got := MapType(in); got != want {
			t.Errorf("MapType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSummary(t *testing.T) {
	long := strings.Repeat("word ", 100)

	tests := []struct {
		name     string
		abstract string
		max      int
		want     string
	}{
		{"empty", "", 300, ""},
		{"one sentence", "Just one.", 300, "Just one."},
		{"short first joins second", "Short. Second one here. Third.", 300, "Short. Second one here."},
		{"long first stands alone", "This first sentence is long enough. Second.", 20, "This first sentence…"},
		{"dashes become semicolons", "Warming, cooling — and drift.", 300, "Warming; cooling; and drift."},
		{"no sentence break", long, 12, "word word…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(tt.abstract, tt.max); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlugWords(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Quantifying exposure biases in early instrumental land surface", "quantifying-exposure-biases-in-early-instrumental"},
		{"Søren's Études", "sren-s-etudes"},
		{"", "item"},
	}

	for _, tt := range tests {
		if got := slugWords(tt.input); got != tt.want {
			t.Errorf("slugWords(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMerge(t *testing.T) {
	existing := []reference.Publication{
		{ID: "old-id", DOI: "10.1002/joc.8401", Title: "Quantifying {exposure} biases", Summary: "Hand-written summary.", Code: "https://github.com/x/y", Year: "2024"},
		{ID: "talk", Title: "A talk", Year: "n/a"},
		{ID: "by-title", Title: "Station Data!", Year: "2023"},
		{ID: "old", Title: "Old paper", Year: "2001"},
	}
	incoming := []reference.Publication{
		{ID: "2023-station-data", Title: "Station data", Year: "2023", Type: "dataset", DOI: "https://zenodo.org/records/1"},
		{ID: "2024-quantifying", DOI: "https://doi.org/10.1002/JOC.8401", Title: "Quantifying exposure biases", Summary: "Generated.", Type: "journal", Year: "2024"},
		{ID: "2010-new", Title: "New paper", Year: "2010"},
	}

	got := Merge(existing, incoming)

	want := []reference.Publication{
		{ID: "old-id", DOI: "10.1002/joc.8401", Title: "Quantifying exposure biases", Summary: "Hand-written summary.", Code: "https://github.com/x/y", Year: "2024", Type: "journal"},
		{ID: "by-title", Title: "Station Data!", Year: "2023", Type: "dataset", DOI: "https://zenodo.org/records/1"},
		{ID: "2010-new", Title: "New paper", Year: "2010"},
		{ID: "old", Title: "Old paper", Year: "2001"},
		{ID: "talk", Title: "A talk", Year: "n/a"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}
