package bibtex

import (
	"strings"
	"testing"
)

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.1002/JOC.8401", "10.1002/joc.8401"},
		{"https://doi.org/10.1002/joc.8401", "10.1002/joc.8401"},
		{"http://dx.doi.org/10.1002/joc.8401", "10.1002/joc.8401"},
		{"doi.org/10.1002/joc.8401", "10.1002/joc.8401"},
		{"doi:10.1002/joc.8401.", "10.1002/joc.8401"},
		{"DOI: 10.1002/joc.8401", "10.1002/joc.8401"},
		{"{10.1002/joc.8401}", "10.1002/joc.8401"},
		{"https://doi.org/10.1002/joc.8401#abstract", "10.1002/joc.8401"},
		{"  ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeDOI(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := NormalizeDOI(got); again != got {
				t.Errorf("NormalizeDOI is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeDOI_Equivalence(t *testing.T) {
	a := NormalizeDOI("10.1002/JOC.8401")
	b := NormalizeDOI("https://doi.org/10.1002/joc.8401")
	c := NormalizeDOI("doi:10.1002/joc.8401.")
	if a != b || b != c {
		t.Errorf("DOI spellings should normalize identically: %q, %q, %q", a, b, c)
	}
}

func TestDOIURL(t *testing.T) {
	if got := DOIURL("DOI:10.1002/JOC.8401"); got != "https://doi.org/10.1002/joc.8401" {
		t.Errorf("DOIURL() = %q", got)
	}
	if got := DOIURL(""); got != "" {
		t.Errorf("DOIURL(\"\") = %q, want empty", got)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Quantifying Exposure-Biases!", "quantifying exposure biases"},
		{"quantifying exposure biases", "quantifying exposure biases"},
		{"The {DNA} of   Things: a Review", "the dna of things a review"},
		{"  ---  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleKey_StripsMarkup(t *testing.T) {
	got := TitleKey(`On \emph{M{\"u}ller} and $x^2$ things`)
	if got != "on müller and things" {
		t.Errorf("TitleKey() = %q, want %q", got, "on müller and things")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"basic", "Quantifying exposure biases", "quantifying-exposure-biases"},
		{"diacritics", "Über Café Straße", "uber-cafe-stra-e"},
		{"punctuation runs", "  A -- B!! C  ", "a-b-c"},
		{"empty", "", "citation"},
		{"only symbols", "!!!", "citation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input, DefaultSlugLen); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify_Truncates(t *testing.T) {
	got := Slugify(strings.Repeat("abc ", 30), DefaultSlugLen)
	if len(got) > DefaultSlugLen {
		t.Errorf("Slugify() length = %d, want <= %d", len(got), DefaultSlugLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("Slugify() = %q should not end with a hyphen", got)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`Land \& sea`, "Land & sea"},
		{`{\'E}cole {\"u}ber`, "École über"},
		{`\textit{in situ}   data`, "in situ data"},
		{`1990--2000`, "1990–2000"},
		{`Fran\c{c}ois`, "François"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
