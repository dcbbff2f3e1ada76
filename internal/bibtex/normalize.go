package bibtex

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlugLen is the maximum length of generated citation keys.
const DefaultSlugLen = 60

var (
	doiPrefixRegex   = regexp.MustCompile(`(?i)^(?:https?://)?(?:dx\.)?doi\.org/`)
	doiLabelRegex    = regexp.MustCompile(`(?i)^doi:\s*`)
	doiTrailingRegex = regexp.MustCompile(`[\s.,;:]+$`)
	nonAlnumRegex    = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	slugRunRegex     = regexp.MustCompile(`[^a-z0-9]+`)
)

var braceStripper = strings.NewReplacer("{", "", "}", "")

// NormalizeDOI reduces a DOI, DOI URL, or "doi:" label to its bare lower-case
// form. DOIs that normalize identically identify the same work.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(braceStripper.Replace(doi))
	doi = doiLabelRegex.ReplaceAllString(doi, "")
	doi = doiPrefixRegex.ReplaceAllString(doi, "")
	if i := strings.IndexByte(doi, '#'); i >= 0 {
		doi = doi[:i]
	}
	doi = doiTrailingRegex.ReplaceAllString(doi, "")
	return strings.ToLower(strings.TrimSpace(doi))
}

// DOIURL returns the https://doi.org/ link for a DOI, or "" if it is empty.
func DOIURL(doi string) string {
	doi = NormalizeDOI(doi)
	if doi == "" {
		return ""
	}
	return "https://doi.org/" + doi
}

// NormalizeTitle lower-cases a title and collapses punctuation and braces so
// that cosmetic differences do not prevent a match.
func NormalizeTitle(title string) string {
	title = strings.ToLower(braceStripper.Replace(title))
	title = nonAlnumRegex.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// TitleKey is the index key for a title that may carry LaTeX markup.
// For plain text it equals NormalizeTitle.
func TitleKey(title string) string {
	return NormalizeTitle(FlattenMacros(ExpandAccents(title)))
}

// Slugify turns text into a lower-case, hyphen-separated ASCII slug of at
// most maxLen bytes. Diacritics are folded (é -> e). Returns "citation" if
// nothing survives.
func Slugify(text string, maxLen int) string {
	slug := slugRunRegex.ReplaceAllString(strings.ToLower(FoldDiacritics(text)), "-")
	slug = strings.Trim(slug, "-")
	if maxLen > 0 && len(slug) > maxLen {
		slug = strings.TrimRight(slug[:maxLen], "-")
	}
	if slug == "" {
		return "citation"
	}
	return slug
}

// FoldDiacritics strips combining marks after canonical decomposition.
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
