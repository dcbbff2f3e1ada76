package content

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/reference"
)

const (
	idWords      = 6
	idMaxLen     = 60
	summaryChars = 300
)

var (
	surnameSeparator = regexp.MustCompile(`(?i)\s+\band\b\s+`)
	pdfRegex         = regexp.MustCompile(`(?i)([^\s;:]+\.pdf)\b`)
	idWordRegex      = regexp.MustCompile(`[a-z0-9]+`)
	sentenceBreak    = regexp.MustCompile(`[.!?]\s+[A-Z0-9]`)
	clauseRegex      = regexp.MustCompile(`\s*[,–—]\s*`)
	doubleSemicolon  = regexp.MustCompile(`\s*;\s*;`)
)

// FromBibliography normalizes a bibliography and builds one publication
// record per entry, in source order.
func FromBibliography(text string) []reference.Publication {
	entries := bibtex.Split(bibtex.Normalize(text))
	pubs := make([]reference.Publication, 0, len(entries))
	for _, e := range entries {
		pubs = append(pubs, FromEntry(e))
	}
	return pubs
}

// FromEntry builds a publication record from a normalized entry.
func FromEntry(e bibtex.Entry) reference.Publication {
	f := make(map[string]string)
	for _, field := range e.Fields() {
		f[field.Name] = field.Value
	}

	title := strings.TrimSpace(stripBraces(f["title"]))
	year := strings.TrimSpace(f["year"])

	id := slugWords(title)
	if title == "" {
		id = slugWords(e.Key())
	}
	if year != "" {
		id = year + "-" + id
	}

	doi := bibtex.DOIURL(f["doi"])
	if doi == "" {
		doi = strings.TrimSpace(f["url"])
	}

	return reference.Publication{
		ID:      id,
		DOI:     doi,
		Title:   title,
		Authors: Surnames(f["author"]),
		Year:    reference.FlexibleString(year),
		Type:    MapType(e.Type()),
		Summary: stripBraces(Summary(f["abstract"], summaryChars)),
		PDF:     pickPDF(f),
	}
}

// Surnames reduces a BibTeX author field to "Last, Last, Last".
func Surnames(field string) string {
	var out []string
	for _, part := range surnameSeparator.Split(field, -1) {
		part = strings.TrimSpace(stripBraces(part))
		if part == "" {
			continue
		}
		if last, _, found := strings.Cut(part, ","); found {
			out = append(out, strings.TrimSpace(last))
			continue
		}
		tokens := strings.Fields(part)
		out = append(out, tokens[len(tokens)-1])
	}
	return strings.Join(out, ", ")
}

// MapType maps a BibTeX entry type to the site's publication type.
func MapType(entryType string) string {
	switch strings.ToLower(entryType) {
	case "article":
		return "journal"
	case "inproceedings", "conference", "proceedings":
		return "conference"
	case "techreport", "report":
		return "report"
	case "misc", "dataset", "data":
		return "dataset"
	default:
		return "article"
	}
}

// Summary condenses an abstract to its first sentence, or first two when
// the first is short, capped at maxChars runes.
func Summary(abstract string, maxChars int) string {
	text := bibtex.PlainText(abstract)
	if text == "" {
		return ""
	}

	sents := splitSentences(text)
	if len(sents) == 0 {
		return truncateRunes(text, maxChars)
	}

	out := sents[0]
	if float64(utf8.RuneCountInString(out)) < float64(maxChars)*0.55 && len(sents) > 1 {
		out += " " + sents[1]
	}
	out = clauseRegex.ReplaceAllString(out, "; ")
	out = doubleSemicolon.ReplaceAllString(out, "; ")
	out = strings.Join(strings.Fields(out), " ")

	if utf8.RuneCountInString(out) > maxChars {
		cut := string([]rune(out)[:maxChars])
		if i := strings.LastIndex(cut, " "); i >= 0 {
			cut = cut[:i]
		}
		out = cut + "…"
	}
	return out
}

func splitSentences(text string) []string {
	var sents []string
	start := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		sents = appendTrimmed(sents, text[start:loc[0]+1])
		start = loc[1] - 1
	}
	return appendTrimmed(sents, text[start:])
}

func appendTrimmed(list []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		list = append(list, s)
	}
	return list
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return strings.TrimRight(s, " ")
	}
	return strings.TrimRight(string(r[:n]), " ") + "…"
}

func pickPDF(f map[string]string) string {
	for _, name := range []string{"file", "pdf", "url"} {
		if m := pdfRegex.FindStringSubmatch(f[name]); m != nil {
			return m[1]
		}
	}
	return ""
}

// slugWords builds an id slug from at most six ASCII words, or "item".
func slugWords(text string) string {
	folded := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, bibtex.FoldDiacritics(text))

	words := idWordRegex.FindAllString(strings.ToLower(folded), -1)
	if len(words) > idWords {
		words = words[:idWords]
	}
	s := strings.Join(words, "-")
	if len(s) > idMaxLen {
		s = s[:idMaxLen]
	}
	if s = strings.Trim(s, "-"); s == "" {
		return "item"
	}
	return s
}

func stripBraces(s string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(s)
}

// Merge folds records built from the bibliography into the existing
// publications. A new record matches an existing one by DOI, then by
// normalized title; matched pairs keep every non-empty existing value.
// Unmatched existing records are kept. The result is sorted by year,
// newest first; records without a numeric year sort last.
func Merge(existing, incoming []reference.Publication) []reference.Publication {
	old := make([]reference.Publication, len(existing))
	byDOI := make(map[string]int)
	byTitle := make(map[string]int)
	for i, p := range existing {
		p.Title = stripBraces(p.Title)
		p.Authors = stripBraces(p.Authors)
		p.Summary = stripBraces(p.Summary)
		old[i] = p

		if doi := bibtex.NormalizeDOI(p.DOI); doi != "" {
			byDOI[doi] = i
		}
		if title := bibtex.NormalizeTitle(p.Title); title != "" {
			byTitle[title] = i
		}
	}

	merged := make([]reference.Publication, 0, len(existing)+len(incoming))
	used := make(map[int]bool)
	for _, p := range incoming {
		i, ok := -1, false
		if doi := bibtex.NormalizeDOI(p.DOI); doi != "" {
			i, ok = byDOI[doi]
		}
		if !ok {
			if title := bibtex.NormalizeTitle(p.Title); title != "" {
				i, ok = byTitle[title]
			}
		}
		if ok {
			merged = append(merged, mergeRecord(old[i], p))
			used[i] = true
		} else {
			merged = append(merged, p)
		}
	}
	for i, p := range old {
		if !used[i] {
			merged = append(merged, p)
		}
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return yearKey(merged[a]) > yearKey(merged[b])
	})
	return merged
}

// mergeRecord starts from the new record and keeps each non-empty old value.
func mergeRecord(old, updated reference.Publication) reference.Publication {
	out := updated
	out.ID = prefer(old.ID, updated.ID)
	out.DOI = prefer(old.DOI, updated.DOI)
	out.Title = prefer(old.Title, updated.Title)
	out.Authors = prefer(old.Authors, updated.Authors)
	out.Year = reference.FlexibleString(prefer(old.Year.String(), updated.Year.String()))
	out.Type = prefer(old.Type, updated.Type)
	out.Summary = prefer(old.Summary, updated.Summary)
	out.PDF = prefer(old.PDF, updated.PDF)
	out.Cite = prefer(old.Cite, updated.Cite)
	out.Data = prefer(old.Data, updated.Data)
	out.Code = prefer(old.Code, updated.Code)
	out.Viz = prefer(old.Viz, updated.Viz)
	out.Thumb = prefer(old.Thumb, updated.Thumb)
	return out
}

func prefer(old, updated string) string {
	if strings.TrimSpace(old) != "" {
		return old
	}
	return updated
}

func yearKey(p reference.Publication) int {
	y, err := strconv.Atoi(strings.TrimSpace(p.Year.String()))
	if err != nil {
		return -1
	}
	return y
}
