package bibtex

import (
	"regexp"
	"strings"
	"sync"
)

// fieldStrategy extracts a named field's value in one quoting style.
type fieldStrategy func(text, name string) (string, bool)

// fieldStrategies are tried in order; the first success wins. Braced values
// come first because they may contain commas that would cut a bare match.
var fieldStrategies = []fieldStrategy{
	bracedValue,
	quotedValue,
	bareValue,
}

// ExtractField returns the value of the named field in an entry's text,
// trimmed, or "" if the field is absent. The name is matched
// case-insensitively on a word boundary.
func ExtractField(text, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	for _, strategy := range fieldStrategies {
		if v, ok := strategy(text, name); ok {
			return v
		}
	}
	return ""
}

// fieldPatterns holds the compiled patterns for one field name.
type fieldPatterns struct {
	braced *regexp.Regexp // name = {
	quoted *regexp.Regexp // name = "..."
	bare   *regexp.Regexp // name = value
}

var patternCache sync.Map // lower-cased name -> *fieldPatterns

func patternsFor(name string) *fieldPatterns {
	key := strings.ToLower(name)
	if p, ok := patternCache.Load(key); ok {
		return p.(*fieldPatterns)
	}
	prefix := `(?i)\b` + regexp.QuoteMeta(key) + `\s*=\s*`
	p := &fieldPatterns{
		braced: regexp.MustCompile(prefix + `\{`),
		quoted: regexp.MustCompile(prefix + `"((?:[^"\\]|\\.)*)"`),
		bare:   regexp.MustCompile(prefix + `([^\s"{},][^,}\n]*)`),
	}
	actual, _ := patternCache.LoadOrStore(key, p)
	return actual.(*fieldPatterns)
}

// bracedValue matches name = { ... } with balanced inner braces.
func bracedValue(text, name string) (string, bool) {
	for _, loc := range patternsFor(name).braced.FindAllStringIndex(text, -1) {
		open := loc[1] - 1
		end := matchBrace(text, open)
		if end < 0 {
			continue
		}
		return trimValue(text[open+1 : end]), true
	}
	return "", false
}

// quotedValue matches name = "...".
func quotedValue(text, name string) (string, bool) {
	m := patternsFor(name).quoted.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return trimValue(m[1]), true
}

// bareValue matches name = value, terminated by a comma, brace, or newline.
func bareValue(text, name string) (string, bool) {
	m := patternsFor(name).bare.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return trimValue(m[1]), true
}

func trimValue(v string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(v), ", "))
}
