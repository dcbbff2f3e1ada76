package bibtex

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// \emph{x}, \textit[opt]{x}, \url{x} -> x (non-nested argument only)
	macroRegex      = regexp.MustCompile(`\\[A-Za-z]+\*?(?:\s*\[[^\]]*\])?\s*\{([^{}]*?)\}`)
	inlineMathRegex = regexp.MustCompile(`\$[^$]*\$`)
	// \"u, \"{u}, {\"u}, \'{e}, \c{c}
	accentRegex = regexp.MustCompile(`\{?\\(["'^~` + "`" + `=.]|c\s+|c\{)\s*\{?([A-Za-z])\}?\}?`)
)

var combiningMarks = map[string]rune{
	`"`: '\u0308',
	`'`: '\u0301',
	"`": '\u0300',
	`^`: '\u0302',
	`~`: '\u0303',
	`=`: '\u0304',
	`.`: '\u0307',
	`c`: '\u0327',
}

var latexUnescaper = strings.NewReplacer(
	`\&`, "&",
	`\%`, "%",
	`\$`, "$",
	`\#`, "#",
	`\_`, "_",
	`---`, "—",
	`--`, "–",
	`~`, " ",
)

// ExpandAccents replaces LaTeX accent commands with composed characters.
func ExpandAccents(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return accentRegex.ReplaceAllStringFunc(s, func(m string) string {
		sub := accentRegex.FindStringSubmatch(m)
		mark, ok := combiningMarks[strings.Trim(sub[1], " {")]
		if !ok {
			return m
		}
		return norm.NFC.String(sub[2] + string(mark))
	})
}

// FlattenMacros unwraps simple \command{arg} wrappers and drops inline math.
func FlattenMacros(s string) string {
	s = inlineMathRegex.ReplaceAllString(s, "")
	for i := 0; i < 10; i++ {
		next := macroRegex.ReplaceAllString(s, "$1")
		if next == s {
			break
		}
		s = next
	}
	return s
}

// CleanValue flattens a field value to a single-spaced string with no
// braces, keeping LaTeX escapes. Used when re-emitting BibTeX.
func CleanValue(s string) string {
	s = FlattenMacros(ExpandAccents(s))
	return collapseSpaces(braceStripper.Replace(s))
}

// Unescape undoes LaTeX character escapes and turns -- and --- into dashes.
func Unescape(s string) string {
	return latexUnescaper.Replace(s)
}

// PlainText converts a field value to display text: accents composed,
// macros flattened, braces removed, escapes undone.
func PlainText(s string) string {
	return collapseSpaces(Unescape(CleanValue(s)))
}
