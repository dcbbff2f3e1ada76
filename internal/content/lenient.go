package content

import (
	"strings"
	"unicode"
)

// relax removes what hand-edited content files tend to contain but JSON does
// not allow: a byte order mark, // and /* */ comments, and trailing commas.
// String literals are left untouched.
func relax(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return stripTrailingCommas(stripComments(s))
}

func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch c {
			case '\\':
				if i+1 < len(s) {
					i++
					b.WriteByte(s[i])
				}
			case '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += 2 + end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch c {
			case '\\':
				if i+1 < len(s) {
					i++
					b.WriteByte(s[i])
				}
			case '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
		}
		if c == ',' {
			rest := strings.TrimLeftFunc(s[i+1:], unicode.IsSpace)
			if strings.HasPrefix(rest, "]") || strings.HasPrefix(rest, "}") {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
