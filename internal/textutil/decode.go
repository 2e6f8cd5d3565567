package textutil

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// unicodeEscape matches JavaScript-style \uXXXX escape sequences.
var unicodeEscape = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)

// bareUnicodeEscape matches escape sequences that lost their backslash
// during earlier processing, e.g. "u00252F". Only the u00XX form is
// recognized; anything wider would swallow legitimate identifiers.
var bareUnicodeEscape = regexp.MustCompile(`u00([0-9a-fA-F]{2})`)

// Decode normalizes encoded text before pattern matching. It applies,
// in order: unicode-escape normalization, percent-decoding, and HTML
// entity decoding. Each stage is best-effort: a malformed sequence is
// left untouched rather than failing the whole buffer, so the result is
// never worse than the input.
//
// Matching happens against the decoded buffer, which means occurrence
// indexes and context snippets must both be taken from Decode's output.
func Decode(raw string) string {
	if raw == "" {
		return raw
	}

	decoded := unicodeEscape.ReplaceAllStringFunc(raw, func(m string) string {
		code, err := strconv.ParseUint(m[2:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})

	decoded = bareUnicodeEscape.ReplaceAllStringFunc(decoded, func(m string) string {
		code, err := strconv.ParseUint(m[3:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})

	decoded = percentDecode(decoded)

	return html.UnescapeString(decoded)
}

// percentDecode decodes %XX sequences one at a time, leaving malformed
// sequences (bad hex digits, truncated input) as-is. This differs from
// url.QueryUnescape, which rejects the entire string on the first bad
// sequence; the scanner needs partial decoding of mixed content.
func percentDecode(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// unhex converts one hex digit to its value.
func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
