package models

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText prepares submitted item text for validation and storage.
// Invalid UTF-8 is decoded as Latin-1 when the input holds no valid multibyte
// sequence at all, otherwise the bad bytes become U+FFFD. The result is put
// into NFC so the character count is stable, control characters are dropped
// and surrounding whitespace is trimmed.
func NormalizeText(text string) string {
	if !utf8.ValidString(text) {
		text = repairUTF8(text)
	}
	text = norm.NFC.String(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if r == '\t' {
				return ' '
			}
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}

// repairUTF8 turns invalid UTF-8 into valid text without touching valid runes
func repairUTF8(text string) string {
	if hasMultibyteRune(text) {
		return strings.ToValidUTF8(text, "\uFFFD")
	}
	decoded, _, err := transform.String(charmap.ISO8859_1.NewDecoder(), text)
	if err != nil {
		return strings.ToValidUTF8(text, "\uFFFD")
	}
	return decoded
}

// hasMultibyteRune reports whether s contains at least one valid multibyte UTF-8 sequence
func hasMultibyteRune(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != utf8.RuneError && size > 1 {
			return true
		}
		i += size
	}
	return false
}
