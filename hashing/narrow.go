package hashing

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// utf16LE has no BOM, matching a raw little-endian dump of UTF-16 code units.
var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// narrow converts s to one byte per character. Every rune must lie in
// U+0000..U+00FF; invalid UTF-8 decodes to U+FFFD and therefore fails too.
func narrow(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i, r := range s {
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			return nil, fmt.Errorf("%w: %U at byte offset %d", ErrEncodingOverflow, r, i)
		}
		out = append(out, b)
	}
	return out, nil
}

// widen is the legacy fallback for text that does not narrow: s is dumped
// as UTF-16LE and the resulting bytes are read back as ASCII, so every byte
// at or above 0x80 becomes '?'. Non-ASCII content is mangled on purpose;
// stored digests depend on this exact transformation.
func widen(s string) (string, error) {
	wide, err := utf16LE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return "", fmt.Errorf("%w: utf-16 fallback: %v", ErrEncodingOverflow, err)
	}
	for i, b := range wide {
		if b >= utf8.RuneSelf {
			wide[i] = '?'
		}
	}
	return string(wide), nil
}
