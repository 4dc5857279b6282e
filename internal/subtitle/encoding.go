package subtitle

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText converts raw subtitle bytes to a string. The origins emit
// either UTF-8 or windows-1251 with no declared charset, so decoding is a
// heuristic: a BOM, or valid UTF-8 that actually contains Cyrillic and no
// replacement markers, is taken as UTF-8; everything else is treated as
// windows-1251.
func decodeText(payload []byte) string {
	if bytes.HasPrefix(payload, utf8BOM) {
		return string(payload[len(utf8BOM):])
	}

	if utf8.Valid(payload) {
		text := string(payload)
		if containsCyrillic(text) && !strings.ContainsRune(text, utf8.RuneError) {
			return text
		}
	}

	decoded, err := charmap.Windows1251.NewDecoder().Bytes(payload)
	if err != nil {
		// The decoder replaces unmappable bytes rather than failing; an
		// error here means something deeper went wrong, and the raw
		// bytes are the best remaining answer.
		return string(payload)
	}
	return string(decoded)
}

func containsCyrillic(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
