package strtransform

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// asciiFoldTable maps the Latin diacritic and ligature runes that
// appear in practice (mostly German and general Western European
// text) to their closest plain-ASCII rendering. It stands in for a
// full transliteration table: a rune it doesn't recognize is not
// guessed at here but left to foldToASCII's NFKD fallback.
var asciiFoldTable = map[rune]string{
	'ä': "a", 'ö': "o", 'ü': "u", 'Ä': "A", 'Ö': "O", 'Ü': "U",
	'ß': "ss", 'ẞ': "SS",
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'å': "a",
	'À': "A", 'Á': "A", 'Â': "A", 'Ã': "A", 'Å': "A",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'Ì': "I", 'Í': "I", 'Î': "I", 'Ï': "I",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ø': "o",
	'Ò': "O", 'Ó': "O", 'Ô': "O", 'Õ': "O", 'Ø': "O",
	'ù': "u", 'ú': "u", 'û': "u",
	'Ù': "U", 'Ú': "U", 'Û': "U",
	'ý': "y", 'ÿ': "y", 'Ý': "Y",
	'ñ': "n", 'Ñ': "N",
	'ç': "c", 'Ç': "C",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
}

// foldToASCII transliterates str, replacing every recognized
// non-ASCII rune with its folded form from asciiFoldTable. Any other
// non-ASCII rune is run through Unicode NFKD decomposition first: a
// precomposed letter like 'ğ' splits into its plain-ASCII base ('g')
// plus a combining mark, the mark is dropped, and the base is kept.
// Any non-ASCII rune still left after that is dropped.
func foldToASCII(str string) string {
	var sb strings.Builder
	sb.Grow(len(str))

	for _, r := range str {
		if r <= 0x7f {
			sb.WriteRune(r)
			continue
		}
		if folded, ok := asciiFoldTable[r]; ok {
			sb.WriteString(folded)
			continue
		}
		for _, dr := range norm.NFKD.String(string(r)) {
			if unicode.Is(unicode.Mn, dr) {
				continue
			}
			if dr <= 0x7f {
				sb.WriteRune(dr)
			}
		}
	}

	return sb.String()
}
