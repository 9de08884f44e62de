package markup

import (
	"sort"
	"strings"
)

// entityTable maps the supported named character references to their rune.
// &lt; &gt; and &quot; are absent; decoding runs before scanning and must not
// create delimiters.
var entityTable = map[string]rune{
	"&Aacute;": 'Á',
	"&aacute;": 'á',
	"&Acirc;":  'Â',
	"&acirc;":  'â',
	"&amp;":    '&',
	"&Auml;":   'Ä',
	"&auml;":   'ä',
	"&Ccedil;": 'Ç',
	"&ccedil;": 'ç',
	"&Eacute;": 'É',
	"&eacute;": 'é',
	"&Ecirc;":  'Ê',
	"&ecirc;":  'ê',
	"&Euml;":   'Ë',
	"&euml;":   'ë',
	"&Iacute;": 'Í',
	"&iacute;": 'í',
	"&Icirc;":  'Î',
	"&icirc;":  'î',
	"&iquest;": '¿',
	"&Iuml;":   'Ï',
	"&iuml;":   'ï',
	"&nbsp;":   '\u00a0',
	"&Ntilde;": 'Ñ',
	"&ntilde;": 'ñ',
	"&Oacute;": 'Ó',
	"&oacute;": 'ó',
	"&Ocirc;":  'Ô',
	"&ocirc;":  'ô',
	"&Ouml;":   'Ö',
	"&ouml;":   'ö',
	"&Uacute;": 'Ú',
	"&uacute;": 'ú',
	"&Ucirc;":  'Û',
	"&ucirc;":  'û',
	"&Uuml;":   'Ü',
	"&uuml;":   'ü',
	"&Yacute;": 'Ý',
	"&yacute;": 'ý',
	"&yuml;":   'ÿ',
}

var entityReplacer = newEntityReplacer()

func newEntityReplacer() *strings.Replacer {
	keys := make([]string, 0, len(entityTable))
	for k := range entityTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, string(entityTable[k]))
	}
	return strings.NewReplacer(pairs...)
}

// Entities returns a copy of the entity table.
func Entities() map[string]rune {
	out := make(map[string]rune, len(entityTable))
	for k, v := range entityTable {
		out[k] = v
	}
	return out
}

// DecodeEntities replaces every known entity until none remains.
//
// A decoded "&" can complete a new reference with the text that follows it
// ("&amp;eacute;"), so passes repeat until the text stops changing. Each pass
// that changes the text shortens it, which bounds the loop.
func DecodeEntities(s string) string {
	if strings.IndexByte(s, '&') < 0 {
		return s
	}
	for {
		next := entityReplacer.Replace(s)
		if next == s {
			return s
		}
		s = next
	}
}
