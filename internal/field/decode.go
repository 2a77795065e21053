package field

import (
	"fmt"
	"strconv"
	"strings"
)

// Decode converts the raw text of one field into a typed Value.
//
// The rules follow the card format: a field starting with a sign, digit
// or decimal point is numeric; a numeric field containing a decimal
// point is real, otherwise integer. Real fields accept a 'D' exponent
// marker and the compressed exponent form where a bare sign separates
// mantissa and exponent ("1.5-3" means 1.5e-3). Blank fields decode to
// Blank, never to zero. Anything else is character text.
//
// A field that looks numeric but fails to parse is returned as opaque
// text together with a non-nil error, so one bad field degrades locally
// instead of invalidating the whole deck.
func Decode(raw string) (Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Blank(), nil
	}

	if !looksNumeric(trimmed[0]) {
		return TextValue(trimmed), nil
	}

	if strings.ContainsRune(trimmed, '.') {
		normalized := normalizeExponent(trimmed)
		v, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return malformedValue(trimmed), fmt.Errorf("malformed real field %q", trimmed)
		}
		return RealValue(v, trimmed), nil
	}

	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return malformedValue(trimmed), fmt.Errorf("malformed integer field %q", trimmed)
	}
	return IntValue(v, trimmed), nil
}

func malformedValue(raw string) Value {
	v := TextValue(raw)
	v.Malformed = true
	return v
}

func looksNumeric(ch byte) bool {
	return ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9')
}

// normalizeExponent rewrites the format's exponent shorthand into the
// form strconv understands: 'D' markers become 'E', and a sign directly
// following a mantissa digit or point gets an 'E' inserted before it.
func normalizeExponent(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, s)

	var b strings.Builder
	b.Grow(len(s) + 1)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch == '+' || ch == '-') && i > 0 && i+1 < len(s) {
			prev, next := s[i-1], s[i+1]
			if (isDigit(prev) || prev == '.') && isDigit(next) {
				b.WriteByte('E')
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
