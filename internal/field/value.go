package field

import (
	"strconv"
)

// Kind discriminates the typed value decoded from one field.
type Kind uint8

const (
	// KindBlank is an empty field. Blank is not zero: a blank field
	// keeps its solver-side default, whatever that is.
	KindBlank Kind = iota
	// KindInt is an integer field.
	KindInt
	// KindReal is a real field (the format requires a decimal point).
	KindReal
	// KindText is a character field, or a numeric-looking field that
	// failed to decode and was preserved as opaque text.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Value is one decoded field. Raw always keeps the trimmed original
// spelling so opaque comparison and display never lose information.
// Malformed marks a field that looked numeric but failed to decode and
// was preserved as text; canonicalization degrades such cards to
// exact-text comparison when the field serves as an identifier.
type Value struct {
	Kind      Kind
	Int       int64
	Real      float64
	Text      string
	Raw       string
	Malformed bool
}

func Blank() Value {
	return Value{Kind: KindBlank}
}

func IntValue(v int64, raw string) Value {
	return Value{Kind: KindInt, Int: v, Raw: raw}
}

func RealValue(v float64, raw string) Value {
	return Value{Kind: KindReal, Real: v, Raw: raw}
}

func TextValue(text string) Value {
	return Value{Kind: KindText, Text: text, Raw: text}
}

// IsBlank reports whether the field is empty.
func (v Value) IsBlank() bool {
	return v.Kind == KindBlank
}

// AsFloat returns the numeric value of an int or real field.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindReal:
		return v.Real, true
	}
	return 0, false
}

// String renders the canonical spelling of the value: integers without
// padding, reals in shortest round-trip form, text as-is, blank empty.
// Two numerically equal fields render identically regardless of how the
// deck spelled them.
func (v Value) String() string {
	switch v.Kind {
	case KindBlank:
		return ""
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case KindText:
		return v.Text
	}
	return v.Raw
}
