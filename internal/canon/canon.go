// Package canon maps parsed cards to their format-independent canonical
// form: two textually different encodings of the same semantic entry
// produce equal canonical cards.
package canon

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"nastrandiff/internal/card"
	"nastrandiff/internal/diag"
	"nastrandiff/internal/field"
	"nastrandiff/internal/source"
)

// Key identifies a canonical card for matching. For identifier-bearing
// entry types the ID component is the canonical rendering of the
// identifier tuple; types without a stable identifier share one no-id
// key per type and are matched as a multiset.
type Key struct {
	Type  string
	ID    string
	HasID bool
}

func (k Key) String() string {
	if !k.HasID {
		return k.Type
	}
	return k.Type + " " + k.ID
}

// Less orders keys by type, then id-bearing before no-id, then by ID.
// Gives renderers and tests one deterministic order.
func (k Key) Less(other Key) bool {
	if k.Type != other.Type {
		return k.Type < other.Type
	}
	if k.HasID != other.HasID {
		return k.HasID
	}
	return k.ID < other.ID
}

// Card is the canonical form of one deck entry: resolved type synonyms,
// normalized field vector (trailing blanks trimmed, text case-folded,
// numbers decoded), and the originating location for diagnostics and
// tie-breaking. Exact marks a card whose identifier could not be
// decoded; it is still diffable, but only by exact text.
type Card struct {
	Key    Key
	Fields []field.Value
	Exact  bool
	Loc    source.Loc

	// Orig keeps the parsed card for display by renderers.
	Orig card.Card
}

// Canonicalize produces the canonical card for c using the registry's
// synonym and identifier tables.
func Canonicalize(c card.Card, reg *card.Registry, reporter diag.Reporter) Card {
	typ := reg.Canonical(c.Type)
	fields := normalizeFields(c.Fields)

	out := Card{
		Key:    Key{Type: typ},
		Fields: fields,
		Loc:    c.Loc,
		Orig:   c,
	}

	spec, known := reg.Lookup(typ)
	if known && spec.NoID {
		return out
	}

	var positions []int
	if known {
		positions = spec.IDFields
	} else if idx := firstNonBlank(fields); idx >= 0 {
		// Unregistered types typically still carry their identifier in
		// the first non-blank field.
		positions = []int{idx}
	} else {
		return out
	}

	parts := make([]string, 0, len(positions))
	for _, pos := range positions {
		if pos >= len(fields) || fields[pos].IsBlank() {
			diag.Warning(reporter, diag.CanonAmbiguous, c.Loc,
				typ+" is missing its identifier field; comparing this card by exact text")
			out.Exact = true
			return out
		}
		v := fields[pos]
		if v.Malformed {
			diag.Warning(reporter, diag.CanonAmbiguous, c.Loc,
				typ+" identifier "+v.Raw+" did not decode numerically; comparing this card by exact text")
			out.Exact = true
			return out
		}
		parts = append(parts, v.String())
	}

	out.Key = Key{Type: typ, ID: strings.Join(parts, ","), HasID: true}
	return out
}

// normalizeFields folds text, keeps numbers as decoded, and trims
// trailing blanks (they carry no meaning).
func normalizeFields(in []field.Value) []field.Value {
	n := len(in)
	for n > 0 && in[n-1].IsBlank() {
		n--
	}
	out := make([]field.Value, n)
	for i := 0; i < n; i++ {
		v := in[i]
		if v.Kind == field.KindText {
			v.Text = foldText(v.Text)
		}
		out[i] = v
	}
	return out
}

// foldText reduces a character field to one comparable spelling:
// composed form, trimmed, upper case.
func foldText(s string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFC.String(s)))
}

func firstNonBlank(fields []field.Value) int {
	for i, v := range fields {
		if !v.IsBlank() {
			return i
		}
	}
	return -1
}

// VectorKey renders the normalized field vector as one string, used to
// group equal no-id cards during multiset reconciliation.
func (c Card) VectorKey() string {
	parts := make([]string, len(c.Fields))
	for i, v := range c.Fields {
		if c.Exact {
			parts[i] = v.Raw
		} else {
			parts[i] = canonicalString(v)
		}
	}
	return strings.Join(parts, "\x1f")
}

func canonicalString(v field.Value) string {
	switch v.Kind {
	case field.KindInt:
		return strconv.FormatInt(v.Int, 10)
	case field.KindReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case field.KindText:
		return v.Text
	}
	return ""
}
