package card

import (
	"strings"

	"nastrandiff/internal/diag"
	"nastrandiff/internal/field"
	"nastrandiff/internal/record"
)

// Parse maps one logical record to a Card. The keyword is matched
// case-insensitively against the registry; unknown types are reported
// (non-fatal) and the card is still produced with an opaque type.
// Fields that fail numeric decoding are reported and preserved as
// opaque text, so one bad field never invalidates the deck.
func Parse(rec record.LogicalRecord, reg *Registry, reporter diag.Reporter) Card {
	typ := strings.ToUpper(strings.TrimSpace(rec.Keyword))

	fields := make([]field.Value, len(rec.Fields))
	for i, raw := range rec.Fields {
		v, err := field.Decode(raw.Text)
		if err != nil {
			diag.Warning(reporter, diag.FieldMalformed, rec.Loc, err.Error()+"; keeping it as text")
		}
		fields[i] = v
	}

	spec, known := reg.Lookup(typ)
	if !known {
		diag.Info(reporter, diag.CardUnknownType, rec.Loc,
			"unrecognized entry type "+typ+"; fields preserved opaquely")
	}

	c := Card{
		Type:   typ,
		Fields: fields,
		Format: rec.Format,
		Loc:    rec.Loc,
		Known:  known,
	}

	// Fields beyond a known arity are preserved for forward
	// compatibility; the mismatch is only worth a note.
	if known && spec.Arity > 0 && c.NonBlankLen() > spec.Arity {
		diag.Info(reporter, diag.CardArity, rec.Loc,
			typ+" carries more fields than expected; extra fields kept")
	}

	return c
}
