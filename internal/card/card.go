// Package card interprets logical records as typed deck entries and
// carries the immutable registry describing how entry types are keyed
// and aliased.
package card

import (
	"nastrandiff/internal/field"
	"nastrandiff/internal/source"
)

// Card is one logical deck entry: an entry-type name (case- and
// width-format-independent), the decoded field values in order, and the
// provenance of the record it came from. Entry types the registry does
// not know are preserved opaquely with Known unset; their fields are
// still decoded and diffable.
type Card struct {
	Type   string
	Fields []field.Value
	Format field.Format
	Loc    source.Loc
	Known  bool
}

// NonBlankLen returns the field count with trailing blanks ignored.
func (c Card) NonBlankLen() int {
	n := len(c.Fields)
	for n > 0 && c.Fields[n-1].IsBlank() {
		n--
	}
	return n
}
