package record

import (
	"nastrandiff/internal/field"
	"nastrandiff/internal/source"
)

// PhysicalLine is one line of deck text after include expansion, tagged
// with its true origin. Assembly hands these to the merger in
// first-encountered textual order.
type PhysicalLine struct {
	Text string
	Loc  source.Loc
}

// RawField is the undecoded text of one field together with the column
// it started in (0 for free-format fields).
type RawField struct {
	Col  int
	Text string
}

// LogicalRecord is one or more physical lines merged via continuation:
// a keyword slot, the ordered raw fields of every line, and the line
// range the record spans. Fields of continuation lines follow the
// parent's fields in order; continuation sentinels are stripped and are
// not fields.
type LogicalRecord struct {
	Keyword string
	Fields  []RawField
	Format  field.Format
	Loc     source.Loc
}
