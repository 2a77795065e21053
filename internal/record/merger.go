package record

import (
	"strings"

	"nastrandiff/internal/diag"
	"nastrandiff/internal/field"
	"nastrandiff/internal/source"
)

// Fixed-format column layout: keyword in 1-8, data in 9-72, continuation
// sentinel in 73-80.
const (
	dataStart   = 8
	dataEnd     = 72
	sentinelEnd = 80
)

// Merger groups consecutive physical lines into logical records,
// recognizing continuation in either fixed width convention and in free
// format. Comment and blank lines are dropped before merging and do not
// break a continuation sequence.
type Merger struct {
	reporter diag.Reporter

	open     *LogicalRecord
	openTail string // sentinel the open record expects next, "" matches anything
	out      []LogicalRecord
}

func NewMerger(reporter diag.Reporter) *Merger {
	return &Merger{reporter: reporter}
}

// Merge consumes all lines and returns the completed records.
func Merge(lines []PhysicalLine, reporter diag.Reporter) []LogicalRecord {
	m := NewMerger(reporter)
	for _, line := range lines {
		m.Push(line)
	}
	return m.Finish()
}

// Push feeds one physical line into the merger.
func (m *Merger) Push(line PhysicalLine) {
	pl, ok := splitLine(line)
	if !ok {
		return
	}

	if !pl.continuation {
		m.flush()
		m.start(pl)
		return
	}

	if m.open == nil {
		diag.Warning(m.reporter, diag.RecordDanglingContinuation, pl.loc,
			"continuation line has no record to continue; treating it as a new record")
		m.start(pl)
		return
	}

	if pl.leadSentinel != "" && m.openTail != "" && pl.leadSentinel != m.openTail {
		diag.Warning(m.reporter, diag.RecordDanglingContinuation, pl.loc,
			"continuation sentinel "+pl.leadSentinel+" does not match pending "+m.openTail+"; treating the line as a new record")
		m.flush()
		m.start(pl)
		return
	}

	if bothFixed(pl.format, m.open.Format) && pl.format != m.open.Format {
		diag.Warning(m.reporter, diag.FieldMixedWidth, pl.loc,
			"continuation switches field width within one record")
	}

	m.open.Fields = append(m.open.Fields, pl.fields...)
	m.open.Loc = m.open.Loc.Cover(pl.loc)
	m.openTail = pl.tailSentinel
}

// Finish flushes the trailing record and returns everything merged so far.
func (m *Merger) Finish() []LogicalRecord {
	m.flush()
	return m.out
}

func (m *Merger) start(pl parsedLine) {
	m.open = &LogicalRecord{
		Keyword: pl.keyword,
		Fields:  pl.fields,
		Format:  pl.format,
		Loc:     pl.loc,
	}
	m.openTail = pl.tailSentinel
}

func (m *Merger) flush() {
	if m.open == nil {
		return
	}
	m.out = append(m.out, *m.open)
	m.open = nil
	m.openTail = ""
}

func bothFixed(a, b field.Format) bool {
	return a != field.FormatFree && b != field.FormatFree
}

type parsedLine struct {
	keyword      string
	fields       []RawField
	format       field.Format
	continuation bool
	leadSentinel string
	tailSentinel string
	loc          source.Loc
}

// splitLine classifies one physical line and splits out its fields.
// Returns false for lines that carry nothing (blank or comment-only).
func splitLine(line PhysicalLine) (parsedLine, bool) {
	text := line.Text
	if idx := strings.IndexByte(text, '$'); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return parsedLine{}, false
	}

	if strings.ContainsRune(text, ',') {
		return splitFree(text, line.Loc), true
	}
	return splitFixed(text, line.Loc), true
}

func splitFixed(text string, loc source.Loc) parsedLine {
	rawSlot := text
	if len(rawSlot) > dataStart {
		rawSlot = rawSlot[:dataStart]
	}

	kwSlot := rawSlot
	format := field.FormatSmall
	if star := strings.IndexByte(kwSlot, '*'); star >= 0 {
		format = field.FormatLarge
		kwSlot = kwSlot[:star]
	}
	keyword := strings.TrimSpace(kwSlot)
	continuation := keyword == "" || strings.ContainsRune(keyword, '+')

	// The data region is fixed at columns 9-72; short lines are padded
	// so the field grid is always complete. Trailing blanks are trimmed
	// again during canonicalization.
	data := text
	if len(data) > dataEnd {
		data = data[:dataEnd]
	}
	if len(data) < dataEnd {
		data += strings.Repeat(" ", dataEnd-len(data))
	}

	width := format.Width()
	fields := make([]RawField, 0, (dataEnd-dataStart)/width)
	for col := dataStart; col < dataEnd; col += width {
		fields = append(fields, RawField{Col: col, Text: data[col : col+width]})
	}

	tail := ""
	if len(text) > dataEnd {
		end := len(text)
		if end > sentinelEnd {
			end = sentinelEnd
		}
		tail = normalizeSentinel(text[dataEnd:end])
	}

	return parsedLine{
		keyword:      keyword,
		fields:       fields,
		format:       format,
		continuation: continuation,
		leadSentinel: normalizeSentinel(rawSlot),
		tailSentinel: tail,
		loc:          loc,
	}
}

func splitFree(text string, loc source.Loc) parsedLine {
	tokens := strings.Split(text, ",")

	kwSlot := tokens[0]
	if star := strings.IndexByte(kwSlot, '*'); star >= 0 {
		kwSlot = kwSlot[:star]
	}
	keyword := strings.TrimSpace(kwSlot)
	continuation := keyword == "" || strings.ContainsRune(keyword, '+')

	fields := make([]RawField, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		fields = append(fields, RawField{Text: tok})
	}

	return parsedLine{
		keyword:      keyword,
		fields:       fields,
		format:       field.FormatFree,
		continuation: continuation,
		leadSentinel: normalizeSentinel(kwSlot),
		loc:          loc,
	}
}

// normalizeSentinel reduces a continuation marker to its comparable
// core: spaces and the leading '+' or '*' dropped, case folded. A bare
// "+" (or all blank) normalizes to "" and matches anything.
func normalizeSentinel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if s[0] == '+' || s[0] == '*' {
		s = s[1:]
	}
	return strings.ToUpper(strings.TrimSpace(s))
}
