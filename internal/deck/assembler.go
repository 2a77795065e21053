package deck

import (
	"strings"

	"nastrandiff/internal/card"
	"nastrandiff/internal/diag"
	"nastrandiff/internal/include"
	"nastrandiff/internal/record"
	"nastrandiff/internal/source"
)

// Assemble drives the include resolver and continuation merger over a
// root file and parses the bulk-data section into cards. All
// recoverable conditions go to the reporter; only a root file that
// cannot be loaded at all returns an error.
func Assemble(loader source.Loader, rootPath string, reg *card.Registry, reporter diag.Reporter) (*Deck, error) {
	fs := source.NewFileSet()
	resolver := include.NewResolver(fs, loader, reporter)

	lines, err := resolver.Expand(rootPath)
	if err != nil {
		return nil, err
	}

	d := &Deck{
		Path:     rootPath,
		Includes: resolver.Edges(),
		FileSet:  fs,
	}

	merger := record.NewMerger(reporter)
	for _, line := range splitSections(lines, d) {
		merger.Push(line)
	}
	for _, rec := range merger.Finish() {
		d.Cards = append(d.Cards, card.Parse(rec, reg, reporter))
	}
	return d, nil
}

// splitSections files control-section lines onto the deck and returns
// the bulk-data lines. The executive control ends at CEND, the case
// control at BEGIN BULK, the bulk data at ENDDATA; a deck without a
// BEGIN BULK (common for included fragments) is treated as all bulk.
func splitSections(lines []record.PhysicalLine, d *Deck) []record.PhysicalLine {
	cendAt, beginBulkAt := -1, -1
	for i, line := range lines {
		switch classifyDelimiter(line.Text) {
		case delimCEND:
			if cendAt < 0 {
				cendAt = i
			}
		case delimBeginBulk:
			if beginBulkAt < 0 {
				beginBulkAt = i
			}
		}
	}

	bulkStart := beginBulkAt + 1
	if beginBulkAt < 0 && cendAt >= 0 {
		// CEND but no BEGIN BULK: everything after CEND stays case
		// control and there is no bulk data to compare.
		bulkStart = len(lines)
	}

	for i, line := range lines {
		raw := RawLine{Text: line.Text, Loc: line.Loc}
		switch {
		case cendAt >= 0 && i < cendAt:
			d.Executive = append(d.Executive, raw)
		case i == cendAt || i == beginBulkAt:
			// Delimiters belong to no section.
		case i < bulkStart:
			d.CaseControl = append(d.CaseControl, raw)
		}
	}

	var bulk []record.PhysicalLine
	for _, line := range lines[bulkStart:] {
		if classifyDelimiter(line.Text) == delimEndData {
			break
		}
		bulk = append(bulk, line)
	}
	return bulk
}

type delimiter uint8

const (
	delimNone delimiter = iota
	delimCEND
	delimBeginBulk
	delimEndData
)

func classifyDelimiter(text string) delimiter {
	if idx := strings.IndexByte(text, '$'); idx >= 0 {
		text = text[:idx]
	}
	upper := strings.ToUpper(strings.TrimSpace(text))
	switch {
	case upper == "CEND":
		return delimCEND
	case strings.HasPrefix(upper, "BEGIN") && strings.Contains(upper, "BULK"):
		return delimBeginBulk
	case strings.HasPrefix(upper, "ENDDATA"):
		return delimEndData
	}
	return delimNone
}
