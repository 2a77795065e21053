// Package deck assembles one input deck: include expansion, section
// splitting, continuation merging and card parsing, in one pass, with
// provenance on everything.
package deck

import (
	"nastrandiff/internal/card"
	"nastrandiff/internal/include"
	"nastrandiff/internal/source"
)

// RawLine is one line kept verbatim, outside the card data.
type RawLine struct {
	Text string
	Loc  source.Loc
}

// Deck is the fully assembled model description: the ordered bulk-data
// cards plus everything retained for diagnostics only. Card order and
// the include graph never influence the diff; they exist so a human can
// trace any entry back to its file and line.
type Deck struct {
	Path string

	// Cards are the parsed bulk-data entries in first-encountered
	// textual order (include content spliced at the point of
	// inclusion).
	Cards []card.Card

	// Executive and CaseControl hold the control sections verbatim.
	// The core never line-diffs them; they are display material.
	Executive   []RawLine
	CaseControl []RawLine

	// Includes is the include graph used during assembly.
	Includes []include.Edge

	// FileSet resolves every Loc in this deck.
	FileSet *source.FileSet
}
