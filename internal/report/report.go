package report

import (
	"nastrandiff/internal/canon"
	"nastrandiff/internal/deck"
	"nastrandiff/internal/diag"
	"nastrandiff/internal/driver"
	"nastrandiff/internal/match"
	"nastrandiff/internal/observ"
	"nastrandiff/internal/source"
)

// CardView is one card prepared for rendering or export.
type CardView struct {
	Type  string `json:"type" msgpack:"type"`
	ID    string `json:"id,omitempty" msgpack:"id"`
	Where string `json:"where" msgpack:"where"`
	Text  string `json:"text" msgpack:"text"`
}

// FieldChange is one differing field position of a modified card.
type FieldChange struct {
	Position int    `json:"position" msgpack:"position"`
	A        string `json:"a" msgpack:"a"`
	B        string `json:"b" msgpack:"b"`
}

// ChangeView is a card present on both sides with differing fields.
type ChangeView struct {
	Type   string        `json:"type" msgpack:"type"`
	ID     string        `json:"id,omitempty" msgpack:"id"`
	A      CardView      `json:"a" msgpack:"a"`
	B      CardView      `json:"b" msgpack:"b"`
	Deltas []FieldChange `json:"deltas" msgpack:"deltas"`
}

// DiagView is a diagnostic prepared for rendering or export.
type DiagView struct {
	Severity string `json:"severity" msgpack:"severity"`
	Code     string `json:"code" msgpack:"code"`
	Where    string `json:"where,omitempty" msgpack:"where"`
	Message  string `json:"message" msgpack:"message"`
}

// Report is the renderer-independent view of one comparison. Every
// output format consumes this one structure.
type Report struct {
	PathA string `json:"path_a" msgpack:"path_a"`
	PathB string `json:"path_b" msgpack:"path_b"`

	// Removed cards exist only in deck A, Added only in deck B.
	Removed  []CardView   `json:"removed" msgpack:"removed"`
	Added    []CardView   `json:"added" msgpack:"added"`
	Modified []ChangeView `json:"modified" msgpack:"modified"`

	Unchanged int `json:"unchanged" msgpack:"unchanged"`

	// Control sections are carried verbatim for side-by-side display.
	ExecA []string `json:"exec_a" msgpack:"exec_a"`
	ExecB []string `json:"exec_b" msgpack:"exec_b"`
	CaseA []string `json:"case_a" msgpack:"case_a"`
	CaseB []string `json:"case_b" msgpack:"case_b"`

	DiagnosticsA []DiagView `json:"diagnostics_a" msgpack:"diagnostics_a"`
	DiagnosticsB []DiagView `json:"diagnostics_b" msgpack:"diagnostics_b"`

	Timing observ.Report `json:"timing" msgpack:"timing"`
}

// Empty reports whether the comparison found no semantic differences.
func (r *Report) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Build flattens a driver result into the export model. Locations are
// resolved against each deck's own file set, so provenance survives
// include expansion.
func Build(res *driver.Result) *Report {
	rep := &Report{
		PathA:        res.A.Path,
		PathB:        res.B.Path,
		Unchanged:    res.Diff.Unchanged,
		ExecA:        rawTexts(res.A.Deck.Executive),
		ExecB:        rawTexts(res.B.Deck.Executive),
		CaseA:        rawTexts(res.A.Deck.CaseControl),
		CaseB:        rawTexts(res.B.Deck.CaseControl),
		DiagnosticsA: diagViews(res.A.Bag, res.A.Deck.FileSet),
		DiagnosticsB: diagViews(res.B.Bag, res.B.Deck.FileSet),
		Timing:       res.Timing,
	}
	for _, e := range res.Diff.Removed {
		rep.Removed = append(rep.Removed, cardView(e, res.A.Deck.FileSet))
	}
	for _, e := range res.Diff.Added {
		rep.Added = append(rep.Added, cardView(e, res.B.Deck.FileSet))
	}
	for _, m := range res.Diff.Modified {
		cv := ChangeView{
			Type: m.Key.Type,
			A:    canonView(m.A, res.A.Deck.FileSet),
			B:    canonView(m.B, res.B.Deck.FileSet),
		}
		if m.Key.HasID {
			cv.ID = m.Key.ID
		}
		for _, d := range m.Deltas {
			cv.Deltas = append(cv.Deltas, FieldChange{Position: d.Position, A: d.A, B: d.B})
		}
		rep.Modified = append(rep.Modified, cv)
	}
	return rep
}

func cardView(e match.Entry, fs *source.FileSet) CardView {
	v := canonView(e.Card, fs)
	if e.Key.HasID {
		v.ID = e.Key.ID
	}
	return v
}

func canonView(c canon.Card, fs *source.FileSet) CardView {
	return CardView{
		Type:  c.Key.Type,
		Where: fs.FormatLoc(c.Loc),
		Text:  FormatCard(c),
	}
}

func rawTexts(lines []deck.RawLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func diagViews(bag *diag.Bag, fs *source.FileSet) []DiagView {
	items := bag.Items()
	out := make([]DiagView, 0, len(items))
	for _, d := range items {
		v := DiagView{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
		}
		if d.Primary.StartLine > 0 {
			v.Where = fs.FormatLoc(d.Primary)
		}
		out = append(out, v)
	}
	return out
}
