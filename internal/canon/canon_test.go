package canon_test

import (
	"fmt"
	"strings"
	"testing"

	"nastrandiff/internal/canon"
	"nastrandiff/internal/card"
	"nastrandiff/internal/diag"
	"nastrandiff/internal/field"
	"nastrandiff/internal/record"
	"nastrandiff/internal/source"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Loc, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes,
	})
}

func parseCard(t *testing.T, keyword string, fields ...string) card.Card {
	t.Helper()
	raw := make([]record.RawField, len(fields))
	for i, f := range fields {
		raw[i] = record.RawField{Text: f}
	}
	rec := record.LogicalRecord{Keyword: keyword, Fields: raw, Format: field.FormatSmall}
	return card.Parse(rec, card.DefaultRegistry(), diag.NopReporter{})
}

func canonicalize(t *testing.T, c card.Card) canon.Card {
	t.Helper()
	return canon.Canonicalize(c, card.DefaultRegistry(), diag.NopReporter{})
}

// canonicalizeText runs deck text through the continuation merger and
// returns the canonical form of its single logical record.
func canonicalizeText(t *testing.T, text string) canon.Card {
	t.Helper()
	var lines []record.PhysicalLine
	for i, l := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		n := uint32(i + 1)
		lines = append(lines, record.PhysicalLine{
			Text: l,
			Loc:  source.Loc{StartLine: n, EndLine: n},
		})
	}
	recs := record.Merge(lines, diag.NopReporter{})
	if len(recs) != 1 {
		t.Fatalf("expected one logical record, got %d", len(recs))
	}
	c := card.Parse(recs[0], card.DefaultRegistry(), diag.NopReporter{})
	return canon.Canonicalize(c, card.DefaultRegistry(), diag.NopReporter{})
}

func TestCanonicalizeIsReflexive(t *testing.T) {
	c := parseCard(t, "GRID", "10", "", "1.0", "2.0", "3.0")
	a := canonicalize(t, c)
	b := canonicalize(t, c)
	if a.Key != b.Key {
		t.Fatalf("keys differ: %v vs %v", a.Key, b.Key)
	}
	if !canon.FieldsEqual(a, b, card.DefaultTolerance) {
		t.Fatalf("card is not equal to itself")
	}
}

func TestTrailingBlanksDoNotChangeCanonicalCard(t *testing.T) {
	a := canonicalize(t, parseCard(t, "GRID", "10", "", "1.0"))
	b := canonicalize(t, parseCard(t, "GRID", "10", "", "1.0", "", "", ""))
	if a.Key != b.Key || !canon.FieldsEqual(a, b, card.DefaultTolerance) {
		t.Fatalf("trailing blanks changed the canonical card")
	}
}

func TestContinuationSplitDoesNotChangeCanonicalCard(t *testing.T) {
	base := canonicalizeText(t, "SPC1,2,123,101,102,103,104,105,106,107,108,109\n")
	fixed := fmt.Sprintf("%-8s%-8s%-8s%-8s%-8s%-8s%-8s%-8s%-8s%s\n%-8s%-8s%-8s%-8s\n",
		"SPC1", "2", "123", "101", "102", "103", "104", "105", "106", "+A",
		"+A", "107", "108", "109")
	tests := []struct {
		name string
		text string
	}{
		{"free field two lines", "SPC1,2,123,101,102,103,104,105,106\n,107,108,109\n"},
		{"free field four lines", "SPC1,2,123,101\n,102,103,104\n,105,106,107\n,108,109\n"},
		{"small field with sentinel", fixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := canonicalizeText(t, tt.text)
			if got.Key != base.Key {
				t.Fatalf("key = %+v, want %+v", got.Key, base.Key)
			}
			if !canon.FieldsEqual(got, base, card.DefaultTolerance) {
				t.Fatalf("fields differ from the single-line encoding")
			}
		})
	}
}

func TestNumericIDFormattingIsIrrelevant(t *testing.T) {
	a := canonicalize(t, parseCard(t, "GRID", "10"))
	b := canonicalize(t, parseCard(t, "GRID", "10.0"))
	if a.Key != b.Key {
		t.Fatalf("10 and 10.0 should key identically: %v vs %v", a.Key, b.Key)
	}
}

func TestMultiFieldIdentifier(t *testing.T) {
	// SPC keys on set ID and grid ID: same set, different grids must
	// not collide.
	a := canonicalize(t, parseCard(t, "SPC", "1", "17", "3", "0.0"))
	b := canonicalize(t, parseCard(t, "SPC", "1", "18", "3", "0.0"))
	if a.Key == b.Key {
		t.Fatalf("SPC entries for different grids share a key: %v", a.Key)
	}
	if !a.Key.HasID || a.Key.ID != "1,17" {
		t.Fatalf("SPC key = %+v", a.Key)
	}
}

func TestTextFieldsAreCaseFolded(t *testing.T) {
	a := canonicalize(t, parseCard(t, "PARAM", "post", "0"))
	b := canonicalize(t, parseCard(t, "PARAM", "POST", "0"))
	if a.Key != b.Key {
		t.Fatalf("case of a text identifier changed the key: %v vs %v", a.Key, b.Key)
	}
	if !canon.FieldsEqual(a, b, card.DefaultTolerance) {
		t.Fatalf("case of a text field reported as a difference")
	}
}

func TestSynonymResolution(t *testing.T) {
	reg := card.DefaultRegistry()
	reg.Register(card.Spec{Name: "CROD"})
	if err := reg.AddSynonyms("CROD", "CONROD"); err != nil {
		t.Fatalf("AddSynonyms: %v", err)
	}

	rec := record.LogicalRecord{
		Keyword: "CONROD",
		Fields:  []record.RawField{{Text: "5"}, {Text: "1"}, {Text: "2"}},
		Format:  field.FormatSmall,
	}
	c := card.Parse(rec, reg, diag.NopReporter{})
	cc := canon.Canonicalize(c, reg, diag.NopReporter{})
	if cc.Key.Type != "CROD" {
		t.Fatalf("alias not resolved to first-registered spelling: %v", cc.Key)
	}
}

func TestToleranceAbsorbsEncodingNoise(t *testing.T) {
	a := canonicalize(t, parseCard(t, "GRID", "10", "", "1.0", "2.0", "3.0"))
	b := canonicalize(t, parseCard(t, "GRID", "10", "", "1.0", "2.0", "3.0000001"))
	if !canon.FieldsEqual(a, b, card.DefaultTolerance) {
		t.Fatalf("difference within tolerance reported as a change")
	}

	c := canonicalize(t, parseCard(t, "GRID", "10", "", "1.0", "2.0", "4.0"))
	if canon.FieldsEqual(a, c, card.DefaultTolerance) {
		t.Fatalf("real difference swallowed by tolerance")
	}
}

func TestBlankIsNotZero(t *testing.T) {
	a := canonicalize(t, parseCard(t, "GRID", "10", "", "0.0"))
	b := canonicalize(t, parseCard(t, "GRID", "10", "", ""))
	if canon.FieldsEqual(a, b, card.DefaultTolerance) {
		t.Fatalf("blank field compared equal to zero")
	}
}

func TestDeltasReportPositionsAndSpellings(t *testing.T) {
	a := canonicalize(t, parseCard(t, "GRID", "10", "1.0", "2.0", "3.0"))
	b := canonicalize(t, parseCard(t, "GRID", "10", "1.0", "2.0", "4.0"))
	deltas := canon.Deltas(a, b, card.DefaultTolerance)
	if len(deltas) != 1 {
		t.Fatalf("deltas = %+v, want one", deltas)
	}
	d := deltas[0]
	if d.Position != 3 || d.A != "3.0" || d.B != "4.0" {
		t.Fatalf("delta = %+v", d)
	}
}

func TestMalformedIdentifierDegradesToExact(t *testing.T) {
	rep := &testReporter{}
	c := parseCard(t, "GRID", "1.2.3", "1.0")
	cc := canon.Canonicalize(c, card.DefaultRegistry(), rep)
	if !cc.Exact {
		t.Fatalf("malformed identifier should force exact comparison")
	}
	if cc.Key.HasID {
		t.Fatalf("exact card must not claim an identifier: %+v", cc.Key)
	}
	found := false
	for _, d := range rep.diagnostics {
		if d.Code == diag.CanonAmbiguous {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ambiguous-canonicalization warning")
	}

	// Exact cards still diff, just by text.
	same := canon.Canonicalize(c, card.DefaultRegistry(), diag.NopReporter{})
	if !canon.FieldsEqual(cc, same, card.DefaultTolerance) {
		t.Fatalf("exact card not equal to its twin")
	}
}

func TestNoIDTypeGetsNoIDKey(t *testing.T) {
	reg := card.DefaultRegistry()
	reg.Register(card.Spec{Name: "CORD1R", NoID: true})

	rec := record.LogicalRecord{
		Keyword: "CORD1R",
		Fields:  []record.RawField{{Text: "1"}, {Text: "2"}},
		Format:  field.FormatSmall,
	}
	c := card.Parse(rec, reg, diag.NopReporter{})
	cc := canon.Canonicalize(c, reg, diag.NopReporter{})
	if cc.Key.HasID {
		t.Fatalf("no-id type produced an identifier key: %+v", cc.Key)
	}
}
