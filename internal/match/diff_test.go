package match_test

import (
	"math/rand"
	"testing"

	"nastrandiff/internal/canon"
	"nastrandiff/internal/card"
	"nastrandiff/internal/diag"
	"nastrandiff/internal/field"
	"nastrandiff/internal/match"
	"nastrandiff/internal/record"
	"nastrandiff/internal/source"
)

var testRegistry = func() *card.Registry {
	r := card.DefaultRegistry()
	r.Register(card.Spec{Name: "CORD1R", NoID: true})
	return r
}()

func makeCard(t *testing.T, line uint32, keyword string, fields ...string) canon.Card {
	t.Helper()
	raw := make([]record.RawField, len(fields))
	for i, f := range fields {
		raw[i] = record.RawField{Text: f}
	}
	rec := record.LogicalRecord{
		Keyword: keyword,
		Fields:  raw,
		Format:  field.FormatSmall,
		Loc:     source.Loc{File: 0, StartLine: line, EndLine: line},
	}
	c := card.Parse(rec, testRegistry, diag.NopReporter{})
	return canon.Canonicalize(c, testRegistry, diag.NopReporter{})
}

func runDiff(a, b []canon.Card) match.Result {
	return match.Diff(a, b, card.DefaultTolerance, diag.NopReporter{}, diag.NopReporter{})
}

func TestDiffIdentity(t *testing.T) {
	deck := []canon.Card{
		makeCard(t, 1, "GRID", "10", "", "1.0", "2.0", "3.0"),
		makeCard(t, 2, "GRID", "20", "", "4.0", "5.0", "6.0"),
		makeCard(t, 3, "CORD1R", "1", "2"),
	}
	res := runDiff(deck, deck)
	if !res.Empty() {
		t.Fatalf("diffing a deck against itself found differences: %+v", res)
	}
	if res.Unchanged != 3 {
		t.Fatalf("unchanged = %d, want 3", res.Unchanged)
	}
}

func TestDiffWithinToleranceIsUnchanged(t *testing.T) {
	a := []canon.Card{makeCard(t, 1, "GRID", "10", "1.0", "2.0", "3.0")}
	b := []canon.Card{makeCard(t, 1, "GRID", "10", "1.0", "2.0", "3.0000001")}
	res := runDiff(a, b)
	if len(res.Modified) != 0 {
		t.Fatalf("difference within tolerance reported: %+v", res.Modified)
	}
	if res.Unchanged != 1 {
		t.Fatalf("unchanged = %d", res.Unchanged)
	}
}

func TestDiffModifiedFieldDelta(t *testing.T) {
	a := []canon.Card{makeCard(t, 1, "GRID", "10", "1.0", "2.0", "3.0")}
	b := []canon.Card{makeCard(t, 1, "GRID", "10", "1.0", "2.0", "4.0")}
	res := runDiff(a, b)
	if len(res.Modified) != 1 {
		t.Fatalf("modified = %+v, want one entry", res.Modified)
	}
	m := res.Modified[0]
	if m.Key.Type != "GRID" || m.Key.ID != "10" {
		t.Fatalf("key = %+v", m.Key)
	}
	if len(m.Deltas) != 1 {
		t.Fatalf("deltas = %+v", m.Deltas)
	}
	d := m.Deltas[0]
	if d.Position != 3 || d.A != "3.0" || d.B != "4.0" {
		t.Fatalf("delta = %+v", d)
	}
}

func TestDiffAddedAndRemoved(t *testing.T) {
	a := []canon.Card{
		makeCard(t, 1, "GRID", "10", "1.0"),
		makeCard(t, 2, "GRID", "20", "2.0"),
	}
	b := []canon.Card{
		makeCard(t, 1, "GRID", "20", "2.0"),
		makeCard(t, 2, "GRID", "30", "3.0"),
	}
	res := runDiff(a, b)
	if len(res.Removed) != 1 || res.Removed[0].Key.ID != "10" {
		t.Fatalf("removed = %+v", res.Removed)
	}
	if len(res.Added) != 1 || res.Added[0].Key.ID != "30" {
		t.Fatalf("added = %+v", res.Added)
	}
	if res.Unchanged != 1 {
		t.Fatalf("unchanged = %d", res.Unchanged)
	}
}

func TestDiffIsOrderIndependent(t *testing.T) {
	build := func() []canon.Card {
		return []canon.Card{
			makeCard(t, 1, "GRID", "10", "1.0"),
			makeCard(t, 2, "GRID", "20", "2.0"),
			makeCard(t, 3, "GRID", "30", "3.0"),
			makeCard(t, 4, "CORD1R", "1", "2"),
			makeCard(t, 5, "CORD1R", "3", "4"),
		}
	}
	a := build()
	b := []canon.Card{
		makeCard(t, 1, "GRID", "10", "1.0"),
		makeCard(t, 2, "GRID", "20", "2.5"),
		makeCard(t, 3, "CORD1R", "1", "2"),
	}

	want := runDiff(a, b)
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		shuffled := build()
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := runDiff(shuffled, b)
		if len(got.Added) != len(want.Added) || len(got.Removed) != len(want.Removed) ||
			len(got.Modified) != len(want.Modified) || got.Unchanged != want.Unchanged {
			t.Fatalf("trial %d: result depends on card order: %+v vs %+v", trial, got, want)
		}
		for i := range want.Removed {
			if got.Removed[i].Key != want.Removed[i].Key {
				t.Fatalf("trial %d: removed order differs", trial)
			}
		}
	}
}

func TestDiffSymmetricUnderSwap(t *testing.T) {
	a := []canon.Card{
		makeCard(t, 1, "GRID", "10", "1.0"),
		makeCard(t, 2, "GRID", "20", "2.0"),
	}
	b := []canon.Card{
		makeCard(t, 1, "GRID", "20", "2.5"),
		makeCard(t, 2, "GRID", "30", "3.0"),
	}

	ab := runDiff(a, b)
	ba := runDiff(b, a)

	if len(ab.Added) != len(ba.Removed) || len(ab.Removed) != len(ba.Added) {
		t.Fatalf("swap does not relabel added/removed: %+v vs %+v", ab, ba)
	}
	for i := range ab.Added {
		if ab.Added[i].Key != ba.Removed[i].Key {
			t.Fatalf("added/removed mismatch under swap")
		}
	}
	if len(ab.Modified) != len(ba.Modified) {
		t.Fatalf("modified sets differ under swap")
	}
}

func TestNoIDMultisetReconciliation(t *testing.T) {
	// Two identical no-id cards in A, one in B: one matches, one is
	// removed. The distinct card in B is added, never paired as
	// modified.
	a := []canon.Card{
		makeCard(t, 1, "CORD1R", "1", "2"),
		makeCard(t, 5, "CORD1R", "1", "2"),
	}
	b := []canon.Card{
		makeCard(t, 2, "CORD1R", "1", "2"),
		makeCard(t, 3, "CORD1R", "9", "9"),
	}
	res := runDiff(a, b)
	if res.Unchanged != 1 {
		t.Fatalf("unchanged = %d, want 1", res.Unchanged)
	}
	if len(res.Modified) != 0 {
		t.Fatalf("no-id cards must never pair as modified: %+v", res.Modified)
	}
	if len(res.Removed) != 1 {
		t.Fatalf("removed = %+v", res.Removed)
	}
	// Ascending source order match: line 1 pairs, line 5 is the excess.
	if res.Removed[0].Card.Loc.StartLine != 5 {
		t.Fatalf("excess should be the later instance, got line %d", res.Removed[0].Card.Loc.StartLine)
	}
	if len(res.Added) != 1 {
		t.Fatalf("added = %+v", res.Added)
	}
}

func TestDuplicateKeyWarned(t *testing.T) {
	bagA := diag.NewBag(10)
	a := []canon.Card{
		makeCard(t, 1, "GRID", "10", "1.0"),
		makeCard(t, 2, "GRID", "10", "2.0"),
	}
	b := []canon.Card{makeCard(t, 1, "GRID", "10", "2.0")}
	res := match.Diff(a, b, card.DefaultTolerance, diag.BagReporter{Bag: bagA}, diag.NopReporter{})

	if bagA.Len() != 1 || bagA.Items()[0].Code != diag.CardDuplicateKey {
		t.Fatalf("expected duplicate-key warning, got %+v", bagA.Items())
	}
	// Last card wins, so the decks agree.
	if !res.Empty() {
		t.Fatalf("expected no differences, got %+v", res)
	}
}
