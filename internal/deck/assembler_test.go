package deck_test

import (
	"testing"

	"nastrandiff/internal/card"
	"nastrandiff/internal/deck"
	"nastrandiff/internal/diag"
	"nastrandiff/internal/source"
)

func assemble(t *testing.T, loader source.MapLoader, root string) (*deck.Deck, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(100)
	d, err := deck.Assemble(loader, root, card.DefaultRegistry(), diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Assemble(%s): %v", root, err)
	}
	return d, bag
}

func TestAssembleFullDeck(t *testing.T) {
	loader := source.MapLoader{
		"run.bdf": "SOL 101\nCEND\nTITLE = TEST\nBEGIN BULK\nGRID    10\nGRID    20\nENDDATA\n",
	}
	d, bag := assemble(t, loader, "run.bdf")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(d.Executive) != 1 || d.Executive[0].Text != "SOL 101" {
		t.Fatalf("executive = %+v", d.Executive)
	}
	if len(d.CaseControl) != 1 || d.CaseControl[0].Text != "TITLE = TEST" {
		t.Fatalf("case control = %+v", d.CaseControl)
	}
	if len(d.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(d.Cards))
	}
	if d.Cards[0].Type != "GRID" || d.Cards[1].Type != "GRID" {
		t.Fatalf("card types = %q %q", d.Cards[0].Type, d.Cards[1].Type)
	}
}

func TestAssembleDeckWithoutSectionsIsAllBulk(t *testing.T) {
	loader := source.MapLoader{"frag.bdf": "GRID    10\nGRID    20\n"}
	d, _ := assemble(t, loader, "frag.bdf")
	if len(d.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(d.Cards))
	}
	if len(d.Executive) != 0 || len(d.CaseControl) != 0 {
		t.Fatalf("sections invented for a fragment deck")
	}
}

func TestAssembleStopsAtEnddata(t *testing.T) {
	loader := source.MapLoader{
		"run.bdf": "BEGIN BULK\nGRID    10\nENDDATA\nGRID    99\n",
	}
	d, _ := assemble(t, loader, "run.bdf")
	if len(d.Cards) != 1 {
		t.Fatalf("cards past ENDDATA were parsed: %d", len(d.Cards))
	}
}

func TestAssembleStopsAtEnddataWithoutBeginBulk(t *testing.T) {
	loader := source.MapLoader{
		"frag.bdf": "GRID    10\nENDDATA\nGRID    99\n",
	}
	d, bag := assemble(t, loader, "frag.bdf")
	if len(d.Cards) != 1 || d.Cards[0].Type != "GRID" {
		t.Fatalf("cards past ENDDATA were parsed: %+v", d.Cards)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestAssembleIncludeProvenance(t *testing.T) {
	loader := source.MapLoader{
		"main.bdf": "BEGIN BULK\nGRID    10\nINCLUDE 'sub.bdf'\nENDDATA\n",
		"sub.bdf":  "GRID    20\n",
	}
	d, bag := assemble(t, loader, "main.bdf")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(d.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(d.Cards))
	}
	// The included card keeps the included file's identity.
	mainFile, _ := d.FileSet.GetByPath("main.bdf")
	if d.Cards[0].Loc.File != mainFile.ID {
		t.Fatalf("root card provenance wrong")
	}
	if d.Cards[1].Loc.File == mainFile.ID {
		t.Fatalf("included card should not point at the root file")
	}
	if len(d.Includes) != 1 {
		t.Fatalf("include graph = %+v", d.Includes)
	}
}

func TestAssembleCendWithoutBeginBulk(t *testing.T) {
	loader := source.MapLoader{
		"run.bdf": "SOL 101\nCEND\nDISP = ALL\n",
	}
	d, _ := assemble(t, loader, "run.bdf")
	if len(d.Cards) != 0 {
		t.Fatalf("no bulk section, but cards = %d", len(d.Cards))
	}
	if len(d.CaseControl) != 1 {
		t.Fatalf("case control = %+v", d.CaseControl)
	}
}
