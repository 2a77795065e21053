package card_test

import (
	"os"
	"path/filepath"
	"testing"

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

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, len(r.diagnostics))
	for i, d := range r.diagnostics {
		out[i] = d.Code
	}
	return out
}

func rawFields(texts ...string) []record.RawField {
	out := make([]record.RawField, len(texts))
	for i, t := range texts {
		out[i] = record.RawField{Text: t}
	}
	return out
}

func TestParseKnownCard(t *testing.T) {
	rep := &testReporter{}
	rec := record.LogicalRecord{
		Keyword: "grid",
		Fields:  rawFields("10", "", "1.0", "2.0", "3.0"),
		Format:  field.FormatSmall,
	}
	c := card.Parse(rec, card.DefaultRegistry(), rep)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes())
	}
	if c.Type != "GRID" {
		t.Fatalf("type = %q (keyword matching must be case-insensitive)", c.Type)
	}
	if !c.Known {
		t.Fatalf("GRID should be a known type")
	}
	if c.Fields[0].Kind != field.KindInt || c.Fields[0].Int != 10 {
		t.Fatalf("field 0 = %+v", c.Fields[0])
	}
	if !c.Fields[1].IsBlank() {
		t.Fatalf("field 1 should be blank")
	}
	if c.Fields[2].Kind != field.KindReal {
		t.Fatalf("field 2 should be real, got %v", c.Fields[2].Kind)
	}
}

func TestParseUnknownTypeStaysOpaque(t *testing.T) {
	rep := &testReporter{}
	rec := record.LogicalRecord{
		Keyword: "WEIRDCARD",
		Fields:  rawFields("1", "FOO", "2.5"),
		Format:  field.FormatSmall,
	}
	c := card.Parse(rec, card.DefaultRegistry(), rep)
	if c.Known {
		t.Fatalf("unknown type flagged as known")
	}
	if len(c.Fields) != 3 {
		t.Fatalf("opaque card lost fields: %d", len(c.Fields))
	}
	found := false
	for _, code := range rep.codes() {
		if code == diag.CardUnknownType {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unknown-entry-type diagnostic, got %v", rep.codes())
	}
}

func TestParseMalformedFieldDegradesToText(t *testing.T) {
	rep := &testReporter{}
	rec := record.LogicalRecord{
		Keyword: "GRID",
		Fields:  rawFields("10", "1.2.3"),
		Format:  field.FormatSmall,
	}
	c := card.Parse(rec, card.DefaultRegistry(), rep)
	if c.Fields[1].Kind != field.KindText || c.Fields[1].Raw != "1.2.3" {
		t.Fatalf("malformed field not preserved as text: %+v", c.Fields[1])
	}
	found := false
	for _, d := range rep.diagnostics {
		if d.Code == diag.FieldMalformed && d.Severity == diag.SevWarning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected malformed-field warning, got %v", rep.codes())
	}
}

func TestRegistryDefaults(t *testing.T) {
	reg := card.DefaultRegistry()

	spec, ok := reg.Lookup("spc1")
	if !ok {
		t.Fatalf("SPC1 missing from defaults")
	}
	if len(spec.IDFields) != 2 || spec.IDFields[0] != 0 || spec.IDFields[1] != 2 {
		t.Fatalf("SPC1 id fields = %v", spec.IDFields)
	}

	if reg.Tolerance() != card.DefaultTolerance {
		t.Fatalf("tolerance = %g", reg.Tolerance())
	}
}

func TestRegistrySynonyms(t *testing.T) {
	reg := card.DefaultRegistry()
	reg.Register(card.Spec{Name: "CROD"})
	if err := reg.AddSynonyms("CROD", "CONROD"); err != nil {
		t.Fatalf("AddSynonyms: %v", err)
	}
	if reg.Canonical("conrod") != "CROD" {
		t.Fatalf("Canonical(conrod) = %q", reg.Canonical("conrod"))
	}
	// The first-registered member stays canonical.
	if reg.Canonical("CROD") != "CROD" {
		t.Fatalf("canonical member must map to itself")
	}
	if err := reg.AddSynonyms("CONROD", "GRID"); err == nil {
		t.Fatalf("aliasing a registered type must fail")
	}
}

func TestLoadRegistryTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.toml")
	content := `
tolerance = 1.0e-4

[[card]]
name = "CROD"
arity = 4
synonyms = ["CONROD"]

[[card]]
name = "CORD1R"
no-id = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}

	reg, err := card.LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if reg.Tolerance() != 1.0e-4 {
		t.Fatalf("tolerance = %g", reg.Tolerance())
	}
	if reg.Canonical("CONROD") != "CROD" {
		t.Fatalf("synonym not loaded")
	}
	spec, ok := reg.Lookup("CORD1R")
	if !ok || !spec.NoID {
		t.Fatalf("CORD1R spec = %+v ok=%v", spec, ok)
	}
	// Defaults survive the merge.
	if _, ok := reg.Lookup("DMIG"); !ok {
		t.Fatalf("defaults lost after merge")
	}
}

func TestLoadRegistryRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.toml")
	if err := os.WriteFile(path, []byte("tollerance = 1.0\n"), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	if _, err := card.LoadRegistry(path); err == nil {
		t.Fatalf("typo in registry file must be rejected")
	}
}
