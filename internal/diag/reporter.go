package diag

import "nastrandiff/internal/source"

// Reporter is the minimal contract for phases that emit diagnostics.
// Implementations: BagReporter (appends to a Bag), NopReporter,
// MultiReporter (fan-out).
type Reporter interface {
	Report(code Code, sev Severity, primary source.Loc, msg string, notes []Note)
}

// BagReporter writes every report into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Loc, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Loc, string, []Note) {}

// MultiReporter fans a report out to every child.
type MultiReporter []Reporter

func (m MultiReporter) Report(code Code, sev Severity, primary source.Loc, msg string, notes []Note) {
	for _, r := range m {
		r.Report(code, sev, primary, msg, notes)
	}
}

// Error is a shortcut for SevError reports without notes.
func Error(r Reporter, code Code, primary source.Loc, msg string) {
	if r != nil {
		r.Report(code, SevError, primary, msg, nil)
	}
}

// Warning is a shortcut for SevWarning reports without notes.
func Warning(r Reporter, code Code, primary source.Loc, msg string) {
	if r != nil {
		r.Report(code, SevWarning, primary, msg, nil)
	}
}

// Info is a shortcut for SevInfo reports without notes.
func Info(r Reporter, code Code, primary source.Loc, msg string) {
	if r != nil {
		r.Report(code, SevInfo, primary, msg, nil)
	}
}
