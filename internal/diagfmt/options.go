package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	// Context prints the offending source line under each diagnostic.
	Context bool
	// ShowNotes prints attached notes, indented under the diagnostic.
	ShowNotes bool
}
