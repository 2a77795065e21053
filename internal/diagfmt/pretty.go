// Package diagfmt renders diagnostic bags for humans. Renderers for
// machine consumption live in internal/report.
package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"nastrandiff/internal/diag"
	"nastrandiff/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.Faint)
)

// Pretty formats diagnostics in a human-readable way, one block per
// diagnostic. Walks bag.Items(); call bag.Sort() beforehand for
// file/line order. Honors color.NoColor.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeDiagnostic(w, d, fs, opts)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	head := severityColor(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID())
	if d.Primary.StartLine > 0 {
		fmt.Fprintf(w, "%s: %s: %s\n", fs.FormatLoc(d.Primary), head, d.Message)
	} else {
		fmt.Fprintf(w, "%s: %s\n", head, d.Message)
	}

	if opts.Context && d.Primary.StartLine > 0 {
		if f := fs.Get(d.Primary.File); f != nil {
			if line := f.GetLine(d.Primary.StartLine); line != "" {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		if n.Loc.StartLine > 0 {
			fmt.Fprintf(w, "  %s %s: %s\n", noteColor.Sprint("note:"), fs.FormatLoc(n.Loc), n.Msg)
		} else {
			fmt.Fprintf(w, "  %s %s\n", noteColor.Sprint("note:"), n.Msg)
		}
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}
