package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	addedColor    = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
	modifiedColor = color.New(color.FgYellow)
	dimColor      = color.New(color.Faint)
)

// Text prints a report for the terminal. Honors color.NoColor, which
// the CLI sets from --color and the terminal check.
type Text struct {
	// Verbose additionally prints per-field detail for modified cards.
	Verbose bool
}

// Render writes the text report to w.
func (t Text) Render(w io.Writer, rep *Report) error {
	if rep.Empty() {
		if _, err := fmt.Fprintf(w, "decks match: %d cards compared\n", rep.Unchanged); err != nil {
			return err
		}
		return t.renderDiags(w, rep)
	}

	_, err := fmt.Fprintf(w, "%s vs %s: %d unchanged, %d modified, %d removed, %d added\n",
		rep.PathA, rep.PathB, rep.Unchanged, len(rep.Modified), len(rep.Removed), len(rep.Added))
	if err != nil {
		return err
	}

	for _, m := range rep.Modified {
		if _, err := fmt.Fprintf(w, "%s %s\n", modifiedColor.Sprint("~"), m.A.Text); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", modifiedColor.Sprint("~"), m.B.Text); err != nil {
			return err
		}
		if t.Verbose {
			for _, d := range m.Deltas {
				_, err := fmt.Fprintf(w, "    field %d: %s -> %s  %s\n",
					d.Position+1, d.A, d.B, dimColor.Sprintf("(%s, %s)", m.A.Where, m.B.Where))
				if err != nil {
					return err
				}
			}
		}
	}
	for _, c := range rep.Removed {
		if _, err := fmt.Fprintf(w, "%s %s  %s\n", removedColor.Sprint("-"), c.Text, dimColor.Sprint(c.Where)); err != nil {
			return err
		}
	}
	for _, c := range rep.Added {
		if _, err := fmt.Fprintf(w, "%s %s  %s\n", addedColor.Sprint("+"), c.Text, dimColor.Sprint(c.Where)); err != nil {
			return err
		}
	}
	return t.renderDiags(w, rep)
}

func (t Text) renderDiags(w io.Writer, rep *Report) error {
	if err := diagBlock(w, rep.PathA, rep.DiagnosticsA); err != nil {
		return err
	}
	return diagBlock(w, rep.PathB, rep.DiagnosticsB)
}

func diagBlock(w io.Writer, path string, diags []DiagView) error {
	if len(diags) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "diagnostics for %s:\n", path); err != nil {
		return err
	}
	for _, d := range diags {
		line := fmt.Sprintf("  %s %s", d.Code, d.Severity)
		if d.Where != "" {
			line += " " + d.Where
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", line, d.Message); err != nil {
			return err
		}
	}
	return nil
}
