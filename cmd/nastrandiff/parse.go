package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nastrandiff/internal/canon"
	"nastrandiff/internal/card"
	"nastrandiff/internal/deck"
	"nastrandiff/internal/diag"
	"nastrandiff/internal/diagfmt"
	"nastrandiff/internal/report"
	"nastrandiff/internal/source"
)

var parseRegistry string

func init() {
	parseCmd.Flags().StringVar(&parseRegistry, "registry", "", "TOML file overriding card specs, synonyms and tolerance")
}

var parseCmd = &cobra.Command{
	Use:   "parse <deck>",
	Short: "Assemble one deck and dump its cards",
	Long: `Parse expands INCLUDE directives, merges continuations and prints every
bulk data card in canonical small-field layout with its source
location. Useful for checking what the comparison will actually see.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := card.DefaultRegistry()
		if parseRegistry != "" {
			var err error
			reg, err = card.LoadRegistry(parseRegistry)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
		}

		maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")
		bag := diag.NewBag(maxDiag)
		d, err := deck.Assemble(source.OSLoader{}, args[0], reg, diag.BagReporter{Bag: bag})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d executive, %d case control, %d bulk cards, %d include edges\n",
			args[0], len(d.Executive), len(d.CaseControl), len(d.Cards), len(d.Includes))
		for _, c := range d.Cards {
			cc := canon.Canonicalize(c, reg, diag.NopReporter{})
			fmt.Fprintf(out, "%-24s %s\n", d.FileSet.FormatLoc(c.Loc), report.FormatCard(cc))
		}

		bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, d.FileSet, diagfmt.PrettyOpts{Context: true, ShowNotes: true})
		return nil
	},
}
