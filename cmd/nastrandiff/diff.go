package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"nastrandiff/internal/card"
	"nastrandiff/internal/diagfmt"
	"nastrandiff/internal/driver"
	"nastrandiff/internal/prof"
	"nastrandiff/internal/report"
)

// errDecksDiffer signals a successful run that found differences, so
// main can exit 1 instead of 2.
var errDecksDiffer = errors.New("decks differ")

var (
	diffOutput     string
	diffFormat     string
	diffRegistry   string
	diffSeparators bool
	diffUI         string
	diffCPUProfile string
	diffMemProfile string
)

func init() {
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "", "output file (default: diff-<timestamp>.html for html, stdout otherwise)")
	diffCmd.Flags().StringVar(&diffFormat, "format", "html", "output format (html|text|json|msgpack)")
	diffCmd.Flags().StringVar(&diffRegistry, "registry", "", "TOML file overriding card specs, synonyms and tolerance")
	diffCmd.Flags().BoolVarP(&diffSeparators, "separators", "s", false, "draw field separators in the html output")
	diffCmd.Flags().StringVar(&diffUI, "ui", "auto", "live progress display (auto|on|off)")
	diffCmd.Flags().StringVar(&diffCPUProfile, "cpuprofile", "", "write a CPU profile to this file")
	diffCmd.Flags().StringVar(&diffMemProfile, "memprofile", "", "write a heap profile to this file")
	_ = diffCmd.Flags().MarkHidden("cpuprofile")
	_ = diffCmd.Flags().MarkHidden("memprofile")
}

var diffCmd = &cobra.Command{
	Use:   "diff <deck-a> <deck-b>",
	Short: "Compare two input decks card by card",
	Long: `Compare assembles both decks (following INCLUDE directives and merging
continuation lines), canonicalizes every bulk data card and matches the
decks by card identity. Exit status is 0 when the decks are
semantically equal, 1 when differences were found, 2 on hard errors.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch diffFormat {
		case "html", "text", "json", "msgpack":
		default:
			return fmt.Errorf("unsupported format %q (must be html, text, json or msgpack)", diffFormat)
		}

		reg := card.DefaultRegistry()
		if diffRegistry != "" {
			var err error
			reg, err = card.LoadRegistry(diffRegistry)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
		}

		if diffCPUProfile != "" {
			session, err := prof.StartCPU(diffCPUProfile)
			if err != nil {
				return fmt.Errorf("start cpu profile: %w", err)
			}
			defer session.Stop()
		}
		if diffMemProfile != "" {
			defer func() {
				if err := prof.WriteHeap(diffMemProfile); err != nil {
					log.Errorf("write heap profile: %v", err)
				}
			}()
		}

		maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")
		opts := driver.Options{Registry: reg, MaxDiagnostics: maxDiag}

		mode, err := readUIMode(diffUI)
		if err != nil {
			return err
		}

		var res *driver.Result
		if shouldUseTUI(mode) {
			res, err = runCompareWithUI(cmd.Context(), args[0], args[1], opts)
		} else {
			res, err = driver.Compare(cmd.Context(), args[0], args[1], opts)
		}
		if err != nil {
			return err
		}

		rep := report.Build(res)
		if err := writeReport(cmd, rep); err != nil {
			return err
		}

		// Text reports embed diagnostics; the other formats get them
		// on stderr so they are not silently lost.
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet && diffFormat != "text" {
			diagfmt.Pretty(cmd.ErrOrStderr(), res.A.Bag, res.A.Deck.FileSet, diagfmt.PrettyOpts{ShowNotes: true})
			diagfmt.Pretty(cmd.ErrOrStderr(), res.B.Bag, res.B.Deck.FileSet, diagfmt.PrettyOpts{ShowNotes: true})
		}

		if timings, _ := cmd.Flags().GetBool("timings"); timings {
			printTimings(cmd.ErrOrStderr(), res.Timing)
		}

		if !rep.Empty() {
			log.Debugf("decks differ: %d modified, %d removed, %d added",
				len(rep.Modified), len(rep.Removed), len(rep.Added))
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return errDecksDiffer
		}
		return nil
	},
}

func writeReport(cmd *cobra.Command, rep *report.Report) error {
	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	switch diffFormat {
	case "html":
		return report.HTML{Separators: diffSeparators}.Render(out, rep)
	case "text":
		verbose, _ := cmd.Flags().GetBool("verbose")
		return report.Text{Verbose: verbose}.Render(out, rep)
	case "json":
		return report.WriteJSON(out, rep)
	default:
		return report.WriteMsgpack(out, rep)
	}
}

// openOutput picks the destination for the selected format. The html
// format never goes to stdout by default; it gets a timestamped file
// next to the working directory.
func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path := diffOutput
	if path == "" {
		if diffFormat != "html" {
			return cmd.OutOrStdout(), func() {}, nil
		}
		path = "diff-" + time.Now().Format("20060102150405") + ".html"
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("writing %s report to %s", diffFormat, path)
	return f, func() {
		if err := f.Close(); err != nil {
			log.Errorf("close %s: %v", path, err)
		}
	}, nil
}

func runCompareWithUI(ctx context.Context, pathA, pathB string, opts driver.Options) (*driver.Result, error) {
	return runWithUI(ctx, "comparing decks", []string{pathA, pathB}, pathA, pathB, opts)
}
