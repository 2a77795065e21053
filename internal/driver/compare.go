package driver

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"nastrandiff/internal/canon"
	"nastrandiff/internal/card"
	"nastrandiff/internal/deck"
	"nastrandiff/internal/diag"
	"nastrandiff/internal/match"
	"nastrandiff/internal/observ"
	"nastrandiff/internal/source"
)

// DefaultMaxDiagnostics bounds each deck's diagnostic bag when the
// caller does not override it.
const DefaultMaxDiagnostics = 256

// Options configures a comparison run.
type Options struct {
	// Registry supplies card specs, synonyms and the numeric tolerance.
	// Nil means card.DefaultRegistry().
	Registry *card.Registry

	// Loader reads deck files. Nil means source.OSLoader reading from
	// the real filesystem.
	Loader source.Loader

	// MaxDiagnostics caps the diagnostics kept per deck. Values <= 0
	// fall back to DefaultMaxDiagnostics.
	MaxDiagnostics int

	// Progress receives stage events. May be nil.
	Progress ProgressSink
}

// DeckResult bundles everything produced for one side of the comparison.
type DeckResult struct {
	Path  string
	Deck  *deck.Deck
	Cards []canon.Card
	Bag   *diag.Bag
}

// Result is the outcome of a full comparison.
type Result struct {
	A, B DeckResult
	Diff match.Result

	// Timing holds per-phase durations for --timings output.
	Timing observ.Report
}

// Compare assembles and canonicalizes both decks in parallel, then
// matches them. Assembly failures (an unreadable root file) abort the
// run; everything recoverable lands in the per-deck bags instead.
func Compare(ctx context.Context, pathA, pathB string, opts Options) (*Result, error) {
	reg := opts.Registry
	if reg == nil {
		reg = card.DefaultRegistry()
	}
	loader := opts.Loader
	if loader == nil {
		loader = source.OSLoader{}
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = DefaultMaxDiagnostics
	}

	emit := func(evt Event) {
		if opts.Progress != nil {
			opts.Progress.OnEvent(evt)
		}
	}

	paths := [2]string{pathA, pathB}
	var sides [2]DeckResult
	var elapsed [2]time.Duration

	for i := range paths {
		emit(Event{Path: paths[i], Stage: StageAssemble, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range paths {
		g.Go(func(i int) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				path := paths[i]
				start := time.Now()
				bag := diag.NewBag(maxDiag)
				reporter := diag.BagReporter{Bag: bag}

				emit(Event{Path: path, Stage: StageAssemble, Status: StatusWorking})
				d, err := deck.Assemble(loader, path, reg, reporter)
				if err != nil {
					emit(Event{Path: path, Stage: StageAssemble, Status: StatusError, Err: err})
					return err
				}

				emit(Event{Path: path, Stage: StageCanon, Status: StatusWorking})
				cards := make([]canon.Card, 0, len(d.Cards))
				for _, c := range d.Cards {
					cards = append(cards, canon.Canonicalize(c, reg, reporter))
				}

				elapsed[i] = time.Since(start)
				sides[i] = DeckResult{Path: path, Deck: d, Cards: cards, Bag: bag}
				emit(Event{Path: path, Stage: StageCanon, Status: StatusDone, Elapsed: elapsed[i]})
				return nil
			}
		}(i))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	timer := observ.NewTimer()
	timer.Add("assemble "+sides[0].Path, elapsed[0], "")
	timer.Add("assemble "+sides[1].Path, elapsed[1], "")

	emit(Event{Stage: StageDiff, Status: StatusWorking})
	phase := timer.Begin("diff")
	diff := match.Diff(
		sides[0].Cards, sides[1].Cards,
		reg.Tolerance(),
		diag.BagReporter{Bag: sides[0].Bag},
		diag.BagReporter{Bag: sides[1].Bag},
	)
	timer.End(phase, "")
	emit(Event{Stage: StageDiff, Status: StatusDone})

	for i := range sides {
		sides[i].Bag.Sort()
		sides[i].Bag.Dedup()
	}

	return &Result{
		A:      sides[0],
		B:      sides[1],
		Diff:   diff,
		Timing: timer.Report(),
	}, nil
}
