package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"nastrandiff/internal/driver"
	"nastrandiff/internal/observ"
	"nastrandiff/internal/ui"
)

type compareOutcome struct {
	result *driver.Result
	err    error
}

func runWithUI(ctx context.Context, title string, decks []string, pathA, pathB string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan compareOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Compare(ctx, pathA, pathB, optsCopy)
		outcomeCh <- compareOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, decks, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

func printTimings(w io.Writer, rep observ.Report) {
	fmt.Fprintln(w, "timings:")
	for _, p := range rep.Phases {
		fmt.Fprintf(w, "  %-24s %8.2f ms\n", p.Name, p.DurationMS)
	}
	fmt.Fprintf(w, "  %-24s %8.2f ms\n", "total", rep.TotalMS)
}
