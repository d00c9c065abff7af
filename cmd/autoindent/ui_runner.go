package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"autoindent/internal/driver"
	"autoindent/internal/ui"
)

type reindentOutcome struct {
	results []driver.Result
	err     error
}

// runReindentWithUI runs the batch while a Bubble Tea view renders progress.
// Closing the UI early does not stop the batch; the remaining events are
// drained.
func runReindentWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan reindentOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.ReindentPaths(ctx, files, runOpts)
		close(events)
		outcomeCh <- reindentOutcome{results: res, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
