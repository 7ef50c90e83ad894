package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"stylint/internal/driver"
	"stylint/internal/ui"
)

type lintOutcome struct {
	result *driver.Result
	err    error
}

// runLintWithUI runs driver.LintPaths in the background and renders its
// progress events until the run finishes.
func runLintWithUI(ctx context.Context, out io.Writer, title string, files, paths []string, baseDir string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.LintPaths(ctx, paths, baseDir, optsCopy)
		outcomeCh <- lintOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// после ctrl+c события больше никто не читает
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
