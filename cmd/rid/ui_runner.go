package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"rid/internal/driver"
	"rid/internal/pipeline"
	"rid/internal/ui"
)

type generateOutcome struct {
	result *driver.Result
	err    error
}

// runGenerateWithUI runs driver.Generate while a progress view renders its
// events to out.
func runGenerateWithUI(ctx context.Context, title string, files []string, opts driver.Options, out io.Writer) (*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.Generate(ctx, optsCopy)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	// the view may quit early; keep the generator from blocking on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
