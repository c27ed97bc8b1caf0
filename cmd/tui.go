package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/taskport/internal/bitrix"
	"github.com/desertthunder/taskport/internal/ledger"
	"github.com/desertthunder/taskport/internal/migrate"
	"github.com/desertthunder/taskport/internal/shared"
	"github.com/desertthunder/taskport/internal/ui"
)

// watchMigration runs the engine in the background and renders its progress
// in the terminal watcher.
func (r *Runner) watchMigration(ctx context.Context, led ledger.Ledger, records []bitrix.Task) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/taskport-watch.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	engine := r.buildEngine(led)

	// The watcher counts outcomes off this channel, so it must hold every
	// update the run can emit; a smaller buffer would let slow rendering
	// drop terminal phases and skew the summary.
	progressCh := make(chan migrate.ProgressUpdate, len(records)*migrate.MaxUpdatesPerRecord+1)
	go func() {
		engine.Migrate(ctx, records, progressCh)
		close(progressCh)
	}()

	model := ui.NewModel(progressCh)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running watcher: %w", err)
	}

	return nil
}
