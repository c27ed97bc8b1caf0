package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/taskport/internal/bitrix"
	"github.com/desertthunder/taskport/internal/formatter"
	"github.com/desertthunder/taskport/internal/migrate"
	"github.com/desertthunder/taskport/internal/shared"
	"github.com/urfave/cli/v3"
)

// Migrate runs the migration pipeline over an exported task file.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	if r.source == nil || r.dest == nil {
		return fmt.Errorf("%w: both portal clients required", shared.ErrMissingConfig)
	}

	taskFile := cmd.String("file")
	if taskFile == "" {
		taskFile = r.config.Migration.TaskFile
	}

	records, err := loadTaskFile(taskFile)
	if err != nil {
		return err
	}

	if limit := int(cmd.Int("limit")); limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	led, err := r.openLedger()
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer led.Close()

	r.logger.Info("starting migration", "file", taskFile, "records", len(records))

	if cmd.Bool("watch") {
		return r.watchMigration(ctx, led, records)
	}

	engine := r.buildEngine(led)
	startedAt := time.Now()

	progressCh := make(chan migrate.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result := engine.Migrate(ctx, records, progressCh)
	close(progressCh)
	<-drained

	r.writePlain("\n")
	r.writePlainHeader("Migration Complete")
	r.writePlain("Total: %d\n", result.Total)
	r.writePlain("Migrated: %d\n", result.Migrated)
	r.writePlain("Skipped (already done): %d\n", result.Skipped)
	r.writePlain("Failed: %d\n", result.Failed)

	if reportPath := cmd.String("report"); reportPath != "" {
		report := formatter.RunReport{
			JobID:      shared.GenerateID(),
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
			Total:      result.Total,
			Migrated:   result.Migrated,
			Skipped:    result.Skipped,
			Failed:     result.Failed,
			Records:    result.Records,
		}
		if err := formatter.WriteRunReport(report, reportPath); err != nil {
			return err
		}
		r.writePlain("Report written to %s\n", reportPath)
	}

	return nil
}

// loadTaskFile reads an exported task array from disk.
func loadTaskFile(path string) ([]bitrix.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	var records []bitrix.Task
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse task file: %w", err)
	}

	return records, nil
}

// migrateCommand runs a migration over an exported task file.
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Migrate exported tasks into the destination group",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Exported task file (defaults to migration.task_file)",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Migrate only the first N records (sample run)",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Watch progress in an interactive terminal view",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a JSON run report to this path",
			},
		},
		Action: r.Migrate,
	}
}
