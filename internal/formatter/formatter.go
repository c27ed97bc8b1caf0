// Package formatter writes migration artifacts to disk: the exported task
// file consumed by migration runs and the post-run summary report.
package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/taskport/internal/bitrix"
	"github.com/desertthunder/taskport/internal/shared"
)

// WriteTaskExport writes the accumulated task array as pretty-printed JSON.
func WriteTaskExport(tasks []bitrix.Task, path string) error {
	data, err := shared.MarshalJSON(tasks, true)
	if err != nil {
		return fmt.Errorf("failed to marshal task export: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write task export: %w", err)
	}

	return nil
}

// RunReport is the JSON summary written after a migration run.
type RunReport struct {
	JobID      string    `json:"job_id,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Migrated   int       `json:"migrated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Records    any       `json:"records,omitempty"`
}

// WriteRunReport writes the run summary as pretty-printed JSON.
func WriteRunReport(report RunReport, path string) error {
	data, err := shared.MarshalJSON(report, true)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	return nil
}
