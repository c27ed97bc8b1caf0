package formatter

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/taskport/internal/bitrix"
	tu "github.com/desertthunder/taskport/internal/testing"
)

func TestWriteTaskExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	tasks := []bitrix.Task{
		{ID: "1", Title: "One", Status: "2"},
		{ID: "2", Title: "Two"},
	}

	if err := WriteTaskExport(tasks, path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var decoded []bitrix.Task
	if err := json.Unmarshal([]byte(tu.MustReadFile(t, path)), &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Title != "One" {
		t.Errorf("unexpected export: %+v", decoded)
	}
}

func TestWriteRunReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := RunReport{
		JobID:      "job-1",
		StartedAt:  time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 9, 1, 10, 5, 0, 0, time.UTC),
		Total:      10,
		Migrated:   8,
		Skipped:    1,
		Failed:     1,
	}

	if err := WriteRunReport(report, path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var decoded RunReport
	if err := json.Unmarshal([]byte(tu.MustReadFile(t, path)), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.JobID != "job-1" || decoded.Migrated != 8 {
		t.Errorf("unexpected report: %+v", decoded)
	}
}
