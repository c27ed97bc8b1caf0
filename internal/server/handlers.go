package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskport/internal/bitrix"
	"github.com/desertthunder/taskport/internal/migrate"
	"github.com/desertthunder/taskport/internal/shared"
)

// SampleSize is how many records a sample run migrates.
const SampleSize = 5

// RunFunc executes a migration over the given records. Satisfied by
// [migrate.Engine.Migrate].
type RunFunc func(ctx context.Context, records []bitrix.Task, progress chan<- migrate.ProgressUpdate) *migrate.RunResult

// MigrationHandler exposes the migration trigger surface: a textual status
// route and two fire-and-forget run routes. Run routes read the exported
// task file, submit the batch to a background goroutine, and immediately
// acknowledge with a job id; outcomes are observable only through the
// process log and the ledger files.
//
// A run-level lock rejects overlapping submissions, since the ledger is not
// safe under concurrent runs.
type MigrationHandler struct {
	taskFile string
	run      RunFunc
	logger   *log.Logger
	mu       sync.Mutex
}

// NewMigrationHandler creates the trigger handler for the given exported
// task file and run function.
func NewMigrationHandler(taskFile string, run RunFunc, logger *log.Logger) *MigrationHandler {
	return &MigrationHandler{
		taskFile: taskFile,
		run:      run,
		logger:   logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *MigrationHandler) Routes() []string {
	return []string{"/", "/migrate/sample", "/migrate/all"}
}

// ServeHTTP dispatches the status and trigger routes.
func (h *MigrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "taskport migrator active • GET /migrate/sample or /migrate/all")
	case "/migrate/sample":
		h.submit(w, SampleSize)
	case "/migrate/all":
		h.submit(w, 0)
	default:
		http.NotFound(w, r)
	}
}

// submit loads the task file and starts a background run over the first
// limit records (0 means all). The response only reports that the run
// started.
func (h *MigrationHandler) submit(w http.ResponseWriter, limit int) {
	records, err := h.loadTasks()
	if err != nil {
		h.logger.Error("failed to load task file", "file", h.taskFile, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	if !h.mu.TryLock() {
		http.Error(w, shared.ErrRunActive.Error(), http.StatusConflict)
		return
	}

	jobID := shared.GenerateID()
	h.logger.Info("migration submitted", "job", jobID, "records", len(records))

	go func() {
		defer h.mu.Unlock()
		result := h.run(context.Background(), records, nil)
		h.logger.Info("migration finished",
			"job", jobID,
			"migrated", result.Migrated,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintf(w, "Migration started: job %s (%d tasks) – watch the log.\n", jobID, len(records))
}

func (h *MigrationHandler) loadTasks() ([]bitrix.Task, error) {
	data, err := os.ReadFile(h.taskFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	var records []bitrix.Task
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse task file: %w", err)
	}

	return records, nil
}
