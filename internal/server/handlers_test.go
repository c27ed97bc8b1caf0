package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskport/internal/bitrix"
	"github.com/desertthunder/taskport/internal/migrate"
)

func writeTaskFile(t *testing.T, count int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"id":"` + string(rune('1'+i)) + `","title":"Task"}`)
	}
	b.WriteString("]")

	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return path
}

// recordingRun is a RunFunc double that records submitted batches and can
// hold a run open until released.
type recordingRun struct {
	mu      sync.Mutex
	batches [][]bitrix.Task
	block   chan struct{}
	started chan struct{}
}

func (r *recordingRun) run(_ context.Context, records []bitrix.Task, _ chan<- migrate.ProgressUpdate) *migrate.RunResult {
	r.mu.Lock()
	r.batches = append(r.batches, records)
	r.mu.Unlock()

	if r.started != nil {
		close(r.started)
		r.started = nil
	}
	if r.block != nil {
		<-r.block
	}
	return &migrate.RunResult{Total: len(records), Migrated: len(records)}
}

func (r *recordingRun) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func waitForBatches(t *testing.T, r *recordingRun, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.batchCount() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d runs, got %d", want, r.batchCount())
}

func TestMigrationHandler(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("Status Route", func(t *testing.T) {
		h := NewMigrationHandler(writeTaskFile(t, 1), (&recordingRun{}).run, logger)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "migrator active") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("Sample Run Truncates The Batch", func(t *testing.T) {
		runner := &recordingRun{}
		h := NewMigrationHandler(writeTaskFile(t, 8), runner.run, logger)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/migrate/sample", nil))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Migration started: job ") {
			t.Errorf("expected job acknowledgement, got %s", rec.Body.String())
		}

		waitForBatches(t, runner, 1)
		if got := len(runner.batches[0]); got != SampleSize {
			t.Errorf("expected %d records, got %d", SampleSize, got)
		}
	})

	t.Run("Full Run Submits Everything", func(t *testing.T) {
		runner := &recordingRun{}
		h := NewMigrationHandler(writeTaskFile(t, 8), runner.run, logger)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/migrate/all", nil))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}
		waitForBatches(t, runner, 1)
		if got := len(runner.batches[0]); got != 8 {
			t.Errorf("expected 8 records, got %d", got)
		}
	})

	t.Run("Overlapping Submission Rejected", func(t *testing.T) {
		runner := &recordingRun{
			block:   make(chan struct{}),
			started: make(chan struct{}),
		}
		started := runner.started
		h := NewMigrationHandler(writeTaskFile(t, 3), runner.run, logger)

		first := httptest.NewRecorder()
		h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/migrate/all", nil))
		if first.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", first.Code)
		}
		<-started

		second := httptest.NewRecorder()
		h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/migrate/all", nil))
		if second.Code != http.StatusConflict {
			t.Errorf("expected 409 while a run is active, got %d", second.Code)
		}

		close(runner.block)
		waitForBatches(t, runner, 1)

		// Lock releases once the run finishes; allow a moment for the
		// goroutine's deferred unlock.
		deadline := time.Now().Add(2 * time.Second)
		for {
			third := httptest.NewRecorder()
			h.ServeHTTP(third, httptest.NewRequest(http.MethodGet, "/migrate/all", nil))
			if third.Code == http.StatusAccepted {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("expected 202 after run finished, got %d", third.Code)
			}
			time.Sleep(5 * time.Millisecond)
		}
	})

	t.Run("Missing Task File", func(t *testing.T) {
		h := NewMigrationHandler(filepath.Join(t.TempDir(), "missing.json"), (&recordingRun{}).run, logger)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/migrate/all", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		h := NewMigrationHandler(writeTaskFile(t, 1), (&recordingRun{}).run, logger)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/migrate/all", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Unknown Route", func(t *testing.T) {
		h := NewMigrationHandler(writeTaskFile(t, 1), (&recordingRun{}).run, logger)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/migrate/everything", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Handler Routes Registered", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(NewMigrationHandler(writeTaskFile(t, 1), (&recordingRun{}).run, log.New(io.Discard)))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("outer"), mw("inner"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		if strings.Join(order, ",") != "outer,inner,handler" {
			t.Errorf("unexpected order: %v", order)
		}
	})

	t.Run("Method Filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}
