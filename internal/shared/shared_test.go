package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	tu "github.com/desertthunder/taskport/internal/testing"
	"github.com/google/uuid"
)

func TestNewLogger(t *testing.T) {
	t.Run("Writes To The Given Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("Nil Writer Defaults To Stderr", func(t *testing.T) {
		if logger := NewLogger(nil); logger == nil {
			t.Error("expected a logger")
		}
	})

	t.Run("With Adds Fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "job", "abc")
		logger.Info("running")

		if !strings.Contains(buf.String(), "job") || !strings.Contains(buf.String(), "abc") {
			t.Errorf("expected job field in output, got %q", buf.String())
		}
	})

	t.Run("Level Filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("hidden")

		if strings.Contains(buf.String(), "hidden") {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	logger.Info("to file")

	// The logger holds the file open; the write is unbuffered.
	content := tu.MustReadFile(t, path)
	if !strings.Contains(content, "to file") {
		t.Errorf("expected log line in file, got %q", content)
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected a valid uuid, got %q: %v", id, err)
	}
	if id == GenerateID() {
		t.Error("expected unique ids")
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"a": 1}

	compact, err := MarshalJSON(v, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(compact) != `{"a":1}` {
		t.Errorf("unexpected compact output: %s", compact)
	}

	pretty, err := MarshalJSON(v, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Errorf("expected indented output: %s", pretty)
	}
}
