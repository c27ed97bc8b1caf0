package migrate

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/desertthunder/taskport/internal/bitrix"
	tu "github.com/desertthunder/taskport/internal/testing"
)

type stubLister struct {
	tasks []bitrix.Task
	err   error
	group int
}

func (l *stubLister) ListAll(_ context.Context, groupID int) ([]bitrix.Task, error) {
	l.group = groupID
	return l.tasks, l.err
}

func TestExport(t *testing.T) {
	t.Run("Writes The Task File", func(t *testing.T) {
		lister := &stubLister{tasks: testTasks("1", "2", "3")}
		path := filepath.Join(t.TempDir(), "tasks.json")

		count, err := Export(context.Background(), lister, 42, path)

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 tasks, got %d", count)
		}
		if lister.group != 42 {
			t.Errorf("expected group 42, got %d", lister.group)
		}

		var tasks []bitrix.Task
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, path)), &tasks); err != nil {
			t.Fatalf("export is not valid JSON: %v", err)
		}
		if len(tasks) != 3 || tasks[0].ID != "1" {
			t.Errorf("unexpected export content: %+v", tasks)
		}
	})

	t.Run("List Failure", func(t *testing.T) {
		lister := &stubLister{err: errStub}
		if _, err := Export(context.Background(), lister, 42, filepath.Join(t.TempDir(), "tasks.json")); err == nil {
			t.Error("expected error")
		}
	})
}
