package migrate

import (
	"context"
	"fmt"

	"github.com/desertthunder/taskport/internal/bitrix"
	"github.com/desertthunder/taskport/internal/formatter"
)

// Lister is the pagination surface of the source portal client.
type Lister interface {
	ListAll(ctx context.Context, groupID int) ([]bitrix.Task, error)
}

// Export pulls every task in the source group through the paginated list
// endpoint and writes the accumulated array to a JSON file. The file is the
// out-of-band input that [Engine.Migrate] later consumes.
func Export(ctx context.Context, src Lister, groupID int, path string) (int, error) {
	tasks, err := src.ListAll(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to list group %d: %w", groupID, err)
	}

	if err := formatter.WriteTaskExport(tasks, path); err != nil {
		return 0, err
	}

	return len(tasks), nil
}
