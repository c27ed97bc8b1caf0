package migrate

import (
	"context"
	"fmt"
)

// CopyComments replicates every comment from the source task onto the
// newly created destination task: one list fetch, then one write per
// comment in source order. Only the message body carries over.
//
// A failure partway through leaves a partial comment set on the
// destination; the caller treats that as a record failure so the task is
// retried (and the ledger stays unset).
func CopyComments(ctx context.Context, src SourcePortal, dst DestPortal, oldID, newID string) (int, error) {
	comments, err := src.Comments(ctx, oldID)
	if err != nil {
		return 0, fmt.Errorf("failed to list comments: %w", err)
	}

	for i, comment := range comments {
		if err := dst.AddComment(ctx, newID, comment.Message); err != nil {
			return i, fmt.Errorf("failed to add comment %d of %d: %w", i+1, len(comments), err)
		}
	}

	return len(comments), nil
}
