package bitrix

import (
	"context"
	"net/url"
)

// Comment is one task comment. Only the message body survives migration;
// authorship and timestamps stay behind on the source portal.
type Comment struct {
	ID      FlexString `json:"ID"`
	Message string     `json:"POST_MESSAGE"`
}

// Comments fetches the full comment list for a task in one call, in source
// order. The endpoint does not paginate.
func (c *Client) Comments(ctx context.Context, taskID string) ([]Comment, error) {
	query := url.Values{}
	query.Set("taskId", taskID)

	var envelope struct {
		Result []Comment `json:"result"`
	}

	if err := c.get(ctx, "task.commentitem.getlist.json", query, &envelope); err != nil {
		return nil, err
	}

	return envelope.Result, nil
}

// AddComment appends a comment with the given message body to a task.
func (c *Client) AddComment(ctx context.Context, taskID, message string) error {
	payload := map[string]any{
		"taskId": taskID,
		"fields": map[string]any{"POST_MESSAGE": message},
	}

	return c.post(ctx, "task.commentitem.add.json", payload, nil)
}
