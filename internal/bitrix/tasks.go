package bitrix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/taskport/internal/shared"
)

// PageSize is the fixed page length used by the task list endpoint.
const PageSize = 50

// FlexString decodes a JSON value that may arrive as a string or a number.
// Portal responses use strings for ids and numeric fields in camelCase
// payloads but plain numbers in some legacy and disk payloads.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Int converts the value to an int, returning fallback when the value is
// empty or not numeric.
func (f FlexString) Int(fallback int) int {
	n, err := strconv.Atoi(string(f))
	if err != nil {
		return fallback
	}
	return n
}

// Task is one task record as returned by the list endpoint.
type Task struct {
	ID            FlexString `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        FlexString `json:"status"`
	StageID       FlexString `json:"stageId"`
	Deadline      string     `json:"deadline"`
	StartDatePlan string     `json:"startDatePlan"`
	EndDatePlan   string     `json:"endDatePlan"`
	TimeEstimate  FlexString `json:"timeEstimate"`
}

// NamedTag is the SE_TAG tag shape exposing a NAME property.
type NamedTag struct {
	Name string `json:"NAME"`
}

// TitledTag is the legacy dictionary tag shape exposing a title property.
type TitledTag struct {
	Title string `json:"title"`
}

// TaskDetail carries the extended fields only available from the get
// endpoint: the three tag shapes, the mark flag, and attachment references.
type TaskDetail struct {
	Tags        []string             `json:"TAGS"`
	SETags      []NamedTag           `json:"SE_TAG"`
	LegacyTags  map[string]TitledTag `json:"tags"`
	Mark        *string              `json:"MARK"`
	Attachments []FlexString         `json:"ATTACHMENT"`
	WebdavFiles []string             `json:"UF_TASK_WEBDAV_FILES"`
}

// ListPage fetches one page of tasks for a group starting at the given
// offset. The server truncates the final page below [PageSize].
func (c *Client) ListPage(ctx context.Context, groupID, start int) ([]Task, error) {
	query := url.Values{}
	query.Set("filter[GROUP_ID]", strconv.Itoa(groupID))
	query.Set("start", strconv.Itoa(start))

	var envelope struct {
		Result struct {
			Tasks []Task `json:"tasks"`
		} `json:"result"`
	}

	if err := c.get(ctx, "tasks.task.list", query, &envelope); err != nil {
		return nil, err
	}

	return envelope.Result.Tasks, nil
}

// ListAll fetches every task in a group by advancing through fixed-size
// pages until a short page signals the end of the data set.
func (c *Client) ListAll(ctx context.Context, groupID int) ([]Task, error) {
	var all []Task
	start := 0

	for {
		page, err := c.ListPage(ctx, groupID, start)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)

		if len(page) < PageSize {
			return all, nil
		}
		start += PageSize
	}
}

// Get fetches the extended fields for a single task. The select list
// controls which tag variants, mark, and attachment fields are returned.
func (c *Client) Get(ctx context.Context, taskID string, selectFields []string) (*TaskDetail, error) {
	query := url.Values{}
	query.Set("taskId", taskID)
	for i, field := range selectFields {
		query.Set(fmt.Sprintf("select[%d]", i), field)
	}

	var envelope struct {
		Result struct {
			Task TaskDetail `json:"task"`
		} `json:"result"`
	}

	if err := c.get(ctx, "tasks.task.get", query, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Result.Task, nil
}

// Add creates a task from the given field payload and returns the new task
// id. A response without a result payload is a hard error for the record.
func (c *Client) Add(ctx context.Context, fields map[string]any) (string, error) {
	var envelope struct {
		Result *struct {
			Task struct {
				ID FlexString `json:"id"`
			} `json:"task"`
		} `json:"result"`
	}

	payload := map[string]any{"fields": fields}
	if err := c.post(ctx, "tasks.task.add.json", payload, &envelope); err != nil {
		return "", err
	}

	if envelope.Result == nil || envelope.Result.Task.ID == "" {
		return "", fmt.Errorf("%w: tasks.task.add", shared.ErrNoResult)
	}

	return envelope.Result.Task.ID.String(), nil
}
