package migrate

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskport/internal/bitrix"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// stubSource is a programmable [SourcePortal]. Unset hooks return empty
// results.
type stubSource struct {
	get      func(taskID string, sel []string) (*bitrix.TaskDetail, error)
	comments func(taskID string) ([]bitrix.Comment, error)
	fileGet  func(fileID string) (*bitrix.FileInfo, error)
	download func(rawURL string) ([]byte, error)

	getCalls []string
}

func (s *stubSource) Get(_ context.Context, taskID string, sel []string) (*bitrix.TaskDetail, error) {
	s.getCalls = append(s.getCalls, taskID)
	if s.get == nil {
		return &bitrix.TaskDetail{}, nil
	}
	return s.get(taskID, sel)
}

func (s *stubSource) Comments(_ context.Context, taskID string) ([]bitrix.Comment, error) {
	if s.comments == nil {
		return nil, nil
	}
	return s.comments(taskID)
}

func (s *stubSource) FileGet(_ context.Context, fileID string) (*bitrix.FileInfo, error) {
	if s.fileGet == nil {
		return &bitrix.FileInfo{Name: "file-" + fileID, DownloadURL: "https://src/" + fileID}, nil
	}
	return s.fileGet(fileID)
}

func (s *stubSource) Download(_ context.Context, rawURL string) ([]byte, error) {
	if s.download == nil {
		return []byte(rawURL), nil
	}
	return s.download(rawURL)
}

// stubDest is a recording [DestPortal]. Created tasks get sequential ids
// starting at 1001.
type stubDest struct {
	mu       sync.Mutex
	addErr   func(fields map[string]any) error
	addCalls []map[string]any
	comments []string
	uploads  []string

	commentErr error
	uploadErr  func(name string) error
}

func (d *stubDest) Add(_ context.Context, fields map[string]any) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.addErr != nil {
		if err := d.addErr(fields); err != nil {
			return "", err
		}
	}
	d.addCalls = append(d.addCalls, fields)
	return strconv.Itoa(1000 + len(d.addCalls)), nil
}

func (d *stubDest) AddComment(_ context.Context, taskID, message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.commentErr != nil {
		return d.commentErr
	}
	d.comments = append(d.comments, taskID+":"+message)
	return nil
}

func (d *stubDest) UploadFile(_ context.Context, folderID int, name string, data []byte) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.uploadErr != nil {
		if err := d.uploadErr(name); err != nil {
			return "", err
		}
	}
	d.uploads = append(d.uploads, name)
	return "up-" + strconv.Itoa(len(d.uploads)), nil
}

var errStub = errors.New("stub failure")
