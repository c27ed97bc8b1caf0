package bitrix

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/desertthunder/taskport/internal/shared"
)

// FileInfo is a disk file's metadata, including the direct content URL.
type FileInfo struct {
	Name        string `json:"NAME"`
	DownloadURL string `json:"DOWNLOAD_URL"`
}

// FileGet fetches metadata and the download URL for a disk file.
func (c *Client) FileGet(ctx context.Context, fileID string) (*FileInfo, error) {
	query := url.Values{}
	query.Set("id", fileID)

	var envelope struct {
		Result struct {
			File FileInfo `json:"file"`
		} `json:"result"`
	}

	if err := c.get(ctx, "disk.file.get", query, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Result.File, nil
}

// UploadFile uploads file content into a disk folder and returns the new
// file id. The form names the destination folder, the file name, and the
// raw bytes, matching the disk.folder.uploadfile contract.
func (c *Client) UploadFile(ctx context.Context, folderID int, name string, data []byte) (string, error) {
	build := func(w *multipart.Writer) error {
		if err := w.WriteField("id", strconv.Itoa(folderID)); err != nil {
			return err
		}
		if err := w.WriteField("data[NAME]", name); err != nil {
			return err
		}
		part, err := w.CreateFormFile("file", name)
		if err != nil {
			return err
		}
		_, err = part.Write(data)
		return err
	}

	var envelope struct {
		Result *struct {
			File struct {
				ID FlexString `json:"id"`
			} `json:"file"`
		} `json:"result"`
	}

	if err := c.postForm(ctx, "disk.folder.uploadfile", build, &envelope); err != nil {
		return "", err
	}

	if envelope.Result == nil || envelope.Result.File.ID == "" {
		return "", fmt.Errorf("%w: disk.folder.uploadfile", shared.ErrNoResult)
	}

	return envelope.Result.File.ID.String(), nil
}
