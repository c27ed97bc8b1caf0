package migrate

import (
	"context"

	"github.com/charmbracelet/log"
)

// Copier copies attachment content from the source portal into a
// destination disk folder.
type Copier struct {
	Source   SourcePortal
	Dest     DestPortal
	FolderID int
	Logger   *log.Logger
}

// CopyAll copies each referenced file and returns the destination file ids
// in reference order. References are processed strictly sequentially: the
// shared limiter stays honest and destination ids keep a deterministic
// order for re-association.
//
// A failure on a single reference is logged and that reference is dropped
// from the result; it never fails the record.
func (c *Copier) CopyAll(ctx context.Context, refs []string) []string {
	newIDs := make([]string, 0, len(refs))

	for _, ref := range refs {
		newID, err := c.copyOne(ctx, ref)
		if err != nil {
			c.Logger.Error("failed to copy attachment", "file", ref, "error", err)
			continue
		}
		newIDs = append(newIDs, newID)
	}

	return newIDs
}

// copyOne resolves one file reference to metadata and a download URL, pulls
// the raw bytes over the content URL, and re-uploads them to the
// destination folder.
func (c *Copier) copyOne(ctx context.Context, ref string) (string, error) {
	info, err := c.Source.FileGet(ctx, ref)
	if err != nil {
		return "", err
	}

	data, err := c.Source.Download(ctx, info.DownloadURL)
	if err != nil {
		return "", err
	}

	return c.Dest.UploadFile(ctx, c.FolderID, info.Name, data)
}
