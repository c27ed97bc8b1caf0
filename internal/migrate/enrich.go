package migrate

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskport/internal/bitrix"
)

// SourcePortal is what the pipeline needs from the source account client.
type SourcePortal interface {
	Get(ctx context.Context, taskID string, selectFields []string) (*bitrix.TaskDetail, error)
	Comments(ctx context.Context, taskID string) ([]bitrix.Comment, error)
	FileGet(ctx context.Context, fileID string) (*bitrix.FileInfo, error)
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// DestPortal is what the pipeline needs from the destination account client.
type DestPortal interface {
	Add(ctx context.Context, fields map[string]any) (string, error)
	AddComment(ctx context.Context, taskID, message string) error
	UploadFile(ctx context.Context, folderID int, name string, data []byte) (string, error)
}

// Enricher fetches per-record data that the bulk list response omits.
// The engine runs each configured enricher once per record and merges the
// results, so the two historical pipeline variants (tags+mark and
// attachments) compose instead of duplicating the pipeline.
type Enricher interface {
	Enrich(ctx context.Context, taskID string) (Enrichment, error)
}

// TagMarkEnricher fetches the tag variants and the mark flag for a task.
type TagMarkEnricher struct {
	Source SourcePortal
}

var tagSelect = []string{"TAGS", "SE_TAG", "tags", "MARK"}

// Enrich issues one rate-limited get for the tag and mark fields.
func (e TagMarkEnricher) Enrich(ctx context.Context, taskID string) (Enrichment, error) {
	detail, err := e.Source.Get(ctx, taskID, tagSelect)
	if err != nil {
		return Enrichment{}, err
	}

	return Enrichment{
		Tags: NormalizeTags(detail),
		Mark: detail.Mark,
	}, nil
}

// NormalizeTags resolves the three historical tag shapes into a flat list
// of tag names. Priority order: the direct name list, then tag objects with
// a NAME property, then the legacy dictionary keyed shape with title
// properties. The first non-empty shape wins; tags never merge across
// shapes.
func NormalizeTags(d *bitrix.TaskDetail) []string {
	if len(d.Tags) > 0 {
		return d.Tags
	}

	if len(d.SETags) > 0 {
		tags := make([]string, 0, len(d.SETags))
		for _, t := range d.SETags {
			tags = append(tags, t.Name)
		}
		return tags
	}

	if len(d.LegacyTags) > 0 {
		// The legacy dictionary is keyed by tag id. Titles come out in
		// ascending key order, numeric keys first, so repeated runs see
		// the same tag list.
		keys := make([]string, 0, len(d.LegacyTags))
		for k := range d.LegacyTags {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, aErr := strconv.Atoi(keys[i])
			b, bErr := strconv.Atoi(keys[j])
			if aErr == nil && bErr == nil {
				return a < b
			}
			if (aErr == nil) != (bErr == nil) {
				return aErr == nil
			}
			return keys[i] < keys[j]
		})

		tags := make([]string, 0, len(keys))
		for _, k := range keys {
			tags = append(tags, d.LegacyTags[k].Title)
		}
		return tags
	}

	return []string{}
}

// AttachmentEnricher collects the attachment file references for a task,
// merging the modern attachment list with legacy path-encoded references.
type AttachmentEnricher struct {
	Source SourcePortal
	Logger *log.Logger
}

// Enrich fetches the task's file references. A lookup failure yields an
// empty reference set rather than failing the record; the task still
// migrates, just without attachments.
func (e AttachmentEnricher) Enrich(ctx context.Context, taskID string) (Enrichment, error) {
	detail, err := e.Source.Get(ctx, taskID, nil)
	if err != nil {
		if e.Logger != nil {
			e.Logger.Error("failed to fetch attachment refs", "task", taskID, "error", err)
		}
		return Enrichment{FileRefs: []string{}}, nil
	}

	refs := make([]string, 0, len(detail.Attachments))
	for _, id := range detail.Attachments {
		refs = append(refs, id.String())
	}

	// Legacy WebDAV references encode the file id after the last colon.
	for _, ref := range detail.WebdavFiles {
		parts := strings.Split(ref, ":")
		if id := parts[len(parts)-1]; id != "" {
			refs = append(refs, id)
		}
	}

	return Enrichment{FileRefs: refs}, nil
}
