package migrate

import "fmt"

// ProgressUpdate represents a progress event during a migration run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase    Phase  // Pipeline phase
	Step     int    // Current record number within the run
	Total    int    // Total records in the run
	SourceID string // Source task id the event concerns
	Message  string // Human-readable message for display
}

// MaxUpdatesPerRecord is the most progress updates one record can emit:
// enriching, copying attachments, creating, copying comments, and exactly
// one terminal phase. Sizing a progress channel to records multiplied by
// this bound guarantees the engine's non-blocking sends never drop an
// update, even when the consumer lags.
const MaxUpdatesPerRecord = 5

// Pipeline phase enumeration
type Phase int

const (
	Skipped Phase = iota
	Enriching
	CopyingAttachments
	Creating
	CopyingComments
	Checkpointed
	Failed
)

func (p Phase) String() string {
	switch p {
	case Skipped:
		return "skipped"
	case Enriching:
		return "enriching"
	case CopyingAttachments:
		return "copying_attachments"
	case Creating:
		return "creating"
	case CopyingComments:
		return "copying_comments"
	case Checkpointed:
		return "checkpointed"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

func skippedUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    Skipped,
		Step:     step,
		Total:    total,
		SourceID: id,
		Message:  fmt.Sprintf("[%d/%d] %s already migrated", step, total, id),
	}
}

func enrichingUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    Enriching,
		Step:     step,
		Total:    total,
		SourceID: id,
		Message:  fmt.Sprintf("[%d/%d] Fetching extended fields for %s...", step, total, id),
	}
}

func attachmentsUpdate(step, total int, id string, refs int) ProgressUpdate {
	return ProgressUpdate{
		Phase:    CopyingAttachments,
		Step:     step,
		Total:    total,
		SourceID: id,
		Message:  fmt.Sprintf("[%d/%d] Copying %d attachments for %s...", step, total, refs, id),
	}
}

func creatingUpdate(step, total int, id, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    Creating,
		Step:     step,
		Total:    total,
		SourceID: id,
		Message:  fmt.Sprintf("[%d/%d] Creating: %s", step, total, title),
	}
}

func commentsUpdate(step, total int, id string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:    CopyingComments,
		Step:     step,
		Total:    total,
		SourceID: id,
		Message:  fmt.Sprintf("[%d/%d] Copying %d comments for %s...", step, total, count, id),
	}
}

func checkpointedUpdate(step, total int, id, newID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    Checkpointed,
		Step:     step,
		Total:    total,
		SourceID: id,
		Message:  fmt.Sprintf("[%d/%d] ✓ %s → %s", step, total, id, newID),
	}
}

func failedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:    Failed,
		Step:     step,
		Total:    total,
		SourceID: id,
		Message:  fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}
