package migrate

import (
	"github.com/desertthunder/taskport/internal/bitrix"
)

// Baseline values for fields that fail numeric coercion.
const (
	fallbackStatus       = 1
	fallbackTimeEstimate = 0
)

// StageMap translates source workflow stage ids into destination stage ids.
// One mapping exists per source/destination group pair and is fixed for the
// whole run.
type StageMap struct {
	Mapping map[int]int
	Default int
}

// Resolve looks up the destination stage for a source stage id. A miss, or
// a stage id that is not numeric, resolves to the default stage; lookups
// never fail.
func (m StageMap) Resolve(sourceStage bitrix.FlexString) int {
	id := sourceStage.Int(0)
	if dst, ok := m.Mapping[id]; ok {
		return dst
	}
	return m.Default
}

// Identity is the destination-side operator every migrated task is re-owned
// to: responsible, creator, auditor, and accomplice all point at one user.
type Identity struct {
	OperatorID int
}

// Enrichment carries the per-record data fetched by [Enricher]
// implementations: normalized tags, the mark flag, and attachment file
// references awaiting copy.
type Enrichment struct {
	Tags     []string
	Mark     *string
	FileRefs []string
}

// merge folds another enrichment into this one. Later enrichers win for the
// mark flag; list fields append.
func (e *Enrichment) merge(other Enrichment) {
	e.Tags = append(e.Tags, other.Tags...)
	if other.Mark != nil {
		e.Mark = other.Mark
	}
	e.FileRefs = append(e.FileRefs, other.FileRefs...)
}

// MapFields builds the destination create payload for a source task. Pure
// and total: numeric coercions fall back to baseline values, the stage
// lookup falls back to the default stage, and ownership fields are pinned
// to the configured operator.
//
// Tags, mark, and attachments appear in the payload only when the
// enrichment step produced them.
func MapFields(t bitrix.Task, destGroupID int, stages StageMap, id Identity, enr Enrichment, fileIDs []string) map[string]any {
	fields := map[string]any{
		"TITLE":       t.Title,
		"DESCRIPTION": t.Description,
		"STATUS":      t.Status.Int(fallbackStatus),
		"GROUP_ID":    destGroupID,
		"STAGE_ID":    stages.Resolve(t.StageID),

		"RESPONSIBLE_ID": id.OperatorID,
		"CREATED_BY":     id.OperatorID,
		"AUDITORS":       []int{id.OperatorID},
		"ACCOMPLICES":    []int{id.OperatorID},

		"DEADLINE":        t.Deadline,
		"START_DATE_PLAN": t.StartDatePlan,
		"END_DATE_PLAN":   t.EndDatePlan,
		"TIME_ESTIMATE":   t.TimeEstimate.Int(fallbackTimeEstimate),
	}

	if enr.Tags != nil {
		fields["TAGS"] = enr.Tags
	}
	if enr.Mark != nil {
		fields["MARK"] = *enr.Mark
	}
	if fileIDs != nil {
		fields["ATTACHMENT"] = fileIDs
	}

	return fields
}
