package migrate

import (
	"reflect"
	"testing"

	"github.com/desertthunder/taskport/internal/bitrix"
)

func TestStageMap(t *testing.T) {
	stages := StageMap{
		Mapping: map[int]int{110: 210, 111: 211},
		Default: 200,
	}

	t.Run("Mapped Stage", func(t *testing.T) {
		if got := stages.Resolve("110"); got != 210 {
			t.Errorf("expected 210, got %d", got)
		}
	})

	t.Run("Unmapped Stage Falls Back", func(t *testing.T) {
		if got := stages.Resolve("999"); got != 200 {
			t.Errorf("expected default 200, got %d", got)
		}
	})

	t.Run("Non Numeric Stage Falls Back", func(t *testing.T) {
		if got := stages.Resolve("DEFAULT"); got != 200 {
			t.Errorf("expected default 200, got %d", got)
		}
		if got := stages.Resolve(""); got != 200 {
			t.Errorf("expected default 200, got %d", got)
		}
	})
}

func TestMapFields(t *testing.T) {
	stages := StageMap{Mapping: map[int]int{110: 210}, Default: 200}
	operator := Identity{OperatorID: 7}

	task := bitrix.Task{
		ID:            "15",
		Title:         "Quarterly report",
		Description:   "Draft and review",
		Status:        "3",
		StageID:       "110",
		Deadline:      "2026-10-01T00:00:00+03:00",
		StartDatePlan: "2026-09-01T00:00:00+03:00",
		EndDatePlan:   "2026-09-30T00:00:00+03:00",
		TimeEstimate:  "3600",
	}

	t.Run("Baseline Payload", func(t *testing.T) {
		fields := MapFields(task, 55, stages, operator, Enrichment{}, nil)

		if fields["TITLE"] != "Quarterly report" || fields["DESCRIPTION"] != "Draft and review" {
			t.Errorf("unexpected text fields: %v", fields)
		}
		if fields["STATUS"] != 3 || fields["TIME_ESTIMATE"] != 3600 {
			t.Errorf("unexpected numeric fields: %v", fields)
		}
		if fields["GROUP_ID"] != 55 || fields["STAGE_ID"] != 210 {
			t.Errorf("unexpected group or stage: %v", fields)
		}
		if fields["RESPONSIBLE_ID"] != 7 || fields["CREATED_BY"] != 7 {
			t.Errorf("ownership not pinned to operator: %v", fields)
		}
		if !reflect.DeepEqual(fields["AUDITORS"], []int{7}) || !reflect.DeepEqual(fields["ACCOMPLICES"], []int{7}) {
			t.Errorf("participant lists not pinned to operator: %v", fields)
		}
		for _, absent := range []string{"TAGS", "MARK", "ATTACHMENT"} {
			if _, ok := fields[absent]; ok {
				t.Errorf("expected %s to be absent without enrichment", absent)
			}
		}
	})

	t.Run("Numeric Fallbacks", func(t *testing.T) {
		bare := bitrix.Task{ID: "16", Title: "No numbers", Status: "", TimeEstimate: "n/a"}
		fields := MapFields(bare, 55, stages, operator, Enrichment{}, nil)

		if fields["STATUS"] != 1 {
			t.Errorf("expected status fallback 1, got %v", fields["STATUS"])
		}
		if fields["TIME_ESTIMATE"] != 0 {
			t.Errorf("expected time estimate fallback 0, got %v", fields["TIME_ESTIMATE"])
		}
	})

	t.Run("Enriched Payload", func(t *testing.T) {
		mark := "P"
		enr := Enrichment{Tags: []string{"urgent"}, Mark: &mark}
		fields := MapFields(task, 55, stages, operator, enr, []string{"901", "902"})

		if !reflect.DeepEqual(fields["TAGS"], []string{"urgent"}) {
			t.Errorf("unexpected tags: %v", fields["TAGS"])
		}
		if fields["MARK"] != "P" {
			t.Errorf("unexpected mark: %v", fields["MARK"])
		}
		if !reflect.DeepEqual(fields["ATTACHMENT"], []string{"901", "902"}) {
			t.Errorf("unexpected attachments: %v", fields["ATTACHMENT"])
		}
	})

	t.Run("Empty Tag List Still Sent", func(t *testing.T) {
		fields := MapFields(task, 55, stages, operator, Enrichment{Tags: []string{}}, nil)
		tags, ok := fields["TAGS"].([]string)
		if !ok || len(tags) != 0 {
			t.Errorf("expected empty tag list in payload, got %v", fields["TAGS"])
		}
	})
}

func TestEnrichmentMerge(t *testing.T) {
	mark := "N"
	var enr Enrichment
	enr.merge(Enrichment{Tags: []string{"a"}})
	enr.merge(Enrichment{Mark: &mark, FileRefs: []string{"1", "2"}})

	if !reflect.DeepEqual(enr.Tags, []string{"a"}) {
		t.Errorf("unexpected tags: %v", enr.Tags)
	}
	if enr.Mark == nil || *enr.Mark != "N" {
		t.Errorf("unexpected mark: %v", enr.Mark)
	}
	if !reflect.DeepEqual(enr.FileRefs, []string{"1", "2"}) {
		t.Errorf("unexpected refs: %v", enr.FileRefs)
	}
}
