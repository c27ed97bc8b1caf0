package migrate

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskport/internal/bitrix"
	"github.com/desertthunder/taskport/internal/ledger"
)

// Engine drives the per-record migration pipeline against a pair of portal
// clients and a checkpoint ledger.
type Engine struct {
	source      SourcePortal
	dest        DestPortal
	ledger      ledger.Ledger
	stages      StageMap
	identity    Identity
	destGroupID int
	enrichers   []Enricher
	copier      *Copier
	logger      *log.Logger
}

// EngineOpts contains configuration for creating an [Engine].
//
// CopyTags and CopyAttachments select the enrichment capabilities for the
// run; either or both may be enabled.
type EngineOpts struct {
	Source          SourcePortal
	Dest            DestPortal
	Ledger          ledger.Ledger
	Stages          StageMap
	Identity        Identity
	DestGroupID     int
	FolderID        int
	CopyTags        bool
	CopyAttachments bool
	Logger          *log.Logger
}

// NewEngine creates an Engine with the enrichment steps implied by the
// configured capabilities.
func NewEngine(opts EngineOpts) *Engine {
	e := &Engine{
		source:      opts.Source,
		dest:        opts.Dest,
		ledger:      opts.Ledger,
		stages:      opts.Stages,
		identity:    opts.Identity,
		destGroupID: opts.DestGroupID,
		logger:      opts.Logger,
	}

	if opts.CopyTags {
		e.enrichers = append(e.enrichers, TagMarkEnricher{Source: opts.Source})
	}
	if opts.CopyAttachments {
		e.enrichers = append(e.enrichers, AttachmentEnricher{Source: opts.Source, Logger: opts.Logger})
		e.copier = &Copier{
			Source:   opts.Source,
			Dest:     opts.Dest,
			FolderID: opts.FolderID,
			Logger:   opts.Logger,
		}
	}

	return e
}

// RecordOutcome is the terminal state of one record in a run.
type RecordOutcome struct {
	SourceID string `json:"source_id"`
	DestID   string `json:"dest_id,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// RunResult summarizes a migration run for reporting. Per-record failures
// are recorded here and in the log, never returned as errors.
type RunResult struct {
	Total    int             `json:"total"`
	Migrated int             `json:"migrated"`
	Skipped  int             `json:"skipped"`
	Failed   int             `json:"failed"`
	Records  []RecordOutcome `json:"records"`
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Migrate runs the pipeline over the given records, strictly one at a time
// in input order. Records already present in the ledger are skipped with no
// side effects; a failed record is logged and left unchecked so the next
// run retries it, and never halts the batch.
//
// The returned summary is informational only: from the trigger's
// perspective a run is fire-and-forget, observable through the log and the
// ledger files.
func (e *Engine) Migrate(ctx context.Context, records []bitrix.Task, progress chan<- ProgressUpdate) *RunResult {
	result := &RunResult{
		Total:   len(records),
		Records: make([]RecordOutcome, 0, len(records)),
	}

	for i, task := range records {
		step := i + 1
		id := task.ID.String()

		if e.ledger.IsDone(id) {
			e.logger.Info("already migrated", "task", id)
			e.sendProgress(progress, skippedUpdate(step, result.Total, id))
			result.Skipped++
			destID, _ := e.ledger.DestID(id)
			result.Records = append(result.Records, RecordOutcome{
				SourceID: id, DestID: destID, Title: task.Title, Status: "skipped",
			})
			continue
		}

		newID, err := e.migrateOne(ctx, task, step, result.Total, progress)
		if err != nil {
			e.logger.Error("migration failed", "task", id, "error", err)
			e.sendProgress(progress, failedUpdate(step, result.Total, id, err))
			result.Failed++
			result.Records = append(result.Records, RecordOutcome{
				SourceID: id, Title: task.Title, Status: "failed", Error: err.Error(),
			})
			continue
		}

		e.logger.Info("migrated", "task", id, "dest", newID)
		e.sendProgress(progress, checkpointedUpdate(step, result.Total, id, newID))
		result.Migrated++
		result.Records = append(result.Records, RecordOutcome{
			SourceID: id, DestID: newID, Title: task.Title, Status: "migrated",
		})
	}

	return result
}

// migrateOne runs a single record through enrich, attachment copy, create,
// comment replication, and checkpoint. Any error aborts the record with the
// ledger untouched.
func (e *Engine) migrateOne(ctx context.Context, task bitrix.Task, step, total int, progress chan<- ProgressUpdate) (string, error) {
	id := task.ID.String()

	e.sendProgress(progress, enrichingUpdate(step, total, id))

	var enr Enrichment
	for _, enricher := range e.enrichers {
		extra, err := enricher.Enrich(ctx, id)
		if err != nil {
			return "", fmt.Errorf("enrichment failed: %w", err)
		}
		enr.merge(extra)
	}

	var fileIDs []string
	if e.copier != nil {
		e.sendProgress(progress, attachmentsUpdate(step, total, id, len(enr.FileRefs)))
		fileIDs = e.copier.CopyAll(ctx, enr.FileRefs)
	}

	fields := MapFields(task, e.destGroupID, e.stages, e.identity, enr, fileIDs)

	e.logger.Info("creating", "title", task.Title)
	e.sendProgress(progress, creatingUpdate(step, total, id, task.Title))

	newID, err := e.dest.Add(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("create failed: %w", err)
	}

	count, err := CopyComments(ctx, e.source, e.dest, id, newID)
	if err != nil {
		return "", err
	}
	e.sendProgress(progress, commentsUpdate(step, total, id, count))

	if err := e.ledger.MarkDone(id, newID); err != nil {
		return "", fmt.Errorf("checkpoint failed: %w", err)
	}

	return newID, nil
}
