// Package pipeline implements the multi-stage allocation core:
// requirement resolution, candidate discovery, availability scoring and
// the assignment commit. One work item at a time, greedily.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"workalloc/internal/explain"
	"workalloc/internal/model"
	"workalloc/internal/semantic"
	"workalloc/internal/store"
	"workalloc/internal/timeutil"
)

// maxCommitAttempts bounds re-scoring when the conditional commit loses
// a race on a slot's workload.
const maxCommitAttempts = 3

const noCandidateMessage = "No candidate available"

// Pipeline sequences the allocation stages and exposes the outward
// operations.
type Pipeline struct {
	store     store.Store
	resolver  *Resolver
	discovery *Discovery
	matcher   *Matcher
	explainer explain.Explainer
}

// New wires a pipeline. searcher may be nil (semantic expansion off);
// explainer may be nil (template rationale).
func New(s store.Store, searcher semantic.Searcher, explainer explain.Explainer) *Pipeline {
	if explainer == nil {
		explainer = explain.Template{}
	}
	return &Pipeline{
		store:     s,
		resolver:  NewResolver(s),
		discovery: NewDiscovery(s, searcher),
		matcher:   NewMatcher(s),
		explainer: explainer,
	}
}

// IntakeParams are the five required intake fields. Date is an ISO
// YYYY-MM-DD string; Time is HH:MM or HH:MM:SS.
type IntakeParams struct {
	WorkType    string `json:"work_type"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Date        string `json:"scheduled_date"`
	Time        string `json:"scheduled_time"`
}

// Intake validates the payload, composes the scheduled timestamp and
// persists a new pending work item.
func (p *Pipeline) Intake(ctx context.Context, params IntakeParams) (*model.WorkItem, error) {
	// Fields are checked in declaration order so the reported field is
	// deterministic when several are missing.
	required := []struct {
		field   string
		present bool
	}{
		{"work_type", params.WorkType != ""},
		{"description", params.Description != ""},
		{"priority", params.Priority != 0},
		{"scheduled_date", params.Date != ""},
		{"scheduled_time", params.Time != ""},
	}
	for _, r := range required {
		if !r.present {
			return nil, &ValidationError{Field: r.field}
		}
	}

	scheduledAt, err := timeutil.Combine(params.Date, params.Time)
	if err != nil {
		return nil, &FormatError{Cause: err}
	}

	item := model.WorkItem{
		ID:          p.store.NewWorkID(),
		WorkType:    params.WorkType,
		Description: params.Description,
		Priority:    params.Priority,
		ScheduledAt: scheduledAt,
		Status:      model.StatusPending,
		CreatedAt:   time.Now(),
	}
	if err := p.store.CreateWorkItem(ctx, item); err != nil {
		return nil, err
	}

	log.Info().Str("work_id", item.ID).Str("work_type", item.WorkType).
		Int("priority", item.Priority).Msg("work item created")
	return &item, nil
}

// Trace is the verbose view of one assignment run.
type Trace struct {
	Analysis   *Requirement            `json:"analysis"`
	Candidates []model.Resource        `json:"candidates"`
	Scored     []model.ScoredCandidate `json:"scored"`
	Assignment *model.AssignmentResult `json:"assignment"`
}

// Assign runs the pipeline on a stored work item and commits the
// top-ranked candidate. An empty ranking is a normal "no candidate"
// result, not an error.
func (p *Pipeline) Assign(ctx context.Context, workID string) (*model.AssignmentResult, error) {
	trace, err := p.run(ctx, workID)
	if err != nil {
		return nil, err
	}
	return trace.Assignment, nil
}

// AssignVerbose is Assign plus the intermediate stage outputs.
func (p *Pipeline) AssignVerbose(ctx context.Context, workID string) (*Trace, error) {
	return p.run(ctx, workID)
}

func (p *Pipeline) run(ctx context.Context, workID string) (*Trace, error) {
	for attempt := 1; ; attempt++ {
		req, err := p.resolver.Resolve(ctx, workID)
		if err != nil {
			return nil, err
		}

		candidates, err := p.discovery.Find(ctx, req)
		if err != nil {
			return nil, err
		}

		scored, err := p.matcher.Score(ctx, candidates, req.Work.ScheduledAt, req.RequiredSpecialty, req.Work.Priority)
		if err != nil {
			return nil, err
		}

		trace := &Trace{Analysis: req, Candidates: candidates, Scored: scored}
		scheduledAt := req.Work.ScheduledAt
		result := &model.AssignmentResult{
			WorkID:      workID,
			WorkType:    req.Work.WorkType,
			Priority:    req.Work.Priority,
			ScheduledAt: &scheduledAt,
			Candidates:  scored,
		}

		if len(scored) == 0 {
			result.Explanation = noCandidateMessage
			trace.Assignment = result
			log.Info().Str("work_id", workID).Msg("no candidate available")
			return trace, nil
		}

		top := scored[0]
		err = p.store.CommitAssignment(ctx, store.CommitParams{
			WorkID:           workID,
			ResourceID:       top.ID,
			CalendarID:       top.CalendarID,
			ExpectedWorkload: top.CurrentWorkload,
		})
		if errors.Is(err, store.ErrConflict) && attempt < maxCommitAttempts {
			log.Warn().Str("work_id", workID).Str("calendar_id", top.CalendarID).
				Int("attempt", attempt).Msg("slot workload changed during scoring; re-ranking")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("commit assignment: %w", err)
		}

		result.AssignedTo = &top.ID
		result.Selected = &top
		result.Explanation = p.explainer.Explain(ctx, explain.Context{
			WorkType:           req.Work.WorkType,
			Priority:           req.Work.Priority,
			ResourceName:       top.Name,
			SkillLevel:         top.SkillLevel,
			CasesHandled:       top.TotalCasesHandled,
			AvailabilityWindow: top.AvailabilityWindow,
			Workload:           top.CurrentWorkload,
		})
		trace.Assignment = result

		log.Info().Str("work_id", workID).Str("resource_id", top.ID).
			Float64("score", top.Score).Msg("work item assigned")
		return trace, nil
	}
}

// Status returns the stored work item, or nil for an unknown id.
func (p *Pipeline) Status(ctx context.Context, workID string) (*model.WorkItem, error) {
	return p.store.GetWorkItem(ctx, workID)
}

// List returns work items, newest scheduled first, optionally filtered
// by status.
func (p *Pipeline) List(ctx context.Context, limit int, status string) ([]model.WorkItem, error) {
	return p.store.ListWorkItems(ctx, store.ListWorkItemsParams{Limit: limit, Status: status})
}
