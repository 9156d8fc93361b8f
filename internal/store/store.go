// Package store provides the allocation storage interface and SQLite
// implementation. "Not found" is a normal nullable result, distinct
// from a storage fault.
package store

import (
	"context"
	"errors"

	"workalloc/internal/model"
)

// ErrConflict is returned by CommitAssignment when the conditional slot
// workload update observes a different value than expected. The caller
// is expected to re-score and retry.
var ErrConflict = errors.New("assignment conflict: slot workload changed")

// ListWorkItemsParams holds parameters for listing work items.
type ListWorkItemsParams struct {
	Limit  int
	Status string // empty means all
}

// CommitParams holds the writes that finalize an assignment decision.
// ExpectedWorkload is the slot workload observed during scoring; the
// commit fails with ErrConflict if it changed in the meantime.
type CommitParams struct {
	WorkID           string
	ResourceID       string
	CalendarID       string
	ExpectedWorkload *int
}

// ResourceVector is a persisted embedding of a resource profile.
type ResourceVector struct {
	ResourceID string
	Profile    string
	Embedding  []float32
}

// Store defines the storage boundary consumed by the allocation
// pipeline and its surfaces.
type Store interface {
	// Identity generation for work items.
	NewWorkID() string

	// Work item ledger.
	CreateWorkItem(ctx context.Context, item model.WorkItem) error
	GetWorkItem(ctx context.Context, workID string) (*model.WorkItem, error)
	ListWorkItems(ctx context.Context, p ListWorkItemsParams) ([]model.WorkItem, error)

	// Roster reads.
	ListResources(ctx context.Context) ([]model.Resource, error)
	ListResourcesBySpecialty(ctx context.Context, specialties []string) ([]model.Resource, error)
	ListResourcesByIDs(ctx context.Context, ids []string) ([]model.Resource, error)
	GetCalendarSlots(ctx context.Context, resourceIDs []string, date string) (map[string][]model.CalendarSlot, error)
	GetOnDuty(ctx context.Context, date string) ([]model.OnDutyEntry, error)
	GetSpecialtyMapping(ctx context.Context, workType string) (*model.SpecialtyMapping, error)

	// Commit step: all three writes in one transaction.
	CommitAssignment(ctx context.Context, p CommitParams) error

	// Semantic index persistence.
	PutResourceVector(ctx context.Context, v ResourceVector) error
	ListResourceVectors(ctx context.Context) ([]ResourceVector, error)

	// Close closes the store.
	Close() error
}
