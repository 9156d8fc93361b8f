// Package model defines the core allocation data types.
package model

import "time"

// Work item status values.
const (
	StatusPending  = "pending"
	StatusAssigned = "assigned"
)

// GeneralSpecialty is the generic fallback specialty. A generalist gets
// partial role credit when a specialist is required, and unknown work
// types resolve to it.
const GeneralSpecialty = "General_Radiologist"

// WorkItem is a unit of requested service awaiting assignment.
// Status is "assigned" iff AssignedTo is non-nil.
type WorkItem struct {
	ID          string    `json:"work_id"`
	WorkType    string    `json:"work_type"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	ScheduledAt time.Time `json:"scheduled_timestamp"`
	Status      string    `json:"status"`
	AssignedTo  *string   `json:"assigned_to"`
	CreatedAt   time.Time `json:"created_at"`
}

// Resource is a staffed entity that can be assigned work.
type Resource struct {
	ID                string `json:"resource_id"`
	Name              string `json:"name"`
	Specialty         string `json:"specialty"`
	SkillLevel        int    `json:"skill_level"`
	TotalCasesHandled int    `json:"total_cases_handled"`
}

// CalendarSlot is a resource's declared availability window on a date.
// AvailableFrom/AvailableTo are clock values ("HH:MM" or "HH:MM:SS"),
// inclusive bounds. CurrentWorkload is nil when the store has no count.
type CalendarSlot struct {
	ID              string `json:"calendar_id"`
	ResourceID      string `json:"resource_id"`
	Date            string `json:"date"`
	AvailableFrom   string `json:"available_from"`
	AvailableTo     string `json:"available_to"`
	CurrentWorkload *int   `json:"current_workload"`
}

// SpecialtyMapping associates a work type with the specialties that can
// serve it. Alternate may be empty.
type SpecialtyMapping struct {
	WorkType           string `json:"work_type"`
	RequiredSpecialty  string `json:"required_specialty"`
	AlternateSpecialty string `json:"alternate_specialty,omitempty"`
}

// ScoreBreakdown holds the normalized sub-scores behind a composite
// score, each rounded to 4 decimal places.
type ScoreBreakdown struct {
	Role          float64 `json:"role"`
	Skill         float64 `json:"skill"`
	Experience    float64 `json:"experience"`
	Availability  float64 `json:"availability"`
	Workload      float64 `json:"workload"`
	PriorityBonus float64 `json:"priority_bonus"`
}

// ScoredCandidate joins a resource with the calendar slot covering the
// requested timestamp plus its composite score. Pipeline-only, never
// persisted.
type ScoredCandidate struct {
	Resource
	CalendarID         string         `json:"calendar_id"`
	AvailabilityWindow string         `json:"availability_window"`
	CurrentWorkload    *int           `json:"current_workload"`
	Score              float64        `json:"score"`
	Breakdown          ScoreBreakdown `json:"breakdown"`
}

// AssignmentResult is the outcome of an assign call. AssignedTo is nil
// for the normal "no candidate" outcome.
type AssignmentResult struct {
	WorkID      string            `json:"work_id"`
	WorkType    string            `json:"work_type,omitempty"`
	Priority    int               `json:"priority,omitempty"`
	ScheduledAt *time.Time        `json:"scheduled_timestamp,omitempty"`
	AssignedTo  *string           `json:"assigned_to"`
	Explanation string            `json:"explanation"`
	Selected    *ScoredCandidate  `json:"selected,omitempty"`
	Candidates  []ScoredCandidate `json:"scored_candidates,omitempty"`
}

// OnDutyEntry is a calendar slot joined with its resource profile, used
// by the roster views.
type OnDutyEntry struct {
	CalendarSlot
	Name               string `json:"name"`
	Specialty          string `json:"specialty"`
	SkillLevel         int    `json:"skill_level"`
	TotalCasesHandled  int    `json:"total_cases_handled"`
	AvailabilityWindow string `json:"availability_window"`
}
