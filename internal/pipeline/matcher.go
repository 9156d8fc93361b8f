package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"workalloc/internal/model"
	"workalloc/internal/scoring"
	"workalloc/internal/store"
	"workalloc/internal/timeutil"
)

// Matcher finds each candidate's covering calendar slot for the
// scheduled timestamp and ranks candidates by composite score.
type Matcher struct {
	store store.Store
}

// NewMatcher returns a matcher backed by the given store.
func NewMatcher(s store.Store) *Matcher {
	return &Matcher{store: s}
}

// Score ranks candidates descending by composite score. Candidates
// without a covering slot on the scheduled date are dropped; ties keep
// their relative input order. An empty candidate set yields an empty
// ranking, not an error.
func (m *Matcher) Score(ctx context.Context, candidates []model.Resource, scheduledAt time.Time, requiredSpecialty string, priority int) ([]model.ScoredCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if scheduledAt.IsZero() {
		return nil, ErrMissingSchedule
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	date := scheduledAt.Format(timeutil.DateLayout)
	calendars, err := m.store.GetCalendarSlots(ctx, ids, date)
	if err != nil {
		return nil, fmt.Errorf("load calendar slots: %w", err)
	}

	var scored []model.ScoredCandidate
	for _, candidate := range candidates {
		slot, err := coveringSlot(calendars[candidate.ID], scheduledAt)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", candidate.ID, err)
		}
		if slot == nil {
			continue
		}

		score, breakdown, err := scoring.Compute(candidate, *slot, scheduledAt, requiredSpecialty, priority)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", candidate.ID, err)
		}

		scored = append(scored, model.ScoredCandidate{
			Resource:           candidate,
			CalendarID:         slot.ID,
			AvailabilityWindow: slot.AvailableFrom + " - " + slot.AvailableTo,
			CurrentWorkload:    slot.CurrentWorkload,
			Score:              score,
			Breakdown:          breakdown,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored, nil
}

// coveringSlot returns the first slot (in available_from order) whose
// window contains the scheduled time-of-day, or nil.
func coveringSlot(slots []model.CalendarSlot, scheduledAt time.Time) (*model.CalendarSlot, error) {
	for i := range slots {
		inside, err := timeutil.WithinWindow(slots[i].AvailableFrom, slots[i].AvailableTo, scheduledAt)
		if err != nil {
			return nil, err
		}
		if inside {
			return &slots[i], nil
		}
	}
	return nil, nil
}
