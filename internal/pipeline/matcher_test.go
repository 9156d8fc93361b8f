package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"workalloc/internal/model"
	"workalloc/internal/store"
)

func TestScoreEmptyCandidates(t *testing.T) {
	s := newTestStore(t)
	m := NewMatcher(s)

	scored, err := m.Score(context.Background(), nil, time.Time{}, "Neurologist", 3)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if scored != nil {
		t.Errorf("expected empty ranking, got %v", scored)
	}
}

func TestScoreMissingSchedule(t *testing.T) {
	s := newTestStore(t)
	m := NewMatcher(s)

	_, err := m.Score(context.Background(), []model.Resource{{ID: "R1"}}, time.Time{}, "Neurologist", 3)
	if !errors.Is(err, ErrMissingSchedule) {
		t.Fatalf("expected ErrMissingSchedule, got %v", err)
	}
}

func TestScoreDropsUncoveredCandidates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, _, _, err := s.ImportRoster(ctx, store.RosterBundle{
		Resources: []model.Resource{
			{ID: "R1", Name: "Dana Reyes", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
			{ID: "R2", Name: "Kim Patel", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
		},
		Calendar: []model.CalendarSlot{
			{ResourceID: "R1", Date: "2026-09-01", AvailableFrom: "08:00:00", AvailableTo: "12:00:00", CurrentWorkload: intPtr(1)},
			{ResourceID: "R2", Date: "2026-09-01", AvailableFrom: "14:00:00", AvailableTo: "18:00:00", CurrentWorkload: intPtr(1)},
		},
	})
	if err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	scheduledAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	scored, err := NewMatcher(s).Score(ctx, []model.Resource{
		{ID: "R1", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
		{ID: "R2", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
	}, scheduledAt, "Neurologist", 3)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(scored) != 1 || scored[0].ID != "R1" {
		t.Fatalf("expected only R1 ranked, got %v", scored)
	}
	if scored[0].AvailabilityWindow != "08:00:00 - 12:00:00" {
		t.Errorf("window = %q", scored[0].AvailabilityWindow)
	}
}

func TestScoreStableTieOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	// Identical profiles and identical slots produce identical scores;
	// the ranking must keep the candidates' input order.
	_, _, _, err := s.ImportRoster(ctx, store.RosterBundle{
		Resources: []model.Resource{
			{ID: "R1", Name: "Dana Reyes", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
			{ID: "R2", Name: "Kim Patel", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
		},
		Calendar: []model.CalendarSlot{
			{ResourceID: "R1", Date: "2026-09-01", AvailableFrom: "08:00:00", AvailableTo: "16:00:00", CurrentWorkload: intPtr(2)},
			{ResourceID: "R2", Date: "2026-09-01", AvailableFrom: "08:00:00", AvailableTo: "16:00:00", CurrentWorkload: intPtr(2)},
		},
	})
	if err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	candidates := []model.Resource{
		{ID: "R2", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
		{ID: "R1", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
	}
	scheduledAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	scored, err := NewMatcher(s).Score(ctx, candidates, scheduledAt, "Neurologist", 3)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("expected 2 ranked, got %d", len(scored))
	}
	if scored[0].Score != scored[1].Score {
		t.Fatalf("expected tied scores, got %v and %v", scored[0].Score, scored[1].Score)
	}
	if scored[0].ID != "R2" || scored[1].ID != "R1" {
		t.Errorf("tie broke input order: %s, %s", scored[0].ID, scored[1].ID)
	}
}

func TestScorePicksFirstCoveringSlot(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, _, _, err := s.ImportRoster(ctx, store.RosterBundle{
		Resources: []model.Resource{
			{ID: "R1", Name: "Dana Reyes", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
		},
		Calendar: []model.CalendarSlot{
			// Both windows cover 10:00; the earlier available_from wins.
			{ID: "C-late", ResourceID: "R1", Date: "2026-09-01", AvailableFrom: "09:00:00", AvailableTo: "17:00:00", CurrentWorkload: intPtr(4)},
			{ID: "C-early", ResourceID: "R1", Date: "2026-09-01", AvailableFrom: "08:00:00", AvailableTo: "12:00:00", CurrentWorkload: intPtr(1)},
		},
	})
	if err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	scheduledAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	scored, err := NewMatcher(s).Score(ctx, []model.Resource{
		{ID: "R1", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
	}, scheduledAt, "Neurologist", 3)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(scored) != 1 || scored[0].CalendarID != "C-early" {
		t.Fatalf("expected C-early selected, got %v", scored)
	}
}
