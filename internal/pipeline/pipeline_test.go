package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"workalloc/internal/model"
	"workalloc/internal/semantic"
	"workalloc/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

// seedMatchedPair loads a specialist and a generalist with identical
// skill, experience, slots and workload.
func seedMatchedPair(t *testing.T, s *store.SQLiteStore) {
	t.Helper()
	_, _, _, err := s.ImportRoster(context.Background(), store.RosterBundle{
		Resources: []model.Resource{
			{ID: "R1", Name: "Dana Reyes", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
			{ID: "R2", Name: "Kim Patel", Specialty: model.GeneralSpecialty, SkillLevel: 4, TotalCasesHandled: 200},
		},
		Calendar: []model.CalendarSlot{
			{ID: "C1", ResourceID: "R1", Date: "2024-11-10", AvailableFrom: "08:00", AvailableTo: "12:00", CurrentWorkload: intPtr(0)},
			{ID: "C2", ResourceID: "R2", Date: "2024-11-10", AvailableFrom: "08:00", AvailableTo: "12:00", CurrentWorkload: intPtr(0)},
		},
	})
	if err != nil {
		t.Fatalf("seed roster: %v", err)
	}
}

func TestIntakeCreatesPendingItem(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := New(s, nil, nil)

	item, err := p.Intake(ctx, IntakeParams{
		WorkType: "MRI_Brain", Description: "brain study", Priority: 5,
		Date: "2024-11-10", Time: "09:00",
	})
	if err != nil {
		t.Fatalf("intake: %v", err)
	}
	if item.ID == "" {
		t.Error("expected a generated work id")
	}

	got, err := p.Status(ctx, item.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if got.Status != model.StatusPending || got.AssignedTo != nil {
		t.Errorf("expected pending/unassigned, got %s/%v", got.Status, got.AssignedTo)
	}
	if got.ScheduledAt.Format("2006-01-02 15:04:05") != "2024-11-10 09:00:00" {
		t.Errorf("scheduled: got %v", got.ScheduledAt)
	}
}

func TestIntakeValidation(t *testing.T) {
	p := New(newTestStore(t), nil, nil)
	ctx := context.Background()

	_, err := p.Intake(ctx, IntakeParams{Description: "x", Priority: 3, Date: "2024-11-10", Time: "09:00"})
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "work_type" {
		t.Errorf("expected ValidationError for work_type, got %v", err)
	}

	_, err = p.Intake(ctx, IntakeParams{WorkType: "MRI_Brain", Description: "x", Date: "2024-11-10", Time: "09:00"})
	if !errors.As(err, &validation) || validation.Field != "priority" {
		t.Errorf("expected ValidationError for priority, got %v", err)
	}
}

func TestIntakeValidationFieldOrder(t *testing.T) {
	p := New(newTestStore(t), nil, nil)
	ctx := context.Background()

	// With every field missing the first declared field is reported,
	// on every run.
	var validation *ValidationError
	for i := 0; i < 10; i++ {
		_, err := p.Intake(ctx, IntakeParams{})
		if !errors.As(err, &validation) || validation.Field != "work_type" {
			t.Fatalf("run %d: expected work_type reported first, got %v", i, err)
		}
	}

	// priority is checked before the schedule fields.
	_, err := p.Intake(ctx, IntakeParams{WorkType: "MRI_Brain", Description: "x"})
	if !errors.As(err, &validation) || validation.Field != "priority" {
		t.Errorf("expected priority before schedule fields, got %v", err)
	}
}

func TestIntakeFormatError(t *testing.T) {
	p := New(newTestStore(t), nil, nil)

	_, err := p.Intake(context.Background(), IntakeParams{
		WorkType: "MRI_Brain", Description: "x", Priority: 3,
		Date: "2024-11-10", Time: "quarter past nine",
	})
	var format *FormatError
	if !errors.As(err, &format) {
		t.Errorf("expected FormatError, got %v", err)
	}
}

func TestAssignPrefersSpecialist(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedMatchedPair(t, s)
	p := New(s, nil, nil)

	item, err := p.Intake(ctx, IntakeParams{
		WorkType: "MRI_Brain", Description: "brain study", Priority: 5,
		Date: "2024-11-10", Time: "09:00",
	})
	if err != nil {
		t.Fatalf("intake: %v", err)
	}

	result, err := p.Assign(ctx, item.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if result.AssignedTo == nil || *result.AssignedTo != "R1" {
		t.Errorf("expected specialist R1, got %v", result.AssignedTo)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 ranked candidates, got %d", len(result.Candidates))
	}
	if result.Candidates[0].Score <= result.Candidates[1].Score {
		t.Errorf("ranking not descending: %+v", result.Candidates)
	}
	if result.Explanation == "" {
		t.Error("expected a rationale")
	}
}

func TestAssignCommitsIncrements(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedMatchedPair(t, s)
	p := New(s, nil, nil)

	item, _ := p.Intake(ctx, IntakeParams{
		WorkType: "MRI_Brain", Description: "brain study", Priority: 2,
		Date: "2024-11-10", Time: "09:00",
	})
	result, err := p.Assign(ctx, item.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	resources, _ := s.ListResourcesByIDs(ctx, []string{*result.AssignedTo})
	if resources[0].TotalCasesHandled != 201 {
		t.Errorf("cases handled: got %d, want 201", resources[0].TotalCasesHandled)
	}
	slots, _ := s.GetCalendarSlots(ctx, []string{*result.AssignedTo}, "2024-11-10")
	if w := slots[*result.AssignedTo][0].CurrentWorkload; w == nil || *w != 1 {
		t.Errorf("slot workload: got %v, want 1", w)
	}
}

func TestAssignNoCandidateKeepsPending(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	// Roster with only an unrelated specialty; MRI_Brain resolves to
	// Neurologist/General_Radiologist and matches nobody.
	s.ImportRoster(ctx, store.RosterBundle{
		Resources: []model.Resource{
			{ID: "R9", Name: "Sam Cole", Specialty: "Orthopedic_Surgeon", SkillLevel: 5, TotalCasesHandled: 100},
		},
	})
	p := New(s, nil, nil)

	item, _ := p.Intake(ctx, IntakeParams{
		WorkType: "MRI_Brain", Description: "brain study", Priority: 3,
		Date: "2024-11-10", Time: "09:00",
	})

	result, err := p.Assign(ctx, item.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if result.AssignedTo != nil {
		t.Errorf("expected no candidate, got %v", *result.AssignedTo)
	}
	if result.Explanation != "No candidate available" {
		t.Errorf("unexpected explanation: %q", result.Explanation)
	}

	got, _ := p.Status(ctx, item.ID)
	if got.Status != model.StatusPending {
		t.Errorf("work item should stay pending, got %s", got.Status)
	}
}

func TestAssignUnknownWorkItem(t *testing.T) {
	p := New(newTestStore(t), nil, nil)
	_, err := p.Assign(context.Background(), "W-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignVerboseTrace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedMatchedPair(t, s)
	p := New(s, nil, nil)

	item, _ := p.Intake(ctx, IntakeParams{
		WorkType: "MRI_Brain", Description: "brain study", Priority: 4,
		Date: "2024-11-10", Time: "09:00",
	})

	trace, err := p.AssignVerbose(ctx, item.ID)
	if err != nil {
		t.Fatalf("assign verbose: %v", err)
	}
	if trace.Analysis.RequiredSpecialty != "Neurologist" {
		t.Errorf("analysis: %+v", trace.Analysis)
	}
	if len(trace.Candidates) != 2 || len(trace.Scored) != 2 {
		t.Errorf("trace sizes: %d candidates, %d scored", len(trace.Candidates), len(trace.Scored))
	}
	if trace.Assignment == nil || trace.Assignment.AssignedTo == nil {
		t.Error("expected committed assignment in trace")
	}
}

// A searcher that always errors must degrade to specialty-only
// discovery without failing the assignment.
type failingSearcher struct{}

func (failingSearcher) Search(context.Context, string, int) ([]semantic.Hit, error) {
	return nil, errors.New("index unavailable")
}

func TestAssignSurvivesSearcherFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedMatchedPair(t, s)
	p := New(s, failingSearcher{}, nil)

	item, _ := p.Intake(ctx, IntakeParams{
		WorkType: "MRI_Brain", Description: "brain study", Priority: 3,
		Date: "2024-11-10", Time: "09:00",
	})
	result, err := p.Assign(ctx, item.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if result.AssignedTo == nil {
		t.Error("expected assignment despite searcher failure")
	}
}
