package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"workalloc/internal/model"
	"workalloc/internal/pipeline"
	"workalloc/internal/store"
)

func newTestServer(t *testing.T) (http.Handler, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(pipeline.New(s, nil, nil), s, nil), s
}

func intPtr(v int) *int { return &v }

func seedRoster(t *testing.T, s *store.SQLiteStore) {
	t.Helper()
	_, _, _, err := s.ImportRoster(context.Background(), store.RosterBundle{
		Resources: []model.Resource{
			{ID: "R1", Name: "Dana Reyes", Specialty: "Neurologist", SkillLevel: 4, TotalCasesHandled: 200},
		},
		Calendar: []model.CalendarSlot{
			{ID: "C1", ResourceID: "R1", Date: "2024-11-10", AvailableFrom: "08:00:00", AvailableTo: "16:00:00", CurrentWorkload: intPtr(1)},
		},
	})
	if err != nil {
		t.Fatalf("seed roster: %v", err)
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("%s %s: invalid response %q", method, path, rec.Body.String())
	}
	return rec, payload
}

func createWork(t *testing.T, h http.Handler) string {
	t.Helper()
	rec, payload := doJSON(t, h, http.MethodPost, "/work", pipeline.IntakeParams{
		WorkType:    "MRI_Brain",
		Description: "brain study",
		Priority:    4,
		Date:        "2024-11-10",
		Time:        "10:30",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("intake status = %d, body %s", rec.Code, rec.Body.String())
	}
	var item model.WorkItem
	if err := json.Unmarshal(payload["result"], &item); err != nil {
		t.Fatalf("decode work item: %v", err)
	}
	return item.ID
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)
	rec, payload := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || string(payload["status"]) != `"ok"` {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestIntakeAssignStatusFlow(t *testing.T) {
	h, s := newTestServer(t)
	seedRoster(t, s)
	workID := createWork(t, h)

	rec, payload := doJSON(t, h, http.MethodPost, "/assign/"+workID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result model.AssignmentResult
	if err := json.Unmarshal(payload["assignment"], &result); err != nil {
		t.Fatalf("decode assignment: %v", err)
	}
	if result.AssignedTo == nil || *result.AssignedTo != "R1" {
		t.Fatalf("assigned_to = %v", result.AssignedTo)
	}
	if result.Explanation == "" {
		t.Errorf("expected an explanation")
	}

	rec, payload = doJSON(t, h, http.MethodGet, "/status/"+workID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var item model.WorkItem
	if err := json.Unmarshal(payload["work"], &item); err != nil {
		t.Fatalf("decode work: %v", err)
	}
	if item.Status != model.StatusAssigned {
		t.Errorf("status = %q, want %q", item.Status, model.StatusAssigned)
	}
}

func TestIntakeValidation(t *testing.T) {
	h, _ := newTestServer(t)
	rec, payload := doJSON(t, h, http.MethodPost, "/work", pipeline.IntakeParams{
		Description: "brain study",
		Priority:    4,
		Date:        "2024-11-10",
		Time:        "10:30",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if string(payload["error"]) != `"work_type is required"` {
		t.Errorf("error = %s", payload["error"])
	}
}

func TestIntakeBadDate(t *testing.T) {
	h, _ := newTestServer(t)
	rec, _ := doJSON(t, h, http.MethodPost, "/work", pipeline.IntakeParams{
		WorkType:    "MRI_Brain",
		Description: "brain study",
		Priority:    4,
		Date:        "11/10/2024",
		Time:        "10:30",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAssignUnknownWork(t *testing.T) {
	h, _ := newTestServer(t)
	rec, _ := doJSON(t, h, http.MethodPost, "/assign/W-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStatusUnknownWork(t *testing.T) {
	h, _ := newTestServer(t)
	rec, _ := doJSON(t, h, http.MethodGet, "/status/W-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListWorkStatusFilter(t *testing.T) {
	h, s := newTestServer(t)
	seedRoster(t, s)
	assignedID := createWork(t, h)
	createWork(t, h)
	doJSON(t, h, http.MethodPost, "/assign/"+assignedID, nil)

	rec, payload := doJSON(t, h, http.MethodGet, "/work?status=assigned", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var items []model.WorkItem
	if err := json.Unmarshal(payload["work_requests"], &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0].ID != assignedID {
		t.Fatalf("filtered list = %v", items)
	}
}

func TestPipelineTraceEndpoint(t *testing.T) {
	h, s := newTestServer(t)
	seedRoster(t, s)
	workID := createWork(t, h)

	rec, payload := doJSON(t, h, http.MethodGet, "/pipeline/"+workID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trace status = %d, body %s", rec.Code, rec.Body.String())
	}
	var trace pipeline.Trace
	if err := json.Unmarshal(payload["pipeline"], &trace); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if trace.Analysis == nil || trace.Analysis.RequiredSpecialty != "Neurologist" {
		t.Errorf("analysis = %+v", trace.Analysis)
	}
	if len(trace.Scored) != 1 || trace.Assignment == nil || trace.Assignment.AssignedTo == nil {
		t.Errorf("incomplete trace: %+v", trace)
	}
}

func TestOnDutyEndpoint(t *testing.T) {
	h, s := newTestServer(t)
	seedRoster(t, s)

	rec, _ := doJSON(t, h, http.MethodGet, "/resources/on-duty", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing date should be 400, got %d", rec.Code)
	}

	rec, payload := doJSON(t, h, http.MethodGet, "/resources/on-duty?date=2024-11-10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("on-duty status = %d", rec.Code)
	}
	var entries []model.OnDutyEntry
	if err := json.Unmarshal(payload["resources"], &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries) != 1 || entries[0].ResourceID != "R1" {
		t.Fatalf("entries = %v", entries)
	}

	rec, payload = doJSON(t, h, http.MethodGet, "/resources/on-duty?date=2024-11-10&time=18:00", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered on-duty status = %d", rec.Code)
	}
	if err := json.Unmarshal(payload["resources"], &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("18:00 is outside the window, got %v", entries)
	}
}
