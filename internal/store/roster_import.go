package store

import (
	"context"
	"fmt"

	"workalloc/internal/model"
)

// RosterBundle is the JSON shape consumed and produced by the roster
// import/export commands.
type RosterBundle struct {
	Resources []model.Resource         `json:"resources"`
	Calendar  []model.CalendarSlot     `json:"calendar"`
	Mappings  []model.SpecialtyMapping `json:"mappings"`
}

// ImportRoster upserts a roster bundle in one transaction. Calendar
// slots without an id are assigned one. Returns counts of imported
// resources, slots and mappings.
func (s *SQLiteStore) ImportRoster(ctx context.Context, bundle RosterBundle) (int, int, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, 0, err
	}
	defer tx.Rollback()

	for _, r := range bundle.Resources {
		if r.ID == "" {
			return 0, 0, 0, fmt.Errorf("resource %q: missing resource_id", r.Name)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO resources (resource_id, name, specialty, skill_level, total_cases_handled)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(resource_id) DO UPDATE SET
			   name = excluded.name,
			   specialty = excluded.specialty,
			   skill_level = excluded.skill_level,
			   total_cases_handled = excluded.total_cases_handled`,
			r.ID, r.Name, r.Specialty, r.SkillLevel, r.TotalCasesHandled)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("import resource %s: %w", r.ID, err)
		}
	}

	for _, slot := range bundle.Calendar {
		id := slot.ID
		if id == "" {
			id = s.newID()
		}
		var workload interface{}
		if slot.CurrentWorkload != nil {
			workload = *slot.CurrentWorkload
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO resource_calendar (calendar_id, resource_id, date, available_from, available_to, current_workload)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(calendar_id) DO UPDATE SET
			   resource_id = excluded.resource_id,
			   date = excluded.date,
			   available_from = excluded.available_from,
			   available_to = excluded.available_to,
			   current_workload = excluded.current_workload`,
			id, slot.ResourceID, slot.Date, slot.AvailableFrom, slot.AvailableTo, workload)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("import slot %s: %w", id, err)
		}
	}

	for _, m := range bundle.Mappings {
		var alternate interface{}
		if m.AlternateSpecialty != "" {
			alternate = m.AlternateSpecialty
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO specialty_mapping (work_type, required_specialty, alternate_specialty)
			 VALUES (?, ?, ?)
			 ON CONFLICT(work_type) DO UPDATE SET
			   required_specialty = excluded.required_specialty,
			   alternate_specialty = excluded.alternate_specialty`,
			m.WorkType, m.RequiredSpecialty, alternate)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("import mapping %s: %w", m.WorkType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, 0, err
	}
	return len(bundle.Resources), len(bundle.Calendar), len(bundle.Mappings), nil
}

// ExportRoster reads the full roster back out as a bundle.
func (s *SQLiteStore) ExportRoster(ctx context.Context) (*RosterBundle, error) {
	bundle := &RosterBundle{}

	resources, err := s.ListResources(ctx)
	if err != nil {
		return nil, err
	}
	bundle.Resources = resources

	rows, err := s.db.QueryContext(ctx,
		`SELECT calendar_id, resource_id, date, available_from, available_to, current_workload
		 FROM resource_calendar ORDER BY date, available_from`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		bundle.Calendar = append(bundle.Calendar, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := s.db.QueryContext(ctx,
		`SELECT work_type, required_specialty, COALESCE(alternate_specialty, '')
		 FROM specialty_mapping ORDER BY work_type`)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var m model.SpecialtyMapping
		if err := mrows.Scan(&m.WorkType, &m.RequiredSpecialty, &m.AlternateSpecialty); err != nil {
			return nil, err
		}
		bundle.Mappings = append(bundle.Mappings, m)
	}
	return bundle, mrows.Err()
}
