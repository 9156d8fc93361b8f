package store

import (
	"context"
	"database/sql"
	"fmt"

	"workalloc/internal/model"
)

const resourceCols = "resource_id, name, specialty, skill_level, total_cases_handled"

func (s *SQLiteStore) ListResources(ctx context.Context) ([]model.Resource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resourceCols+` FROM resources ORDER BY resource_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResources(rows)
}

func (s *SQLiteStore) ListResourcesBySpecialty(ctx context.Context, specialties []string) ([]model.Resource, error) {
	var filtered []interface{}
	for _, sp := range specialties {
		if sp != "" {
			filtered = append(filtered, sp)
		}
	}
	if len(filtered) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM resources WHERE specialty IN (%s) ORDER BY resource_id`,
		resourceCols, placeholders(len(filtered)))
	rows, err := s.db.QueryContext(ctx, query, filtered...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResources(rows)
}

func (s *SQLiteStore) ListResourcesByIDs(ctx context.Context, ids []string) ([]model.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM resources WHERE resource_id IN (%s) ORDER BY resource_id`,
		resourceCols, placeholders(len(ids)))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResources(rows)
}

// GetCalendarSlots returns each resource's slots on a date, ordered by
// available_from. Resources without slots are absent from the map.
func (s *SQLiteStore) GetCalendarSlots(ctx context.Context, resourceIDs []string, date string) (map[string][]model.CalendarSlot, error) {
	if len(resourceIDs) == 0 {
		return map[string][]model.CalendarSlot{}, nil
	}
	args := make([]interface{}, 0, len(resourceIDs)+1)
	for _, id := range resourceIDs {
		args = append(args, id)
	}
	args = append(args, date)

	query := fmt.Sprintf(
		`SELECT calendar_id, resource_id, date, available_from, available_to, current_workload
		 FROM resource_calendar
		 WHERE resource_id IN (%s) AND date = ?
		 ORDER BY available_from`, placeholders(len(resourceIDs)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := map[string][]model.CalendarSlot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots[slot.ResourceID] = append(slots[slot.ResourceID], slot)
	}
	return slots, rows.Err()
}

// GetOnDuty returns calendar rows joined with resource profiles for a
// date, ordered by available_from.
func (s *SQLiteStore) GetOnDuty(ctx context.Context, date string) ([]model.OnDutyEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rc.calendar_id, rc.resource_id, rc.date, rc.available_from, rc.available_to, rc.current_workload,
		        r.name, r.specialty, r.skill_level, r.total_cases_handled
		 FROM resource_calendar rc
		 INNER JOIN resources r ON rc.resource_id = r.resource_id
		 WHERE rc.date = ?
		 ORDER BY rc.available_from`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.OnDutyEntry
	for rows.Next() {
		var e model.OnDutyEntry
		var workload sql.NullInt64
		err := rows.Scan(&e.ID, &e.ResourceID, &e.Date, &e.AvailableFrom, &e.AvailableTo, &workload,
			&e.Name, &e.Specialty, &e.SkillLevel, &e.TotalCasesHandled)
		if err != nil {
			return nil, err
		}
		if workload.Valid {
			w := int(workload.Int64)
			e.CurrentWorkload = &w
		}
		e.AvailabilityWindow = e.AvailableFrom + " - " + e.AvailableTo
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetSpecialtyMapping returns nil (not an error) when no mapping is
// configured for the work type.
func (s *SQLiteStore) GetSpecialtyMapping(ctx context.Context, workType string) (*model.SpecialtyMapping, error) {
	var m model.SpecialtyMapping
	var alternate sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT work_type, required_specialty, alternate_specialty
		 FROM specialty_mapping WHERE work_type = ?`, workType).
		Scan(&m.WorkType, &m.RequiredSpecialty, &alternate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if alternate.Valid {
		m.AlternateSpecialty = alternate.String
	}
	return &m, nil
}

func collectResources(rows *sql.Rows) ([]model.Resource, error) {
	var resources []model.Resource
	for rows.Next() {
		var r model.Resource
		if err := rows.Scan(&r.ID, &r.Name, &r.Specialty, &r.SkillLevel, &r.TotalCasesHandled); err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

func scanSlot(row scanner) (model.CalendarSlot, error) {
	var slot model.CalendarSlot
	var workload sql.NullInt64
	err := row.Scan(&slot.ID, &slot.ResourceID, &slot.Date, &slot.AvailableFrom, &slot.AvailableTo, &workload)
	if err != nil {
		return slot, err
	}
	if workload.Valid {
		w := int(workload.Int64)
		slot.CurrentWorkload = &w
	}
	return slot, nil
}
