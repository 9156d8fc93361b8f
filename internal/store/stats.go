package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string           `json:"db_path"`
	DBSizeBytes  int64            `json:"db_size_bytes"`
	WorkItems    int              `json:"work_items"`
	Pending      int              `json:"pending"`
	Assigned     int              `json:"assigned"`
	Resources    int              `json:"resources"`
	SlotCount    int              `json:"calendar_slots"`
	IndexedCount int              `json:"indexed_resources"`
	Specialties  []SpecialtyStats `json:"specialties"`
}

// SpecialtyStats holds per-specialty roster counts.
type SpecialtyStats struct {
	Specialty string `json:"specialty"`
	Count     int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_items`).Scan(&st.WorkItems)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_items WHERE status = 'pending'`).Scan(&st.Pending)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_items WHERE status = 'assigned'`).Scan(&st.Assigned)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&st.Resources)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resource_calendar`).Scan(&st.SlotCount)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resource_vectors`).Scan(&st.IndexedCount)

	rows, err := s.db.QueryContext(ctx, `
		SELECT specialty, COUNT(*) as cnt
		FROM resources
		GROUP BY specialty ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var sp SpecialtyStats
		rows.Scan(&sp.Specialty, &sp.Count)
		st.Specialties = append(st.Specialties, sp)
	}

	return st, nil
}
