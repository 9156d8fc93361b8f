package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"workalloc/internal/model"
)

func (s *SQLiteStore) CreateWorkItem(ctx context.Context, item model.WorkItem) error {
	var assigned interface{}
	if item.AssignedTo != nil {
		assigned = *item.AssignedTo
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO work_items
		   (work_id, work_type, description, priority, scheduled_timestamp, status, assigned_to, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.WorkType, item.Description, item.Priority,
		item.ScheduledAt.Format(timestampLayout), item.Status, assigned,
		item.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert work item: %w", err)
	}
	return nil
}

// GetWorkItem returns nil (not an error) for an unknown work id.
func (s *SQLiteStore) GetWorkItem(ctx context.Context, workID string) (*model.WorkItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT work_id, work_type, description, priority, scheduled_timestamp, status, assigned_to, created_at
		 FROM work_items WHERE work_id = ?`, workID)

	item, err := scanWorkItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *SQLiteStore) ListWorkItems(ctx context.Context, p ListWorkItemsParams) ([]model.WorkItem, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT work_id, work_type, description, priority, scheduled_timestamp, status, assigned_to, created_at
	          FROM work_items`
	var args []interface{}
	if p.Status != "" {
		query += " WHERE status = ?"
		args = append(args, p.Status)
	}
	query += " ORDER BY scheduled_timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanWorkItem(row scanner) (model.WorkItem, error) {
	var item model.WorkItem
	var scheduled, createdAt string
	var assigned sql.NullString

	err := row.Scan(&item.ID, &item.WorkType, &item.Description, &item.Priority,
		&scheduled, &item.Status, &assigned, &createdAt)
	if err != nil {
		return item, err
	}

	item.ScheduledAt, err = time.Parse(timestampLayout, scheduled)
	if err != nil {
		return item, fmt.Errorf("parse scheduled timestamp %q: %w", scheduled, err)
	}
	item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if assigned.Valid {
		item.AssignedTo = &assigned.String
	}
	return item, nil
}
