package store

import (
	"context"
	"fmt"

	"workalloc/internal/model"
)

// CommitAssignment applies an assignment decision: work item marked
// assigned, resource case counter incremented, slot workload
// incremented. All three writes run in one transaction so a failure
// cannot leave a work item assigned without the paired increments.
//
// The slot write is conditional on the workload observed during
// scoring; if another assignment got there first the transaction rolls
// back and ErrConflict is returned.
func (s *SQLiteStore) CommitAssignment(ctx context.Context, p CommitParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE work_items SET status = ?, assigned_to = ? WHERE work_id = ?`,
		model.StatusAssigned, p.ResourceID, p.WorkID)
	if err != nil {
		return fmt.Errorf("assign work item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("assign work item: %s not found", p.WorkID)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE resources SET total_cases_handled = COALESCE(total_cases_handled, 0) + 1
		 WHERE resource_id = ?`, p.ResourceID)
	if err != nil {
		return fmt.Errorf("increment resource cases: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("increment resource cases: %s not found", p.ResourceID)
	}

	var cond string
	args := []interface{}{p.CalendarID}
	if p.ExpectedWorkload == nil {
		cond = "current_workload IS NULL"
	} else {
		cond = "current_workload = ?"
		args = append(args, *p.ExpectedWorkload)
	}
	res, err = tx.ExecContext(ctx,
		`UPDATE resource_calendar SET current_workload = COALESCE(current_workload, 0) + 1
		 WHERE calendar_id = ? AND `+cond, args...)
	if err != nil {
		return fmt.Errorf("increment slot workload: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("slot %s: %w", p.CalendarID, ErrConflict)
	}

	return tx.Commit()
}
