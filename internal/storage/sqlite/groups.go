package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jfigueroa/gastoshogar/internal/models"
	"github.com/jfigueroa/gastoshogar/internal/storage"
)

// CreateGroup persists a new event group with its participant registry.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_by, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, name := range group.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_participants (group_id, name) VALUES (?, ?)",
			group.ID, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including its participants.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_by, created_at FROM groups WHERE id = ?", id,
	).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	participants, err := s.groupParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Participants = participants
	return group, nil
}

func (s *SQLiteStore) groupParticipants(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM group_participants WHERE group_id = ? ORDER BY name", groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return names, nil
}

// ListGroups retrieves all groups with their participants.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_by, created_at FROM groups ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		participants, err := s.groupParticipants(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Participants = participants
	}
	return groups, nil
}

// UpdateGroup updates a group's name and participant registry. New names
// are added; names removed from the list are NOT dropped here because
// removal has data-integrity consequences. Use RemoveGroupParticipant.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE groups SET name = ? WHERE id = ?", group.Name, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("group not found: %s", group.ID)
	}

	for _, name := range group.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_participants (group_id, name) VALUES (?, ?)",
			group.ID, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteGroup removes a group; participants, expenses, and settlements
// cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("group not found: %s", id)
	}
	return nil
}

// RemoveGroupParticipant deletes a participant and atomically rewrites
// every expense that references them. Expenses they paid are reassigned
// to reassignTo when co-participants remain, and deleted when none do.
// This rewrite is a data-integrity contract, not optional cleanup: a
// dangling name in a split list would silently change every later balance
// computation.
func (s *SQLiteStore) RemoveGroupParticipant(ctx context.Context, groupID, name, reassignTo string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM group_participants WHERE group_id = ? AND name = ?", groupID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("participant %q not found in group %s", name, groupID)
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT id, paid_by, split_with FROM group_expenses WHERE group_id = ?", groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to query group expenses: %w", err)
	}

	type rewrite struct {
		id        string
		paidBy    string
		splitWith []string
		delete    bool
	}
	var rewrites []rewrite

	for rows.Next() {
		var id, paidBy, splitWithRaw string
		if err := rows.Scan(&id, &paidBy, &splitWithRaw); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan group expense: %w", err)
		}

		splitWith := decodeNames(splitWithRaw)
		inSplit := false
		remaining := make([]string, 0, len(splitWith))
		for _, p := range splitWith {
			if p == name {
				inSplit = true
				continue
			}
			remaining = append(remaining, p)
		}
		if !inSplit && paidBy != name {
			continue
		}

		r := rewrite{id: id, paidBy: paidBy, splitWith: remaining}
		if paidBy == name {
			if len(remaining) == 0 {
				r.delete = true
			} else {
				if reassignTo == "" {
					rows.Close()
					return storage.ErrReassignRequired
				}
				r.paidBy = reassignTo
			}
		} else if len(remaining) == 0 {
			// Nobody left to owe the amount; the record is meaningless.
			r.delete = true
		}
		rewrites = append(rewrites, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate group expenses: %w", err)
	}
	rows.Close()

	for _, r := range rewrites {
		if r.delete {
			if _, err := tx.ExecContext(ctx, "DELETE FROM group_expenses WHERE id = ?", r.id); err != nil {
				return fmt.Errorf("failed to delete group expense: %w", err)
			}
			continue
		}
		_, err := tx.ExecContext(ctx,
			"UPDATE group_expenses SET paid_by = ?, split_with = ? WHERE id = ?",
			r.paidBy, encodeNames(r.splitWith), r.id,
		)
		if err != nil {
			return fmt.Errorf("failed to rewrite group expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateGroupExpense persists a new group expense.
func (s *SQLiteStore) CreateGroupExpense(ctx context.Context, exp *models.GroupExpense) error {
	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	if exp.CreatedAt == 0 {
		exp.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_expenses (id, group_id, description, amount, paid_by, split_with, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.GroupID, exp.Description, exp.Amount.String(), exp.PaidBy,
		encodeNames(exp.SplitWith), exp.CreatedBy, exp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group expense: %w", err)
	}
	return nil
}

func scanGroupExpense(scan func(dest ...any) error) (*models.GroupExpense, error) {
	exp := &models.GroupExpense{}
	var amountStr, splitWith string
	if err := scan(
		&exp.ID, &exp.GroupID, &exp.Description, &amountStr, &exp.PaidBy, &splitWith, &exp.CreatedBy, &exp.CreatedAt,
	); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amountStr, err)
	}
	exp.Amount = amount
	exp.SplitWith = decodeNames(splitWith)
	return exp, nil
}

// GetGroupExpense retrieves a group expense by ID.
func (s *SQLiteStore) GetGroupExpense(ctx context.Context, id string) (*models.GroupExpense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, description, amount, paid_by, split_with, created_by, created_at
		 FROM group_expenses WHERE id = ?`, id,
	)
	exp, err := scanGroupExpense(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group expense not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group expense: %w", err)
	}
	return exp, nil
}

// UpdateGroupExpense updates an existing group expense.
func (s *SQLiteStore) UpdateGroupExpense(ctx context.Context, exp *models.GroupExpense) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE group_expenses SET description = ?, amount = ?, paid_by = ?, split_with = ? WHERE id = ?`,
		exp.Description, exp.Amount.String(), exp.PaidBy, encodeNames(exp.SplitWith), exp.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group expense: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("group expense not found: %s", exp.ID)
	}
	return nil
}

// DeleteGroupExpense removes a group expense by ID.
func (s *SQLiteStore) DeleteGroupExpense(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM group_expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete group expense: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("group expense not found: %s", id)
	}
	return nil
}

// ListGroupExpenses retrieves all expenses for a group, oldest first.
func (s *SQLiteStore) ListGroupExpenses(ctx context.Context, groupID string) ([]*models.GroupExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount, paid_by, split_with, created_by, created_at
		 FROM group_expenses WHERE group_id = ? ORDER BY created_at`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.GroupExpense
	for rows.Next() {
		exp, err := scanGroupExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group expenses: %w", err)
	}
	return expenses, nil
}
