package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jfigueroa/gastoshogar/internal/models"
	"github.com/jfigueroa/gastoshogar/internal/period"
)

const expenseColumns = `id, description, total_amount, installment_count, current_installment,
first_charge_month, date, owner_id, owner_name, share_kind, shared_with, status, created_at`

// CreateExpense persists a new household expense.
func (s *SQLiteStore) CreateExpense(ctx context.Context, exp *models.Expense) error {
	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	if exp.CreatedAt == 0 {
		exp.CreatedAt = time.Now().Unix()
	}
	if exp.Status == "" {
		exp.Status = models.StatusActive
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.Description, exp.TotalAmount.String(), exp.InstallmentCount, exp.CurrentInstallment,
		exp.FirstChargeMonth.String(), exp.Date, exp.OwnerID, exp.OwnerName, string(exp.ShareKind),
		encodeNames(exp.SharedWith), string(exp.Status), exp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func scanExpense(scan func(dest ...any) error) (*models.Expense, error) {
	exp := &models.Expense{}
	var totalAmount, firstChargeMonth, shareKind, sharedWith, status string
	var ownerID, ownerName sql.NullString

	if err := scan(
		&exp.ID, &exp.Description, &totalAmount, &exp.InstallmentCount, &exp.CurrentInstallment,
		&firstChargeMonth, &exp.Date, &ownerID, &ownerName, &shareKind, &sharedWith, &status, &exp.CreatedAt,
	); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(totalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", totalAmount, err)
	}
	exp.TotalAmount = amount
	exp.FirstChargeMonth = period.Key(firstChargeMonth)
	exp.OwnerID = ownerID.String
	exp.OwnerName = ownerName.String
	exp.ShareKind = models.ShareKind(shareKind)
	exp.SharedWith = decodeNames(sharedWith)
	exp.Status = models.ExpenseStatus(status)
	return exp, nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id,
	)
	exp, err := scanExpense(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return exp, nil
}

// UpdateExpense updates an existing expense.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, exp *models.Expense) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, total_amount = ?, installment_count = ?,
		 current_installment = ?, first_charge_month = ?, date = ?, owner_id = ?, owner_name = ?,
		 share_kind = ?, shared_with = ?, status = ? WHERE id = ?`,
		exp.Description, exp.TotalAmount.String(), exp.InstallmentCount,
		exp.CurrentInstallment, exp.FirstChargeMonth.String(), exp.Date, exp.OwnerID, exp.OwnerName,
		string(exp.ShareKind), encodeNames(exp.SharedWith), string(exp.Status), exp.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense not found: %s", exp.ID)
	}
	return nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense not found: %s", id)
	}
	return nil
}

func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		exp, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// ListExpensesByMonth returns expenses whose first charge falls in the
// given month.
func (s *SQLiteStore) ListExpensesByMonth(ctx context.Context, month period.Key) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE first_charge_month = ? ORDER BY date, created_at`,
		month.String(),
	)
}

// ListInstallmentCandidates returns financed expenses first charged
// strictly before the given month. The "YYYY-MM" key format makes string
// comparison equivalent to chronological comparison.
func (s *SQLiteStore) ListInstallmentCandidates(ctx context.Context, before period.Key) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE first_charge_month < ? AND installment_count > 1 ORDER BY date, created_at`,
		before.String(),
	)
}
