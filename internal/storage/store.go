// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/jfigueroa/gastoshogar/internal/models"
	"github.com/jfigueroa/gastoshogar/internal/period"
)

// ErrReassignRequired is returned when removing a group participant who
// paid expenses that still have co-participants, without naming who takes
// over those expenses.
var ErrReassignRequired = errors.New("participant paid shared expenses; a reassignment target is required")

// Store defines the interface for ledger storage operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// ListUsers returns every registered household member, ordered by
	// display name.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// Household expenses.
	CreateExpense(ctx context.Context, exp *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, exp *models.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	// ListExpensesByMonth returns expenses whose first charge falls in
	// the given month.
	ListExpensesByMonth(ctx context.Context, month period.Key) ([]*models.Expense, error)
	// ListInstallmentCandidates returns financed expenses first charged
	// before the given month; callers decide which ones still have an
	// installment active in it.
	ListInstallmentCandidates(ctx context.Context, before period.Key) ([]*models.Expense, error)

	// Event groups.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, id string) error
	// RemoveGroupParticipant deletes a participant and rewrites every
	// expense that references them: they are dropped from split lists,
	// their paid expenses are reassigned to reassignTo, and expenses
	// left without participants are deleted. The whole rewrite is
	// atomic.
	RemoveGroupParticipant(ctx context.Context, groupID, name, reassignTo string) error

	// Group expenses.
	CreateGroupExpense(ctx context.Context, exp *models.GroupExpense) error
	GetGroupExpense(ctx context.Context, id string) (*models.GroupExpense, error)
	UpdateGroupExpense(ctx context.Context, exp *models.GroupExpense) error
	DeleteGroupExpense(ctx context.Context, id string) error
	ListGroupExpenses(ctx context.Context, groupID string) ([]*models.GroupExpense, error)

	// Recorded settle-ups.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
	DeleteSettlement(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
