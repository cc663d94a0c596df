package models

import "github.com/shopspring/decimal"

// Group is an ad-hoc event ledger ("asado", trip, shared rental).
// Participants are plain names, unique within the group; they are not
// linked to user accounts.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group.
	Name string

	// Participants is the group's own participant registry. Every
	// GroupExpense references names from this list.
	Participants []string

	// CreatedBy is the user ID that created the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasParticipant reports whether name is registered in the group.
func (g *Group) HasParticipant(name string) bool {
	for _, p := range g.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// GroupExpense is a single expense inside an event group. No installments
// and no identity reconciliation: PaidBy and SplitWith are names from the
// group's participant registry.
type GroupExpense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is the human-readable label for the expense.
	Description string

	// Amount is the full amount paid.
	Amount decimal.Decimal

	// PaidBy is the participant name that paid. It may or may not
	// appear in SplitWith.
	PaidBy string

	// SplitWith lists the participants the amount is split equally
	// among.
	SplitWith []string

	// CreatedBy is the user ID that recorded the expense. Any group
	// member may edit or delete it; there is no ownership restriction.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
