package models

import "github.com/shopspring/decimal"

// Settlement records a payment between two group participants to clear
// debts. Suggested transfers are ephemeral (recomputed per request);
// a Settlement row exists only once someone actually settles up.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromName is the participant who paid (debtor settling up).
	FromName string

	// ToName is the participant who received payment.
	ToName string

	// Amount is the payment amount in whole pesos.
	Amount decimal.Decimal

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// Note is an optional description.
	Note string
}
