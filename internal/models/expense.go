package models

import (
	"github.com/shopspring/decimal"

	"github.com/jfigueroa/gastoshogar/internal/period"
)

// ShareKind determines how an expense's monthly amount is apportioned
// among household members. It is a closed set; the apportionment switch
// in the calculator package is exhaustive over these values.
type ShareKind string

const (
	// SharePersonal attributes the full monthly amount to the owner.
	SharePersonal ShareKind = "personal"

	// ShareTwo splits the monthly amount in half between the owner and
	// the single name in SharedWith.
	ShareTwo ShareKind = "shared2"

	// ShareThree splits the monthly amount in three equal parts across
	// the owner and two named participants.
	ShareThree ShareKind = "shared3"

	// ShareBelongsToOther attributes the entire monthly amount to the
	// first name in SharedWith: the owner fronted money for someone
	// else's expense.
	ShareBelongsToOther ShareKind = "belongs_to_other"
)

// ExpenseStatus tracks an installment plan's lifecycle.
type ExpenseStatus string

const (
	StatusActive    ExpenseStatus = "active"
	StatusCompleted ExpenseStatus = "completed"
)

// Expense is a household expense record. A financed purchase stores the
// full charged amount; the per-month figure is always
// TotalAmount / InstallmentCount, constant across installments.
//
// Invariants (validated at the RPC boundary, assumed everywhere else):
// InstallmentCount >= 1 and 1 <= CurrentInstallment <= InstallmentCount.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable label for the expense.
	Description string

	// TotalAmount is the full charged amount, not the per-installment
	// figure.
	TotalAmount decimal.Decimal

	// InstallmentCount is the number of monthly installments; 1 means
	// no installment plan.
	InstallmentCount int

	// CurrentInstallment is the most recent installment index marked
	// paid, in [1, InstallmentCount].
	CurrentInstallment int

	// FirstChargeMonth is the month the first installment is billed.
	// It may differ from the transaction date's month.
	FirstChargeMonth period.Key

	// Date is the Unix timestamp of the transaction itself.
	Date int64

	// OwnerID is the canonical identity of who paid. Empty on legacy
	// records that only carry OwnerName.
	OwnerID string

	// OwnerName is the free-text owner label stored by older entry
	// forms. Balance computation prefers OwnerID when present.
	OwnerName string

	// ShareKind governs apportionment of the monthly amount.
	ShareKind ShareKind

	// SharedWith lists participant names; semantics depend on
	// ShareKind. Names are free text and may include the reserved self
	// alias.
	SharedWith []string

	// Status is active until the last installment is explicitly marked
	// paid.
	Status ExpenseStatus

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}

// MonthlyAmount returns the per-installment amount.
func (e *Expense) MonthlyAmount() decimal.Decimal {
	return period.MonthlyAmount(e.TotalAmount, e.InstallmentCount)
}
