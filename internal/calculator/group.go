package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/jfigueroa/gastoshogar/internal/models"
)

// GroupSummary holds the derived figures for one event group.
type GroupSummary struct {
	// Balances is the net position per participant name. Positive means
	// the group owes this person money.
	Balances map[string]decimal.Decimal

	// Settlements are the suggested transfers that zero out Balances.
	Settlements []Transfer

	// Total is the sum of all expense amounts.
	Total decimal.Decimal
}

// ComputeGroupBalances computes net balances and settlements for an event
// group. Participants are free-text names unique within the group; every
// expense is split equally among its SplitWith list, with the payer
// credited for the remainder. Participants with no expense involvement
// appear with a zero balance.
func ComputeGroupBalances(participants []string, expenses []models.GroupExpense) GroupSummary {
	summary := GroupSummary{
		Balances: make(map[string]decimal.Decimal, len(participants)),
		Total:    decimal.Zero,
	}
	for _, name := range participants {
		summary.Balances[name] = decimal.Zero
	}

	for i := range expenses {
		exp := &expenses[i]
		if len(exp.SplitWith) == 0 {
			continue
		}

		perPerson := exp.Amount.Div(decimal.NewFromInt(int64(len(exp.SplitWith))))

		payerShares := false
		for _, name := range exp.SplitWith {
			if name == exp.PaidBy {
				payerShares = true
				continue
			}
			summary.Balances[name] = summary.Balances[name].Sub(perPerson)
		}

		credit := exp.Amount
		if payerShares {
			credit = exp.Amount.Sub(perPerson)
		}
		summary.Balances[exp.PaidBy] = summary.Balances[exp.PaidBy].Add(credit)

		summary.Total = summary.Total.Add(exp.Amount)
	}

	summary.Settlements = Settle(summary.Balances)
	return summary
}
