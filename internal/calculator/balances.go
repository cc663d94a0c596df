package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/jfigueroa/gastoshogar/internal/identity"
	"github.com/jfigueroa/gastoshogar/internal/models"
)

// Summary holds the derived figures for one household period. It is
// recomputed per request and never persisted.
type Summary struct {
	// Paid is the total monthly amount each identity fronted.
	Paid map[string]decimal.Decimal

	// Owed is the total apportioned amount attributed to each identity.
	Owed map[string]decimal.Decimal

	// Balances is Paid minus Owed per identity. Positive means the
	// household owes this person money.
	Balances map[string]decimal.Decimal

	// Settlements are the suggested transfers that zero out Balances.
	Settlements []Transfer

	// Total is the sum of all monthly amounts in the period.
	Total decimal.Decimal
}

// ComputeBalances aggregates paid vs. owed across an expense collection
// for the given household members and derives net balances plus the
// greedy settlement plan. Each expense contributes its monthly amount,
// not its full total, so a financed purchase weighs in at one
// installment's worth.
//
// An empty member list yields an all-empty summary.
func ComputeBalances(expenses []models.Expense, members []identity.Member) Summary {
	summary := Summary{
		Paid:     make(map[string]decimal.Decimal),
		Owed:     make(map[string]decimal.Decimal),
		Balances: make(map[string]decimal.Decimal),
		Total:    decimal.Zero,
	}
	if len(members) == 0 {
		return summary
	}

	res := identity.NewResolver(members)
	for _, m := range members {
		summary.Paid[m.ID] = decimal.Zero
		summary.Owed[m.ID] = decimal.Zero
	}

	for i := range expenses {
		exp := &expenses[i]
		monthly := exp.MonthlyAmount()

		if ownerID, ok := resolveOwner(exp, res); ok {
			summary.Paid[ownerID] = summary.Paid[ownerID].Add(monthly)
		}
		for id, share := range Apportion(exp, res) {
			summary.Owed[id] = summary.Owed[id].Add(share)
		}
		summary.Total = summary.Total.Add(monthly)
	}

	for id := range summary.Paid {
		summary.Balances[id] = summary.Paid[id].Sub(summary.Owed[id])
	}
	summary.Settlements = Settle(summary.Balances)

	return summary
}
