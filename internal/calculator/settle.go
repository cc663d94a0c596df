package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// epsilon suppresses rounding noise: balances within half a peso of zero
// are considered settled, and transfers at or below it are not reported.
var epsilon = decimal.NewFromFloat(0.5)

// Transfer is a suggested payment between two participants that reduces
// net balances toward zero.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// Settle produces the pairwise transfers that zero out a balance map,
// using greedy largest-debtor-to-largest-creditor matching. The result is
// deterministic (ties break on identity) and bounded by n-1 transfers for
// n participants, but it is a heuristic: it does not guarantee the
// theoretical minimum number of transfers.
//
// Transfer amounts are rounded to whole pesos before being returned.
func Settle(balances map[string]decimal.Decimal) []Transfer {
	type party struct {
		id        string
		remaining decimal.Decimal
	}

	var debtors, creditors []party
	for id, balance := range balances {
		switch {
		case balance.LessThan(epsilon.Neg()):
			debtors = append(debtors, party{id: id, remaining: balance.Neg()})
		case balance.GreaterThan(epsilon):
			creditors = append(creditors, party{id: id, remaining: balance})
		}
	}

	byMagnitude := func(parties []party) func(i, j int) bool {
		return func(i, j int) bool {
			if !parties[i].remaining.Equal(parties[j].remaining) {
				return parties[i].remaining.GreaterThan(parties[j].remaining)
			}
			return parties[i].id < parties[j].id
		}
	}
	sort.Slice(debtors, byMagnitude(debtors))
	sort.Slice(creditors, byMagnitude(creditors))

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].remaining, creditors[j].remaining)

		if rounded := amount.Round(0); rounded.GreaterThan(epsilon) {
			transfers = append(transfers, Transfer{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: rounded,
			})
		}

		debtors[i].remaining = debtors[i].remaining.Sub(amount)
		creditors[j].remaining = creditors[j].remaining.Sub(amount)

		if debtors[i].remaining.LessThanOrEqual(epsilon) {
			i++
		}
		if creditors[j].remaining.LessThanOrEqual(epsilon) {
			j++
		}
	}

	return transfers
}
