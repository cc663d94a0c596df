// Package calculator implements the pure computation core of the ledger:
// per-expense share apportionment, household balance aggregation, greedy
// debt settlement, and the event-group variant of both.
//
// Everything in this package is deterministic and side-effect-free; the
// same expense collection and member list always produce the same output.
// Callers fetch records and build the member list first, then invoke these
// functions synchronously.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/jfigueroa/gastoshogar/internal/identity"
	"github.com/jfigueroa/gastoshogar/internal/models"
)

// resolveOwner determines the canonical identity that paid an expense.
// A stored owner identity wins over the free-text owner field, which may
// be a legacy display string.
func resolveOwner(exp *models.Expense, res *identity.Resolver) (string, bool) {
	if exp.OwnerID != "" {
		if id, ok := res.Resolve(exp.OwnerID); ok {
			return id, true
		}
	}
	return res.Resolve(exp.OwnerName)
}

// Apportion computes each participant's share of one expense's monthly
// amount, keyed by canonical identity. Names that resolve to nothing are
// dropped, so the returned shares may sum to less than the monthly amount
// when the record carries misspelled participants; for a fully resolvable
// participant set the shares always sum to the monthly amount exactly.
func Apportion(exp *models.Expense, res *identity.Resolver) map[string]decimal.Decimal {
	monthly := exp.MonthlyAmount()
	shares := make(map[string]decimal.Decimal)
	ownerID, ownerOK := resolveOwner(exp, res)

	addShare := func(id string, amount decimal.Decimal) {
		shares[id] = shares[id].Add(amount)
	}

	// A record that names nobody else belongs entirely to its owner,
	// whatever kind it claims to be.
	if exp.ShareKind == models.SharePersonal || len(exp.SharedWith) == 0 {
		if ownerOK {
			addShare(ownerID, monthly)
		}
		return shares
	}

	switch exp.ShareKind {
	case models.ShareBelongsToOther:
		// The owner fronted money for someone else; the whole monthly
		// amount lands on the named third party.
		if id, ok := res.ResolveParticipant(exp.SharedWith[0], ownerID); ok {
			addShare(id, monthly)
		}

	case models.ShareTwo:
		// Fixed bisection: half to the owner, half to the single named
		// participant. An unresolvable name drops its half entirely
		// rather than inflating the owner's share.
		half := monthly.Div(decimal.NewFromInt(2))
		if ownerOK {
			addShare(ownerID, half)
		}
		if id, ok := res.ResolveParticipant(exp.SharedWith[0], ownerID); ok {
			addShare(id, half)
		}

	case models.ShareThree:
		// Fixed thirds across owner plus two named participants,
		// regardless of how many names the record actually carries.
		third := monthly.Div(decimal.NewFromInt(3))
		if ownerOK {
			addShare(ownerID, third)
		}
		for i := 0; i < len(exp.SharedWith) && i < 2; i++ {
			if id, ok := res.ResolveParticipant(exp.SharedWith[i], ownerID); ok {
				addShare(id, third)
			}
		}

	default:
		// Legacy records without a recognized kind get the generalized
		// N-way split.
		return apportionGeneral(exp, res, monthly, ownerID, ownerOK)
	}

	return shares
}

// apportionGeneral splits the monthly amount evenly across the resolved
// participant set: the owner plus every resolvable name in SharedWith,
// deduplicated. Only resolved identities enter the denominator. When every
// name is unmatched the set degenerates to the owner alone (owner-only
// attribution); when the owner is unresolvable too, the amount stays
// unassigned.
func apportionGeneral(exp *models.Expense, res *identity.Resolver, monthly decimal.Decimal, ownerID string, ownerOK bool) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal)

	set := make(map[string]struct{})
	var order []string
	add := func(id string) {
		if _, ok := set[id]; !ok {
			set[id] = struct{}{}
			order = append(order, id)
		}
	}

	if ownerOK {
		add(ownerID)
	}
	for _, name := range exp.SharedWith {
		if id, ok := res.ResolveParticipant(name, ownerID); ok {
			add(id)
		}
	}

	if len(order) == 0 {
		return shares
	}

	perMember := monthly.Div(decimal.NewFromInt(int64(len(order))))
	for _, id := range order {
		shares[id] = perMember
	}
	return shares
}

// Share returns the amount a single viewer owes for one expense, or zero
// when the viewer is not among its participants.
func Share(exp *models.Expense, viewerID string, res *identity.Resolver) decimal.Decimal {
	if amount, ok := Apportion(exp, res)[viewerID]; ok {
		return amount
	}
	return decimal.Zero
}
