package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jfigueroa/gastoshogar/internal/models"
)

func TestComputeBalancesSharedThree(t *testing.T) {
	// Ana pays 300 split in thirds: she ends up +200, the others -100
	// each, and the settlement plan sends both thirds back to her.
	expenses := []models.Expense{
		{
			TotalAmount:      decimal.NewFromInt(300),
			InstallmentCount: 1,
			OwnerID:          "a",
			ShareKind:        models.ShareThree,
			SharedWith:       []string{"Bruno", "Carla"},
		},
	}

	summary := ComputeBalances(expenses, householdMembers)

	wantBalances := map[string]string{"a": "200", "b": "-100", "c": "-100"}
	for id, wantStr := range wantBalances {
		want := dec(t, wantStr)
		if got := summary.Balances[id]; !got.Equal(want) {
			t.Errorf("balance[%s] = %s, want %s", id, got, want)
		}
	}

	if !summary.Total.Equal(decimal.NewFromInt(300)) {
		t.Errorf("total = %s, want 300", summary.Total)
	}

	if len(summary.Settlements) != 2 {
		t.Fatalf("settlements = %v, want 2 transfers", summary.Settlements)
	}
	// Debtors tie at 100; identity order makes Bruno pay first.
	first, second := summary.Settlements[0], summary.Settlements[1]
	if first.From != "b" || first.To != "a" || !first.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("first transfer = %+v, want b->a 100", first)
	}
	if second.From != "c" || second.To != "a" || !second.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("second transfer = %+v, want c->a 100", second)
	}
}

func TestComputeBalancesPersonalIsNeutral(t *testing.T) {
	// A personal expense is both paid and owed by its owner, so every
	// balance stays at zero and no transfers are suggested.
	expenses := []models.Expense{
		{
			TotalAmount:      decimal.NewFromInt(300),
			InstallmentCount: 1,
			OwnerID:          "a",
			ShareKind:        models.SharePersonal,
		},
	}

	summary := ComputeBalances(expenses, householdMembers)

	for id, balance := range summary.Balances {
		if !balance.IsZero() {
			t.Errorf("balance[%s] = %s, want 0", id, balance)
		}
	}
	if len(summary.Settlements) != 0 {
		t.Errorf("settlements = %v, want none", summary.Settlements)
	}
}

func TestComputeBalancesZeroSum(t *testing.T) {
	// With fully resolvable participants, every apportioned peso is both
	// paid and owed, so net balances sum to zero.
	expenses := []models.Expense{
		{TotalAmount: decimal.NewFromInt(300), InstallmentCount: 3, OwnerID: "a", ShareKind: models.ShareTwo, SharedWith: []string{"Bruno"}},
		{TotalAmount: decimal.NewFromInt(450), InstallmentCount: 1, OwnerID: "b", ShareKind: models.ShareThree, SharedWith: []string{"Ana", "Carla"}},
		{TotalAmount: decimal.NewFromInt(99), InstallmentCount: 1, OwnerID: "c", ShareKind: models.ShareBelongsToOther, SharedWith: []string{"Ana"}},
		{TotalAmount: decimal.NewFromInt(120), InstallmentCount: 1, OwnerID: "a", SharedWith: []string{"Yo", "Bruno", "Carla"}},
		{TotalAmount: decimal.NewFromInt(75), InstallmentCount: 1, OwnerID: "b", ShareKind: models.SharePersonal},
	}

	summary := ComputeBalances(expenses, householdMembers)

	sum := decimal.Zero
	for _, balance := range summary.Balances {
		sum = sum.Add(balance)
	}
	if !sum.Abs().LessThan(decimal.NewFromFloat(0.000001)) {
		t.Errorf("balances sum to %s, want 0", sum)
	}

	// Applying every suggested transfer must drive each balance to
	// (almost) zero; whole-peso rounding can leave at most a peso.
	after := make(map[string]decimal.Decimal, len(summary.Balances))
	for id, balance := range summary.Balances {
		after[id] = balance
	}
	for _, tr := range summary.Settlements {
		after[tr.From] = after[tr.From].Add(tr.Amount)
		after[tr.To] = after[tr.To].Sub(tr.Amount)
	}
	for id, balance := range after {
		if balance.Abs().GreaterThan(decimal.NewFromInt(1)) {
			t.Errorf("residual balance[%s] = %s after settling", id, balance)
		}
	}

	if len(summary.Settlements) > len(householdMembers)-1 {
		t.Errorf("settlements = %d, want at most %d", len(summary.Settlements), len(householdMembers)-1)
	}
}

func TestComputeBalancesInstallmentUsesMonthlyAmount(t *testing.T) {
	expenses := []models.Expense{
		{
			TotalAmount:      decimal.NewFromInt(300),
			InstallmentCount: 3,
			OwnerID:          "a",
			ShareKind:        models.ShareTwo,
			SharedWith:       []string{"Bruno"},
		},
	}

	summary := ComputeBalances(expenses, householdMembers)

	if !summary.Paid["a"].Equal(decimal.NewFromInt(100)) {
		t.Errorf("paid[a] = %s, want the monthly 100, not the full 300", summary.Paid["a"])
	}
	if !summary.Owed["b"].Equal(decimal.NewFromInt(50)) {
		t.Errorf("owed[b] = %s, want 50", summary.Owed["b"])
	}
	if !summary.Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("total = %s, want 100", summary.Total)
	}
}

func TestComputeBalancesOwnerIdentityWinsOverFreeText(t *testing.T) {
	// The stored free-text owner may be a stale display string; the
	// identity field decides who actually paid.
	expenses := []models.Expense{
		{
			TotalAmount:      decimal.NewFromInt(100),
			InstallmentCount: 1,
			OwnerID:          "b",
			OwnerName:        "Ana",
			ShareKind:        models.SharePersonal,
		},
	}

	summary := ComputeBalances(expenses, householdMembers)

	if !summary.Paid["b"].Equal(decimal.NewFromInt(100)) {
		t.Errorf("paid[b] = %s, want 100", summary.Paid["b"])
	}
	if !summary.Paid["a"].IsZero() {
		t.Errorf("paid[a] = %s, want 0", summary.Paid["a"])
	}
}

func TestComputeBalancesNoMembers(t *testing.T) {
	expenses := []models.Expense{
		{TotalAmount: decimal.NewFromInt(100), InstallmentCount: 1, OwnerID: "a", ShareKind: models.SharePersonal},
	}

	summary := ComputeBalances(expenses, nil)

	if len(summary.Paid) != 0 || len(summary.Owed) != 0 || len(summary.Balances) != 0 {
		t.Errorf("expected empty maps, got %+v", summary)
	}
	if len(summary.Settlements) != 0 {
		t.Errorf("expected no settlements, got %v", summary.Settlements)
	}
	if !summary.Total.IsZero() {
		t.Errorf("total = %s, want 0", summary.Total)
	}
}

func TestComputeBalancesUnresolvableNameSkewsSplit(t *testing.T) {
	// A misspelled participant silently loses their half: the owner is
	// still owed it, which shows up as a positive balance. Documented
	// behavior, not a defect.
	expenses := []models.Expense{
		{
			TotalAmount:      decimal.NewFromInt(200),
			InstallmentCount: 1,
			OwnerID:          "a",
			ShareKind:        models.ShareTwo,
			SharedWith:       []string{"Brunno"},
		},
	}

	summary := ComputeBalances(expenses, householdMembers)

	if !summary.Owed["a"].Equal(decimal.NewFromInt(100)) {
		t.Errorf("owed[a] = %s, want 100", summary.Owed["a"])
	}
	if !summary.Owed["b"].IsZero() {
		t.Errorf("owed[b] = %s, want 0 (name did not resolve)", summary.Owed["b"])
	}
	if !summary.Balances["a"].Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance[a] = %s, want +100", summary.Balances["a"])
	}
}
