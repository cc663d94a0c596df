package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jfigueroa/gastoshogar/internal/models"
)

func TestComputeGroupBalances(t *testing.T) {
	// One 90-peso expense paid by X, split three ways including the
	// payer: X nets +60 and collects 30 from each of the others.
	participants := []string{"X", "Y", "Z"}
	expenses := []models.GroupExpense{
		{Amount: decimal.NewFromInt(90), PaidBy: "X", SplitWith: []string{"X", "Y", "Z"}},
	}

	summary := ComputeGroupBalances(participants, expenses)

	wantBalances := map[string]string{"X": "60", "Y": "-30", "Z": "-30"}
	for name, wantStr := range wantBalances {
		want := dec(t, wantStr)
		if got := summary.Balances[name]; !got.Equal(want) {
			t.Errorf("balance[%s] = %s, want %s", name, got, want)
		}
	}

	if !summary.Total.Equal(decimal.NewFromInt(90)) {
		t.Errorf("total = %s, want 90", summary.Total)
	}

	if len(summary.Settlements) != 2 {
		t.Fatalf("settlements = %v, want 2 transfers", summary.Settlements)
	}
	if summary.Settlements[0].From != "Y" || summary.Settlements[1].From != "Z" {
		t.Errorf("unexpected transfer order: %v", summary.Settlements)
	}
	for _, tr := range summary.Settlements {
		if tr.To != "X" || !tr.Amount.Equal(decimal.NewFromInt(30)) {
			t.Errorf("transfer = %+v, want ->X 30", tr)
		}
	}
}

func TestComputeGroupBalancesPayerNotInSplit(t *testing.T) {
	// The payer fronted the whole amount for others: full credit, no
	// share of their own.
	participants := []string{"X", "Y"}
	expenses := []models.GroupExpense{
		{Amount: decimal.NewFromInt(50), PaidBy: "X", SplitWith: []string{"Y"}},
	}

	summary := ComputeGroupBalances(participants, expenses)

	if !summary.Balances["X"].Equal(decimal.NewFromInt(50)) {
		t.Errorf("balance[X] = %s, want 50", summary.Balances["X"])
	}
	if !summary.Balances["Y"].Equal(decimal.NewFromInt(-50)) {
		t.Errorf("balance[Y] = %s, want -50", summary.Balances["Y"])
	}
}

func TestComputeGroupBalancesIdleParticipant(t *testing.T) {
	participants := []string{"X", "Y", "Z"}
	expenses := []models.GroupExpense{
		{Amount: decimal.NewFromInt(40), PaidBy: "X", SplitWith: []string{"X", "Y"}},
	}

	summary := ComputeGroupBalances(participants, expenses)

	if balance, ok := summary.Balances["Z"]; !ok || !balance.IsZero() {
		t.Errorf("idle participant balance = %s (present: %v), want 0", balance, ok)
	}
}

func TestComputeGroupBalancesZeroSum(t *testing.T) {
	participants := []string{"X", "Y", "Z", "W"}
	expenses := []models.GroupExpense{
		{Amount: decimal.NewFromInt(120), PaidBy: "X", SplitWith: []string{"X", "Y", "Z", "W"}},
		{Amount: decimal.NewFromInt(75), PaidBy: "Y", SplitWith: []string{"Y", "Z"}},
		{Amount: decimal.NewFromInt(33), PaidBy: "Z", SplitWith: []string{"X", "W"}},
	}

	summary := ComputeGroupBalances(participants, expenses)

	sum := decimal.Zero
	for _, balance := range summary.Balances {
		sum = sum.Add(balance)
	}
	if !sum.Abs().LessThan(decimal.NewFromFloat(0.000001)) {
		t.Errorf("balances sum to %s, want 0", sum)
	}

	if len(summary.Settlements) > len(participants)-1 {
		t.Errorf("settlements = %d, want at most %d", len(summary.Settlements), len(participants)-1)
	}
}

func TestComputeGroupBalancesEmpty(t *testing.T) {
	summary := ComputeGroupBalances(nil, nil)
	if len(summary.Balances) != 0 || len(summary.Settlements) != 0 || !summary.Total.IsZero() {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}
