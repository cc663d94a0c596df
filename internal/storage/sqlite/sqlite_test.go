package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfigueroa/gastoshogar/internal/models"
	"github.com/jfigueroa/gastoshogar/internal/period"
	"github.com/jfigueroa/gastoshogar/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("ana@example.com", "Ana", "hash")
	require.NoError(t, store.CreateUser(ctx, user))

	byEmail, err := store.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "Ana", byEmail.DisplayName)

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "ana@example.com", byID.Email)

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.CreateUser(ctx, models.NewUser("bruno@example.com", "Bruno", "hash")))
	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ana", users[0].DisplayName)
	assert.Equal(t, "Bruno", users[1].DisplayName)
}

func TestExpenseRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	exp := &models.Expense{
		Description:        "Heladera",
		TotalAmount:        decimal.RequireFromString("359999.99"),
		InstallmentCount:   12,
		CurrentInstallment: 1,
		FirstChargeMonth:   period.Key("2025-02"),
		Date:               1738368000,
		OwnerID:            "u1",
		ShareKind:          models.ShareTwo,
		SharedWith:         []string{"Bruno"},
	}
	require.NoError(t, store.CreateExpense(ctx, exp))
	assert.NotEmpty(t, exp.ID)
	assert.NotZero(t, exp.CreatedAt)
	assert.Equal(t, models.StatusActive, exp.Status)

	got, err := store.GetExpense(ctx, exp.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(exp.TotalAmount), "amount %s", got.TotalAmount)
	assert.Equal(t, exp.FirstChargeMonth, got.FirstChargeMonth)
	assert.Equal(t, []string{"Bruno"}, got.SharedWith)
	assert.Equal(t, models.ShareTwo, got.ShareKind)

	got.Description = "Heladera nueva"
	got.CurrentInstallment = 2
	require.NoError(t, store.UpdateExpense(ctx, got))

	again, err := store.GetExpense(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heladera nueva", again.Description)
	assert.Equal(t, 2, again.CurrentInstallment)

	require.NoError(t, store.DeleteExpense(ctx, exp.ID))
	_, err = store.GetExpense(ctx, exp.ID)
	assert.Error(t, err)
}

func TestExpenseMalformedSharedWithDegrades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Legacy rows stored a bare name instead of a JSON array; reads
	// degrade to a single-element list holding the raw value.
	_, err := store.db.ExecContext(ctx,
		`INSERT INTO expenses (id, description, total_amount, installment_count, current_installment,
		 first_charge_month, date, owner_id, owner_name, share_kind, shared_with, status, created_at)
		 VALUES ('legacy-1', 'Super', '100', 1, 1, '2025-01', 0, 'u1', '', 'shared2', 'Bruno', 'active', 0)`,
	)
	require.NoError(t, err)

	got, err := store.GetExpense(ctx, "legacy-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bruno"}, got.SharedWith)
}

func TestExpenseMonthQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	makeExpense := func(desc string, month period.Key, installments int) {
		require.NoError(t, store.CreateExpense(ctx, &models.Expense{
			Description:        desc,
			TotalAmount:        decimal.NewFromInt(300),
			InstallmentCount:   installments,
			CurrentInstallment: 1,
			FirstChargeMonth:   month,
			OwnerID:            "u1",
			ShareKind:          models.SharePersonal,
		}))
	}

	makeExpense("enero simple", "2025-01", 1)
	makeExpense("enero financiado", "2025-01", 3)
	makeExpense("marzo", "2025-03", 1)

	primary, err := store.ListExpensesByMonth(ctx, "2025-01")
	require.NoError(t, err)
	assert.Len(t, primary, 2)

	candidates, err := store.ListInstallmentCandidates(ctx, "2025-03")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "enero financiado", candidates[0].Description)

	// Single-installment and same-month expenses are never carry-over
	// candidates.
	candidates, err = store.ListInstallmentCandidates(ctx, "2025-01")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:         "Asado",
		Participants: []string{"X", "Y", "Z"},
		CreatedBy:    "u1",
	}
	require.NoError(t, store.CreateGroup(ctx, group))
	assert.NotEmpty(t, group.ID)

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asado", got.Name)
	assert.Equal(t, []string{"X", "Y", "Z"}, got.Participants)

	got.Name = "Asado 2025"
	got.Participants = append(got.Participants, "W")
	require.NoError(t, store.UpdateGroup(ctx, got))

	again, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asado 2025", again.Name)
	assert.Equal(t, []string{"W", "X", "Y", "Z"}, again.Participants)

	groups, err := store.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	require.NoError(t, store.DeleteGroup(ctx, group.ID))
	_, err = store.GetGroup(ctx, group.ID)
	assert.Error(t, err)
}

func TestGroupExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Viaje", Participants: []string{"X", "Y"}, CreatedBy: "u1"}
	require.NoError(t, store.CreateGroup(ctx, group))

	exp := &models.GroupExpense{
		GroupID:     group.ID,
		Description: "Nafta",
		Amount:      decimal.NewFromInt(90),
		PaidBy:      "X",
		SplitWith:   []string{"X", "Y"},
		CreatedBy:   "u1",
	}
	require.NoError(t, store.CreateGroupExpense(ctx, exp))

	got, err := store.GetGroupExpense(ctx, exp.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, []string{"X", "Y"}, got.SplitWith)

	got.Amount = decimal.NewFromInt(120)
	require.NoError(t, store.UpdateGroupExpense(ctx, got))

	list, err := store.ListGroupExpenses(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Amount.Equal(decimal.NewFromInt(120)))

	require.NoError(t, store.DeleteGroupExpense(ctx, exp.ID))
	list, err = store.ListGroupExpenses(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRemoveGroupParticipant(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*SQLiteStore, *models.Group) {
		store := newTestStore(t)
		group := &models.Group{Name: "Depto", Participants: []string{"X", "Y", "Z"}, CreatedBy: "u1"}
		require.NoError(t, store.CreateGroup(ctx, group))
		return store, group
	}

	t.Run("removed from split lists", func(t *testing.T) {
		store, group := setup(t)
		exp := &models.GroupExpense{
			GroupID: group.ID, Description: "Super", Amount: decimal.NewFromInt(90),
			PaidBy: "X", SplitWith: []string{"X", "Y", "Z"}, CreatedBy: "u1",
		}
		require.NoError(t, store.CreateGroupExpense(ctx, exp))

		require.NoError(t, store.RemoveGroupParticipant(ctx, group.ID, "Z", ""))

		got, err := store.GetGroupExpense(ctx, exp.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"X", "Y"}, got.SplitWith)

		updated, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"X", "Y"}, updated.Participants)
	})

	t.Run("payer reassigned", func(t *testing.T) {
		store, group := setup(t)
		exp := &models.GroupExpense{
			GroupID: group.ID, Description: "Super", Amount: decimal.NewFromInt(90),
			PaidBy: "X", SplitWith: []string{"X", "Y"}, CreatedBy: "u1",
		}
		require.NoError(t, store.CreateGroupExpense(ctx, exp))

		require.NoError(t, store.RemoveGroupParticipant(ctx, group.ID, "X", "Y"))

		got, err := store.GetGroupExpense(ctx, exp.ID)
		require.NoError(t, err)
		assert.Equal(t, "Y", got.PaidBy)
		assert.Equal(t, []string{"Y"}, got.SplitWith)
	})

	t.Run("payer with co-participants requires reassignment", func(t *testing.T) {
		store, group := setup(t)
		exp := &models.GroupExpense{
			GroupID: group.ID, Description: "Super", Amount: decimal.NewFromInt(90),
			PaidBy: "X", SplitWith: []string{"X", "Y"}, CreatedBy: "u1",
		}
		require.NoError(t, store.CreateGroupExpense(ctx, exp))

		err := store.RemoveGroupParticipant(ctx, group.ID, "X", "")
		assert.ErrorIs(t, err, storage.ErrReassignRequired)

		// The failed removal must not leave partial state behind.
		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Contains(t, got.Participants, "X")
	})

	t.Run("solo payer expense deleted", func(t *testing.T) {
		store, group := setup(t)
		exp := &models.GroupExpense{
			GroupID: group.ID, Description: "Solo", Amount: decimal.NewFromInt(50),
			PaidBy: "X", SplitWith: []string{"X"}, CreatedBy: "u1",
		}
		require.NoError(t, store.CreateGroupExpense(ctx, exp))

		require.NoError(t, store.RemoveGroupParticipant(ctx, group.ID, "X", ""))

		_, err := store.GetGroupExpense(ctx, exp.ID)
		assert.Error(t, err)
	})

	t.Run("unknown participant", func(t *testing.T) {
		store, group := setup(t)
		err := store.RemoveGroupParticipant(ctx, group.ID, "Ghost", "")
		assert.Error(t, err)
	})
}

func TestSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Asado", Participants: []string{"X", "Y"}, CreatedBy: "u1"}
	require.NoError(t, store.CreateGroup(ctx, group))

	settlement := &models.Settlement{
		GroupID:   group.ID,
		FromName:  "Y",
		ToName:    "X",
		Amount:    decimal.NewFromInt(30),
		CreatedBy: "u1",
		Note:      "transferencia",
	}
	require.NoError(t, store.CreateSettlement(ctx, settlement))
	assert.NotEmpty(t, settlement.ID)

	list, err := store.ListSettlementsByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Y", list[0].FromName)
	assert.True(t, list[0].Amount.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "transferencia", list[0].Note)

	require.NoError(t, store.DeleteSettlement(ctx, settlement.ID))
	list, err = store.ListSettlementsByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
