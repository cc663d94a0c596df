package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/jfigueroa/gastoshogar/internal/auth"
	"github.com/jfigueroa/gastoshogar/internal/calculator"
	"github.com/jfigueroa/gastoshogar/internal/currency"
	"github.com/jfigueroa/gastoshogar/internal/identity"
	"github.com/jfigueroa/gastoshogar/internal/middleware"
	"github.com/jfigueroa/gastoshogar/internal/models"
	"github.com/jfigueroa/gastoshogar/internal/period"
	"github.com/jfigueroa/gastoshogar/internal/rpc"
	"github.com/jfigueroa/gastoshogar/internal/storage"
)

var (
	errMissingDescription = errors.New("description is required")
	errInvalidAmount      = errors.New("amount must be positive")
	errInvalidInstallment = errors.New("installment count must be at least 1")
	errAlreadyCompleted   = errors.New("expense is already completed")
)

// ExpenseService implements the household expense RPC interface: expense
// CRUD, the monthly view with installment carry-over, and the balance
// summary.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

var _ rpc.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates a new household expense service.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

func toAPIExpense(exp *models.Expense) *rpc.Expense {
	return &rpc.Expense{
		ID:                 exp.ID,
		Description:        exp.Description,
		TotalAmount:        exp.TotalAmount,
		InstallmentCount:   exp.InstallmentCount,
		CurrentInstallment: exp.CurrentInstallment,
		FirstChargeMonth:   exp.FirstChargeMonth.String(),
		Date:               exp.Date,
		OwnerID:            exp.OwnerID,
		OwnerName:          exp.OwnerName,
		ShareKind:          string(exp.ShareKind),
		SharedWith:         exp.SharedWith,
		Status:             string(exp.Status),
		CreatedAt:          exp.CreatedAt,
	}
}

func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// parseMonth resolves an optional "YYYY-MM" request field, defaulting to
// the current month.
func parseMonth(raw string) (period.Key, error) {
	if raw == "" {
		return period.Current(), nil
	}
	return period.Parse(raw)
}

// CreateExpense records a new household expense owned by the caller.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[rpc.CreateExpenseRequest]) (*connect.Response[rpc.CreateExpenseResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if msg.Description == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingDescription)
	}
	if !msg.TotalAmount.IsPositive() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidAmount)
	}
	if msg.InstallmentCount < 1 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidInstallment)
	}
	month, err := parseMonth(msg.FirstChargeMonth)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	shareKind := models.ShareKind(msg.ShareKind)
	if shareKind == "" {
		shareKind = models.SharePersonal
	}

	exp := &models.Expense{
		Description:        msg.Description,
		TotalAmount:        msg.TotalAmount,
		InstallmentCount:   msg.InstallmentCount,
		CurrentInstallment: 1,
		FirstChargeMonth:   month,
		Date:               msg.Date,
		OwnerID:            userID,
		ShareKind:          shareKind,
		SharedWith:         msg.SharedWith,
	}
	if err := s.store.CreateExpense(ctx, exp); err != nil {
		s.logger.Error("failed to create expense", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("expense created", "expense_id", exp.ID, "owner_id", userID)
	return connect.NewResponse(&rpc.CreateExpenseResponse{Expense: toAPIExpense(exp)}), nil
}

// GetExpense retrieves one expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[rpc.GetExpenseRequest]) (*connect.Response[rpc.GetExpenseResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	exp, err := s.store.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewResponse(&rpc.GetExpenseResponse{Expense: toAPIExpense(exp)}), nil
}

// UpdateExpense replaces an expense's stored fields. Ownership does not
// change; a household member may correct any record.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[rpc.UpdateExpenseRequest]) (*connect.Response[rpc.UpdateExpenseResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	msg := req.Msg.Expense
	if msg == nil || msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("expense with id is required"))
	}
	if !msg.TotalAmount.IsPositive() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidAmount)
	}
	if msg.InstallmentCount < 1 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidInstallment)
	}
	month, err := parseMonth(msg.FirstChargeMonth)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	current, err := s.store.GetExpense(ctx, msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	current.Description = msg.Description
	current.TotalAmount = msg.TotalAmount
	current.InstallmentCount = msg.InstallmentCount
	if msg.CurrentInstallment >= 1 {
		current.CurrentInstallment = msg.CurrentInstallment
	}
	current.FirstChargeMonth = month
	current.Date = msg.Date
	current.ShareKind = models.ShareKind(msg.ShareKind)
	current.SharedWith = msg.SharedWith
	if msg.Status != "" {
		current.Status = models.ExpenseStatus(msg.Status)
	}

	if err := s.store.UpdateExpense(ctx, current); err != nil {
		s.logger.Error("failed to update expense", "expense_id", msg.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&rpc.UpdateExpenseResponse{Expense: toAPIExpense(current)}), nil
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[rpc.DeleteExpenseRequest]) (*connect.Response[rpc.DeleteExpenseResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ID); err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	s.logger.Info("expense deleted", "expense_id", req.Msg.ID)
	return connect.NewResponse(&rpc.DeleteExpenseResponse{}), nil
}

// monthExpense pairs an expense with the installment index it carries in a
// given month.
type monthExpense struct {
	exp *models.Expense
	idx int
}

// expensesForMonth collects the expenses active in a month: those first
// charged in it plus earlier financed expenses whose amortization window
// still covers it.
func (s *ExpenseService) expensesForMonth(ctx context.Context, month period.Key) ([]monthExpense, error) {
	primary, err := s.store.ListExpensesByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	candidates, err := s.store.ListInstallmentCandidates(ctx, month)
	if err != nil {
		return nil, err
	}

	var active []monthExpense
	for _, exp := range primary {
		active = append(active, monthExpense{exp: exp, idx: 1})
	}
	for _, exp := range candidates {
		if idx, ok := period.InWindow(exp.FirstChargeMonth, exp.InstallmentCount, month); ok {
			active = append(active, monthExpense{exp: exp, idx: idx})
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].exp.Date != active[j].exp.Date {
			return active[i].exp.Date < active[j].exp.Date
		}
		return active[i].exp.CreatedAt < active[j].exp.CreatedAt
	})
	return active, nil
}

func (s *ExpenseService) householdMembers(ctx context.Context) ([]identity.Member, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]identity.Member, 0, len(users))
	for _, u := range users {
		members = append(members, identity.Member{ID: u.ID, DisplayName: u.DisplayName})
	}
	return members, nil
}

// ListMonth returns the month view: every expense charged in the month,
// first charges and carry-over installments alike, with per-month amounts
// and the caller's share already derived.
func (s *ExpenseService) ListMonth(ctx context.Context, req *connect.Request[rpc.ListMonthRequest]) (*connect.Response[rpc.ListMonthResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	month, err := parseMonth(req.Msg.Month)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	active, err := s.expensesForMonth(ctx, month)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	members, err := s.householdMembers(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	res := identity.NewResolver(members)

	entries := make([]*rpc.MonthEntry, 0, len(active))
	total := decimal.Zero
	for _, item := range active {
		monthly := item.exp.MonthlyAmount()
		share := calculator.Share(item.exp, userID, res)

		entry := &rpc.MonthEntry{
			Expense:          toAPIExpense(item.exp),
			InstallmentIndex: item.idx,
			MonthlyAmount:    monthly,
			FormattedAmount:  currency.Format(monthly),
			YourShare:        share,
			FormattedShare:   currency.Format(share),
		}
		if item.exp.InstallmentCount > 1 {
			entry.InstallmentLabel = fmt.Sprintf("%d/%d", item.idx, item.exp.InstallmentCount)
		}
		entries = append(entries, entry)
		total = total.Add(monthly)
	}

	return connect.NewResponse(&rpc.ListMonthResponse{
		Month:          month.String(),
		Label:          month.Label(),
		Entries:        entries,
		Total:          total,
		FormattedTotal: currency.Format(total),
	}), nil
}

// MarkInstallmentPaid advances a financed expense by one installment. The
// expense completes when its final installment is marked.
func (s *ExpenseService) MarkInstallmentPaid(ctx context.Context, req *connect.Request[rpc.MarkInstallmentPaidRequest]) (*connect.Response[rpc.MarkInstallmentPaidResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	exp, err := s.store.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if exp.Status == models.StatusCompleted {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errAlreadyCompleted)
	}

	if exp.CurrentInstallment < exp.InstallmentCount {
		exp.CurrentInstallment++
	}
	if exp.CurrentInstallment >= exp.InstallmentCount {
		exp.Status = models.StatusCompleted
	}

	if err := s.store.UpdateExpense(ctx, exp); err != nil {
		s.logger.Error("failed to advance installment", "expense_id", exp.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("installment marked paid",
		"expense_id", exp.ID,
		"installment", exp.CurrentInstallment,
		"status", exp.Status,
	)
	return connect.NewResponse(&rpc.MarkInstallmentPaidResponse{Expense: toAPIExpense(exp)}), nil
}

// GetMonthBalances computes who paid what, who owes what, and the
// suggested transfers for a month across all household members.
func (s *ExpenseService) GetMonthBalances(ctx context.Context, req *connect.Request[rpc.GetMonthBalancesRequest]) (*connect.Response[rpc.GetMonthBalancesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	month, err := parseMonth(req.Msg.Month)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	active, err := s.expensesForMonth(ctx, month)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	members, err := s.householdMembers(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	expenses := make([]models.Expense, 0, len(active))
	for _, item := range active {
		expenses = append(expenses, *item.exp)
	}
	summary := calculator.ComputeBalances(expenses, members)
	res := identity.NewResolver(members)

	balances := make([]*rpc.MemberBalance, 0, len(members))
	for _, m := range members {
		balance := summary.Balances[m.ID]
		balances = append(balances, &rpc.MemberBalance{
			UserID:           m.ID,
			DisplayName:      res.Label(m.ID, userID),
			Paid:             summary.Paid[m.ID],
			Owed:             summary.Owed[m.ID],
			Balance:          balance,
			FormattedBalance: currency.Format(balance),
		})
	}

	transfers := make([]*rpc.Transfer, 0, len(summary.Settlements))
	for _, t := range summary.Settlements {
		transfers = append(transfers, &rpc.Transfer{
			FromID:          t.From,
			FromName:        res.Label(t.From, userID),
			ToID:            t.To,
			ToName:          res.Label(t.To, userID),
			Amount:          t.Amount,
			FormattedAmount: currency.Format(t.Amount),
		})
	}

	return connect.NewResponse(&rpc.GetMonthBalancesResponse{
		Month:          month.String(),
		Label:          month.Label(),
		Balances:       balances,
		Settlements:    transfers,
		Total:          summary.Total,
		FormattedTotal: currency.Format(summary.Total),
	}), nil
}
