package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
)

const (
	// ExpenseServicePath is the URL prefix under which the household
	// expense procedures are mounted.
	ExpenseServicePath = "/gastoshogar.v1.ExpenseService/"

	ExpenseServiceCreateExpenseProcedure       = "/gastoshogar.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure          = "/gastoshogar.v1.ExpenseService/GetExpense"
	ExpenseServiceUpdateExpenseProcedure       = "/gastoshogar.v1.ExpenseService/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure       = "/gastoshogar.v1.ExpenseService/DeleteExpense"
	ExpenseServiceListMonthProcedure           = "/gastoshogar.v1.ExpenseService/ListMonth"
	ExpenseServiceMarkInstallmentPaidProcedure = "/gastoshogar.v1.ExpenseService/MarkInstallmentPaid"
	ExpenseServiceGetMonthBalancesProcedure    = "/gastoshogar.v1.ExpenseService/GetMonthBalances"
)

// Expense is the API representation of a household expense. Amounts are
// decimal strings on the wire.
type Expense struct {
	ID                 string          `json:"id"`
	Description        string          `json:"description"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	InstallmentCount   int             `json:"installment_count"`
	CurrentInstallment int             `json:"current_installment"`
	FirstChargeMonth   string          `json:"first_charge_month"`
	Date               int64           `json:"date"`
	OwnerID            string          `json:"owner_id"`
	OwnerName          string          `json:"owner_name,omitempty"`
	ShareKind          string          `json:"share_kind"`
	SharedWith         []string        `json:"shared_with,omitempty"`
	Status             string          `json:"status"`
	CreatedAt          int64           `json:"created_at"`
}

type CreateExpenseRequest struct {
	Description      string          `json:"description"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	FirstChargeMonth string          `json:"first_charge_month"`
	Date             int64           `json:"date"`
	ShareKind        string          `json:"share_kind"`
	SharedWith       []string        `json:"shared_with,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ID string `json:"id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ID string `json:"id"`
}

type DeleteExpenseResponse struct{}

type ListMonthRequest struct {
	// Month is a "YYYY-MM" key; empty means the current month.
	Month string `json:"month,omitempty"`
}

// MonthEntry is one expense as it appears in a month view: either a
// first-charge expense or a carry-over installment, with the per-month
// figures already derived.
type MonthEntry struct {
	Expense          *Expense        `json:"expense"`
	InstallmentIndex int             `json:"installment_index"`
	InstallmentLabel string          `json:"installment_label,omitempty"`
	MonthlyAmount    decimal.Decimal `json:"monthly_amount"`
	FormattedAmount  string          `json:"formatted_amount"`
	YourShare        decimal.Decimal `json:"your_share"`
	FormattedShare   string          `json:"formatted_share"`
}

type ListMonthResponse struct {
	Month          string          `json:"month"`
	Label          string          `json:"label"`
	Entries        []*MonthEntry   `json:"entries"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
}

type MarkInstallmentPaidRequest struct {
	ID string `json:"id"`
}

type MarkInstallmentPaidResponse struct {
	Expense *Expense `json:"expense"`
}

type GetMonthBalancesRequest struct {
	Month string `json:"month,omitempty"`
}

// MemberBalance is one household member's position for a month. Balance is
// paid minus owed: positive means the household owes them.
type MemberBalance struct {
	UserID           string          `json:"user_id"`
	DisplayName      string          `json:"display_name"`
	Paid             decimal.Decimal `json:"paid"`
	Owed             decimal.Decimal `json:"owed"`
	Balance          decimal.Decimal `json:"balance"`
	FormattedBalance string          `json:"formatted_balance"`
}

// Transfer is a suggested settle-up payment between two members.
type Transfer struct {
	FromID          string          `json:"from_id"`
	FromName        string          `json:"from_name"`
	ToID            string          `json:"to_id"`
	ToName          string          `json:"to_name"`
	Amount          decimal.Decimal `json:"amount"`
	FormattedAmount string          `json:"formatted_amount"`
}

type GetMonthBalancesResponse struct {
	Month          string           `json:"month"`
	Label          string           `json:"label"`
	Balances       []*MemberBalance `json:"balances"`
	Settlements    []*Transfer      `json:"settlements"`
	Total          decimal.Decimal  `json:"total"`
	FormattedTotal string           `json:"formatted_total"`
}

// ExpenseServiceHandler is the server interface for the household expense
// procedures.
type ExpenseServiceHandler interface {
	CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ListMonth(ctx context.Context, req *connect.Request[ListMonthRequest]) (*connect.Response[ListMonthResponse], error)
	MarkInstallmentPaid(ctx context.Context, req *connect.Request[MarkInstallmentPaidRequest]) (*connect.Response[MarkInstallmentPaidResponse], error)
	GetMonthBalances(ctx context.Context, req *connect.Request[GetMonthBalancesRequest]) (*connect.Response[GetMonthBalancesResponse], error)
}

// NewExpenseServiceHandler mounts the household expense procedures.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ExpenseServiceCreateExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(ExpenseServiceGetExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...))
	mux.Handle(ExpenseServiceUpdateExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...))
	mux.Handle(ExpenseServiceDeleteExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(ExpenseServiceListMonthProcedure, connect.NewUnaryHandler(ExpenseServiceListMonthProcedure, svc.ListMonth, opts...))
	mux.Handle(ExpenseServiceMarkInstallmentPaidProcedure, connect.NewUnaryHandler(ExpenseServiceMarkInstallmentPaidProcedure, svc.MarkInstallmentPaid, opts...))
	mux.Handle(ExpenseServiceGetMonthBalancesProcedure, connect.NewUnaryHandler(ExpenseServiceGetMonthBalancesProcedure, svc.GetMonthBalances, opts...))
	return ExpenseServicePath, mux
}
