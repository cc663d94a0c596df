package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
)

const (
	// GroupServicePath is the URL prefix under which the event group
	// procedures are mounted.
	GroupServicePath = "/gastoshogar.v1.GroupService/"

	GroupServiceCreateGroupProcedure        = "/gastoshogar.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure           = "/gastoshogar.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure         = "/gastoshogar.v1.GroupService/ListGroups"
	GroupServiceUpdateGroupProcedure        = "/gastoshogar.v1.GroupService/UpdateGroup"
	GroupServiceDeleteGroupProcedure        = "/gastoshogar.v1.GroupService/DeleteGroup"
	GroupServiceRemoveParticipantProcedure  = "/gastoshogar.v1.GroupService/RemoveParticipant"
	GroupServiceAddGroupExpenseProcedure    = "/gastoshogar.v1.GroupService/AddGroupExpense"
	GroupServiceUpdateGroupExpenseProcedure = "/gastoshogar.v1.GroupService/UpdateGroupExpense"
	GroupServiceDeleteGroupExpenseProcedure = "/gastoshogar.v1.GroupService/DeleteGroupExpense"
	GroupServiceListGroupExpensesProcedure  = "/gastoshogar.v1.GroupService/ListGroupExpenses"
	GroupServiceGetGroupBalancesProcedure   = "/gastoshogar.v1.GroupService/GetGroupBalances"
	GroupServiceRecordSettlementProcedure   = "/gastoshogar.v1.GroupService/RecordSettlement"
	GroupServiceListSettlementsProcedure    = "/gastoshogar.v1.GroupService/ListSettlements"
	GroupServiceDeleteSettlementProcedure   = "/gastoshogar.v1.GroupService/DeleteSettlement"
)

// Group is the API representation of an event group. Participants are free
// names, not account references.
type Group struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
	CreatedBy    string   `json:"created_by"`
	CreatedAt    int64    `json:"created_at"`
}

// GroupExpense is the API representation of an expense inside a group.
type GroupExpense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SplitWith   []string        `json:"split_with"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   int64           `json:"created_at"`
}

// Settlement is a recorded settle-up payment between two participants.
type Settlement struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	FromName  string          `json:"from_name"`
	ToName    string          `json:"to_name"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt int64           `json:"created_at"`
}

type CreateGroupRequest struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	ID string `json:"id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	Group *Group `json:"group"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	ID string `json:"id"`
}

type DeleteGroupResponse struct{}

type RemoveParticipantRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	// ReassignTo names the remaining participant who takes over expenses
	// the removed participant paid. Required when such expenses still
	// have other co-participants.
	ReassignTo string `json:"reassign_to,omitempty"`
}

type RemoveParticipantResponse struct {
	Group *Group `json:"group"`
}

type AddGroupExpenseRequest struct {
	GroupID     string          `json:"group_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SplitWith   []string        `json:"split_with"`
}

type AddGroupExpenseResponse struct {
	Expense *GroupExpense `json:"expense"`
}

type UpdateGroupExpenseRequest struct {
	Expense *GroupExpense `json:"expense"`
}

type UpdateGroupExpenseResponse struct {
	Expense *GroupExpense `json:"expense"`
}

type DeleteGroupExpenseRequest struct {
	ID string `json:"id"`
}

type DeleteGroupExpenseResponse struct{}

type ListGroupExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListGroupExpensesResponse struct {
	Expenses []*GroupExpense `json:"expenses"`
}

// ParticipantBalance is one participant's net position. Positive means the
// group owes them.
type ParticipantBalance struct {
	Name             string          `json:"name"`
	Balance          decimal.Decimal `json:"balance"`
	FormattedBalance string          `json:"formatted_balance"`
}

// GroupTransfer is a suggested settle-up payment between participants.
type GroupTransfer struct {
	From            string          `json:"from"`
	To              string          `json:"to"`
	Amount          decimal.Decimal `json:"amount"`
	FormattedAmount string          `json:"formatted_amount"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	Balances       []*ParticipantBalance `json:"balances"`
	Settlements    []*GroupTransfer      `json:"settlements"`
	Total          decimal.Decimal       `json:"total"`
	FormattedTotal string                `json:"formatted_total"`
}

type RecordSettlementRequest struct {
	GroupID  string          `json:"group_id"`
	FromName string          `json:"from_name"`
	ToName   string          `json:"to_name"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	ID string `json:"id"`
}

type DeleteSettlementResponse struct{}

// GroupServiceHandler is the server interface for the event group
// procedures.
type GroupServiceHandler interface {
	CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	UpdateGroup(ctx context.Context, req *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error)
	DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error)
	AddGroupExpense(ctx context.Context, req *connect.Request[AddGroupExpenseRequest]) (*connect.Response[AddGroupExpenseResponse], error)
	UpdateGroupExpense(ctx context.Context, req *connect.Request[UpdateGroupExpenseRequest]) (*connect.Response[UpdateGroupExpenseResponse], error)
	DeleteGroupExpense(ctx context.Context, req *connect.Request[DeleteGroupExpenseRequest]) (*connect.Response[DeleteGroupExpenseResponse], error)
	ListGroupExpenses(ctx context.Context, req *connect.Request[ListGroupExpensesRequest]) (*connect.Response[ListGroupExpensesResponse], error)
	GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error)
	RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
	ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	DeleteSettlement(ctx context.Context, req *connect.Request[DeleteSettlementRequest]) (*connect.Response[DeleteSettlementResponse], error)
}

// NewGroupServiceHandler mounts the event group procedures.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(GroupServiceCreateGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(GroupServiceListGroupsProcedure, connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(GroupServiceUpdateGroupProcedure, connect.NewUnaryHandler(GroupServiceUpdateGroupProcedure, svc.UpdateGroup, opts...))
	mux.Handle(GroupServiceDeleteGroupProcedure, connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...))
	mux.Handle(GroupServiceRemoveParticipantProcedure, connect.NewUnaryHandler(GroupServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...))
	mux.Handle(GroupServiceAddGroupExpenseProcedure, connect.NewUnaryHandler(GroupServiceAddGroupExpenseProcedure, svc.AddGroupExpense, opts...))
	mux.Handle(GroupServiceUpdateGroupExpenseProcedure, connect.NewUnaryHandler(GroupServiceUpdateGroupExpenseProcedure, svc.UpdateGroupExpense, opts...))
	mux.Handle(GroupServiceDeleteGroupExpenseProcedure, connect.NewUnaryHandler(GroupServiceDeleteGroupExpenseProcedure, svc.DeleteGroupExpense, opts...))
	mux.Handle(GroupServiceListGroupExpensesProcedure, connect.NewUnaryHandler(GroupServiceListGroupExpensesProcedure, svc.ListGroupExpenses, opts...))
	mux.Handle(GroupServiceGetGroupBalancesProcedure, connect.NewUnaryHandler(GroupServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...))
	mux.Handle(GroupServiceRecordSettlementProcedure, connect.NewUnaryHandler(GroupServiceRecordSettlementProcedure, svc.RecordSettlement, opts...))
	mux.Handle(GroupServiceListSettlementsProcedure, connect.NewUnaryHandler(GroupServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(GroupServiceDeleteSettlementProcedure, connect.NewUnaryHandler(GroupServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...))
	return GroupServicePath, mux
}
