package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/jfigueroa/gastoshogar/internal/calculator"
	"github.com/jfigueroa/gastoshogar/internal/currency"
	"github.com/jfigueroa/gastoshogar/internal/models"
	"github.com/jfigueroa/gastoshogar/internal/rpc"
	"github.com/jfigueroa/gastoshogar/internal/storage"
)

var (
	errMissingGroupName   = errors.New("group name is required")
	errNoParticipants     = errors.New("at least one participant is required")
	errUnknownParticipant = errors.New("participant is not in the group")
	errSelfSettlement     = errors.New("settlement endpoints must differ")
)

// GroupService implements the event group RPC interface: group and expense
// CRUD, balance computation, participant removal, and the settlement log.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

var _ rpc.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new event group service.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

func toAPIGroup(group *models.Group) *rpc.Group {
	return &rpc.Group{
		ID:           group.ID,
		Name:         group.Name,
		Participants: group.Participants,
		CreatedBy:    group.CreatedBy,
		CreatedAt:    group.CreatedAt,
	}
}

func toAPIGroupExpense(exp *models.GroupExpense) *rpc.GroupExpense {
	return &rpc.GroupExpense{
		ID:          exp.ID,
		GroupID:     exp.GroupID,
		Description: exp.Description,
		Amount:      exp.Amount,
		PaidBy:      exp.PaidBy,
		SplitWith:   exp.SplitWith,
		CreatedBy:   exp.CreatedBy,
		CreatedAt:   exp.CreatedAt,
	}
}

func toAPISettlement(settlement *models.Settlement) *rpc.Settlement {
	return &rpc.Settlement{
		ID:        settlement.ID,
		GroupID:   settlement.GroupID,
		FromName:  settlement.FromName,
		ToName:    settlement.ToName,
		Amount:    settlement.Amount,
		Note:      settlement.Note,
		CreatedAt: settlement.CreatedAt,
	}
}

// cleanNames trims participant names and drops blanks and duplicates,
// keeping first-seen order.
func cleanNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// CreateGroup creates an event group with its participant roster.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.CreateGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Msg.Name) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingGroupName)
	}
	participants := cleanNames(req.Msg.Participants)
	if len(participants) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNoParticipants)
	}

	group := &models.Group{
		Name:         strings.TrimSpace(req.Msg.Name),
		Participants: participants,
		CreatedBy:    userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("failed to create group", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("group created", "group_id", group.ID, "participants", len(participants))
	return connect.NewResponse(&rpc.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves one group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[rpc.GetGroupRequest]) (*connect.Response[rpc.GetGroupResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewResponse(&rpc.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups returns every event group.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[rpc.ListGroupsRequest]) (*connect.Response[rpc.ListGroupsResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*rpc.Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, toAPIGroup(g))
	}
	return connect.NewResponse(&rpc.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup renames a group and adds participants. Removing a
// participant must go through RemoveParticipant so their expenses get
// rewritten.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[rpc.UpdateGroupRequest]) (*connect.Response[rpc.UpdateGroupResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	msg := req.Msg.Group
	if msg == nil || msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group with id is required"))
	}
	if strings.TrimSpace(msg.Name) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingGroupName)
	}

	group, err := s.store.GetGroup(ctx, msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	group.Name = strings.TrimSpace(msg.Name)
	group.Participants = cleanNames(msg.Participants)

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		s.logger.Error("failed to update group", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&rpc.UpdateGroupResponse{Group: toAPIGroup(updated)}), nil
}

// DeleteGroup removes a group with its expenses and settlements.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[rpc.DeleteGroupRequest]) (*connect.Response[rpc.DeleteGroupResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.ID); err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	s.logger.Info("group deleted", "group_id", req.Msg.ID)
	return connect.NewResponse(&rpc.DeleteGroupResponse{}), nil
}

// RemoveParticipant removes a participant from a group and rewrites every
// expense that references them. When the participant paid expenses that
// still have co-participants, ReassignTo must name a remaining participant
// who takes them over.
func (s *GroupService) RemoveParticipant(ctx context.Context, req *connect.Request[rpc.RemoveParticipantRequest]) (*connect.Response[rpc.RemoveParticipantResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	msg := req.Msg
	group, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !group.HasParticipant(msg.Name) {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("%w: %s", errUnknownParticipant, msg.Name))
	}
	if msg.ReassignTo != "" {
		if msg.ReassignTo == msg.Name || !group.HasParticipant(msg.ReassignTo) {
			return nil, connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("reassignment target must be a remaining participant: %s", msg.ReassignTo))
		}
	}

	if err := s.store.RemoveGroupParticipant(ctx, msg.GroupID, msg.Name, msg.ReassignTo); err != nil {
		if errors.Is(err, storage.ErrReassignRequired) {
			return nil, connect.NewError(connect.CodeFailedPrecondition, err)
		}
		s.logger.Error("failed to remove participant", "group_id", msg.GroupID, "name", msg.Name, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	updated, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.logger.Info("participant removed", "group_id", msg.GroupID, "name", msg.Name)
	return connect.NewResponse(&rpc.RemoveParticipantResponse{Group: toAPIGroup(updated)}), nil
}

// AddGroupExpense records an expense paid by one participant and split
// among a subset of the group.
func (s *GroupService) AddGroupExpense(ctx context.Context, req *connect.Request[rpc.AddGroupExpenseRequest]) (*connect.Response[rpc.AddGroupExpenseResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if msg.Description == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingDescription)
	}
	if !msg.Amount.IsPositive() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidAmount)
	}

	group, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !group.HasParticipant(msg.PaidBy) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %s", errUnknownParticipant, msg.PaidBy))
	}

	// An empty split means everyone shares it.
	splitWith := cleanNames(msg.SplitWith)
	if len(splitWith) == 0 {
		splitWith = group.Participants
	}
	for _, name := range splitWith {
		if !group.HasParticipant(name) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %s", errUnknownParticipant, name))
		}
	}

	exp := &models.GroupExpense{
		GroupID:     msg.GroupID,
		Description: msg.Description,
		Amount:      msg.Amount,
		PaidBy:      msg.PaidBy,
		SplitWith:   splitWith,
		CreatedBy:   userID,
	}
	if err := s.store.CreateGroupExpense(ctx, exp); err != nil {
		s.logger.Error("failed to create group expense", "group_id", msg.GroupID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&rpc.AddGroupExpenseResponse{Expense: toAPIGroupExpense(exp)}), nil
}

// UpdateGroupExpense replaces a group expense's stored fields.
func (s *GroupService) UpdateGroupExpense(ctx context.Context, req *connect.Request[rpc.UpdateGroupExpenseRequest]) (*connect.Response[rpc.UpdateGroupExpenseResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	msg := req.Msg.Expense
	if msg == nil || msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("expense with id is required"))
	}
	if !msg.Amount.IsPositive() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidAmount)
	}

	current, err := s.store.GetGroupExpense(ctx, msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	group, err := s.store.GetGroup(ctx, current.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	splitWith := cleanNames(msg.SplitWith)
	if len(splitWith) == 0 {
		splitWith = group.Participants
	}
	if !group.HasParticipant(msg.PaidBy) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %s", errUnknownParticipant, msg.PaidBy))
	}
	for _, name := range splitWith {
		if !group.HasParticipant(name) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %s", errUnknownParticipant, name))
		}
	}

	current.Description = msg.Description
	current.Amount = msg.Amount
	current.PaidBy = msg.PaidBy
	current.SplitWith = splitWith

	if err := s.store.UpdateGroupExpense(ctx, current); err != nil {
		s.logger.Error("failed to update group expense", "expense_id", msg.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&rpc.UpdateGroupExpenseResponse{Expense: toAPIGroupExpense(current)}), nil
}

// DeleteGroupExpense removes a group expense.
func (s *GroupService) DeleteGroupExpense(ctx context.Context, req *connect.Request[rpc.DeleteGroupExpenseRequest]) (*connect.Response[rpc.DeleteGroupExpenseResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroupExpense(ctx, req.Msg.ID); err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewResponse(&rpc.DeleteGroupExpenseResponse{}), nil
}

// ListGroupExpenses returns every expense recorded in a group.
func (s *GroupService) ListGroupExpenses(ctx context.Context, req *connect.Request[rpc.ListGroupExpensesRequest]) (*connect.Response[rpc.ListGroupExpensesResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListGroupExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*rpc.GroupExpense, 0, len(expenses))
	for _, exp := range expenses {
		out = append(out, toAPIGroupExpense(exp))
	}
	return connect.NewResponse(&rpc.ListGroupExpensesResponse{Expenses: out}), nil
}

// GetGroupBalances computes net positions and suggested transfers for a
// group. Recorded settle-ups are applied before suggesting transfers, so a
// paid debt stops showing up.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[rpc.GetGroupBalancesRequest]) (*connect.Response[rpc.GetGroupBalancesResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	stored, err := s.store.ListGroupExpenses(ctx, group.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	expenses := make([]models.GroupExpense, 0, len(stored))
	for _, exp := range stored {
		expenses = append(expenses, *exp)
	}
	summary := calculator.ComputeGroupBalances(group.Participants, expenses)

	// A recorded payment moves money from debtor to creditor outside the
	// expense ledger, shifting both balances toward zero. Settlements
	// naming since-removed participants no longer apply.
	for _, settled := range settlements {
		_, fromOK := summary.Balances[settled.FromName]
		_, toOK := summary.Balances[settled.ToName]
		if !fromOK || !toOK {
			continue
		}
		summary.Balances[settled.FromName] = summary.Balances[settled.FromName].Add(settled.Amount)
		summary.Balances[settled.ToName] = summary.Balances[settled.ToName].Sub(settled.Amount)
	}
	transfers := calculator.Settle(summary.Balances)

	balances := make([]*rpc.ParticipantBalance, 0, len(group.Participants))
	for _, name := range group.Participants {
		balance := summary.Balances[name]
		balances = append(balances, &rpc.ParticipantBalance{
			Name:             name,
			Balance:          balance,
			FormattedBalance: currency.Format(balance),
		})
	}

	out := make([]*rpc.GroupTransfer, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, &rpc.GroupTransfer{
			From:            t.From,
			To:              t.To,
			Amount:          t.Amount,
			FormattedAmount: currency.Format(t.Amount),
		})
	}

	return connect.NewResponse(&rpc.GetGroupBalancesResponse{
		Balances:       balances,
		Settlements:    out,
		Total:          summary.Total,
		FormattedTotal: currency.Format(summary.Total),
	}), nil
}

// RecordSettlement logs an actual payment between two participants.
func (s *GroupService) RecordSettlement(ctx context.Context, req *connect.Request[rpc.RecordSettlementRequest]) (*connect.Response[rpc.RecordSettlementResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if !msg.Amount.IsPositive() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidAmount)
	}
	if msg.FromName == msg.ToName {
		return nil, connect.NewError(connect.CodeInvalidArgument, errSelfSettlement)
	}

	group, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	for _, name := range []string{msg.FromName, msg.ToName} {
		if !group.HasParticipant(name) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %s", errUnknownParticipant, name))
		}
	}

	settlement := &models.Settlement{
		GroupID:   msg.GroupID,
		FromName:  msg.FromName,
		ToName:    msg.ToName,
		Amount:    msg.Amount,
		CreatedBy: userID,
		Note:      msg.Note,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		s.logger.Error("failed to record settlement", "group_id", msg.GroupID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("settlement recorded",
		"group_id", msg.GroupID,
		"from", msg.FromName,
		"to", msg.ToName,
	)
	return connect.NewResponse(&rpc.RecordSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlements returns the recorded settle-ups for a group, newest
// first.
func (s *GroupService) ListSettlements(ctx context.Context, req *connect.Request[rpc.ListSettlementsRequest]) (*connect.Response[rpc.ListSettlementsResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*rpc.Settlement, 0, len(settlements))
	for _, settled := range settlements {
		out = append(out, toAPISettlement(settled))
	}
	return connect.NewResponse(&rpc.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement removes a recorded settle-up, restoring the debt it
// cancelled.
func (s *GroupService) DeleteSettlement(ctx context.Context, req *connect.Request[rpc.DeleteSettlementRequest]) (*connect.Response[rpc.DeleteSettlementResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	if err := s.store.DeleteSettlement(ctx, req.Msg.ID); err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewResponse(&rpc.DeleteSettlementResponse{}), nil
}
