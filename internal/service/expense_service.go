package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/fairshare/internal/amqp"
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/pkg/api"
)

// AddExpense records a payment by one member shared among others.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"paid_by_id", req.Msg.PaidByID,
		"participants_count", len(req.Msg.SplitBetweenIDs),
		"custom_splits", len(req.Msg.CustomSplits) > 0,
	)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("AddExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		GroupID:         group.ID,
		Description:     req.Msg.Description,
		Amount:          req.Msg.Amount,
		PaidByID:        req.Msg.PaidByID,
		SplitBetweenIDs: req.Msg.SplitBetweenIDs,
		CustomSplits:    req.Msg.CustomSplits,
		Date:            req.Msg.Date,
		AddedByID:       req.Msg.AddedByID,
	}

	if err := validateExpense(group, expense); err != nil {
		slog.Warn("AddExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	if expense.AddedByID != "" {
		if err := requireMember(group, expense.AddedByID, "added_by"); err != nil {
			return nil, toConnectError(err)
		}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.ledgerChanged(ctx, amqp.NewLedgerEvent(amqp.EventExpenseAdded, group.ID, expense.ID, expense.Amount))

	slog.Info("Expense added", "group_id", group.ID, "expense_id", expense.ID)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses retrieves a group's expenses in the order they were recorded.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	// Distinguish an unknown group from an empty one
	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	apiExpenses := make([]*api.Expense, len(expenses))
	for i, expense := range expenses {
		apiExpenses[i] = expenseToAPI(expense)
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(expenses))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: apiExpenses}), nil
}

// DeleteExpense removes an expense by ID.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.ledgerChanged(ctx, amqp.NewLedgerEvent(amqp.EventExpenseDeleted, expense.GroupID, expense.ID, expense.Amount))

	slog.Info("Expense deleted", "group_id", expense.GroupID, "expense_id", expense.ID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
