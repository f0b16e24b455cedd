package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/fairshare/internal/calculator"
	"github.com/mmynk/fairshare/pkg/api"
)

// GetGroupBalances computes who owes whom in a group, and the simplified plan
// to settle up. Amounts are rounded to cents; the computation itself is not.
func (s *LedgerService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	if cached, ok, err := s.balances.Get(ctx, req.Msg.GroupID); err != nil {
		slog.Warn("Balance cache read failed", "group_id", req.Msg.GroupID, "error", err)
	} else if ok {
		slog.Debug("GetGroupBalances cache hit", "group_id", req.Msg.GroupID)
		return connect.NewResponse(cached), nil
	}

	resp, err := s.computeBalances(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.balances.Set(ctx, req.Msg.GroupID, resp); err != nil {
		slog.Warn("Balance cache write failed", "group_id", req.Msg.GroupID, "error", err)
	}

	slog.Info("GetGroupBalances successful",
		"group_id", req.Msg.GroupID,
		"balances", len(resp.Balances),
		"simplified_debts", len(resp.SimplifiedDebts),
	)

	return connect.NewResponse(resp), nil
}

func (s *LedgerService) computeBalances(ctx context.Context, groupID string) (*api.GetGroupBalancesResponse, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	people, err := s.store.GetPeople(ctx, group.MemberIDs)
	if err != nil {
		return nil, err
	}

	// Roster order is join order, which fixes the output order.
	roster := make([]calculator.Person, len(group.MemberIDs))
	for i, id := range group.MemberIDs {
		p := personOf(people, id)
		roster[i] = calculator.Person{ID: p.ID, Name: p.Name}
	}

	ledger := make([]calculator.Expense, 0, len(expenses)+len(settlements))
	for _, expense := range expenses {
		ledger = append(ledger, toCalculatorExpense(expense))
	}
	for _, settlement := range settlements {
		ledger = append(ledger, settlementAsExpense(settlement))
	}

	balances := calculator.CalculateBalances(ledger, roster)
	simplified := calculator.SimplifyDebts(balances)
	positions := calculator.RoundPositions(calculator.NetPositions(ledger, roster))

	resp := &api.GetGroupBalancesResponse{
		MemberBalances:  make([]api.MemberBalance, len(positions)),
		Balances:        []api.Debt{},
		SimplifiedDebts: []api.Debt{},
	}
	for i, p := range positions {
		resp.MemberBalances[i] = api.MemberBalance{
			Person:   personOf(people, p.PersonID),
			Lent:     p.Lent,
			Borrowed: p.Borrowed,
			Net:      p.Net,
		}
	}
	for _, b := range calculator.RoundBalances(balances) {
		resp.Balances = append(resp.Balances, debtToAPI(people, b.From, b.To, b.Amount))
	}
	for _, d := range calculator.RoundDebts(simplified) {
		resp.SimplifiedDebts = append(resp.SimplifiedDebts, debtToAPI(people, d.From, d.To, d.Amount))
	}

	return resp, nil
}
