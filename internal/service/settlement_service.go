package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/fairshare/internal/amqp"
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/pkg/api"
)

// RecordSettlement records a payment from one member to another.
func (s *LedgerService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"from_id", req.Msg.FromID,
		"to_id", req.Msg.ToID,
		"amount", req.Msg.Amount,
	)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("RecordSettlement failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	settlement := &models.Settlement{
		GroupID: group.ID,
		FromID:  req.Msg.FromID,
		ToID:    req.Msg.ToID,
		Amount:  req.Msg.Amount,
		Note:    strings.TrimSpace(req.Msg.Note),
	}
	if err := validateSettlement(group, settlement); err != nil {
		slog.Warn("RecordSettlement rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.ledgerChanged(ctx, amqp.NewLedgerEvent(amqp.EventSettlementRecorded, group.ID, settlement.ID, settlement.Amount))

	slog.Info("Settlement recorded", "group_id", group.ID, "settlement_id", settlement.ID)

	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ListSettlements retrieves a group's settlements, oldest first.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID)

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	apiSettlements := make([]*api.Settlement, len(settlements))
	for i, settlement := range settlements {
		apiSettlements[i] = settlementToAPI(settlement)
	}

	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: apiSettlements}), nil
}

// DeleteSettlement removes a recorded settlement, reinstating the debt it cleared.
func (s *LedgerService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	slog.Info("DeleteSettlement request received", "settlement_id", req.Msg.SettlementID)

	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteSettlement(ctx, settlement.ID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", settlement.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.ledgerChanged(ctx, amqp.NewLedgerEvent(amqp.EventSettlementDeleted, settlement.GroupID, settlement.ID, settlement.Amount))

	slog.Info("Settlement deleted", "group_id", settlement.GroupID, "settlement_id", settlement.ID)

	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}
