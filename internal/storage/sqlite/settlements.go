package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/storage"
)

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_id, to_id, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromID, settlement.ToID,
		settlement.Amount, nullString(settlement.Note), settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var note sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, from_id, to_id, amount, note, created_at
		 FROM settlements WHERE id = ?`,
		settlementID,
	).Scan(&settlement.ID, &settlement.GroupID, &settlement.FromID, &settlement.ToID,
		&settlement.Amount, &note, &settlement.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	settlement.Note = note.String

	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, oldest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_id, to_id, amount, note, created_at
		 FROM settlements WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var note sql.NullString

		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromID, &settlement.ToID,
			&settlement.Amount, &note, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.Note = note.String

		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

// DeleteSettlement removes a settlement by ID.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return expectAffected(result, "settlement", settlementID)
}
