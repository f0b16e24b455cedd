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

// CreateExpense persists a new expense with its participants and custom splits.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == "" {
		expense.Date = time.Unix(expense.CreatedAt, 0).UTC().Format(time.DateOnly)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, paid_by_id, date, added_by_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount, expense.PaidByID,
		expense.Date, nullString(expense.AddedByID), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, personID := range expense.SplitBetweenIDs {
		var custom any
		if amount, ok := expense.CustomSplits[personID]; ok {
			custom = amount
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, person_id, position, custom_amount) VALUES (?, ?, ?, ?)",
			expense.ID, personID, i, custom,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including participants and custom splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var addedBy sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, description, amount, paid_by_id, date, added_by_id, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount, &expense.PaidByID,
		&expense.Date, &addedBy, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.AddedByID = addedBy.String

	if err := s.loadParticipants(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpensesByGroup retrieves all expenses for a group in recording order.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount, paid_by_id, date, added_by_id, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var addedBy sql.NullString
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
			&expense.PaidByID, &expense.Date, &addedBy, &expense.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.AddedByID = addedBy.String
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadParticipants(ctx, expense); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT person_id, custom_amount FROM expense_participants WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var personID string
		var custom sql.NullFloat64
		if err := rows.Scan(&personID, &custom); err != nil {
			return fmt.Errorf("failed to scan expense participant: %w", err)
		}
		expense.SplitBetweenIDs = append(expense.SplitBetweenIDs, personID)
		if custom.Valid {
			if expense.CustomSplits == nil {
				expense.CustomSplits = make(map[string]float64)
			}
			expense.CustomSplits[personID] = custom.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense participants: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return expectAffected(result, "expense", expenseID)
}
