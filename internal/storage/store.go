// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/fairshare/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreatePerson persists a new person. ID and CreatedAt are filled in if empty.
	CreatePerson(ctx context.Context, person *models.Person) error

	// GetPeople retrieves people by ID. Unknown IDs are omitted from the result.
	GetPeople(ctx context.Context, ids []string) (map[string]*models.Person, error)

	// CreateGroup persists a new group and its members.
	// ID, CreatedAt and LastActive are filled in if empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members in join order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, most recently active first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// RenameGroup changes a group's name.
	RenameGroup(ctx context.Context, groupID, name string) error

	// DeleteGroup removes a group together with its expenses and settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMember appends a person to a group. Adding an existing member is a no-op.
	AddGroupMember(ctx context.Context, groupID, personID string) error

	// CountGroupsByCreator returns how many groups a person has created.
	CountGroupsByCreator(ctx context.Context, creatorID string) (int, error)

	// TouchGroup sets a group's LastActive timestamp.
	TouchGroup(ctx context.Context, groupID string, at int64) error

	// PruneInactiveGroups deletes groups whose LastActive is before the given
	// Unix timestamp and returns how many were removed.
	PruneInactiveGroups(ctx context.Context, before int64) (int64, error)

	// CreateExpense persists a new expense. ID and CreatedAt are filled in if empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves a group's expenses in the order they were recorded.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a new settlement. ID and CreatedAt are filled in if empty.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup retrieves a group's settlements, oldest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
