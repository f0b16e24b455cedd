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

// CreateGroup persists a new group and its members.
// The creator is added as the first member if not already listed.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.LastActive == 0 {
		group.LastActive = group.CreatedAt
	}
	if !group.HasMember(group.CreatorID) {
		group.MemberIDs = append([]string{group.CreatorID}, group.MemberIDs...)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expense_groups (id, name, creator_id, created_at, last_active) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, group.CreatorID, group.CreatedAt, group.LastActive,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, personID := range group.MemberIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, person_id, position) VALUES (?, ?, ?)",
			group.ID, personID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including its members in join order.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, creator_id, created_at, last_active FROM expense_groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatorID, &group.CreatedAt, &group.LastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.groupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.MemberIDs = members

	return group, nil
}

func (s *SQLiteStore) groupMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT person_id FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var personID string
		if err := rows.Scan(&personID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, personID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

// ListGroups retrieves all groups, most recently active first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, creator_id, created_at, last_active FROM expense_groups ORDER BY last_active DESC, created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatorID, &group.CreatedAt, &group.LastActive); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	// Members are loaded after the group cursor is closed.
	for _, group := range groups {
		members, err := s.groupMembers(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.MemberIDs = members
	}

	return groups, nil
}

// RenameGroup updates a group's name.
func (s *SQLiteStore) RenameGroup(ctx context.Context, groupID, name string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE expense_groups SET name = ? WHERE id = ?",
		name, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to rename group: %w", err)
	}
	return expectAffected(result, "group", groupID)
}

// DeleteGroup removes a group. Members, expenses and settlements cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expense_groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return expectAffected(result, "group", groupID)
}

// AddGroupMember appends a person to the end of a group's member list.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, personID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, person_id, position)
		 SELECT ?, ?, COALESCE(MAX(position) + 1, 0) FROM group_members WHERE group_id = ?
		 ON CONFLICT (group_id, person_id) DO NOTHING`,
		groupID, personID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// CountGroupsByCreator returns the number of groups created by a person.
func (s *SQLiteStore) CountGroupsByCreator(ctx context.Context, creatorID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expense_groups WHERE creator_id = ?",
		creatorID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return count, nil
}

// TouchGroup records activity on a group.
func (s *SQLiteStore) TouchGroup(ctx context.Context, groupID string, at int64) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE expense_groups SET last_active = ? WHERE id = ?",
		at, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch group: %w", err)
	}
	return expectAffected(result, "group", groupID)
}

// PruneInactiveGroups deletes every group last active before the given timestamp.
func (s *SQLiteStore) PruneInactiveGroups(ctx context.Context, before int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expense_groups WHERE last_active < ?", before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune groups: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned groups: %w", err)
	}
	return n, nil
}

// expectAffected turns a zero-row update or delete into storage.ErrNotFound.
func expectAffected(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
