package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createPeople(t *testing.T, store *SQLiteStore, names ...string) []*models.Person {
	t.Helper()

	people := make([]*models.Person, len(names))
	for i, name := range names {
		people[i] = &models.Person{Name: name}
		if err := store.CreatePerson(context.Background(), people[i]); err != nil {
			t.Fatalf("CreatePerson(%s) failed: %v", name, err)
		}
	}
	return people
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	people := createPeople(t, store, "Alice", "Bob", "Charlie")
	alice, bob, charlie := people[0], people[1], people[2]

	t.Run("CreatePerson generates ID and timestamp", func(t *testing.T) {
		if alice.ID == "" {
			t.Error("Expected person ID to be generated")
		}
		if alice.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetPeople omits unknown IDs", func(t *testing.T) {
		got, err := store.GetPeople(ctx, []string{alice.ID, bob.ID, "nonexistent-id"})
		if err != nil {
			t.Fatalf("GetPeople failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 people, got %d", len(got))
		}
		if got[bob.ID] == nil || got[bob.ID].Name != "Bob" {
			t.Errorf("Unexpected person for Bob: %+v", got[bob.ID])
		}
	})

	t.Run("GetPeople with no IDs", func(t *testing.T) {
		got, err := store.GetPeople(ctx, nil)
		if err != nil {
			t.Fatalf("GetPeople failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected no people, got %d", len(got))
		}
	})

	group := &models.Group{
		Name:      "Roommates",
		CreatorID: alice.ID,
		MemberIDs: []string{bob.ID},
	}

	t.Run("CreateGroup adds creator as first member", func(t *testing.T) {
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.LastActive != group.CreatedAt {
			t.Errorf("LastActive = %d, want CreatedAt %d", group.LastActive, group.CreatedAt)
		}

		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(retrieved.MemberIDs) != 2 || retrieved.MemberIDs[0] != alice.ID || retrieved.MemberIDs[1] != bob.ID {
			t.Errorf("Members = %v, want [alice bob]", retrieved.MemberIDs)
		}
	})

	t.Run("AddGroupMember appends and ignores duplicates", func(t *testing.T) {
		if err := store.AddGroupMember(ctx, group.ID, charlie.ID); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		if err := store.AddGroupMember(ctx, group.ID, bob.ID); err != nil {
			t.Fatalf("AddGroupMember (duplicate) failed: %v", err)
		}

		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		want := []string{alice.ID, bob.ID, charlie.ID}
		if len(retrieved.MemberIDs) != len(want) {
			t.Fatalf("Members = %v, want %v", retrieved.MemberIDs, want)
		}
		for i := range want {
			if retrieved.MemberIDs[i] != want[i] {
				t.Errorf("Member %d = %s, want %s", i, retrieved.MemberIDs[i], want[i])
			}
		}
	})

	t.Run("GetGroup returns ErrNotFound for nonexistent group", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RenameGroup", func(t *testing.T) {
		if err := store.RenameGroup(ctx, group.ID, "Flatmates"); err != nil {
			t.Fatalf("RenameGroup failed: %v", err)
		}
		retrieved, _ := store.GetGroup(ctx, group.ID)
		if retrieved.Name != "Flatmates" {
			t.Errorf("Name = %s, want Flatmates", retrieved.Name)
		}
		if err := store.RenameGroup(ctx, "nonexistent-id", "x"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CountGroupsByCreator", func(t *testing.T) {
		count, err := store.CountGroupsByCreator(ctx, alice.ID)
		if err != nil {
			t.Fatalf("CountGroupsByCreator failed: %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})

	expense := &models.Expense{
		GroupID:         group.ID,
		Description:     "Groceries",
		Amount:          100.0,
		PaidByID:        alice.ID,
		SplitBetweenIDs: []string{alice.ID, bob.ID, charlie.ID},
		CustomSplits:    map[string]float64{alice.ID: 20, bob.ID: 50, charlie.ID: 30},
		Date:            "2024-03-01",
	}

	t.Run("CreateExpense and GetExpense round trip", func(t *testing.T) {
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		retrieved, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if retrieved.Description != "Groceries" || retrieved.Amount != 100.0 || retrieved.PaidByID != alice.ID {
			t.Errorf("Unexpected expense: %+v", retrieved)
		}
		if len(retrieved.SplitBetweenIDs) != 3 || retrieved.SplitBetweenIDs[2] != charlie.ID {
			t.Errorf("Participants = %v", retrieved.SplitBetweenIDs)
		}
		if retrieved.CustomSplits[bob.ID] != 50 {
			t.Errorf("CustomSplits = %v", retrieved.CustomSplits)
		}
		if retrieved.AddedByID != "" {
			t.Errorf("AddedByID = %q, want empty", retrieved.AddedByID)
		}
	})

	t.Run("Equal split expense has no custom splits", func(t *testing.T) {
		equal := &models.Expense{
			GroupID:         group.ID,
			Description:     "Pizza",
			Amount:          30.0,
			PaidByID:        bob.ID,
			SplitBetweenIDs: []string{alice.ID, bob.ID},
			AddedByID:       bob.ID,
		}
		if err := store.CreateExpense(ctx, equal); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if equal.Date == "" {
			t.Error("Expected Date to default to the creation day")
		}

		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("Expected 2 expenses, got %d", len(expenses))
		}
		if expenses[0].ID != expense.ID || expenses[1].ID != equal.ID {
			t.Errorf("Expenses not in recording order")
		}
		if expenses[1].CustomSplits != nil {
			t.Errorf("Expected nil custom splits, got %v", expenses[1].CustomSplits)
		}
		if expenses[1].AddedByID != bob.ID {
			t.Errorf("AddedByID = %q, want %q", expenses[1].AddedByID, bob.ID)
		}
	})

	t.Run("Settlements round trip", func(t *testing.T) {
		settlement := &models.Settlement{
			GroupID: group.ID,
			FromID:  bob.ID,
			ToID:    alice.ID,
			Amount:  25.0,
			Note:    "Venmo",
		}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		retrieved, err := store.GetSettlement(ctx, settlement.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if retrieved.Note != "Venmo" || retrieved.Amount != 25.0 {
			t.Errorf("Unexpected settlement: %+v", retrieved)
		}

		list, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("Expected 1 settlement, got %d", len(list))
		}

		if err := store.DeleteSettlement(ctx, settlement.ID); err != nil {
			t.Fatalf("DeleteSettlement failed: %v", err)
		}
		if err := store.DeleteSettlement(ctx, settlement.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteGroup cascades", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected expenses to be deleted, got %d", len(expenses))
		}
		if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestPruneInactiveGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	people := createPeople(t, store, "Alice")
	now := time.Now().Unix()

	stale := &models.Group{Name: "Old trip", CreatorID: people[0].ID, CreatedAt: now - 30*86400}
	fresh := &models.Group{Name: "New trip", CreatorID: people[0].ID}
	for _, g := range []*models.Group{stale, fresh} {
		if err := store.CreateGroup(ctx, g); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
	}

	pruned, err := store.PruneInactiveGroups(ctx, now-14*86400)
	if err != nil {
		t.Fatalf("PruneInactiveGroups failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}

	groups, err := store.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != fresh.ID {
		t.Errorf("Expected only the fresh group to remain, got %+v", groups)
	}

	if err := store.TouchGroup(ctx, fresh.ID, now+10); err != nil {
		t.Fatalf("TouchGroup failed: %v", err)
	}
	retrieved, _ := store.GetGroup(ctx, fresh.ID)
	if retrieved.LastActive != now+10 {
		t.Errorf("LastActive = %d, want %d", retrieved.LastActive, now+10)
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}

	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.want {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
