// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection, not just the first one.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreatePerson persists a new person to the database.
func (s *SQLiteStore) CreatePerson(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.New().String()
	}
	if person.CreatedAt == 0 {
		person.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO people (id, name, created_at) VALUES (?, ?, ?)",
		person.ID, person.Name, person.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}

	return nil
}

// GetPeople retrieves multiple people by their IDs.
// People that don't exist are omitted from the result.
func (s *SQLiteStore) GetPeople(ctx context.Context, ids []string) (map[string]*models.Person, error) {
	people := make(map[string]*models.Person, len(ids))
	if len(ids) == 0 {
		return people, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM people WHERE id IN ("+placeholders(len(ids))+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		person := &models.Person{}
		if err := rows.Scan(&person.ID, &person.Name, &person.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people[person.ID] = person
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	return people, nil
}

// placeholders returns "?, ?, ..." with n placeholders for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// nullString maps an empty string to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
