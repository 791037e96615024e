// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/susu3304/classbot/internal/db"
	"github.com/susu3304/classbot/internal/model"
)

// New returns a migrated database in a temp directory, closed on cleanup.
func New(t *testing.T) *db.DB {
	t.Helper()
	ctx := context.Background()

	database, err := db.New(ctx, "sqlite://"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.RunMigrations(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return database
}

// AddParticipant inserts a participant with the given role.
func AddParticipant(t *testing.T, database *db.DB, id int64, name string, role model.Role) model.Participant {
	t.Helper()
	p := model.Participant{
		ID:           id,
		Username:     name,
		Name:         name,
		Role:         role,
		RegisteredAt: time.Now().UTC(),
	}
	if _, err := database.CreateParticipant(context.Background(), &p); err != nil {
		t.Fatalf("failed to add participant %d: %v", id, err)
	}
	return p
}
