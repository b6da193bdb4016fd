package sqlite_test

import (
	"context"
	"testing"

	"github.com/geocoder89/userhub/internal/db"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/repo/repotest"
	"github.com/geocoder89/userhub/internal/repo/sqlite"
)

// each store gets its own in-memory database
func newStore(t *testing.T) user.Store {
	t.Helper()

	conn, err := db.OpenSQLite(context.Background(), "sqlite::memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close sqlite: %v", err)
		}
	})

	return sqlite.NewUsersRepo(conn, observability.NewProm())
}

func TestUsersRepo(t *testing.T) {
	repotest.Run(t, newStore)
}

func TestUsersRepo_FileDatabase(t *testing.T) {
	path := t.TempDir() + "/users.db"
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, "sqlite:"+path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	r := sqlite.NewUsersRepo(conn, nil)

	if err := r.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if err := r.Insert(ctx, "alice@example.com", "Alice", "hi"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_ = conn.Close()

	conn, err = db.OpenSQLite(ctx, "sqlite:"+path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer conn.Close()

	got, ok, err := sqlite.NewUsersRepo(conn, nil).Get(ctx, "alice@example.com")
	if err != nil || !ok || got.Name != "Alice" {
		t.Fatalf("Get after reopen = %+v ok=%v err=%v", got, ok, err)
	}
}
