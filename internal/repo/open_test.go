package repo

import (
	"context"
	"testing"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/repo/memory"
	"github.com/geocoder89/userhub/internal/repo/sqlite"
)

func TestBackend(t *testing.T) {
	tests := map[string]string{
		"":                              BackendMemory,
		"sqlite::memory:":               BackendSQLite,
		"sqlite:/tmp/users.db":          BackendSQLite,
		"postgres://u:p@localhost/buzz": BackendPostgres,
		"host=localhost dbname=buzz":    BackendPostgres,
	}

	for url, want := range tests {
		if got := Backend(url); got != want {
			t.Errorf("Backend(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestOpen_Memory(t *testing.T) {
	store, closeFn, err := Open(context.Background(), config.Config{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()

	if _, ok := store.(*memory.UsersRepo); !ok {
		t.Fatalf("got %T, want *memory.UsersRepo", store)
	}
}

func TestOpen_SQLite(t *testing.T) {
	store, closeFn, err := Open(context.Background(), config.Config{DBURL: "sqlite::memory:"}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()

	if _, ok := store.(*sqlite.UsersRepo); !ok {
		t.Fatalf("got %T, want *sqlite.UsersRepo", store)
	}

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
