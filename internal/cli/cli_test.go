package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/geocoder89/userhub/internal/cli"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/repo"
	"github.com/geocoder89/userhub/internal/repo/memory"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, store user.Store, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := cli.Run(context.Background(), args, &stdout, &stderr, store)

	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func seeded(t *testing.T) user.Store {
	t.Helper()

	store := memory.NewUsersRepo()

	if r := run(t, store, "general", "create"); r.code != cli.ExitOK || r.stdout != "Tables created!\n" {
		t.Fatalf("general create: %+v", r)
	}
	if r := run(t, store, "general", "mock", "-yes"); r.code != cli.ExitOK || r.stdout != "Mock data created!\n" {
		t.Fatalf("general mock: %+v", r)
	}

	return store
}

func TestUsersList(t *testing.T) {
	store := seeded(t)

	r := run(t, store, "users", "list")
	want := "Alice <alice@example.com>\nBob <bob@example.com>\nJane <jane@example.com>\nJohn <john@example.com>\n"
	if r.code != cli.ExitOK || r.stdout != want {
		t.Fatalf("got %+v, want stdout %q", r, want)
	}
}

func TestUsersList_Empty(t *testing.T) {
	store := memory.NewUsersRepo()
	run(t, store, "general", "create")

	if r := run(t, store, "users", "list"); r.stdout != "No users found\n" {
		t.Fatalf("got %+v", r)
	}
}

func TestUsersGet(t *testing.T) {
	store := seeded(t)

	r := run(t, store, "users", "get", "-email", "bob@example.com")
	if r.code != cli.ExitOK || r.stdout != "Bob <bob@example.com>\nHey! My name is Bob.\n" {
		t.Fatalf("got %+v", r)
	}

	r = run(t, store, "users", "get", "-email", "ghost@example.com")
	if r.code != cli.ExitOK || r.stdout != "No such user in database.\n" {
		t.Fatalf("got %+v", r)
	}

	r = run(t, store, "users", "get", "-email", "ghost.example.com")
	if r.code != cli.ExitError || r.stderr != "Error selecting user: Email \"ghost.example.com\" is not valid\n" {
		t.Fatalf("got %+v", r)
	}
}

func TestUsersInsertUpdateDelete(t *testing.T) {
	store := seeded(t)

	steps := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "insert",
			args:       []string{"users", "insert", "-email", "user.name+ext@site.domain", "-name", "User", "-bio", "hi"},
			wantStdout: "User inserted successfully.\n",
		},
		{
			name:       "insert_duplicate",
			args:       []string{"users", "insert", "-email", "user.name+ext@site.domain", "-name", "User"},
			wantCode:   cli.ExitError,
			wantStderr: "Error inserting user: User user.name+ext@site.domain already exists\n",
		},
		{
			name:       "insert_missing_name",
			args:       []string{"users", "insert", "-email", "x@y"},
			wantCode:   cli.ExitError,
			wantStderr: "Error inserting user: You must specify a username\n",
		},
		{
			name:       "update_rename",
			args:       []string{"users", "update", "-email", "john@example.com", "-new-email", "james@example.com", "-name", "James"},
			wantStdout: "User updated successfully.\n",
		},
		{
			name:       "update_keep_email",
			args:       []string{"users", "update", "-email", "james@example.com", "-name", "Jim", "-bio", "new bio"},
			wantStdout: "User updated successfully.\n",
		},
		{
			name:       "update_missing",
			args:       []string{"users", "update", "-email", "john@example.com", "-name", "John"},
			wantCode:   cli.ExitError,
			wantStderr: "Error updating user: User john@example.com not found\n",
		},
		{
			name:       "delete",
			args:       []string{"users", "delete", "-email", "alice@example.com"},
			wantStdout: "User deleted successfully.\n",
		},
		{
			name:       "delete_missing",
			args:       []string{"users", "delete", "-email", "alice@example.com"},
			wantCode:   cli.ExitError,
			wantStderr: "Error deleting user: User alice@example.com not found\n",
		},
	}

	for _, s := range steps {
		r := run(t, store, s.args...)

		if r.code != s.wantCode || r.stdout != s.wantStdout || r.stderr != s.wantStderr {
			t.Fatalf("%s: got %+v, want code=%d stdout=%q stderr=%q", s.name, r, s.wantCode, s.wantStdout, s.wantStderr)
		}
	}

	r := run(t, store, "users", "get", "-email", "james@example.com")
	if r.stdout != "Jim <james@example.com>\nnew bio\n" {
		t.Fatalf("final state: %+v", r)
	}

	r = run(t, store, "users", "list")
	if strings.Contains(r.stdout, "alice@example.com") || !strings.Contains(r.stdout, "User <user.name+ext@site.domain>") {
		t.Fatalf("list after edits: %q", r.stdout)
	}
}

func TestGeneral_RequiresConfirmation(t *testing.T) {
	store := seeded(t)

	r := run(t, store, "general", "drop")
	if r.code != cli.ExitError || !strings.Contains(r.stderr, "-yes") {
		t.Fatalf("got %+v", r)
	}

	if r := run(t, store, "users", "list"); r.code != cli.ExitOK {
		t.Fatalf("table should still exist: %+v", r)
	}

	if r := run(t, store, "general", "drop", "-yes"); r.code != cli.ExitOK || r.stdout != "Tables dropped!\n" {
		t.Fatalf("got %+v", r)
	}

	r = run(t, store, "users", "list")
	if r.code != cli.ExitError || !strings.HasPrefix(r.stderr, "Error enumerating users: ") {
		t.Fatalf("got %+v", r)
	}
}

func TestUsage(t *testing.T) {
	store := memory.NewUsersRepo()

	for _, args := range [][]string{
		nil,
		{"users"},
		{"users", "frobnicate"},
		{"nope", "list"},
		{"users", "get", "-unknown"},
		{"users", "list", "extra"},
	} {
		if r := run(t, store, args...); r.code != cli.ExitUsage || !strings.Contains(r.stderr, "usage:") {
			t.Errorf("args %v: got %+v", args, r)
		}
	}
}

func TestPrepare_CreatesTableForMemoryBackend(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUsersRepo()

	// without a table the commands can only fail
	if r := run(t, store, "users", "list"); r.code != cli.ExitError {
		t.Fatalf("unprepared list: %+v", r)
	}

	if err := cli.Prepare(ctx, repo.BackendMemory, store); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if r := run(t, store, "users", "list"); r.code != cli.ExitOK || r.stdout != "No users found\n" {
		t.Fatalf("list after Prepare: %+v", r)
	}

	if r := run(t, store, "users", "insert", "-email", "a@b", "-name", "A"); r.code != cli.ExitOK {
		t.Fatalf("insert after Prepare: %+v", r)
	}
}

func TestPrepare_LeavesSQLBackendsAlone(t *testing.T) {
	store := memory.NewUsersRepo()

	for _, backend := range []string{repo.BackendSQLite, repo.BackendPostgres} {
		if err := cli.Prepare(context.Background(), backend, store); err != nil {
			t.Fatalf("Prepare(%s): %v", backend, err)
		}
	}

	if _, err := store.List(context.Background()); err == nil {
		t.Fatal("Prepare should not create tables for SQL backends")
	}
}
