// Package repotest holds the behaviour every user.Store backend must share.
package repotest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/geocoder89/userhub/internal/admin"
	"github.com/geocoder89/userhub/internal/domain/user"
)

// Run executes the contract against stores produced by newStore. Each subtest gets a
// fresh store with the users table created and the mock users seeded.
func Run(t *testing.T, newStore func(t *testing.T) user.Store) {
	t.Helper()

	seeded := func(t *testing.T) (user.Store, context.Context) {
		t.Helper()

		ctx := context.Background()
		store := newStore(t)
		g := admin.NewGeneral(store)

		if err := g.CreateTables(ctx); err != nil {
			t.Fatalf("CreateTables: %v", err)
		}
		if err := g.PopulateMockData(ctx); err != nil {
			t.Fatalf("PopulateMockData: %v", err)
		}

		return store, ctx
	}

	t.Run("list_is_ordered_by_email", func(t *testing.T) {
		store, ctx := seeded(t)

		got, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}

		want := []user.Summary{
			{Email: "alice@example.com", Name: "Alice"},
			{Email: "bob@example.com", Name: "Bob"},
			{Email: "jane@example.com", Name: "Jane"},
			{Email: "john@example.com", Name: "John"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("List = %+v, want %+v", got, want)
		}
	})

	t.Run("list_empty_table", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		if err := store.CreateTable(ctx); err != nil {
			t.Fatalf("CreateTable: %v", err)
		}

		got, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("List = %#v, want empty non-nil slice", got)
		}
	})

	t.Run("create_table_is_idempotent", func(t *testing.T) {
		store, ctx := seeded(t)

		if err := store.CreateTable(ctx); err != nil {
			t.Fatalf("second CreateTable: %v", err)
		}

		got, err := store.List(ctx)
		if err != nil || len(got) != 4 {
			t.Fatalf("List after recreate = %d rows, err %v", len(got), err)
		}
	})

	t.Run("drop_table", func(t *testing.T) {
		store, ctx := seeded(t)

		if err := store.DropTable(ctx); err != nil {
			t.Fatalf("DropTable: %v", err)
		}

		if err := store.DropTable(ctx); err == nil {
			t.Fatal("DropTable on a missing table should fail")
		}

		if _, err := store.List(ctx); err == nil {
			t.Fatal("List on a dropped table should fail")
		} else if user.KindOf(err) != user.KindInternal {
			t.Fatalf("List on a dropped table: kind %v, want internal", user.KindOf(err))
		}
	})

	t.Run("get_seeded_user", func(t *testing.T) {
		store, ctx := seeded(t)

		got, ok, err := store.Get(ctx, "jane@example.com")
		if err != nil || !ok {
			t.Fatalf("Get: ok=%v err=%v", ok, err)
		}

		want := user.User{Email: "jane@example.com", Name: "Jane", Bio: "Howdy! My name is Jane."}
		if got != want {
			t.Fatalf("Get = %+v, want %+v", got, want)
		}
	})

	t.Run("get_absent_is_not_an_error", func(t *testing.T) {
		store, ctx := seeded(t)

		got, ok, err := store.Get(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok || got != (user.User{}) {
			t.Fatalf("Get = %+v, %v; want absent", got, ok)
		}
	})

	t.Run("insert_then_get", func(t *testing.T) {
		store, ctx := seeded(t)

		if err := store.Insert(ctx, "carly@example.com", "Carly", "I am a sample user!"); err != nil {
			t.Fatalf("Insert: %v", err)
		}

		got, ok, err := store.Get(ctx, "carly@example.com")
		if err != nil || !ok {
			t.Fatalf("Get: ok=%v err=%v", ok, err)
		}
		if got != (user.User{Email: "carly@example.com", Name: "Carly", Bio: "I am a sample user!"}) {
			t.Fatalf("Get = %+v", got)
		}
	})

	t.Run("insert_empty_bio", func(t *testing.T) {
		store, ctx := seeded(t)

		if err := store.Insert(ctx, "quiet@example.com", "Quiet", ""); err != nil {
			t.Fatalf("Insert: %v", err)
		}

		got, ok, err := store.Get(ctx, "quiet@example.com")
		if err != nil || !ok || got.Bio != "" {
			t.Fatalf("Get = %+v ok=%v err=%v", got, ok, err)
		}
	})

	t.Run("insert_duplicate_is_conflict", func(t *testing.T) {
		store, ctx := seeded(t)

		err := store.Insert(ctx, "bob@example.com", "Imposter", "not bob")
		if !errors.Is(err, user.ErrConflict) {
			t.Fatalf("Insert duplicate: got %v, want conflict", err)
		}
		if user.MessageOf(err) != "User bob@example.com already exists" {
			t.Fatalf("message = %q", user.MessageOf(err))
		}

		got, _, _ := store.Get(ctx, "bob@example.com")
		if got.Name != "Bob" || got.Bio != "Hey! My name is Bob." {
			t.Fatalf("original row changed: %+v", got)
		}
	})

	t.Run("insert_too_long_is_rejected", func(t *testing.T) {
		store, ctx := seeded(t)

		err := store.Insert(ctx, "long@example.com", "Long", strings.Repeat("x", user.MaxBioLen+1))
		if err == nil {
			t.Fatal("expected error for oversized bio")
		}

		if _, ok, _ := store.Get(ctx, "long@example.com"); ok {
			t.Fatal("oversized row was stored")
		}
	})

	t.Run("update_renames_user", func(t *testing.T) {
		store, ctx := seeded(t)

		err := store.Update(ctx, "john@example.com", "james@example.com", "James", "I am a sample user!")
		if err != nil {
			t.Fatalf("Update: %v", err)
		}

		got, ok, err := store.Get(ctx, "james@example.com")
		if err != nil || !ok {
			t.Fatalf("Get new: ok=%v err=%v", ok, err)
		}
		if got != (user.User{Email: "james@example.com", Name: "James", Bio: "I am a sample user!"}) {
			t.Fatalf("Get new = %+v", got)
		}

		if _, ok, err := store.Get(ctx, "john@example.com"); err != nil || ok {
			t.Fatalf("Get old: ok=%v err=%v; want absent", ok, err)
		}
	})

	t.Run("update_same_email", func(t *testing.T) {
		store, ctx := seeded(t)

		if err := store.Update(ctx, "alice@example.com", "alice@example.com", "Alicia", ""); err != nil {
			t.Fatalf("Update: %v", err)
		}

		got, _, _ := store.Get(ctx, "alice@example.com")
		if got.Name != "Alicia" || got.Bio != "" {
			t.Fatalf("Get = %+v", got)
		}
	})

	t.Run("update_missing_is_not_found", func(t *testing.T) {
		store, ctx := seeded(t)

		err := store.Update(ctx, "ghost@example.com", "ghost2@example.com", "Ghost", "")
		if !errors.Is(err, user.ErrNotFound) {
			t.Fatalf("Update missing: got %v, want not found", err)
		}
		if user.MessageOf(err) != "User ghost@example.com not found" {
			t.Fatalf("message = %q", user.MessageOf(err))
		}

		for _, email := range []string{"ghost@example.com", "ghost2@example.com"} {
			if _, ok, _ := store.Get(ctx, email); ok {
				t.Fatalf("update of a missing user created %s", email)
			}
		}
	})

	t.Run("update_onto_existing_email_is_conflict", func(t *testing.T) {
		store, ctx := seeded(t)

		err := store.Update(ctx, "john@example.com", "jane@example.com", "John", "")
		if !errors.Is(err, user.ErrConflict) {
			t.Fatalf("Update collision: got %v, want conflict", err)
		}

		jane, _, _ := store.Get(ctx, "jane@example.com")
		john, ok, _ := store.Get(ctx, "john@example.com")
		if jane.Name != "Jane" || !ok || john.Name != "John" {
			t.Fatalf("rows changed: jane=%+v john=%+v", jane, john)
		}
	})

	t.Run("delete_then_list", func(t *testing.T) {
		store, ctx := seeded(t)

		if err := store.Delete(ctx, "bob@example.com"); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		got, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}

		want := []user.Summary{
			{Email: "alice@example.com", Name: "Alice"},
			{Email: "jane@example.com", Name: "Jane"},
			{Email: "john@example.com", Name: "John"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("List = %+v, want %+v", got, want)
		}
	})

	t.Run("delete_missing_is_not_found", func(t *testing.T) {
		store, ctx := seeded(t)

		if err := store.Delete(ctx, "ghost@example.com"); !errors.Is(err, user.ErrNotFound) {
			t.Fatalf("Delete missing: got %v, want not found", err)
		}
	})

	t.Run("insert_delete_get_round_trip", func(t *testing.T) {
		store, ctx := seeded(t)

		if err := store.Insert(ctx, "temp@example.com", "Temp", "brief"); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if err := store.Delete(ctx, "temp@example.com"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, ok, err := store.Get(ctx, "temp@example.com"); err != nil || ok {
			t.Fatalf("Get: ok=%v err=%v; want absent", ok, err)
		}
	})
}
