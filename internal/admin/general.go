// Package admin sequences whole-table operations over the entity stores.
package admin

import (
	"context"
	"fmt"

	"github.com/geocoder89/userhub/internal/domain/user"
)

// MockUsers is the fixed demo data set inserted by PopulateMockData.
var MockUsers = []user.User{
	{Email: "alice@example.com", Name: "Alice", Bio: "Hi there! My name is Alice."},
	{Email: "bob@example.com", Name: "Bob", Bio: "Hey! My name is Bob."},
	{Email: "jane@example.com", Name: "Jane", Bio: "Howdy! My name is Jane."},
	{Email: "john@example.com", Name: "John", Bio: "Hello! My name is John."},
}

type tableFn func(ctx context.Context) error

// General holds every entity store. Tables are created in dependency order and
// dropped in reverse; users is currently the only one.
type General struct {
	Users user.Store
}

func NewGeneral(users user.Store) *General {
	return &General{Users: users}
}

func (g *General) CreateTables(ctx context.Context) error {
	return runAll(ctx, "create tables", []tableFn{
		g.Users.CreateTable,
	})
}

func (g *General) DropTables(ctx context.Context) error {
	return runAll(ctx, "drop tables", []tableFn{
		g.Users.DropTable,
	})
}

func (g *General) PopulateMockData(ctx context.Context) error {
	for _, u := range MockUsers {
		if err := g.Users.Insert(ctx, u.Email, u.Name, u.Bio); err != nil {
			return fmt.Errorf("populate mock data: %w", err)
		}
	}
	return nil
}

func runAll(ctx context.Context, what string, fns []tableFn) error {
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
	}
	return nil
}
