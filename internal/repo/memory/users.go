package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/geocoder89/userhub/internal/domain/user"
)

var ErrNoTable = errors.New(`relation "users" does not exist`)

// UsersRepo is the in-process users table used when no database is configured.
// It behaves like the SQL stores: the table has to be created first.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User // nil until CreateTable
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{}
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *UsersRepo) CreateTable(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.items == nil {
		r.items = make(map[string]user.User)
	}

	return nil
}

// Restore replaces the whole table with users in one step, creating it if needed.
// Readers see either the old contents or the new ones, never a missing table.
func (r *UsersRepo) Restore(ctx context.Context, users []user.User) error {
	items := make(map[string]user.User, len(users))

	for _, u := range users {
		if err := checkBounds(u.Email, u.Name, u.Bio); err != nil {
			return err
		}
		if _, dup := items[u.Email]; dup {
			return user.Conflict(u.Email, nil)
		}
		items[u.Email] = u
	}

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()

	return nil
}

func (r *UsersRepo) DropTable(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.items == nil {
		return fmt.Errorf("drop table: %w", ErrNoTable)
	}

	r.items = nil

	return nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.items == nil {
		return nil, ErrNoTable
	}

	out := make([]user.Summary, 0, len(r.items))

	for _, u := range r.items {
		out = append(out, user.Summary{Email: u.Email, Name: u.Name})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })

	return out, nil
}

func (r *UsersRepo) Get(ctx context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.items == nil {
		return user.User{}, false, ErrNoTable
	}

	u, ok := r.items[email]

	return u, ok, nil
}

func (r *UsersRepo) Insert(ctx context.Context, email, name, bio string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.items == nil {
		return ErrNoTable
	}

	if err := checkBounds(email, name, bio); err != nil {
		return err
	}

	if _, exists := r.items[email]; exists {
		return user.Conflict(email, nil)
	}

	r.items[email] = user.User{Email: email, Name: name, Bio: bio}

	return nil
}

func (r *UsersRepo) Update(ctx context.Context, oldEmail, newEmail, name, bio string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.items == nil {
		return ErrNoTable
	}

	if _, ok := r.items[oldEmail]; !ok {
		return user.NotFound(oldEmail)
	}

	if err := checkBounds(newEmail, name, bio); err != nil {
		return err
	}

	if newEmail != oldEmail {
		if _, taken := r.items[newEmail]; taken {
			return user.Conflict(newEmail, nil)
		}
		delete(r.items, oldEmail)
	}

	r.items[newEmail] = user.User{Email: newEmail, Name: name, Bio: bio}

	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.items == nil {
		return ErrNoTable
	}

	if _, ok := r.items[email]; !ok {
		return user.NotFound(email)
	}

	delete(r.items, email)

	return nil
}

// checkBounds mirrors the VARCHAR limits of the SQL schema.
func checkBounds(email, name, bio string) error {
	if utf8.RuneCountInString(email) > user.MaxEmailLen ||
		utf8.RuneCountInString(name) > user.MaxNameLen ||
		utf8.RuneCountInString(bio) > user.MaxBioLen {
		return &user.Error{Kind: user.KindInvalidInput, Message: "Value too long for users table"}
	}
	return nil
}
