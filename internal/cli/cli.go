// Package cli implements usersctl, the scriptable admin tool for the users store.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/geocoder89/userhub/internal/admin"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/repo"
)

const usage = `usage:
  usersctl general create|drop|mock [-yes]
  usersctl users list
  usersctl users get -email <email>
  usersctl users insert -email <email> -name <name> [-bio <bio>]
  usersctl users update -email <email> [-new-email <email>] -name <name> [-bio <bio>]
  usersctl users delete -email <email>
`

// exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

var errUsage = errors.New("usage")

type runner struct {
	store  user.Store
	stdout io.Writer
	stderr io.Writer
}

// Run executes one command against store and returns the process exit code.
// args excludes the program name.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, store user.Store) int {
	r := &runner{store: store, stdout: stdout, stderr: stderr}

	if len(args) < 2 {
		fmt.Fprint(stderr, usage)
		return ExitUsage
	}

	var err error

	switch args[0] {
	case "general":
		err = r.general(ctx, args[1], args[2:])
	case "users":
		err = r.users(ctx, args[1], args[2:])
	default:
		err = errUsage
	}

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usage)
		return ExitUsage
	default:
		return ExitError
	}
}

// Prepare readies store for a single invocation. The in-memory backend starts
// without a users table on every run, so it gets one; SQL backends are left as-is.
func Prepare(ctx context.Context, backend string, store user.Store) error {
	if backend != repo.BackendMemory {
		return nil
	}

	return admin.NewGeneral(store).CreateTables(ctx)
}

type options struct {
	email    string
	newEmail string
	name     string
	bio      string
	yes      bool
}

func (r *runner) parse(cmd string, args []string) (options, error) {
	var o options

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	fs.StringVar(&o.email, "email", "", "the user's email address")
	fs.StringVar(&o.newEmail, "new-email", "", "the user's new email address (defaults to -email)")
	fs.StringVar(&o.name, "name", "", "the user's name")
	fs.StringVar(&o.bio, "bio", "", "the user's bio")
	fs.BoolVar(&o.yes, "yes", false, "confirm destructive general actions")

	if err := fs.Parse(args); err != nil {
		return o, errUsage
	}

	if fs.NArg() > 0 {
		return o, errUsage
	}

	return o, nil
}

// fail prints the error the way every command reports it and hands it back.
func (r *runner) fail(what string, err error) error {
	fmt.Fprintf(r.stderr, "Error %s: %s\n", what, user.MessageOf(err))
	return err
}

func (r *runner) general(ctx context.Context, action string, args []string) error {
	o, err := r.parse("general "+action, args)
	if err != nil {
		return err
	}

	g := admin.NewGeneral(r.store)

	switch action {
	case "create":
		if err := g.CreateTables(ctx); err != nil {
			return r.fail("creating tables", err)
		}
		fmt.Fprintln(r.stdout, "Tables created!")

	case "drop":
		if !o.yes {
			return r.unconfirmed("drop all tables")
		}
		if err := g.DropTables(ctx); err != nil {
			return r.fail("dropping tables", err)
		}
		fmt.Fprintln(r.stdout, "Tables dropped!")

	case "mock":
		if !o.yes {
			return r.unconfirmed("create a bunch of mock data")
		}
		if err := g.PopulateMockData(ctx); err != nil {
			return r.fail("creating mock data", err)
		}
		fmt.Fprintln(r.stdout, "Mock data created!")

	default:
		return errUsage
	}

	return nil
}

func (r *runner) unconfirmed(what string) error {
	fmt.Fprintf(r.stderr, "Refusing to %s without -yes.\n", what)
	return errors.New("not confirmed")
}

func (r *runner) users(ctx context.Context, action string, args []string) error {
	o, err := r.parse("users "+action, args)
	if err != nil {
		return err
	}

	switch action {
	case "list":
		return r.list(ctx)
	case "get":
		return r.get(ctx, o)
	case "insert":
		return r.insert(ctx, o)
	case "update":
		return r.update(ctx, o)
	case "delete":
		return r.delete(ctx, o)
	default:
		return errUsage
	}
}

func (r *runner) list(ctx context.Context) error {
	if err := user.ValidateList(); err != nil {
		return r.fail("enumerating users", err)
	}

	users, err := r.store.List(ctx)
	if err != nil {
		return r.fail("enumerating users", err)
	}

	if len(users) == 0 {
		fmt.Fprintln(r.stdout, "No users found")
		return nil
	}

	for _, u := range users {
		fmt.Fprintf(r.stdout, "%s <%s>\n", u.Name, u.Email)
	}

	return nil
}

func (r *runner) get(ctx context.Context, o options) error {
	if err := user.ValidateLookup(o.email); err != nil {
		return r.fail("selecting user", err)
	}

	u, ok, err := r.store.Get(ctx, o.email)
	if err != nil {
		return r.fail("selecting user", err)
	}

	if !ok {
		fmt.Fprintln(r.stdout, "No such user in database.")
		return nil
	}

	fmt.Fprintf(r.stdout, "%s <%s>\n%s\n", u.Name, u.Email, u.Bio)

	return nil
}

func (r *runner) insert(ctx context.Context, o options) error {
	req := user.CreateRequest{Email: o.email, Name: o.name, Bio: &o.bio}

	if err := user.ValidateCreate(req); err != nil {
		return r.fail("inserting user", err)
	}

	if err := r.store.Insert(ctx, req.Email, req.Name, req.BioOrDefault()); err != nil {
		return r.fail("inserting user", err)
	}

	fmt.Fprintln(r.stdout, "User inserted successfully.")

	return nil
}

func (r *runner) update(ctx context.Context, o options) error {
	req := user.UpdateRequest{Email: &o.newEmail, Name: o.name, Bio: &o.bio}

	if err := user.ValidateUpdate(o.email, req); err != nil {
		return r.fail("updating user", err)
	}

	u := req.Resolve(o.email)

	if err := r.store.Update(ctx, o.email, u.Email, u.Name, u.Bio); err != nil {
		return r.fail("updating user", err)
	}

	fmt.Fprintln(r.stdout, "User updated successfully.")

	return nil
}

func (r *runner) delete(ctx context.Context, o options) error {
	if err := user.ValidateDelete(o.email); err != nil {
		return r.fail("deleting user", err)
	}

	if err := r.store.Delete(ctx, o.email); err != nil {
		return r.fail("deleting user", err)
	}

	fmt.Fprintln(r.stdout, "User deleted successfully.")

	return nil
}
