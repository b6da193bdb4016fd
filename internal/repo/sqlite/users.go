// Package sqlite stores users in a SQLite database through database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/mattn/go-sqlite3"
)

type UsersRepo struct {
	db   *sql.DB
	prom *observability.Prom
}

func NewUsersRepo(db *sql.DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{db: db, prom: prom}
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SQLite ignores VARCHAR bounds, so they are spelled out as CHECK constraints.
func (r *UsersRepo) CreateTable(ctx context.Context) error {
	return r.prom.ObserveDB("users.create_table", func() error {
		_, err := r.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS users (
				bio VARCHAR(1024) CHECK (length(bio) <= 1024),
				email VARCHAR(64) NOT NULL CHECK (length(email) <= 64),
				name VARCHAR(64) CHECK (length(name) <= 64),
				PRIMARY KEY (email)
			)
		`)
		return err
	})
}

func (r *UsersRepo) DropTable(ctx context.Context) error {
	return r.prom.ObserveDB("users.drop_table", func() error {
		_, err := r.db.ExecContext(ctx, `DROP TABLE users`)
		return err
	})
}

func (r *UsersRepo) List(ctx context.Context) ([]user.Summary, error) {
	var rows *sql.Rows

	err := r.prom.ObserveDB("users.list", func() error {
		var err error
		rows, err = r.db.QueryContext(ctx, `SELECT email, name FROM users ORDER BY email ASC`)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.Summary, 0)

	for rows.Next() {
		var s user.Summary
		if err := rows.Scan(&s.Email, &s.Name); err != nil {
			return nil, err
		}
		users = append(users, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UsersRepo) Get(ctx context.Context, email string) (user.User, bool, error) {
	var u user.User
	var bio sql.NullString

	err := r.prom.ObserveDB("users.get", func() error {
		return r.db.QueryRowContext(ctx,
			`SELECT email, name, bio FROM users WHERE email = ?`, email,
		).Scan(&u.Email, &u.Name, &bio)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, false, nil
	}
	if err != nil {
		return user.User{}, false, err
	}

	u.Bio = bio.String

	return u, true, nil
}

func (r *UsersRepo) Insert(ctx context.Context, email, name, bio string) error {
	var res sql.Result

	err := r.prom.ObserveDB("users.insert", func() error {
		var err error
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO users (email, name, bio) VALUES (?, ?, ?)`, email, name, bio)
		return err
	})
	if err != nil {
		return translate(err, email)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n != 1 {
		return user.Internal(fmt.Sprintf("User insertion produced %d rows", n), nil)
	}

	return nil
}

func (r *UsersRepo) Update(ctx context.Context, oldEmail, newEmail, name, bio string) error {
	var res sql.Result

	err := r.prom.ObserveDB("users.update", func() error {
		var err error
		res, err = r.db.ExecContext(ctx,
			`UPDATE users SET email = ?, name = ?, bio = ? WHERE email = ?`,
			newEmail, name, bio, oldEmail)
		return err
	})
	if err != nil {
		return translate(err, newEmail)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return user.NotFound(oldEmail)
	}

	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, email string) error {
	var res sql.Result

	err := r.prom.ObserveDB("users.delete", func() error {
		var err error
		res, err = r.db.ExecContext(ctx, `DELETE FROM users WHERE email = ?`, email)
		return err
	})
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return user.NotFound(email)
	}

	return nil
}

func translate(err error, email string) error {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return err
	}

	switch liteErr.ExtendedCode {
	case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
		return user.Conflict(email, err)
	case sqlite3.ErrConstraintCheck:
		return &user.Error{Kind: user.KindInvalidInput, Message: "Value too long for users table", Err: err}
	}

	return err
}
