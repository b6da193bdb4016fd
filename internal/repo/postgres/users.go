package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	codeUniqueViolation = "23505"
	codeValueTooLong    = "22001"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *UsersRepo) CreateTable(ctx context.Context) error {
	return r.prom.ObserveDB("users.create_table", func() error {
		_, err := r.pool.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS users (
				bio VARCHAR(1024),
				email VARCHAR(64),
				name VARCHAR(64),
				PRIMARY KEY (email)
			)
		`)
		return err
	})
}

func (r *UsersRepo) DropTable(ctx context.Context) error {
	return r.prom.ObserveDB("users.drop_table", func() error {
		_, err := r.pool.Exec(ctx, `DROP TABLE users`)
		return err
	})
}

func (r *UsersRepo) List(ctx context.Context) (users []user.Summary, err error) {
	var rows pgx.Rows

	err = r.prom.ObserveDB("users.list", func() error {
		rows, err = r.pool.Query(ctx, `SELECT email, name FROM users ORDER BY email ASC`)
		return err
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	users = make([]user.Summary, 0)

	for rows.Next() {
		var s user.Summary

		if err = rows.Scan(&s.Email, &s.Name); err != nil {
			return nil, err
		}

		users = append(users, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UsersRepo) Get(ctx context.Context, email string) (user.User, bool, error) {
	var u user.User
	var bio *string

	err := r.prom.ObserveDB("users.get", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT email, name, bio FROM users WHERE email = $1`,
			email,
		).Scan(&u.Email, &u.Name, &bio)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, false, nil
		}

		return user.User{}, false, err
	}

	if bio != nil {
		u.Bio = *bio
	}

	return u, true, nil
}

func (r *UsersRepo) Insert(ctx context.Context, email, name, bio string) error {
	var tag pgconn.CommandTag

	err := r.prom.ObserveDB("users.insert", func() error {
		var err error
		tag, err = r.pool.Exec(ctx,
			`INSERT INTO users (email, name, bio) VALUES ($1, $2, $3)`,
			email, name, bio,
		)
		return err
	})

	if err != nil {
		return translate(err, email)
	}

	if tag.RowsAffected() != 1 {
		return user.Internal(fmt.Sprintf("User insertion produced %d rows", tag.RowsAffected()), nil)
	}

	return nil
}

func (r *UsersRepo) Update(ctx context.Context, oldEmail, newEmail, name, bio string) error {
	var tag pgconn.CommandTag

	err := r.prom.ObserveDB("users.update", func() error {
		var err error
		tag, err = r.pool.Exec(ctx,
			`UPDATE users SET email = $1, name = $2, bio = $3 WHERE email = $4`,
			newEmail, name, bio, oldEmail,
		)
		return err
	})

	if err != nil {
		return translate(err, newEmail)
	}

	if tag.RowsAffected() == 0 {
		return user.NotFound(oldEmail)
	}

	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, email string) error {
	var tag pgconn.CommandTag

	err := r.prom.ObserveDB("users.delete", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.NotFound(email)
	}

	return nil
}

// translate maps constraint violations onto domain kinds; everything else passes
// through untouched and is treated as internal by callers.
func translate(err error, email string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return user.Conflict(email, err)
	case codeValueTooLong:
		return &user.Error{Kind: user.KindInvalidInput, Message: "Value too long for users table", Err: err}
	}

	return err
}
