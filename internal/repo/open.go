// Package repo picks the users store backend for a process.
package repo

import (
	"context"
	"fmt"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/db"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/repo/memory"
	"github.com/geocoder89/userhub/internal/repo/postgres"
	"github.com/geocoder89/userhub/internal/repo/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

func Backend(dbURL string) string {
	switch {
	case dbURL == "":
		return BackendMemory
	case db.IsSQLite(dbURL):
		return BackendSQLite
	default:
		return BackendPostgres
	}
}

// Open connects the store selected by cfg.DBURL. The returned close func releases
// the underlying pool and is safe to call once.
func Open(ctx context.Context, cfg config.Config, prom *observability.Prom) (user.Store, func(), error) {
	switch Backend(cfg.DBURL) {
	case BackendMemory:
		return memory.NewUsersRepo(), func() {}, nil

	case BackendSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlite.NewUsersRepo(conn, prom), func() { _ = conn.Close() }, nil

	default:
		var pool *pgxpool.Pool

		err := db.Retry(ctx, db.ConnectAttempts, db.ExponentialBackoff, func(ctx context.Context) error {
			var err error
			pool, err = db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
			return err
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewUsersRepo(pool, prom), pool.Close, nil
	}
}
