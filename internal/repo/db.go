// Package repo contains all database writes for the ingest bridge.
// Each event family has its own file with an interface and a Postgres
// implementation. No bus or decoding logic lives here, only SQL and binding.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// execer is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and
// pgx.Tx. Integration tests pass a transaction that is rolled back after each
// test, giving per-test isolation without manual cleanup.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// beginner opens a transaction. *pgxpool.Pool and *pgx.Conn satisfy it, and
// so does pgx.Tx (as a savepoint), which keeps test rollback isolation intact.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
