// Package db opens and closes the Postgres pools the persisters write through.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

// Credentials override the user and password embedded in a connection string.
// Empty fields leave the connection string's values in place.
type Credentials struct {
	Username string
	Password string
}

// Connect creates a pool for connString and verifies the database is
// reachable. pgxpool is safe for concurrent use, so one pool may back several
// consumers.
func Connect(ctx context.Context, connString string, creds Credentials, log *slog.Logger) (*pgxpool.Pool, error) {
	pc, err := ParseConfig(connString, creds)
	if err != nil {
		return nil, err
	}

	log.Info("connecting to the database", "host", pc.ConnConfig.Host, "database", pc.ConnConfig.Database)
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("db.Connect: %w: %w", domain.ErrConnectFailed, err)
	}

	// New() does not open connections immediately; Ping forces one.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db.Connect: %w: %w", domain.ErrConnectFailed, err)
	}
	log.Info("database connection established")
	return pool, nil
}

// ParseConfig parses connString and applies creds on top of it.
func ParseConfig(connString string, creds Credentials) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("db.ParseConfig: %w: %w", domain.ErrConfigInvalid, err)
	}
	if creds.Username != "" {
		pc.ConnConfig.User = creds.Username
	}
	if creds.Password != "" {
		pc.ConnConfig.Password = creds.Password
	}
	return pc, nil
}

// Close closes pool. A nil pool is allowed, and closing twice is harmless.
func Close(pool *pgxpool.Pool, log *slog.Logger) {
	if pool == nil {
		return
	}
	log.Info("closing database pool")
	pool.Close()
}
