package repo_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/transitlog-sink/internal/sqlbind"
)

// ---- fakes -----------------------------------------------------------------

// execCall is one recorded Exec invocation.
type execCall struct {
	sql  string
	args []any
}

// fakeExecer is a hand-written double for the Exec-only database handle.
// exec is optional; when nil every call succeeds with one row affected.
type fakeExecer struct {
	calls []execCall
	exec  func(call int, args []any) (pgconn.CommandTag, error)
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.exec != nil {
		return f.exec(len(f.calls)-1, args)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

// fakeTx records how a transaction ends. Methods the trip repo does not call
// fall through to the nil embedded pgx.Tx and would panic.
type fakeTx struct {
	pgx.Tx

	execErr     error
	commitErr   error
	rollbackErr error

	args       []any
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	f.args = args
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return f.rollbackErr
}

// fakeBeginner hands out tx, or fails with err.
type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (f *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tx, nil
}

// ---- helpers ---------------------------------------------------------------

func testZone(t *testing.T) *sqlbind.Zone {
	t.Helper()
	z, err := sqlbind.LoadZone("Europe/Helsinki")
	require.NoError(t, err)
	return z
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func ptr[T any](v T) *T { return &v }
