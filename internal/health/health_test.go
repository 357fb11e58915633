package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/transitlog-sink/internal/health"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, health.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body health.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

// TestHealthz_returns200WithOKStatus verifies that GET /healthz returns
// HTTP 200 and a JSON body of {"status":"ok"} without touching dependencies.
func TestHealthz_returns200WithOKStatus(t *testing.T) {
	h := health.NewRouter(map[string]health.Pinger{
		"alerts_db": pingerFunc(func(context.Context) error { return errors.New("down") }),
	}, discard())

	rec, body := get(t, h, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", body.Status)
}

func TestReadyz_allDependenciesUp(t *testing.T) {
	up := pingerFunc(func(context.Context) error { return nil })
	h := health.NewRouter(map[string]health.Pinger{"alerts_db": up, "trips_db": up}, discard())

	rec, body := get(t, h, "/readyz")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", body.Status)
	require.Equal(t, map[string]string{"alerts_db": "ok", "trips_db": "ok"}, body.Checks)
}

func TestReadyz_dependencyDown(t *testing.T) {
	h := health.NewRouter(map[string]health.Pinger{
		"alerts_db": pingerFunc(func(context.Context) error { return nil }),
		"trips_db":  pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
	}, discard())

	rec, body := get(t, h, "/readyz")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "unavailable", body.Status)
	require.Equal(t, "unavailable", body.Checks["trips_db"])
	require.Equal(t, "ok", body.Checks["alerts_db"])
}
