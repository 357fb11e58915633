package sqlbind_test

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata" // tests must not depend on the host's zoneinfo

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/transitlog-sink/internal/domain"
	"github.com/pkordes/transitlog-sink/internal/sqlbind"
)

func mustZone(t *testing.T, name string) *sqlbind.Zone {
	t.Helper()
	z, err := sqlbind.LoadZone(name)
	require.NoError(t, err)
	return z
}

func TestLoadZone_Invalid(t *testing.T) {
	for _, name := range []string{"", "Mars/Olympus_Mons"} {
		_, err := sqlbind.LoadZone(name)
		require.Error(t, err, "zone %q", name)
		assert.True(t, errors.Is(err, domain.ErrConfigInvalid), "got %v", err)
	}
}

func TestZone_Time_PreservesInstant(t *testing.T) {
	z := mustZone(t, "Europe/Helsinki")
	// 2024-07-01T12:00:00Z
	const ms int64 = 1719835200000

	got := z.Time(ms)

	assert.True(t, got.Equal(time.UnixMilli(ms)), "absolute instant must not shift")
	assert.Equal(t, "Europe/Helsinki", got.Location().String())
	assert.Equal(t, 15, got.Hour(), "Helsinki is UTC+3 in summer")
}

func TestZone_Time_IgnoresHostZone(t *testing.T) {
	z := mustZone(t, "Europe/Helsinki")
	const ms int64 = 1719835200000

	orig := time.Local
	t.Cleanup(func() { time.Local = orig })

	time.Local = time.FixedZone("host", -7*3600)
	first := z.Timestamptz(ms)
	time.Local = time.UTC
	second := z.Timestamptz(ms)

	require.True(t, first.Valid)
	assert.True(t, first.Time.Equal(second.Time))
	assert.Equal(t, first.Time.Location().String(), second.Time.Location().String())
	assert.Equal(t, 15, first.Time.Hour())
}
