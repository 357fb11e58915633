// Package sqlbind turns domain values into pgx statement arguments.
// It owns the two binding rules every insert relies on: timestamps are bound
// in the configured civil zone, and absent values become typed SQL NULLs.
package sqlbind

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

// Zone is the civil time zone timestamps are bound in. It is loaded once at
// startup from db.timezone and never changes afterwards, so a single *Zone
// may be shared by every persister in the process.
type Zone struct {
	loc *time.Location
}

// LoadZone resolves an IANA zone name such as "Europe/Helsinki".
// An empty name is rejected rather than silently meaning UTC.
func LoadZone(name string) (*Zone, error) {
	if name == "" {
		return nil, fmt.Errorf("sqlbind.LoadZone: %w: empty time zone", domain.ErrConfigInvalid)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("sqlbind.LoadZone: %w: %w", domain.ErrConfigInvalid, err)
	}
	return &Zone{loc: loc}, nil
}

// Location returns the underlying *time.Location.
func (z *Zone) Location() *time.Location {
	return z.loc
}

func (z *Zone) String() string {
	return z.loc.String()
}

// Time returns the instant ms milliseconds after the Unix epoch, expressed in
// the zone. The absolute instant is unchanged; only the calendar used to
// present it differs, so the host's local zone never leaks into a bind.
func (z *Zone) Time(ms int64) time.Time {
	return time.UnixMilli(ms).In(z.loc)
}

// Timestamptz returns a bindable TIMESTAMPTZ for ms milliseconds since epoch.
func (z *Zone) Timestamptz(ms int64) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: z.Time(ms), Valid: true}
}
