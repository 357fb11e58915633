package domain

import (
	"encoding/json"
	"time"
)

// JSONSchemaVersion is written to trip.json_schema_version with every
// cancellation so readers can tell how to interpret trip_data.
const JSONSchemaVersion int32 = 1

// Trip is a cancelled scheduled trip, ready to be written to the trip table.
type Trip struct {
	// StartDate is the operating day. Only the calendar date is stored.
	StartDate   time.Time       `validate:"required"`
	RouteID     string          `validate:"required"`
	DirectionID int32           `validate:"gte=0,lte=2"`
	StartTime   string          `validate:"required,clock30h"` // operator-day clock, e.g. "26:15"
	TripData    json.RawMessage `validate:"required"`
	DvjID       *string         // nil when the upstream did not name a dated vehicle journey
}
