package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

// TripCancellation field numbers.
const (
	cancelSchemaVersion protowire.Number = 1
	cancelTripID        protowire.Number = 2
	cancelRouteID       protowire.Number = 3
	cancelDirectionID   protowire.Number = 4
	cancelStartDate     protowire.Number = 5
	cancelStartTime     protowire.Number = 6
	cancelStatus        protowire.Number = 7
)

// CancellationStatus says whether a trip was cancelled or the cancellation
// was withdrawn.
type CancellationStatus int32

const (
	StatusCanceled CancellationStatus = 0
	StatusRunning  CancellationStatus = 1
)

func (s CancellationStatus) String() string {
	switch s {
	case StatusCanceled:
		return "CANCELED"
	case StatusRunning:
		return "RUNNING"
	}
	return fmt.Sprintf("%d", int32(s))
}

// Cancellation is a decoded TripCancellation message.
type Cancellation struct {
	Status CancellationStatus
	Trip   domain.Trip
}

// tripData is the JSON document stored in trip.trip_data.
type tripData struct {
	SchemaVersion int32  `json:"schema_version"`
	TripID        string `json:"trip_id,omitempty"`
	RouteID       string `json:"route_id"`
	DirectionID   int32  `json:"direction_id"`
	StartDate     string `json:"start_date"`
	StartTime     string `json:"start_time"`
	Status        string `json:"status"`
}

// DecodeTripCancellation decodes an InternalMessagesTripCancellation payload
// into a Trip ready for the trip table. start_date is YYYYMMDD; start_time is
// an operator-day clock that may run past 24:00.
func DecodeTripCancellation(payload []byte) (Cancellation, error) {
	var (
		c        Cancellation
		doc      tripData
		dateText string
		status   bool
	)

	err := forEachField(payload, func(f field) error {
		var err error
		switch f.num {
		case cancelSchemaVersion:
			doc.SchemaVersion, err = f.int32()
		case cancelTripID:
			doc.TripID, err = f.string()
		case cancelRouteID:
			doc.RouteID, err = f.string()
		case cancelDirectionID:
			doc.DirectionID, err = f.int32()
		case cancelStartDate:
			dateText, err = f.string()
		case cancelStartTime:
			doc.StartTime, err = f.string()
		case cancelStatus:
			var v int32
			v, err = f.int32()
			c.Status = CancellationStatus(v)
			status = true
		}
		return err
	})
	if err != nil {
		return Cancellation{}, fmt.Errorf("wire.DecodeTripCancellation: %w: %w", domain.ErrDecodeFailed, err)
	}
	if !status {
		return Cancellation{}, fmt.Errorf("wire.DecodeTripCancellation: %w: missing status", domain.ErrDecodeFailed)
	}

	startDate, err := time.Parse("20060102", dateText)
	if err != nil {
		return Cancellation{}, fmt.Errorf("wire.DecodeTripCancellation: %w: start_date: %w", domain.ErrDecodeFailed, err)
	}
	doc.StartDate = startDate.Format(time.DateOnly)
	doc.Status = c.Status.String()

	data, err := json.Marshal(doc)
	if err != nil {
		return Cancellation{}, fmt.Errorf("wire.DecodeTripCancellation: %w: %w", domain.ErrDecodeFailed, err)
	}

	c.Trip = domain.Trip{
		StartDate:   startDate,
		RouteID:     doc.RouteID,
		DirectionID: doc.DirectionID,
		StartTime:   doc.StartTime,
		TripData:    data,
	}
	if doc.TripID != "" {
		id := doc.TripID
		c.Trip.DvjID = &id
	}

	if err := validate.Struct(c.Trip); err != nil {
		return Cancellation{}, fmt.Errorf("wire.DecodeTripCancellation: %w: %w", domain.ErrDecodeFailed, err)
	}
	return c, nil
}
