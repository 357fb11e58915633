// Package ingest routes bus messages to the persister for their event family.
// It decodes, fans out, and reports success; acknowledgement and redelivery
// belong to the bus runtime.
package ingest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/transitlog-sink/internal/bus"
	"github.com/pkordes/transitlog-sink/internal/domain"
	"github.com/pkordes/transitlog-sink/internal/wire"
)

// AlertWriter persists one bulletin. repo.AlertRepo satisfies it.
type AlertWriter interface {
	Insert(ctx context.Context, b domain.Bulletin) (int64, error)
}

// TripWriter persists one cancelled trip. repo.TripRepo satisfies it.
type TripWriter interface {
	Insert(ctx context.Context, trip domain.Trip) error
}

// Dispatcher implements bus.Handler.
// A nil writer means this process does not host that event family; messages
// for it are treated like any other unrecognized schema.
type Dispatcher struct {
	alerts AlertWriter
	trips  TripWriter
	log    *slog.Logger
}

var _ bus.Handler = (*Dispatcher)(nil)

// NewDispatcher constructs a Dispatcher. Either writer may be nil.
func NewDispatcher(alerts AlertWriter, trips TripWriter, log *slog.Logger) *Dispatcher {
	return &Dispatcher{alerts: alerts, trips: trips, log: log.With("component", "dispatcher")}
}

// Handle processes one message. A nil return means every bulletin or trip in
// it was written (or it was not meant for this ingester) and it may be
// acknowledged. Any decode or persist error is returned unacknowledged.
func (d *Dispatcher) Handle(ctx context.Context, msg bus.Message) error {
	log := d.log.With(
		"trace_id", uuid.NewString(),
		"message_id", msg.ID,
		"schema", msg.Schema,
	)

	switch {
	case msg.Schema == wire.SchemaServiceAlert && d.alerts != nil:
		sa, err := wire.DecodeServiceAlert(msg.Payload)
		if err != nil {
			log.ErrorContext(ctx, "failed to decode service alert", "error", err)
			return err
		}
		return d.insertBulletins(ctx, log, sa)

	case msg.Schema == wire.SchemaGTFSServiceAlert && d.alerts != nil:
		sa, err := wire.DecodeGTFSAlerts(msg.Payload)
		if err != nil {
			log.ErrorContext(ctx, "failed to decode GTFS-RT service alert", "error", err)
			return err
		}
		return d.insertBulletins(ctx, log, sa)

	case msg.Schema == wire.SchemaTripCancellation && d.trips != nil:
		c, err := wire.DecodeTripCancellation(msg.Payload)
		if err != nil {
			log.ErrorContext(ctx, "failed to decode trip cancellation", "error", err)
			return err
		}
		if c.Status != wire.StatusCanceled {
			log.InfoContext(ctx, "trip is not cancelled, skipping", "status", c.Status.String(), "route_id", c.Trip.RouteID)
			return nil
		}
		return d.trips.Insert(ctx, c.Trip)

	default:
		log.WarnContext(ctx, "invalid protobuf schema, skipping message", "error", domain.ErrSchemaMismatch)
		return nil
	}
}

func (d *Dispatcher) insertBulletins(ctx context.Context, log *slog.Logger, sa domain.ServiceAlert) error {
	var total int64
	for _, b := range sa.Bulletins {
		n, err := d.alerts.Insert(ctx, b)
		if err != nil {
			return err
		}
		total += n
	}
	log.InfoContext(ctx, "service alert stored", "bulletins", len(sa.Bulletins), "rows_inserted", total)
	return nil
}

// Retryable reports whether redelivering a message that failed with err can
// succeed. A payload that did not decode will not decode next time either.
func Retryable(err error) bool {
	return !errors.Is(err, domain.ErrDecodeFailed)
}
