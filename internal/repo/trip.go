package repo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/transitlog-sink/internal/domain"
	"github.com/pkordes/transitlog-sink/internal/sqlbind"
)

const insertTripSQL = `
	INSERT INTO trip (
		start_date, route_id, direction_id, start_time,
		json_schema_version, trip_data, ext_id_dvj)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

const tripSlots = 7

// TripRepo persists trip cancellations.
type TripRepo interface {
	// Insert writes one trip row inside its own transaction. On failure the
	// transaction is rolled back and the error is returned.
	Insert(ctx context.Context, trip domain.Trip) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db   beginner
	zone *sqlbind.Zone
	log  *slog.Logger
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db beginner, zone *sqlbind.Zone, log *slog.Logger) TripRepo {
	return &pgTripRepo{
		db:   db,
		zone: zone,
		log:  log.With("component", "trip_repo"),
	}
}

// Insert begins a transaction, inserts the trip, and commits.
func (r *pgTripRepo) Insert(ctx context.Context, trip domain.Trip) error {
	start := time.Now()
	defer func() {
		r.log.InfoContext(ctx, "trip insert finished",
			"route_id", trip.RouteID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "failed to begin transaction", "error", err)
		return fmt.Errorf("repo.TripRepo.Insert: begin: %w: %w", domain.ErrPersistFailed, err)
	}

	if _, err := tx.Exec(ctx, insertTripSQL, r.bind(trip)...); err != nil {
		r.log.ErrorContext(ctx, "failed to insert to database", "route_id", trip.RouteID, "error", err)
		r.rollback(ctx, tx)
		return fmt.Errorf("repo.TripRepo.Insert: %w: %w", domain.ErrPersistFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		// A failed commit has already rolled the transaction back.
		r.log.ErrorContext(ctx, "failed to commit trip", "route_id", trip.RouteID, "error", err)
		return fmt.Errorf("repo.TripRepo.Insert: commit: %w: %w", domain.ErrPersistFailed, err)
	}
	return nil
}

// rollback discards tx, logging but not returning a failure: the insert
// error is what the caller needs to see.
func (r *pgTripRepo) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		r.log.ErrorContext(ctx, "failed to roll back transaction", "error", err)
	}
}

func (r *pgTripRepo) bind(trip domain.Trip) []any {
	p := sqlbind.NewParams(r.zone, r.log, tripSlots)

	var startDate *time.Time
	if !trip.StartDate.IsZero() {
		startDate = &trip.StartDate
	}
	var tripData *string
	if trip.TripData != nil {
		s := string(trip.TripData)
		tripData = &s
	}

	p.Bind(1, sqlbind.KindDate, startDate)
	p.Bind(2, sqlbind.KindText, trip.RouteID)
	p.Bind(3, sqlbind.KindInt32, trip.DirectionID)
	p.Bind(4, sqlbind.KindText, trip.StartTime)
	p.Bind(5, sqlbind.KindInt32, domain.JSONSchemaVersion)
	p.Bind(6, sqlbind.KindText, tripData)
	p.Bind(7, sqlbind.KindText, trip.DvjID)
	return p.Args()
}
