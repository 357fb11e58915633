package repo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkordes/transitlog-sink/internal/domain"
	"github.com/pkordes/transitlog-sink/internal/sqlbind"
)

// insertAlertSQL writes one alert row. ON CONFLICT DO NOTHING is the only
// dedup mechanism: a redelivered bulletin re-inserts nothing.
const insertAlertSQL = `
	INSERT INTO alert (
		route_id, stop_id,
		affects_all_routes, affects_all_stops,
		valid_from, valid_to, last_modified,
		data, ext_id_bulletin)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8::JSON, $9)
	ON CONFLICT DO NOTHING`

const alertSlots = 9

// AlertRepo persists service-alert bulletins.
type AlertRepo interface {
	// Insert writes one row per tuple from domain.ExpandBulletin, in order.
	// It returns how many rows were actually inserted; duplicates count as 0.
	// Rows written before a failing row stay committed.
	Insert(ctx context.Context, b domain.Bulletin) (int64, error)
}

// pgAlertRepo is the Postgres implementation of AlertRepo.
// Each statement runs on its own, so every row is its own transaction.
type pgAlertRepo struct {
	db   execer
	zone *sqlbind.Zone
	log  *slog.Logger
}

// NewAlertRepo constructs an AlertRepo backed by db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewAlertRepo(db execer, zone *sqlbind.Zone, log *slog.Logger) AlertRepo {
	return &pgAlertRepo{
		db:   db,
		zone: zone,
		log:  log.With("component", "alert_repo"),
	}
}

// Insert expands the bulletin and executes the insert once per row.
func (r *pgAlertRepo) Insert(ctx context.Context, b domain.Bulletin) (int64, error) {
	start := time.Now()
	defer func() {
		r.log.InfoContext(ctx, "bulletin insert finished",
			"bulletin_id", b.BulletinID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	rows := domain.ExpandBulletin(b)
	if len(rows) == 0 {
		r.log.DebugContext(ctx, "bulletin affects nothing, dropping", "bulletin_id", b.BulletinID)
		return 0, nil
	}

	data, err := marshalAlertData(b)
	if err != nil {
		return 0, fmt.Errorf("repo.AlertRepo.Insert: %w: %w", domain.ErrPersistFailed, err)
	}

	var inserted int64
	for _, row := range rows {
		args := r.bindRow(b, row, data)
		tag, err := r.db.Exec(ctx, insertAlertSQL, args...)
		if err != nil {
			r.log.ErrorContext(ctx, "failed to insert service alert to database",
				"bulletin_id", b.BulletinID,
				"entity_kind", row.Kind.String(),
				"entity_id", row.EntityID,
				"error", err,
			)
			return inserted, fmt.Errorf("repo.AlertRepo.Insert: %w: %w", domain.ErrPersistFailed, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// bindRow fills the nine statement slots for one expanded row.
func (r *pgAlertRepo) bindRow(b domain.Bulletin, row domain.AffectedRow, data []byte) []any {
	p := sqlbind.NewParams(r.zone, r.log, alertSlots)

	var routeID, stopID *string
	switch row.Kind {
	case domain.EntityRoute:
		routeID = &row.EntityID
	case domain.EntityStop:
		stopID = &row.EntityID
	}

	p.Bind(1, sqlbind.KindText, routeID)
	p.Bind(2, sqlbind.KindText, stopID)
	p.Bind(3, sqlbind.KindBool, b.AllRoutes())
	p.Bind(4, sqlbind.KindBool, b.AllStops())
	p.Bind(5, sqlbind.KindTimestampTZ, b.ValidFrom)
	p.Bind(6, sqlbind.KindTimestampTZ, b.ValidTo)
	p.Bind(7, sqlbind.KindTimestampTZ, b.LastModified)
	p.Bind(8, sqlbind.KindJSON, data)
	p.Bind(9, sqlbind.KindText, b.BulletinID)
	return p.Args()
}
