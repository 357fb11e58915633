package sqlbind

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

// Kind is the column kind a statement slot is declared with.
type Kind int

const (
	KindBool Kind = iota + 1
	KindInt32
	KindInt64
	KindFloat64
	KindDate
	KindTime
	KindTimestampTZ
	KindText
	KindJSON
)

var kindNames = map[Kind]string{
	KindBool:        "bool",
	KindInt32:       "int32",
	KindInt64:       "int64",
	KindFloat64:     "float64",
	KindDate:        "date",
	KindTime:        "time",
	KindTimestampTZ: "timestamp_tz",
	KindText:        "text",
	KindJSON:        "json",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Params collects positional arguments for one statement execution.
//
// Slots are numbered from 1 to match the $n placeholders in the SQL text.
// Every slot is filled through Bind so that an absent value reaches the
// driver as a NULL typed for its column.
type Params struct {
	zone *Zone
	log  *slog.Logger
	args []any
}

// NewParams returns a Params with n unset slots.
func NewParams(zone *Zone, log *slog.Logger, n int) *Params {
	return &Params{zone: zone, log: log, args: make([]any, n)}
}

// Args returns the bound arguments in slot order, ready for Exec.
// A slot that was never bound, or was bound with an unknown kind, is nil.
func (p *Params) Args() []any {
	return p.args
}

// Bind sets slot index to value as a column of the given kind.
//
// A nil value, or a nil pointer, binds NULL of that kind. KindTimestampTZ
// accepts milliseconds since epoch or a time.Time and binds the instant in
// the configured zone.
//
// An unknown kind, or a value whose Go type does not fit the kind, is a bug
// in the caller: it is logged and the slot is left unset.
func (p *Params) Bind(index int, kind Kind, value any) {
	if index < 1 || index > len(p.args) {
		p.log.Error("parameter index out of range, bug in the app",
			"index", index, "slots", len(p.args), "kind", kind.String())
		return
	}

	v, ok := p.encode(kind, value)
	if !ok {
		p.log.Error("invalid parameter kind, bug in the app",
			"error", domain.ErrInvalidKind,
			"index", index,
			"kind", int(kind),
			"go_type", typeName(value),
		)
		return
	}
	p.args[index-1] = v
}

// encode dispatches on kind. The bool result is false when the kind is unknown
// or the value cannot be represented as that kind.
func (p *Params) encode(kind Kind, value any) (any, bool) {
	switch kind {
	case KindBool:
		switch v := value.(type) {
		case nil:
			return pgtype.Bool{}, true
		case bool:
			return pgtype.Bool{Bool: v, Valid: true}, true
		case *bool:
			if v == nil {
				return pgtype.Bool{}, true
			}
			return pgtype.Bool{Bool: *v, Valid: true}, true
		}
	case KindInt32:
		switch v := value.(type) {
		case nil:
			return pgtype.Int4{}, true
		case int32:
			return pgtype.Int4{Int32: v, Valid: true}, true
		case *int32:
			if v == nil {
				return pgtype.Int4{}, true
			}
			return pgtype.Int4{Int32: *v, Valid: true}, true
		}
	case KindInt64:
		switch v := value.(type) {
		case nil:
			return pgtype.Int8{}, true
		case int64:
			return pgtype.Int8{Int64: v, Valid: true}, true
		case *int64:
			if v == nil {
				return pgtype.Int8{}, true
			}
			return pgtype.Int8{Int64: *v, Valid: true}, true
		}
	case KindFloat64:
		switch v := value.(type) {
		case nil:
			return pgtype.Float8{}, true
		case float64:
			return pgtype.Float8{Float64: v, Valid: true}, true
		case *float64:
			if v == nil {
				return pgtype.Float8{}, true
			}
			return pgtype.Float8{Float64: *v, Valid: true}, true
		}
	case KindDate:
		switch v := value.(type) {
		case nil:
			return pgtype.Date{}, true
		case time.Time:
			return dateOf(v), true
		case *time.Time:
			if v == nil {
				return pgtype.Date{}, true
			}
			return dateOf(*v), true
		}
	case KindTime:
		switch v := value.(type) {
		case nil:
			return pgtype.Time{}, true
		case time.Duration:
			return pgtype.Time{Microseconds: v.Microseconds(), Valid: true}, true
		case *time.Duration:
			if v == nil {
				return pgtype.Time{}, true
			}
			return pgtype.Time{Microseconds: v.Microseconds(), Valid: true}, true
		}
	case KindTimestampTZ:
		switch v := value.(type) {
		case nil:
			return pgtype.Timestamptz{}, true
		case int64:
			return p.zone.Timestamptz(v), true
		case *int64:
			if v == nil {
				return pgtype.Timestamptz{}, true
			}
			return p.zone.Timestamptz(*v), true
		case time.Time:
			return pgtype.Timestamptz{Time: v.In(p.zone.Location()), Valid: true}, true
		}
	case KindText:
		switch v := value.(type) {
		case nil:
			return pgtype.Text{}, true
		case string:
			return pgtype.Text{String: v, Valid: true}, true
		case *string:
			if v == nil {
				return pgtype.Text{}, true
			}
			return pgtype.Text{String: *v, Valid: true}, true
		}
	case KindJSON:
		// JSON travels as its text form; the statement casts the slot
		// (e.g. $8::JSON), so an untyped nil is already a JSON NULL.
		switch v := value.(type) {
		case nil:
			return nil, true
		case json.RawMessage:
			if v == nil {
				return nil, true
			}
			return string(v), true
		case []byte:
			if v == nil {
				return nil, true
			}
			return string(v), true
		case string:
			return v, true
		}
	}
	return nil, false
}

// dateOf keeps only the calendar date of t as seen in t's own location.
func dateOf(t time.Time) pgtype.Date {
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
