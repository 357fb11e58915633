package domain

// EntityKind tells which ID column an alert row fills.
type EntityKind int

const (
	// EntityNone marks the single "affects all" row: both IDs are NULL.
	EntityNone EntityKind = iota
	EntityRoute
	EntityStop
)

func (k EntityKind) String() string {
	switch k {
	case EntityRoute:
		return "ROUTE"
	case EntityStop:
		return "STOP"
	default:
		return "NONE"
	}
}

// AffectedRow is one (kind, entity) tuple produced by ExpandBulletin.
// EntityID is empty when Kind is EntityNone.
type AffectedRow struct {
	Kind     EntityKind
	EntityID string
}

// ExpandBulletin enumerates the rows a bulletin produces, in insertion order:
// every affected route in source order, then every affected stop in source
// order. When neither list has entries, a bulletin flagged as affecting all
// routes or all stops yields a single EntityNone row; otherwise it yields
// nothing and is dropped.
func ExpandBulletin(b Bulletin) []AffectedRow {
	rows := make([]AffectedRow, 0, len(b.AffectedRoutes)+len(b.AffectedStops))
	for _, e := range b.AffectedRoutes {
		rows = append(rows, AffectedRow{Kind: EntityRoute, EntityID: e.EntityID})
	}
	for _, e := range b.AffectedStops {
		rows = append(rows, AffectedRow{Kind: EntityStop, EntityID: e.EntityID})
	}
	if len(rows) == 0 && (b.AllRoutes() || b.AllStops()) {
		rows = append(rows, AffectedRow{Kind: EntityNone})
	}
	return rows
}
