// Package domain contains the event types carried over the bus and the pure
// rules that decide how they become database rows.
// This package has no I/O and is imported by every other internal package.
package domain

// Translation is one localized text of a bulletin title, description or URL.
type Translation struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// AffectedEntity references a route or stop touched by a bulletin.
// EntityID is opaque to this system.
type AffectedEntity struct {
	EntityID string
}

// Bulletin is a single service alert record.
// Category, Impact and Priority hold the textual names of their enum values.
// Instants are milliseconds since the Unix epoch.
type Bulletin struct {
	BulletinID   string
	Category     string
	Impact       string
	Priority     string
	ValidFrom    int64
	ValidTo      int64
	LastModified int64

	// nil means the flag was absent on the wire, which counts as false.
	AffectsAllRoutes *bool
	AffectsAllStops  *bool

	AffectedRoutes []AffectedEntity
	AffectedStops  []AffectedEntity

	Titles       []Translation
	Descriptions []Translation
	URLs         []Translation
}

// AllRoutes reports whether the bulletin explicitly affects every route.
func (b Bulletin) AllRoutes() bool {
	return b.AffectsAllRoutes != nil && *b.AffectsAllRoutes
}

// AllStops reports whether the bulletin explicitly affects every stop.
func (b Bulletin) AllStops() bool {
	return b.AffectsAllStops != nil && *b.AffectsAllStops
}

// ServiceAlert is the decoded payload of a service-alert bus message.
type ServiceAlert struct {
	SchemaVersion int32
	Bulletins     []Bulletin
}
