// Package wire decodes bus payloads into domain events.
//
// Each supported payload is identified by the schema tag the producer puts on
// the message. Transit schemas are protobuf-encoded and read field by field
// with protowire; the GTFS-Realtime alert feed is unmarshalled through the
// MobilityData bindings and mapped onto the same Bulletin type.
//
// Every decoder returns an error wrapping domain.ErrDecodeFailed when the
// payload does not match its schema.
package wire

// Schema tags, as carried in the bus.HeaderSchema message header.
const (
	SchemaServiceAlert     = "TransitdataServiceAlert"
	SchemaTripCancellation = "InternalMessagesTripCancellation"
	SchemaGTFSServiceAlert = "GTFS_ServiceAlert"
)

