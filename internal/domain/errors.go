package domain

import "errors"

// ErrConfigInvalid is returned when configuration is missing or malformed at
// startup. It is fatal: the process exits non-zero.
var ErrConfigInvalid = errors.New("invalid configuration")

// ErrConnectFailed is returned when the database connection cannot be
// established at startup.
var ErrConnectFailed = errors.New("database connection failed")

// ErrSchemaMismatch marks a bus message whose schema tag this ingester does
// not handle. The message is acknowledged as consumed.
var ErrSchemaMismatch = errors.New("unrecognized schema")

// ErrDecodeFailed is returned when a payload does not decode under the schema
// it declares. The message is not acknowledged.
var ErrDecodeFailed = errors.New("decode failed")

// ErrPersistFailed wraps any driver error raised while executing an insert.
// The message is not acknowledged; redelivery is safe because of dedup.
var ErrPersistFailed = errors.New("persist failed")

// ErrAckFailed is logged when an acknowledgement to the bus fails.
var ErrAckFailed = errors.New("ack failed")

// ErrInvalidKind marks a parameter binder call with a column kind it does not
// know. It is a programmer error.
var ErrInvalidKind = errors.New("invalid parameter kind")
