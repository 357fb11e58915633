// Package migrations embeds the SQL that creates the alert and trip tables.
// The ingester never migrates a database itself; integration tests and local
// setups apply these files through the goose programmatic API.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
