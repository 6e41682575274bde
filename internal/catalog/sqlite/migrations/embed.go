// Package migrations contains embedded SQL migrations for the SQLite catalog.
package migrations

import "embed"

//go:embed units/*.sql
var UnitsFS embed.FS
