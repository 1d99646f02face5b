package database

import "embed"

// MigrationFS holds the SQL migrations applied by the migrate package and cmd/migrate.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
