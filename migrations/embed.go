// Package migrations embeds the SQL schema migrations applied by cmd/migrate
// and the server's optional auto-migration.
package migrations

import "embed"

// FS holds the *.up.sql / *.down.sql pairs
//
//go:embed *.sql
var FS embed.FS
