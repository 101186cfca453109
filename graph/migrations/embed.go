// Package migrations embeds the SQL migration files applied when a
// read-write store opens.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
