// Package migrations embeds the SQL migration files for the order store.
package migrations

import "embed"

//go:embed *.up.sql
var Files embed.FS
