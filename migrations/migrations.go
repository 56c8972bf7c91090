// Package migrations embeds the goose SQL migrations for the content tables.
package migrations

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
