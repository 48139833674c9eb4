// Package db embeds the schema migrations and the geography reference data.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed reference/*.csv
var Reference embed.FS
