// Package migrations embeds the SQL schema files so the binary can migrate
// the database without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
