// Package migrations embeds the SQL schema of the document library.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
