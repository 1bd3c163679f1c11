// Package migrations embeds the SQL schema migrations so binaries can apply
// them without a checkout.
package migrations

import "embed"

// FS holds the NNNNNN_name.{up,down}.sql files
//
//go:embed *.sql
var FS embed.FS
