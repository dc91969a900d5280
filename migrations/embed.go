// Package migrations embeds the SQL schema applied by "healthintel-server migrate up".
package migrations

import "embed"

// FS holds the NNN_name.sql files at its root.
//
//go:embed *.sql
var FS embed.FS
