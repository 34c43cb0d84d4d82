// Package migrations embeds the numbered SQL schema migrations for each
// supported database.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
