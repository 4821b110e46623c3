// Package migrations holds the docgraph schema as numbered SQL files.
// Only *.up.sql files are applied; each runs once, in name order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
