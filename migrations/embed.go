// Package migrations holds the postgres schema, embedded into the binaries.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
