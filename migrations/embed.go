// Package migrations holds the versioned SQL schema.
package migrations

import "embed"

// FS contains every *.sql migration
//
//go:embed *.sql
var FS embed.FS
