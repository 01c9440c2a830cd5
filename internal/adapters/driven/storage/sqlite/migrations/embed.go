// Package migrations carries the store's schema as ordered SQL files.
package migrations

import "embed"

// FS holds every .up.sql and .down.sql migration in lexical order.
//
//go:embed *.sql
var FS embed.FS
