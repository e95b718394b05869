// Package migrations embeds the goose SQL migrations for the trip planner
// schema. The server applies them on boot when AUTO_MIGRATE is set; the
// integration tests apply them in TestMain.
package migrations

import "embed"

// FS holds every *.sql migration, embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
