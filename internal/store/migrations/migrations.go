// Package migrations embeds the SQL schema for self-hosted store
// deployments; goose applies it on startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
