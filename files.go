package auth

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded schema migrations for tenants and users
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
