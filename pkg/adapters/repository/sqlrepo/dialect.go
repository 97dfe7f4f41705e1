package sqlrepo

import (
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"                   // Postgres driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver
)

type dialect struct {
	driver string
	schema []string
}

var (
	sqliteDialect = dialect{
		driver: "sqlite",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS links (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				alias TEXT NOT NULL UNIQUE,
				url TEXT NOT NULL,
				title TEXT,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_links_created_at ON links(created_at)`,
		},
	}

	libsqlDialect = dialect{
		driver: "libsql",
		schema: sqliteDialect.schema,
	}

	postgresDialect = dialect{
		driver: "pgx",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS links (
				id BIGSERIAL PRIMARY KEY,
				alias TEXT NOT NULL UNIQUE,
				url TEXT NOT NULL,
				title TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_links_created_at ON links(created_at)`,
		},
	}
)

// dialectFor picks the driver from the shape of the database URL.
func dialectFor(dbURL string) dialect {
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return postgresDialect
	case strings.Contains(dbURL, "libsql://"), strings.Contains(dbURL, "wss://"):
		return libsqlDialect
	default:
		return sqliteDialect
	}
}
