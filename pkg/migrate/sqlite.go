package migrate

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

// sqliteSchema mirrors the goose migrations for the local sqlite driver,
// which cannot run the Postgres-specific DDL.
//
//go:embed sqlite_schema.sql
var sqliteSchema string

// ApplySQLiteSchema creates every table on a sqlite connection. It is idempotent.
func ApplySQLiteSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	for _, stmt := range strings.Split(sqliteSchema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}
