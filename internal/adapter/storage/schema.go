package storage

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate creates the ledger tables from the embedded DDL for the dialect and
// lets gorm create the directory tables.
func Migrate(ctx context.Context, db *DB) error {
	ddl, err := schemaFS.ReadFile("schema/" + string(db.Dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	for _, stmt := range strings.Split(string(ddl), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := db.Gorm.WithContext(ctx).AutoMigrate(directoryModels...); err != nil {
		return fmt.Errorf("migrate directory: %w", err)
	}
	return nil
}
