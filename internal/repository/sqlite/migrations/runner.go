// Package migrations applies the embedded schema files in lexical
// order, recording each applied file in a schema_migrations table so
// startup is idempotent.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

// Apply brings the schema up to date. Each pending migration runs in
// its own transaction together with its bookkeeping insert, so a failed
// file leaves no partial state behind.
func Apply(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedSet(ctx, db)
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	for _, name := range embeddedNames() {
		if applied[name] {
			continue
		}
		if err := applyOne(ctx, db, name); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		slog.Info("schema migration applied", "migration", name)
	}
	return nil
}

func appliedSet(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// embeddedNames lists the *.sql files in lexical order.
func embeddedNames() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		// The FS is baked into the binary; a read failure here is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("read embedded migrations: %v", err))
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

func applyOne(ctx context.Context, db *sql.DB, name string) error {
	content, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename) VALUES (?)`, name); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}
