package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Migrate applies all pending embedded migrations to the main database
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	// Ensure migrations table exists
	if err := ensureMigrationsTable(ctx, s.mainDB); err != nil {
		return err
	}

	migrations, err := getEmbeddedMigrationFiles()
	if err != nil {
		return err
	}

	applied, err := getAppliedMigrations(ctx, s.mainDB, MigrationTypeMain)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Type != MigrationTypeMain || applied[migration.FileName] {
			continue
		}
		if err := applyMigration(ctx, s.mainDB, migration); err != nil {
			log.Printf("[DB]: Failed to apply migration %s to main database: %v", migration.FileName, err)
			return err
		}
		log.Printf("[DB]: Applied migration %s", migration.FileName)
	}
	return nil
}

// ensureMigrationsTable creates the schema_migrations table if it doesn't exist
func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL UNIQUE,
		db_type TEXT NOT NULL DEFAULT '',
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// getAppliedMigrations returns a map of applied migration filenames
func getAppliedMigrations(ctx context.Context, db *sql.DB, dbType MigrationType) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := db.QueryContext(ctx, `SELECT filename FROM schema_migrations WHERE db_type = ? OR db_type = ''`, string(dbType))
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations for %s: %w", dbType, err)
	}
	defer rows.Close()

	for rows.Next() {
		var fname string
		if err := rows.Scan(&fname); err != nil {
			return nil, fmt.Errorf("failed to scan migration filename for %s: %w", dbType, err)
		}
		applied[fname] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration rows for %s: %w", dbType, err)
	}
	return applied, nil
}

// applyMigration applies a single migration and records it in one transaction
func applyMigration(ctx context.Context, db *sql.DB, migration *MigrationFile) error {
	content, err := readEmbeddedMigrationContent(migration)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", migration.FileName, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, content); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", migration.FileName, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename, db_type) VALUES (?, ?)`, migration.FileName, string(migration.Type)); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.FileName, err)
	}
	return tx.Commit()
}
