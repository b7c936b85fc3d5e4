package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS awb_documents (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source_file TEXT UNIQUE NOT NULL,
					extracted_at TEXT,
					identifier TEXT NOT NULL,
					country TEXT,
					category TEXT,
					payload TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_awb_documents_identifier ON awb_documents(identifier)`,
				`CREATE INDEX idx_awb_documents_category ON awb_documents(category)`,

				`CREATE TABLE IF NOT EXISTS invoice_documents (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source_file TEXT UNIQUE NOT NULL,
					extracted_at TEXT,
					invoice_number TEXT,
					payload TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_invoice_documents_number ON invoice_documents(invoice_number)`,

				`CREATE TABLE IF NOT EXISTS reports (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					awb_file TEXT NOT NULL,
					awb_identifier TEXT NOT NULL,
					category TEXT,
					matched_count INTEGER DEFAULT 0,
					payload TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_reports_awb_file ON reports(awb_file)`,

				`CREATE TABLE IF NOT EXISTS processed_files (
					path TEXT PRIMARY KEY,
					processed_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add match log for duplicate suppression",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS match_log (
					awb_file TEXT NOT NULL,
					invoice_number TEXT NOT NULL,
					logged_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (awb_file, invoice_number)
				)
			`)
			return err
		},
	},
	{
		Version:     3,
		Description: "One report per AWB file",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`DELETE FROM reports WHERE id NOT IN (
					SELECT MAX(id) FROM reports GROUP BY awb_file
				)`,
				`DROP INDEX IF EXISTS idx_reports_awb_file`,
				`CREATE UNIQUE INDEX idx_reports_awb_file ON reports(awb_file)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
