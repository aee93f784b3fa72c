package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the journal schema version this build writes.
const ExpectedSchemaVersion = 2

// migration is one schema step. migrations[i] moves the database to version i+1.
type migration struct {
	description string
	statements  []string
}

var migrations = []migration{
	{
		description: "Create upload journal",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS uploads (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				file_name TEXT NOT NULL,
				content_type TEXT NOT NULL DEFAULT '',
				size_bytes INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL,
				message TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX idx_uploads_created_at ON uploads(created_at)`,
		},
	},
	{
		description: "Constrain upload status and index it",
		statements: []string{
			`CREATE TRIGGER validate_upload_status
			BEFORE INSERT ON uploads
			FOR EACH ROW
			WHEN NEW.status NOT IN ('succeeded', 'failed', 'rejected')
			BEGIN
				SELECT RAISE(ABORT, 'invalid upload status');
			END`,
			`CREATE INDEX idx_uploads_status ON uploads(status)`,
		},
	},
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return v, nil
}

// applyMigration runs one step and bumps user_version in the same transaction.
func (s *SQLiteStorage) applyMigration(ctx context.Context, version int, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", version, err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", version, err)
	}

	slog.Debug("Applied journal migration", "version", version, "description", m.description)
	return nil
}

// Migrate brings the journal schema up to ExpectedSchemaVersion.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > ExpectedSchemaVersion {
		return fmt.Errorf("journal schema version %d is newer than this build (%d)", current, ExpectedSchemaVersion)
	}

	for i := current; i < len(migrations); i++ {
		if err := s.applyMigration(ctx, i+1, migrations[i]); err != nil {
			return err
		}
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, final)
	}
	return nil
}
