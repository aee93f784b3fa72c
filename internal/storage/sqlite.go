package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/receipts/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultRecentLimit is how many uploads RecentUploads returns when limit is not positive.
const DefaultRecentLimit = 20

// SQLiteStorage keeps the local upload journal in SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the database file location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// RecordUpload appends an upload attempt to the journal and sets its ID.
func (s *SQLiteStorage) RecordUpload(ctx context.Context, record *model.UploadRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUploadRecord(record); err != nil {
		return err
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (file_name, content_type, size_bytes, status, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.FileName, record.ContentType, record.SizeBytes, string(record.Status), record.Message,
		record.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get upload id: %w", err)
	}
	record.ID = id
	return nil
}

// RecentUploads returns the newest journal entries first.
func (s *SQLiteStorage) RecentUploads(ctx context.Context, limit int) ([]model.UploadRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_name, content_type, size_bytes, status, message, created_at
		FROM uploads
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.UploadRecord
	for rows.Next() {
		var (
			rec     model.UploadRecord
			status  string
			message sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.FileName, &rec.ContentType, &rec.SizeBytes, &status, &message, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		rec.Status = model.UploadStatus(status)
		rec.Message = message.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uploads: %w", err)
	}

	return records, nil
}

// UploadStats counts journal entries by status.
func (s *SQLiteStorage) UploadStats(ctx context.Context) (map[model.UploadStatus]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM uploads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query upload stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := make(map[model.UploadStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan upload stats: %w", err)
		}
		stats[model.UploadStatus(status)] = count
	}
	return stats, rows.Err()
}

// PruneUploads deletes journal entries older than before and returns how many were removed.
func (s *SQLiteStorage) PruneUploads(ctx context.Context, before time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune uploads: %w", err)
	}
	return result.RowsAffected()
}
