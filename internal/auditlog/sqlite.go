package auditlog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS delivery_records (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    email      TEXT    NOT NULL,
    status     TEXT    NOT NULL,
    sent_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_delivery_records_email ON delivery_records (email);
`

// SQLiteRecorder writes records to a local SQLite file. Single process only.
type SQLiteRecorder struct {
	db *sql.DB
}

func NewSQLiteRecorder(ctx context.Context, path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteRecorder{db: db}, nil
}

func (s *SQLiteRecorder) Type() string {
	return "sqlite"
}

func (s *SQLiteRecorder) Record(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO delivery_records (email, status, sent_at_ms) VALUES (?, ?, ?)`,
		rec.Email, rec.Status, rec.SentAtMillis(),
	)
	if err != nil {
		return fmt.Errorf("insert delivery record: %w", err)
	}
	return nil
}

func (s *SQLiteRecorder) Close() error {
	return s.db.Close()
}
