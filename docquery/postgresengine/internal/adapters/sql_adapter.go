package adapters

import (
	"context"
	"database/sql"
)

// SQLAdapter implements DBAdapter for sql.DB.
type SQLAdapter struct {
	db *sql.DB
}

// NewSQLAdapter creates a new SQL adapter.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

// Query runs a statement that returns rows.
func (s *SQLAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return stdRows{rows: rows}, nil
}

// Exec runs a statement that returns no rows.
func (s *SQLAdapter) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// stdRows adapts *sql.Rows, which sql.DB and sqlx.DB both return.
type stdRows struct {
	rows *sql.Rows
}

func (s stdRows) Next() bool {
	return s.rows.Next()
}

func (s stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s stdRows) Err() error {
	return s.rows.Err()
}

func (s stdRows) Close() error {
	return s.rows.Close()
}
