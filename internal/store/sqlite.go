package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ PredictionStore = (*SQLiteStore)(nil)

const dateLayout = "2006-01-02"

// SQLiteStore implements PredictionStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and runs
// migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id           TEXT PRIMARY KEY,
			ticker       TEXT NOT NULL,
			venue        TEXT NOT NULL,
			session_date TEXT NOT NULL,
			close        REAL NOT NULL,
			target_date  TEXT NOT NULL,
			predicted    TEXT NOT NULL,
			method       TEXT NOT NULL,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ticker ON predictions(ticker, created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts a prediction record.
func (s *SQLiteStore) Save(ctx context.Context, rec *PredictionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO predictions
		 (id, ticker, venue, session_date, close, target_date, predicted, method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Ticker,
		rec.Venue,
		rec.SessionDate.Format(dateLayout),
		rec.Close,
		rec.TargetDate.Format(dateLayout),
		rec.Predicted,
		rec.Method,
		rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// Recent returns up to limit records for the ticker, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, ticker string, limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ticker, venue, session_date, close, target_date, predicted, method, created_at
		 FROM predictions WHERE ticker = ? ORDER BY created_at DESC LIMIT ?`,
		ticker, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var recs []PredictionRecord
	for rows.Next() {
		var (
			rec        PredictionRecord
			sessionStr string
			targetStr  string
			createdAt  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Ticker, &rec.Venue, &sessionStr,
			&rec.Close, &targetStr, &rec.Predicted, &rec.Method, &createdAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		if rec.SessionDate, err = time.Parse(dateLayout, sessionStr); err != nil {
			return nil, fmt.Errorf("parse session_date %q: %w", sessionStr, err)
		}
		if rec.TargetDate, err = time.Parse(dateLayout, targetStr); err != nil {
			return nil, fmt.Errorf("parse target_date %q: %w", targetStr, err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
