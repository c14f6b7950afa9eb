package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func rec(id, ticker string, created time.Time) *PredictionRecord {
	return &PredictionRecord{
		ID:          id,
		Ticker:      ticker,
		Venue:       "US",
		SessionDate: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Close:       102,
		TargetDate:  time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC),
		Predicted:   "102",
		Method:      "previous_day_model",
		CreatedAt:   created,
	}
}

func TestSQLiteSaveAndRecent(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 5, 16, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, rec(id, "AAPL", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if err := s.Save(ctx, rec("d", "MSFT", base)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	recs, err := s.Recent(ctx, "AAPL", 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].ID != "c" || recs[1].ID != "b" {
		t.Errorf("order = %s, %s; want newest first (c, b)", recs[0].ID, recs[1].ID)
	}

	got := recs[0]
	if got.Ticker != "AAPL" || got.Venue != "US" || got.Method != "previous_day_model" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.SessionDate.Format("2006-01-02") != "2025-03-05" {
		t.Errorf("SessionDate = %v", got.SessionDate)
	}
	if got.TargetDate.Format("2006-01-02") != "2025-03-06" {
		t.Errorf("TargetDate = %v", got.TargetDate)
	}
	if got.Predicted != "102" {
		t.Errorf("Predicted = %q", got.Predicted)
	}
}

func TestSQLiteRecentRejectsCorruptDate(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO predictions
		 (id, ticker, venue, session_date, close, target_date, predicted, method, created_at)
		 VALUES ('x', 'AAPL', 'US', 'not-a-date', 102, '2025-03-06', '102', 'previous_day_model', 1)`)
	if err != nil {
		t.Fatalf("inserting corrupt row: %v", err)
	}

	if _, err := s.Recent(ctx, "AAPL", 10); err == nil {
		t.Fatal("expected error for unparseable session_date, got nil")
	}
}

func TestSQLiteRecentEmpty(t *testing.T) {
	s := newTestSQLite(t)

	recs, err := s.Recent(context.Background(), "NONE", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("len = %d, want 0", len(recs))
	}
}
