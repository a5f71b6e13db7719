package db

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE tracks (id INTEGER PRIMARY KEY, title TEXT, duration_ms INTEGER)`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func countTracks(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count
}

func TestWithTx_Commit(t *testing.T) {
	db := setupTestDB(t)

	err := WithTx(db, func(tx *sql.Tx) error {
		for _, title := range []string{"one", "two"} {
			if _, err := tx.Exec(`INSERT INTO tracks (title) VALUES (?)`, title); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	if got := countTracks(t, db); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)

	wantErr := errors.New("abort")
	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO tracks (title) VALUES (?)`, "doomed"); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("WithTx error = %v, want %v", err, wantErr)
	}

	if got := countTracks(t, db); got != 0 {
		t.Errorf("count = %d, want 0 after rollback", got)
	}
}

func TestNullString_Roundtrip(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Exec(`INSERT INTO tracks (title) VALUES (?), (?)`,
		NullString("Blue in Green"), NullString(""))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var nulls int
	if err := db.QueryRow(`SELECT COUNT(*) FROM tracks WHERE title IS NULL`).Scan(&nulls); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if nulls != 1 {
		t.Errorf("NULL titles = %d, want 1", nulls)
	}

	var title sql.NullString
	if err := db.QueryRow(`SELECT title FROM tracks WHERE title IS NOT NULL`).Scan(&title); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got := NullStringValue(title); got != "Blue in Green" {
		t.Errorf("title = %q, want %q", got, "Blue in Green")
	}
}

func TestNullStringValue_Invalid(t *testing.T) {
	if got := NullStringValue(sql.NullString{String: "ghost", Valid: false}); got != "" {
		t.Errorf("NullStringValue = %q, want empty", got)
	}
}

func TestDurationMs_Roundtrip(t *testing.T) {
	tests := []time.Duration{
		0,
		time.Second,
		3*time.Minute + 42*time.Second,
	}
	for _, d := range tests {
		if got := MsDuration(DurationMs(d)); got != d {
			t.Errorf("roundtrip(%v) = %v", d, got)
		}
	}
}

func TestDurationMs_TruncatesSubMillisecond(t *testing.T) {
	if got := DurationMs(1500 * time.Microsecond); got != 1 {
		t.Errorf("DurationMs = %d, want 1", got)
	}
}
