// Package db holds small helpers shared by the sqlite-backed stores.
package db

import (
	"database/sql"
	"time"
)

// WithTx runs fn inside a transaction, rolling back on error and
// committing on success.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// NullString stores empty strings as NULL so optional tag fields stay
// distinguishable from genuinely empty ones.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullStringValue returns the string value, or "" when NULL.
func NullStringValue(n sql.NullString) string {
	if !n.Valid {
		return ""
	}
	return n.String
}

// DurationMs converts a duration to whole milliseconds for storage.
func DurationMs(d time.Duration) int64 {
	return d.Milliseconds()
}

// MsDuration converts stored milliseconds back to a duration.
func MsDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
