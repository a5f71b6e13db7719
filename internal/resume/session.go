package resume

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/cadence/internal/db"
	"github.com/llehouerou/cadence/internal/engine"
)

// Session is a restorable playback session.
type Session struct {
	Queue    []engine.Item
	Index    int
	Position time.Duration
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_index INTEGER NOT NULL DEFAULT -1,
			position_ms INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS session_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			path TEXT NOT NULL,
			title TEXT,
			artist TEXT,
			album TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			UNIQUE(position)
		);
	`)
	return err
}

func getSession(db *sql.DB) (*Session, error) {
	row := db.QueryRow(`SELECT current_index, position_ms FROM session_state WHERE id = 1`)

	var session Session
	var positionMs int64
	err := row.Scan(&session.Index, &positionMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved session is valid on first run
	}
	if err != nil {
		return nil, err
	}
	session.Position = dbutil.MsDuration(positionMs)

	rows, err := db.Query(`
		SELECT path, title, artist, album, duration_ms
		FROM session_items ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item engine.Item
		var title, artist, album sql.NullString
		var durationMs int64
		if err := rows.Scan(&item.Path, &title, &artist, &album, &durationMs); err != nil {
			return nil, err
		}
		item.Title = dbutil.NullStringValue(title)
		item.Artist = dbutil.NullStringValue(artist)
		item.Album = dbutil.NullStringValue(album)
		item.Duration = dbutil.MsDuration(durationMs)
		session.Queue = append(session.Queue, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &session, nil
}

func saveSession(db *sql.DB, session Session) error {
	return dbutil.WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO session_state (id, current_index, position_ms)
			VALUES (1, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				position_ms = excluded.position_ms
		`, session.Index, dbutil.DurationMs(session.Position)); err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM session_items`); err != nil {
			return err
		}

		for i, item := range session.Queue {
			if _, err := tx.Exec(`
				INSERT INTO session_items (position, path, title, artist, album, duration_ms)
				VALUES (?, ?, ?, ?, ?, ?)
			`, i, item.Path,
				dbutil.NullString(item.Title),
				dbutil.NullString(item.Artist),
				dbutil.NullString(item.Album),
				dbutil.DurationMs(item.Duration)); err != nil {
				return err
			}
		}
		return nil
	})
}
