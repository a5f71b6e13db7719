// Package resume persists the playback session (queue, current index,
// position) so a restart can pick up where the last run left off.
// Saves are debounced; the pending state is flushed on Close.
package resume

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "cadence"
	dbFileName   = "cadence.db"
	saveDebounce = 500 * time.Millisecond
)

// Store persists and restores playback sessions.
type Store struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Session
}

// Open opens (creating if needed) the resume database under the XDG
// data directory.
func Open() (*Store, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens a resume database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close flushes any pending save and closes the database.
func (s *Store) Close() error {
	s.saveMu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	pending := s.pending
	s.pending = nil
	s.saveMu.Unlock()

	if pending != nil {
		_ = saveSession(s.db, *pending)
	}

	return s.db.Close()
}

// Load returns the saved session, or nil on first run.
func (s *Store) Load() (*Session, error) {
	return getSession(s.db)
}

// Save schedules a debounced write of the session. Rapid position
// updates collapse into one write.
func (s *Store) Save(session Session) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.pending = &session

	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}

	s.saveTimer = time.AfterFunc(saveDebounce, func() {
		s.saveMu.Lock()
		pending := s.pending
		s.pending = nil
		s.saveMu.Unlock()

		if pending != nil {
			_ = saveSession(s.db, *pending)
		}
	})
}
