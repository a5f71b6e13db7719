// Package metadata resolves display metadata for the currently loaded
// item. Every accessor walks the same chain: explicit override, then
// the queue item's hint fields, then the file's embedded tags. The
// media session and the notification surface read from here so both
// always agree on what is playing.
package metadata

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dhowden/tag"

	"github.com/llehouerou/cadence/internal/engine"
)

// Overrides are host-supplied values that win over anything embedded
// in the file. Empty strings and zero durations mean "no override".
type Overrides struct {
	Title       string
	Artist      string
	Album       string
	Genre       string
	ArtworkPath string
	Duration    time.Duration
}

// embedded is the cached tag read for the current item.
type embedded struct {
	title   string
	artist  string
	album   string
	genre   string
	picture []byte
	picMIME string
}

// Resolver resolves metadata for one current item at a time.
type Resolver struct {
	mu        sync.RWMutex
	overrides Overrides
	item      *engine.Item
	tags      *embedded
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// SetItem points the resolver at a new current item, dropping the
// cached tag read. Pass nil when nothing is current.
func (r *Resolver) SetItem(item *engine.Item) {
	r.mu.Lock()
	r.item = item
	r.tags = nil
	r.mu.Unlock()
}

// SetOverrides replaces the host overrides.
func (r *Resolver) SetOverrides(o Overrides) {
	r.mu.Lock()
	r.overrides = o
	r.mu.Unlock()
}

// Title resolves the display title, falling back to the file name when
// nothing else is available.
func (r *Resolver) Title() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overrides.Title != "" {
		return r.overrides.Title
	}
	if r.item != nil && r.item.Title != "" {
		return r.item.Title
	}
	if e := r.embeddedLocked(); e != nil && e.title != "" {
		return e.title
	}
	if r.item != nil {
		return filepath.Base(r.item.Path)
	}
	return ""
}

// Artist resolves the display artist.
func (r *Resolver) Artist() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overrides.Artist != "" {
		return r.overrides.Artist
	}
	if r.item != nil && r.item.Artist != "" {
		return r.item.Artist
	}
	if e := r.embeddedLocked(); e != nil {
		return e.artist
	}
	return ""
}

// Album resolves the display album.
func (r *Resolver) Album() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overrides.Album != "" {
		return r.overrides.Album
	}
	if r.item != nil && r.item.Album != "" {
		return r.item.Album
	}
	if e := r.embeddedLocked(); e != nil {
		return e.album
	}
	return ""
}

// Genre resolves the genre. Queue items carry no genre hint, so the
// chain is override then embedded tag.
func (r *Resolver) Genre() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overrides.Genre != "" {
		return r.overrides.Genre
	}
	if e := r.embeddedLocked(); e != nil {
		return e.genre
	}
	return ""
}

// Duration resolves the item duration from the override or the queue
// item hint. Zero when unknown; live durations come from the engine.
func (r *Resolver) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overrides.Duration > 0 {
		return r.overrides.Duration
	}
	if r.item != nil {
		return r.item.Duration
	}
	return 0
}

// ArtworkPath resolves a path to album art: the override, then a
// conventional cover file next to the track. Empty when nothing is
// found on disk; embedded pictures are served by Artwork.
func (r *Resolver) ArtworkPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overrides.ArtworkPath != "" {
		return r.overrides.ArtworkPath
	}
	if r.item != nil {
		return FindAlbumArt(r.item.Path)
	}
	return ""
}

// Artwork returns raw image bytes and MIME type for the current item:
// the directory cover file if present, otherwise the picture embedded
// in the tags. Returns nil when no art exists.
func (r *Resolver) Artwork() ([]byte, string) {
	if path := r.ArtworkPath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return data, mimeForExt(filepath.Ext(path))
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e := r.embeddedLocked(); e != nil && len(e.picture) > 0 {
		return e.picture, e.picMIME
	}
	return nil, ""
}

// embeddedLocked lazily reads and caches the current item's tags.
// Caller holds r.mu.
func (r *Resolver) embeddedLocked() *embedded {
	if r.tags != nil {
		return r.tags
	}
	if r.item == nil {
		return nil
	}
	r.tags = readEmbedded(r.item.Path)
	return r.tags
}

// readEmbedded reads tags from disk. Failures yield an empty cache
// entry so the read is not retried on every accessor call.
func readEmbedded(path string) *embedded {
	e := &embedded{}
	f, err := os.Open(path)
	if err != nil {
		return e
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return e
	}
	e.title = m.Title()
	e.artist = m.Artist()
	e.album = m.Album()
	e.genre = m.Genre()
	if pic := m.Picture(); pic != nil {
		e.picture = pic.Data
		e.picMIME = pic.MIMEType
	}
	return e
}
