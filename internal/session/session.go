//go:build linux

// Package session exposes the player over MPRIS so desktops and
// remote controllers see it as a standard media player. Transport
// commands arriving over the bus go through the playback forwarder:
// with interception enabled they surface as ExternalCommand events
// instead of touching the engine.
package session

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/cadence/internal/metadata"
	"github.com/llehouerou/cadence/internal/playback"
)

// Adapter connects the playback service to MPRIS over D-Bus.
type Adapter struct {
	service  playback.Service
	resolver *metadata.Resolver
	server   *server.Server
	done     chan struct{}
}

// New creates and starts a new session adapter.
func New(service playback.Service, resolver *metadata.Resolver) (*Adapter, error) {
	a := &Adapter{
		service:  service,
		resolver: resolver,
		done:     make(chan struct{}),
	}

	rootAdapter := &rootAdapter{}
	playerAdapter := &playerAdapter{service: service, resolver: resolver}

	a.server = server.NewServer("cadence", rootAdapter, playerAdapter)

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.done)
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - host manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil // Track list interface not implemented
}

func (r *rootAdapter) Identity() (string, error) {
	return "Cadence", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter. Every
// transport call goes through the forwarder, never the engine
// directly.
type playerAdapter struct {
	service  playback.Service
	resolver *metadata.Resolver
}

func (p *playerAdapter) external() *playback.Forwarder {
	return p.service.External()
}

func (p *playerAdapter) Next() error {
	return p.external().Next()
}

func (p *playerAdapter) Previous() error {
	return p.external().Previous()
}

func (p *playerAdapter) Pause() error {
	p.external().Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	if p.service.State() == playback.StatePlaying {
		p.external().Pause()
		return nil
	}
	return p.external().Play()
}

func (p *playerAdapter) Stop() error {
	p.external().Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	return p.external().Play()
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	target := p.service.Position() + time.Duration(offset)*time.Microsecond
	p.external().SeekTo(target)
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.external().SeekTo(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.service.State() {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StateLoading, playback.StateBuffering, playback.StateReady, playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	default:
		return types.PlaybackStatusStopped, nil
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	return p.service.Rate(), nil
}

func (p *playerAdapter) SetRate(rate float64) error {
	p.external().SetRate(rate)
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	item := p.service.CurrentItem()
	if item == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(item.Path)),
		Length:  types.Microseconds(p.service.Duration().Microseconds()),
		Title:   p.resolver.Title(),
		Artist:  []string{p.resolver.Artist()},
		Album:   p.resolver.Album(),
	}

	if artPath := p.resolver.ArtworkPath(); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil // Volume control not exposed via service
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 0.25, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 4.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.service.HasNext(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.service.QueueIndex() > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.QueueLen() > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
