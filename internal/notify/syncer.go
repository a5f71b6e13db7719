package notify

import (
	"fmt"
	"image"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/llehouerou/cadence/internal/metadata"
	"github.com/llehouerou/cadence/internal/playback"
)

// Syncer keeps a single now-playing notification in step with
// playback: item changes replace it, terminal states dismiss it,
// playback errors raise a critical one.
type Syncer struct {
	notifier Notifier
	resolver *metadata.Resolver
	log      zerolog.Logger

	// ShowFileInfo appends the audio file size to the body.
	ShowFileInfo bool

	lastID uint32
}

// NewSyncer creates a syncer over the given notifier and resolver.
func NewSyncer(n Notifier, r *metadata.Resolver, log zerolog.Logger) *Syncer {
	return &Syncer{notifier: n, resolver: r, log: log}
}

// Run consumes the subscription until it is done. Call in its own
// goroutine.
func (s *Syncer) Run(sub *playback.Subscription) {
	for {
		select {
		case <-sub.Done:
			s.dismiss()
			return
		case e := <-sub.ItemChanged:
			if e.Item == nil {
				s.dismiss()
				continue
			}
			s.showNowPlaying(e.Item.Path)
		case e := <-sub.StateChanged:
			s.handleState(e)
		case info := <-sub.Error:
			s.showError(info)
		}
	}
}

func (s *Syncer) handleState(e playback.StateChange) {
	switch e.Current {
	case playback.StateStopped, playback.StateIdle, playback.StateEnded:
		s.dismiss()
	default:
	}
}

func (s *Syncer) showNowPlaying(path string) {
	body := s.resolver.Artist()
	if album := s.resolver.Album(); album != "" {
		if body != "" {
			body += " - "
		}
		body += album
	}
	if s.ShowFileInfo {
		if st, err := os.Stat(path); err == nil {
			body += fmt.Sprintf("\n%s", humanize.Bytes(uint64(st.Size())))
		}
	}

	var art image.Image
	if data, _ := s.resolver.Artwork(); data != nil {
		art = ScaleArtwork(data)
	}

	id, err := s.notifier.Notify(Notification{
		Title:      s.resolver.Title(),
		Body:       body,
		Image:      art,
		Timeout:    -1,
		ReplacesID: s.lastID,
		Urgency:    UrgencyLow,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("now-playing notification failed")
		return
	}
	if id != 0 {
		s.lastID = id
	}
}

func (s *Syncer) showError(info playback.ErrorInfo) {
	body := info.Code
	if info.Message != "" {
		body = info.Code + ": " + info.Message
	}
	id, err := s.notifier.Notify(Notification{
		Title:      "Playback error",
		Body:       body,
		Timeout:    0,
		ReplacesID: s.lastID,
		Urgency:    UrgencyCritical,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("error notification failed")
		return
	}
	if id != 0 {
		s.lastID = id
	}
}

func (s *Syncer) dismiss() {
	if s.lastID == 0 {
		return
	}
	if err := s.notifier.Close(s.lastID); err != nil {
		s.log.Debug().Err(err).Msg("close notification failed")
	}
	s.lastID = 0
}
