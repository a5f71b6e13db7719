package notify

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/llehouerou/cadence/internal/metadata"
	"github.com/llehouerou/cadence/internal/playback"
)

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	sent   []Notification
	closed []uint32
	nextID uint32
}

func (r *recordingNotifier) Notify(n Notification) (uint32, error) {
	r.sent = append(r.sent, n)
	r.nextID++
	return r.nextID, nil
}

func (r *recordingNotifier) Close(id uint32) error {
	r.closed = append(r.closed, id)
	return nil
}

func newSyncerForTest() (*Syncer, *recordingNotifier) {
	rec := &recordingNotifier{}
	res := metadata.NewResolver()
	res.SetOverrides(metadata.Overrides{Title: "Song", Artist: "Artist", Album: "Album"})
	return NewSyncer(rec, res, zerolog.Nop()), rec
}

func TestSyncer_NowPlayingReplacesPrevious(t *testing.T) {
	s, rec := newSyncerForTest()

	s.showNowPlaying("/music/a.mp3")
	s.showNowPlaying("/music/b.mp3")

	if len(rec.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(rec.sent))
	}
	if rec.sent[0].ReplacesID != 0 {
		t.Errorf("first ReplacesID = %d, want 0", rec.sent[0].ReplacesID)
	}
	if rec.sent[1].ReplacesID != 1 {
		t.Errorf("second ReplacesID = %d, want 1", rec.sent[1].ReplacesID)
	}
	if rec.sent[0].Title != "Song" {
		t.Errorf("Title = %q, want Song", rec.sent[0].Title)
	}
	if rec.sent[0].Body != "Artist - Album" {
		t.Errorf("Body = %q, want Artist - Album", rec.sent[0].Body)
	}
}

func TestSyncer_ErrorIsCritical(t *testing.T) {
	s, rec := newSyncerForTest()

	s.showError(playback.ErrorInfo{Code: "io-read-failed", Message: "short read"})

	if len(rec.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(rec.sent))
	}
	n := rec.sent[0]
	if n.Urgency != UrgencyCritical {
		t.Errorf("Urgency = %d, want critical", n.Urgency)
	}
	if n.Body != "io-read-failed: short read" {
		t.Errorf("Body = %q", n.Body)
	}
}

func TestSyncer_TerminalStateDismisses(t *testing.T) {
	s, rec := newSyncerForTest()
	s.showNowPlaying("/music/a.mp3")

	s.handleState(playback.StateChange{Previous: playback.StatePlaying, Current: playback.StateStopped})

	if len(rec.closed) != 1 || rec.closed[0] != 1 {
		t.Errorf("closed = %v, want [1]", rec.closed)
	}
	// Nothing to dismiss twice.
	s.handleState(playback.StateChange{Previous: playback.StateStopped, Current: playback.StateIdle})
	if len(rec.closed) != 1 {
		t.Errorf("dismissed again with no active notification: %v", rec.closed)
	}
}

func TestScaleArtwork_BadData(t *testing.T) {
	if img := ScaleArtwork(nil); img != nil {
		t.Error("ScaleArtwork(nil) != nil")
	}
	if img := ScaleArtwork([]byte("not an image")); img != nil {
		t.Error("ScaleArtwork(garbage) != nil")
	}
}
