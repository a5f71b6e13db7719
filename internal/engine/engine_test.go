package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseIdle, "idle"},
		{PhaseBuffering, "buffering"},
		{PhaseReady, "ready"},
		{PhaseEnded, "ended"},
		{Phase(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestRepeatMode_String(t *testing.T) {
	tests := []struct {
		mode RepeatMode
		want string
	}{
		{RepeatOff, "Off"},
		{RepeatAll, "All"},
		{RepeatOne, "One"},
		{RepeatMode(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := &Error{Code: ErrCodeDecodingFailed}
	if got := e.Error(); got != ErrCodeDecodingFailed {
		t.Errorf("Error() = %q", got)
	}
	e.Message = "bad frame"
	if got := e.Error(); got != ErrCodeDecodingFailed+": bad frame" {
		t.Errorf("Error() = %q", got)
	}
}

// tickRecorder collects ticks over a channel so tests can wait on the
// dispatch goroutine.
type tickRecorder struct {
	ticks chan []Signal
}

func newTickRecorder() *tickRecorder {
	return &tickRecorder{ticks: make(chan []Signal, 16)}
}

func (r *tickRecorder) OnTick(_ Snapshot, signals []Signal) {
	r.ticks <- append([]Signal(nil), signals...)
}

func (r *tickRecorder) OnPositionDiscontinuity(_, _ time.Duration, _ DiscontinuityCode) {}
func (r *tickRecorder) OnPlaybackError(_ *Error)                                        {}
func (r *tickRecorder) OnMetadata(_ Metadata)                                           {}

func (r *tickRecorder) next(t *testing.T) []Signal {
	t.Helper()
	select {
	case sig := <-r.ticks:
		return sig
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for tick")
		return nil
	}
}

func newPlayerForTest(t *testing.T) (*Player, *tickRecorder) {
	t.Helper()
	p := NewPlayer(PlayerOptions{})
	t.Cleanup(func() { _ = p.Close() })
	rec := newTickRecorder()
	p.AddListener(rec)
	return p, rec
}

func TestPlayer_PlayEmptyQueue(t *testing.T) {
	p, _ := newPlayerForTest(t)
	if err := p.Play(); err != ErrQueueEmpty {
		t.Errorf("Play() = %v, want ErrQueueEmpty", err)
	}
	if err := p.Next(); err != ErrQueueEmpty {
		t.Errorf("Next() = %v, want ErrQueueEmpty", err)
	}
}

func TestPlayer_SetQueueAnnouncesFirstItem(t *testing.T) {
	p, rec := newPlayerForTest(t)

	p.SetQueue([]Item{{Path: "/a.mp3"}, {Path: "/b.mp3"}})

	signals := rec.next(t)
	if len(signals) == 0 {
		t.Fatal("no signals in tick")
	}
	first := signals[0]
	if first.Kind != SignalItemTransition {
		t.Fatalf("first signal = %v, want item transition", first.Kind)
	}
	if first.ItemReason != ItemTransitionQueueChanged {
		t.Errorf("reason = %v, want queue changed", first.ItemReason)
	}
	if first.Item == nil || first.Item.Path != "/a.mp3" {
		t.Errorf("item = %+v, want /a.mp3", first.Item)
	}
}

func TestPlayer_SetQueueEmptyClearsCurrent(t *testing.T) {
	p, rec := newPlayerForTest(t)

	p.SetQueue([]Item{{Path: "/a.mp3"}})
	rec.next(t)

	p.SetQueue(nil)
	signals := rec.next(t)
	if signals[0].Item != nil {
		t.Errorf("item = %+v, want nil after clearing queue", signals[0].Item)
	}
}

func TestPlayer_AppendToEmptyQueueAnnounces(t *testing.T) {
	p, rec := newPlayerForTest(t)

	p.Append(Item{Path: "/a.mp3"})
	signals := rec.next(t)
	if signals[0].Kind != SignalItemTransition || signals[0].Item.Path != "/a.mp3" {
		t.Errorf("signals = %+v, want item transition to /a.mp3", signals)
	}

	// Appending with a current item set stays silent.
	p.Append(Item{Path: "/b.mp3"})
	select {
	case sig := <-rec.ticks:
		t.Errorf("unexpected tick %+v", sig)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPlayer_DecodeErrorSurfacesAsPlaybackError(t *testing.T) {
	p := NewPlayer(PlayerOptions{})
	t.Cleanup(func() { _ = p.Close() })

	errCh := make(chan *Error, 1)
	rec := newTickRecorder()
	p.AddListener(listenerFuncs{
		onTick:  rec.OnTick,
		onError: func(e *Error) { errCh <- e },
	})

	p.SetQueue([]Item{{Path: "/nonexistent/file.mp3"}})
	rec.next(t) // queue changed

	if err := p.Play(); err != nil {
		t.Fatalf("Play() = %v", err)
	}

	select {
	case e := <-errCh:
		if e.Code != ErrCodeIOFileNotFound {
			t.Errorf("error code = %q, want %q", e.Code, ErrCodeIOFileNotFound)
		}
	case <-time.After(time.Second):
		t.Fatal("no playback error reported")
	}
}

func TestPlayer_UnsupportedFormat(t *testing.T) {
	p := NewPlayer(PlayerOptions{})
	t.Cleanup(func() { _ = p.Close() })

	errCh := make(chan *Error, 1)
	p.AddListener(listenerFuncs{
		onError: func(e *Error) { errCh <- e },
	})

	// The file exists but has no decodable extension.
	p.SetQueue([]Item{{Path: mustTempFile(t, "track.xyz")}})
	if err := p.Play(); err != nil {
		t.Fatalf("Play() = %v", err)
	}

	select {
	case e := <-errCh:
		if e.Code != ErrCodeUnsupported {
			t.Errorf("error code = %q, want %q", e.Code, ErrCodeUnsupported)
		}
	case <-time.After(time.Second):
		t.Fatal("no playback error reported")
	}
}

// Position, Duration and QueueLen are documented as safe from any
// goroutine; poll them while the dispatch goroutine churns the queue
// and tears streams down so the race detector can see the paths cross.
func TestPlayer_ConcurrentQueriesDuringQueueChurn(t *testing.T) {
	p := NewPlayer(PlayerOptions{})
	t.Cleanup(func() { _ = p.Close() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_ = p.Position()
			_ = p.Duration()
			_ = p.QueueLen()
		}
	}()

	for i := 0; i < 50; i++ {
		p.SetQueue([]Item{{Path: "/no/such/track.mp3"}})
		_ = p.Play()
		p.ClearQueue()
	}
	<-done
}

func mustTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// listenerFuncs adapts bare funcs to the Listener interface.
type listenerFuncs struct {
	onTick  func(Snapshot, []Signal)
	onDisc  func(time.Duration, time.Duration, DiscontinuityCode)
	onError func(*Error)
	onMeta  func(Metadata)
}

func (l listenerFuncs) OnTick(s Snapshot, sig []Signal) {
	if l.onTick != nil {
		l.onTick(s, sig)
	}
}

func (l listenerFuncs) OnPositionDiscontinuity(o, n time.Duration, c DiscontinuityCode) {
	if l.onDisc != nil {
		l.onDisc(o, n, c)
	}
}

func (l listenerFuncs) OnPlaybackError(e *Error) {
	if l.onError != nil {
		l.onError(e)
	}
}

func (l listenerFuncs) OnMetadata(m Metadata) {
	if l.onMeta != nil {
		l.onMeta(m)
	}
}
