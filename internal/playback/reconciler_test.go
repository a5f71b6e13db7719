package playback

import (
	"testing"

	"github.com/llehouerou/cadence/internal/engine"
)

// newReconcilerForTest returns a reconciler, its holder, and a
// subscription for observing emitted transitions.
func newReconcilerForTest(t *testing.T) (*Reconciler, *Holder, *Subscription) {
	t.Helper()
	h := NewHolder()
	return NewReconciler(h), h, h.Subscribe()
}

// drainStates collects every state transition already emitted.
func drainStates(sub *Subscription) []StateChange {
	var out []StateChange
	for {
		select {
		case e := <-sub.StateChanged:
			out = append(out, e)
		default:
			return out
		}
	}
}

func phaseSignal(p engine.Phase) engine.Signal {
	return engine.Signal{Kind: engine.SignalPhaseChanged, Phase: p}
}

func TestReconciler_PhaseMapping(t *testing.T) {
	tests := []struct {
		name     string
		phase    engine.Phase
		queueLen int
		want     State
	}{
		{"buffering", engine.PhaseBuffering, 0, StateBuffering},
		{"ready", engine.PhaseReady, 0, StateReady},
		{"ended with queued items", engine.PhaseEnded, 1, StateEnded},
		{"ended with empty queue", engine.PhaseEnded, 0, StateIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newReconcilerForTest(t)
			snap := engine.NewMock()
			snap.MockQueueLen = tt.queueLen
			r.Apply(snap, []engine.Signal{phaseSignal(tt.phase)})
			if r.State() != tt.want {
				t.Errorf("state = %v, want %v", r.State(), tt.want)
			}
		})
	}
}

func TestReconciler_IdleDoesNotMaskTerminalStates(t *testing.T) {
	for _, terminal := range []struct {
		name  string
		force func(*Reconciler)
		want  State
	}{
		{"stopped", (*Reconciler).ForceStop, StateStopped},
		{"error", (*Reconciler).ForceError, StateError},
	} {
		t.Run(terminal.name, func(t *testing.T) {
			r, _, sub := newReconcilerForTest(t)
			terminal.force(r)
			drainStates(sub)

			r.Apply(engine.NewMock(), []engine.Signal{phaseSignal(engine.PhaseIdle)})

			if r.State() != terminal.want {
				t.Errorf("state = %v, want %v after idle signal", r.State(), terminal.want)
			}
			if got := drainStates(sub); len(got) != 0 {
				t.Errorf("idle after %s emitted %d transitions, want 0", terminal.name, len(got))
			}
		})
	}
}

func TestReconciler_IdleFromActiveState(t *testing.T) {
	r, _, _ := newReconcilerForTest(t)
	snap := engine.NewMock()
	r.Apply(snap, []engine.Signal{phaseSignal(engine.PhaseReady)})
	r.Apply(snap, []engine.Signal{phaseSignal(engine.PhaseIdle)})
	if r.State() != StateIdle {
		t.Errorf("state = %v, want Idle", r.State())
	}
}

func TestReconciler_UnrecognizedPhaseDiscarded(t *testing.T) {
	r, _, sub := newReconcilerForTest(t)
	snap := engine.NewMock()
	r.Apply(snap, []engine.Signal{phaseSignal(engine.PhaseReady)})
	drainStates(sub)

	r.Apply(snap, []engine.Signal{phaseSignal(engine.Phase(42))})

	if r.State() != StateReady {
		t.Errorf("state = %v, want Ready (unchanged)", r.State())
	}
	if got := drainStates(sub); len(got) != 0 {
		t.Errorf("unrecognized phase emitted %d transitions, want 0", len(got))
	}
}

func TestReconciler_ItemTransitionWhilePlaying(t *testing.T) {
	r, _, sub := newReconcilerForTest(t)
	snap := engine.NewMock()
	snap.MockIsPlaying = true

	item := &engine.Item{Path: "/music/a.flac"}
	r.Apply(snap, []engine.Signal{{Kind: engine.SignalItemTransition, Item: item}})

	got := drainStates(sub)
	want := []State{StateLoading, StateReady, StatePlaying}
	if len(got) != len(want) {
		t.Fatalf("emitted %d transitions, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Current != w {
			t.Errorf("transition %d = %v, want %v", i, got[i].Current, w)
		}
	}
}

func TestReconciler_ItemTransitionNotPlaying(t *testing.T) {
	r, _, sub := newReconcilerForTest(t)
	snap := engine.NewMock()

	item := &engine.Item{Path: "/music/a.flac"}
	r.Apply(snap, []engine.Signal{{Kind: engine.SignalItemTransition, Item: item}})

	got := drainStates(sub)
	if len(got) != 1 || got[0].Current != StateLoading {
		t.Fatalf("transitions = %v, want single Loading", got)
	}
}

func TestReconciler_ItemTransitionToNil(t *testing.T) {
	r, _, sub := newReconcilerForTest(t)
	snap := engine.NewMock()
	r.Apply(snap, []engine.Signal{{Kind: engine.SignalItemTransition, Item: nil}})
	if got := drainStates(sub); len(got) != 0 {
		t.Errorf("nil item transition emitted %d transitions, want 0", len(got))
	}
}

func TestReconciler_ItemTransitionClearsError(t *testing.T) {
	r, h, _ := newReconcilerForTest(t)
	h.SetError(ErrorInfo{Code: "decoding-failed"})

	snap := engine.NewMock()
	r.Apply(snap, []engine.Signal{{Kind: engine.SignalItemTransition, Item: &engine.Item{Path: "/b.mp3"}}})

	if h.LastError() != nil {
		t.Error("stored error not cleared by item transition")
	}
}

func TestReconciler_PauseSuppressedWhileStopped(t *testing.T) {
	r, _, sub := newReconcilerForTest(t)
	r.ForceStop()
	drainStates(sub)

	r.Apply(engine.NewMock(), []engine.Signal{
		{Kind: engine.SignalPlayWhenReadyChanged, PlayWhenReady: false},
	})

	if r.State() != StateStopped {
		t.Errorf("state = %v, want Stopped", r.State())
	}
	if got := drainStates(sub); len(got) != 0 {
		t.Errorf("pause while stopped emitted %d transitions, want 0", len(got))
	}
}

func TestReconciler_PlayWhenReadyFalsePauses(t *testing.T) {
	r, _, _ := newReconcilerForTest(t)
	snap := engine.NewMock()
	r.Apply(snap, []engine.Signal{phaseSignal(engine.PhaseReady)})
	r.Apply(snap, []engine.Signal{
		{Kind: engine.SignalPlayWhenReadyChanged, PlayWhenReady: false},
	})
	if r.State() != StatePaused {
		t.Errorf("state = %v, want Paused", r.State())
	}
}

func TestReconciler_PlayWhenReadyTrueIgnored(t *testing.T) {
	r, _, sub := newReconcilerForTest(t)
	r.Apply(engine.NewMock(), []engine.Signal{
		{Kind: engine.SignalPlayWhenReadyChanged, PlayWhenReady: true},
	})
	if got := drainStates(sub); len(got) != 0 {
		t.Errorf("play-when-ready=true emitted %d transitions, want 0", len(got))
	}
}

func TestReconciler_IsPlayingTrueSetsPlaying(t *testing.T) {
	r, _, _ := newReconcilerForTest(t)
	r.Apply(engine.NewMock(), []engine.Signal{
		{Kind: engine.SignalIsPlayingChanged, IsPlaying: true},
	})
	if r.State() != StatePlaying {
		t.Errorf("state = %v, want Playing", r.State())
	}
}

func TestReconciler_SameStateEmitsOnce(t *testing.T) {
	r, _, sub := newReconcilerForTest(t)
	snap := engine.NewMock()
	r.Apply(snap, []engine.Signal{phaseSignal(engine.PhaseBuffering)})
	r.Apply(snap, []engine.Signal{phaseSignal(engine.PhaseBuffering)})

	got := drainStates(sub)
	if len(got) != 1 {
		t.Fatalf("emitted %d transitions, want 1", len(got))
	}
	if got[0].Previous != StateIdle || got[0].Current != StateBuffering {
		t.Errorf("transition = %v -> %v, want Idle -> Buffering", got[0].Previous, got[0].Current)
	}
}

// Later signals in a batch override earlier derived states.
func TestReconciler_BatchOrderMatters(t *testing.T) {
	r, _, sub := newReconcilerForTest(t)
	snap := engine.NewMock()

	r.Apply(snap, []engine.Signal{
		phaseSignal(engine.PhaseReady),
		{Kind: engine.SignalIsPlayingChanged, IsPlaying: true},
	})

	got := drainStates(sub)
	if len(got) != 2 {
		t.Fatalf("emitted %d transitions, want 2", len(got))
	}
	if got[0].Current != StateReady || got[1].Current != StatePlaying {
		t.Errorf("transitions = %v, want Ready then Playing", got)
	}
}

func TestReconciler_Reset(t *testing.T) {
	r, _, _ := newReconcilerForTest(t)
	r.ForceError()
	r.Reset()
	if r.State() != StateIdle {
		t.Errorf("state = %v, want Idle after reset", r.State())
	}
	// Suppression lifted: a terminal restart observes engine signals again.
	r.Apply(engine.NewMock(), []engine.Signal{phaseSignal(engine.PhaseBuffering)})
	if r.State() != StateBuffering {
		t.Errorf("state = %v, want Buffering", r.State())
	}
}
