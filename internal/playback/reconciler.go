package playback

import "github.com/llehouerou/cadence/internal/engine"

// Reconciler translates raw engine signals into the public State. It
// is the only writer of the state value: the holder stores what the
// reconciler decides, observers only read.
//
// Signals within a tick are applied strictly in order because later
// signals can override states derived from earlier ones (a phase
// change to ready followed by is-playing=true must end on Playing, not
// Ready). The precedence rules live in the phaseRules table below so
// they can be audited in one place.
type Reconciler struct {
	holder *Holder
	state  State
}

// NewReconciler creates a reconciler starting in Idle, publishing into
// the given holder.
func NewReconciler(h *Holder) *Reconciler {
	return &Reconciler{holder: h, state: StateIdle}
}

// State returns the current reconciled state.
func (r *Reconciler) State() State { return r.state }

// phaseRule maps one engine phase to a target state. resolve returns
// false to discard the signal entirely (no state change, no event).
type phaseRule struct {
	phase   engine.Phase
	resolve func(r *Reconciler, snap engine.Snapshot) (State, bool)
}

// phaseRules is the ordered override table for phase-changed signals.
var phaseRules = []phaseRule{
	{engine.PhaseBuffering, func(*Reconciler, engine.Snapshot) (State, bool) {
		return StateBuffering, true
	}},
	{engine.PhaseReady, func(*Reconciler, engine.Snapshot) (State, bool) {
		return StateReady, true
	}},
	{engine.PhaseIdle, func(r *Reconciler, _ engine.Snapshot) (State, bool) {
		// Idle must not mask a stop or error: the engine goes idle as a
		// side effect of both, and that signal arrives after the
		// terminal state was already forced.
		if r.state.IsTerminal() {
			return 0, false
		}
		return StateIdle, true
	}},
	{engine.PhaseEnded, func(_ *Reconciler, snap engine.Snapshot) (State, bool) {
		if snap.QueueLen() > 0 {
			return StateEnded, true
		}
		return StateIdle, true
	}},
}

// Apply consumes one tick of engine signals, in the order received.
func (r *Reconciler) Apply(snap engine.Snapshot, signals []engine.Signal) {
	for _, sig := range signals {
		switch sig.Kind {
		case engine.SignalPhaseChanged:
			r.applyPhase(snap, sig.Phase)
		case engine.SignalItemTransition:
			r.applyItemTransition(snap, sig.Item)
		case engine.SignalPlayWhenReadyChanged:
			r.applyPlayWhenReady(sig.PlayWhenReady)
		case engine.SignalIsPlayingChanged:
			r.applyIsPlaying(sig.IsPlaying)
		}
	}
}

func (r *Reconciler) applyPhase(snap engine.Snapshot, phase engine.Phase) {
	for _, rule := range phaseRules {
		if rule.phase != phase {
			continue
		}
		if next, ok := rule.resolve(r, snap); ok {
			r.set(next)
		}
		return
	}
	// Unrecognized phase: discard, not an error.
}

func (r *Reconciler) applyItemTransition(snap engine.Snapshot, item *engine.Item) {
	r.holder.ClearError()
	if item == nil {
		return
	}
	r.set(StateLoading)
	if snap.IsPlaying() {
		// Already playing: the engine will not re-announce ready or
		// playing for the new item, so escalate through both. Each
		// assignment is a discrete observable transition.
		r.set(StateReady)
		r.set(StatePlaying)
	}
}

func (r *Reconciler) applyPlayWhenReady(playWhenReady bool) {
	if playWhenReady {
		return
	}
	// Stopping already implies not-ready; a trailing Paused would mask
	// the stop.
	if r.state == StateStopped {
		return
	}
	r.set(StatePaused)
}

func (r *Reconciler) applyIsPlaying(isPlaying bool) {
	if isPlaying {
		r.set(StatePlaying)
	}
}

// ForceStop sets the terminal Stopped state ahead of the engine's own
// wind-down signals.
func (r *Reconciler) ForceStop() {
	r.set(StateStopped)
}

// ForceError sets the terminal Error state in response to an engine
// playback error.
func (r *Reconciler) ForceError() {
	r.set(StateError)
}

// Reset returns the reconciler to Idle, used when the host explicitly
// restarts a session out of a terminal state.
func (r *Reconciler) Reset() {
	r.set(StateIdle)
}

// set assigns a new state. A no-op when the value is unchanged: the
// same state twice emits a single observable transition.
func (r *Reconciler) set(next State) {
	if next == r.state {
		return
	}
	prev := r.state
	r.state = next
	r.holder.setState(prev, next)
}
