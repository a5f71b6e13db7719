package playback

// State represents the public playback state derived from engine
// signals by the reconciler. It is a strict superset of the engine's
// phase: Stopped and Error only exist at this layer and, once entered,
// survive the idle phase signal the engine emits on its way down.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateBuffering
	StateReady
	StatePlaying
	StatePaused
	StateStopped
	StateEnded
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StateBuffering:
		return "Buffering"
	case StateReady:
		return "Ready"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateStopped:
		return "Stopped"
	case StateEnded:
		return "Ended"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsActive returns true while a playback session is in progress.
func (s State) IsActive() bool {
	switch s {
	case StateLoading, StateBuffering, StateReady, StatePlaying, StatePaused:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for states that suppress the engine's idle
// signal: reaching them ends the session until an explicit restart.
func (s State) IsTerminal() bool {
	return s == StateStopped || s == StateError
}
