package playback

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StateLoading, "Loading"},
		{StateBuffering, "Buffering"},
		{StateReady, "Ready"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{StateStopped, "Stopped"},
		{StateEnded, "Ended"},
		{StateError, "Error"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateIdle, false},
		{StateLoading, true},
		{StateBuffering, true},
		{StateReady, true},
		{StatePlaying, true},
		{StatePaused, true},
		{StateStopped, false},
		{StateEnded, false},
		{StateError, false},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateStopped, true},
		{StateError, true},
		{StateIdle, false},
		{StatePlaying, false},
		{StateEnded, false},
	}
	for _, tt := range tests {
		if got := tt.state.IsTerminal(); got != tt.want {
			t.Errorf("%v.IsTerminal() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
