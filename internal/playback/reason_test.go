package playback

import (
	"testing"
	"time"

	"github.com/llehouerou/cadence/internal/engine"
)

func TestMapDiscontinuity(t *testing.T) {
	tests := []struct {
		code engine.DiscontinuityCode
		want TransitionKind
	}{
		{engine.DiscontinuityAutoTransition, TransitionAuto},
		{engine.DiscontinuitySeek, TransitionSeek},
		{engine.DiscontinuitySeekAdjustment, TransitionSeekAdjustment},
		{engine.DiscontinuityRemove, TransitionQueueChanged},
		{engine.DiscontinuitySkip, TransitionSkippedPeriod},
		{engine.DiscontinuityInternal, TransitionUnknown},
		{engine.DiscontinuityCode(42), TransitionUnknown},
	}
	for _, tt := range tests {
		got := MapDiscontinuity(tt.code, 5*time.Second, 30*time.Second)
		if got.Kind != tt.want {
			t.Errorf("MapDiscontinuity(%d).Kind = %v, want %v", tt.code, got.Kind, tt.want)
		}
		if got.Old != 5*time.Second || got.New != 30*time.Second {
			t.Errorf("MapDiscontinuity(%d) positions = (%v, %v), want (5s, 30s)", tt.code, got.Old, got.New)
		}
	}
}

func TestMapItemTransition(t *testing.T) {
	tests := []struct {
		code engine.ItemTransitionCode
		want ItemTransitionKind
	}{
		{engine.ItemTransitionAuto, ItemTransitionAuto},
		{engine.ItemTransitionQueueChanged, ItemTransitionQueueChanged},
		{engine.ItemTransitionRepeat, ItemTransitionRepeat},
		{engine.ItemTransitionSeek, ItemTransitionSeekToAnotherItem},
	}
	for _, tt := range tests {
		got := MapItemTransition(tt.code, 12*time.Second)
		if got.Kind != tt.want {
			t.Errorf("MapItemTransition(%d).Kind = %v, want %v", tt.code, got.Kind, tt.want)
		}
		if got.Position != 12*time.Second {
			t.Errorf("MapItemTransition(%d).Position = %v, want 12s", tt.code, got.Position)
		}
	}
}

func TestTransitionKind_String(t *testing.T) {
	tests := []struct {
		kind TransitionKind
		want string
	}{
		{TransitionAuto, "Auto"},
		{TransitionSeek, "Seek"},
		{TransitionSeekAdjustment, "SeekAdjustment"},
		{TransitionQueueChanged, "QueueChanged"},
		{TransitionSkippedPeriod, "SkippedPeriod"},
		{TransitionUnknown, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestItemTransitionKind_String(t *testing.T) {
	tests := []struct {
		kind ItemTransitionKind
		want string
	}{
		{ItemTransitionAuto, "Auto"},
		{ItemTransitionQueueChanged, "QueueChanged"},
		{ItemTransitionRepeat, "Repeat"},
		{ItemTransitionSeekToAnotherItem, "SeekToAnotherItem"},
		{ItemTransitionKind(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
