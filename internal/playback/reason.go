package playback

import (
	"time"

	"github.com/llehouerou/cadence/internal/engine"
)

// TransitionKind classifies why the playback position jumped.
type TransitionKind int

const (
	TransitionAuto TransitionKind = iota
	TransitionSeek
	TransitionSeekAdjustment
	TransitionQueueChanged
	TransitionSkippedPeriod
	TransitionUnknown
)

// String returns the transition kind name.
func (k TransitionKind) String() string {
	switch k {
	case TransitionAuto:
		return "Auto"
	case TransitionSeek:
		return "Seek"
	case TransitionSeekAdjustment:
		return "SeekAdjustment"
	case TransitionQueueChanged:
		return "QueueChanged"
	case TransitionSkippedPeriod:
		return "SkippedPeriod"
	case TransitionUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// TransitionReason records a position discontinuity: what kind of jump
// it was and the positions on either side of it.
type TransitionReason struct {
	Kind TransitionKind
	Old  time.Duration
	New  time.Duration
}

// MapDiscontinuity converts the engine's discontinuity code into a
// TransitionReason. The mapping is one-to-one; codes this layer does
// not know about collapse to Unknown.
func MapDiscontinuity(code engine.DiscontinuityCode, oldPos, newPos time.Duration) TransitionReason {
	r := TransitionReason{Old: oldPos, New: newPos}
	switch code {
	case engine.DiscontinuityAutoTransition:
		r.Kind = TransitionAuto
	case engine.DiscontinuitySeek:
		r.Kind = TransitionSeek
	case engine.DiscontinuitySeekAdjustment:
		r.Kind = TransitionSeekAdjustment
	case engine.DiscontinuityRemove:
		r.Kind = TransitionQueueChanged
	case engine.DiscontinuitySkip:
		r.Kind = TransitionSkippedPeriod
	case engine.DiscontinuityInternal:
		r.Kind = TransitionUnknown
	default:
		r.Kind = TransitionUnknown
	}
	return r
}

// ItemTransitionKind classifies why the current item changed.
type ItemTransitionKind int

const (
	ItemTransitionAuto ItemTransitionKind = iota
	ItemTransitionQueueChanged
	ItemTransitionRepeat
	ItemTransitionSeekToAnotherItem
)

// String returns the item transition kind name.
func (k ItemTransitionKind) String() string {
	switch k {
	case ItemTransitionAuto:
		return "Auto"
	case ItemTransitionQueueChanged:
		return "QueueChanged"
	case ItemTransitionRepeat:
		return "Repeat"
	case ItemTransitionSeekToAnotherItem:
		return "SeekToAnotherItem"
	default:
		return "Unknown"
	}
}

// ItemTransitionReason records why the current item changed and the
// playback position at the time of the transition.
type ItemTransitionReason struct {
	Kind     ItemTransitionKind
	Position time.Duration
}

// MapItemTransition converts the engine's item transition code into an
// ItemTransitionReason at the given position.
func MapItemTransition(code engine.ItemTransitionCode, pos time.Duration) ItemTransitionReason {
	r := ItemTransitionReason{Position: pos}
	switch code {
	case engine.ItemTransitionAuto:
		r.Kind = ItemTransitionAuto
	case engine.ItemTransitionQueueChanged:
		r.Kind = ItemTransitionQueueChanged
	case engine.ItemTransitionRepeat:
		r.Kind = ItemTransitionRepeat
	case engine.ItemTransitionSeek:
		r.Kind = ItemTransitionSeekToAnotherItem
	default:
		r.Kind = ItemTransitionAuto
	}
	return r
}
