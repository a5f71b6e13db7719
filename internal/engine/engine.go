// Package engine defines the media engine contract: a control surface
// for transport commands and a listener contract through which the
// engine reports everything it does. The facade in internal/playback
// consumes both; it never reaches into decoder internals.
package engine

import "time"

// Phase represents the engine's internal lifecycle phase. This is the
// raw engine view; the public PlaybackState derived from it lives in
// internal/playback.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBuffering
	PhaseReady
	PhaseEnded
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBuffering:
		return "buffering"
	case PhaseReady:
		return "ready"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Item is an entry in the playback queue. Fields beyond Path are
// optional hints filled in by whoever builds the queue; the metadata
// resolver falls back to embedded tags when they are empty.
type Item struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// SignalKind identifies a primitive change notification within a tick.
type SignalKind int

const (
	SignalPhaseChanged SignalKind = iota
	SignalItemTransition
	SignalPlayWhenReadyChanged
	SignalIsPlayingChanged
)

// Signal is one primitive change notification. The engine delivers all
// signals produced by a single internal step together, in order, as one
// tick. Order matters: later signals in a tick can override state
// derived from earlier ones.
type Signal struct {
	Kind SignalKind

	// SignalPhaseChanged
	Phase Phase

	// SignalItemTransition
	Item       *Item // nil when nothing is current
	ItemReason ItemTransitionCode

	// SignalPlayWhenReadyChanged
	PlayWhenReady bool

	// SignalIsPlayingChanged
	IsPlaying bool
}

// DiscontinuityCode classifies why the playback position jumped.
type DiscontinuityCode int

const (
	DiscontinuityAutoTransition DiscontinuityCode = iota
	DiscontinuitySeek
	DiscontinuitySeekAdjustment
	DiscontinuityRemove
	DiscontinuitySkip
	DiscontinuityInternal
)

// ItemTransitionCode classifies why the current item changed.
type ItemTransitionCode int

const (
	ItemTransitionAuto ItemTransitionCode = iota
	ItemTransitionQueueChanged
	ItemTransitionRepeat
	ItemTransitionSeek
)

// Error is a structured playback error reported by the engine. Code is
// a stable SCREAMING_SNAKE identifier with an "ERROR_CODE_" prefix;
// Message is free-form and may be empty.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// Well-known error codes.
const (
	ErrCodeIOFileNotFound   = "ERROR_CODE_IO_FILE_NOT_FOUND"
	ErrCodeIOReadFailed     = "ERROR_CODE_IO_READ_FAILED"
	ErrCodeDecodingFailed   = "ERROR_CODE_DECODING_FAILED"
	ErrCodeUnsupported      = "ERROR_CODE_DECODING_FORMAT_UNSUPPORTED"
	ErrCodeAudioDeviceFail  = "ERROR_CODE_AUDIO_TRACK_INIT_FAILED"
	ErrCodeBehindLiveWindow = "ERROR_CODE_BEHIND_LIVE_WINDOW"
)

// Metadata is a blob of timed or static metadata surfaced during
// playback (stream tags, ICY titles). Keys are lowercase.
type Metadata map[string]string

// Snapshot is the read-only engine state a listener may consult while
// handling a tick. Position, Duration and QueueLen are safe from any
// goroutine; the rest must be called from the callback context only.
type Snapshot interface {
	Phase() Phase
	PlayWhenReady() bool
	IsPlaying() bool
	Position() time.Duration
	Duration() time.Duration
	CurrentItem() *Item
	QueueLen() int
	QueueIndex() int
	HasNext() bool
	Rate() float64
}

// Listener receives engine callbacks. All callbacks for one engine
// instance are invoked sequentially from a single dispatch goroutine;
// implementations need no locking as long as state stays confined to
// that goroutine.
type Listener interface {
	// OnTick delivers the ordered batch of change signals produced by
	// one engine step.
	OnTick(snap Snapshot, signals []Signal)

	// OnPositionDiscontinuity reports a position jump with old and new
	// positions and the reason code.
	OnPositionDiscontinuity(oldPos, newPos time.Duration, code DiscontinuityCode)

	// OnPlaybackError reports a fatal playback error. The engine also
	// emits a phase change to idle in the same step.
	OnPlaybackError(err *Error)

	// OnMetadata delivers embedded or timed metadata for the current
	// item.
	OnMetadata(meta Metadata)
}

// Interface is the engine control surface. Control methods are
// asynchronous: they enqueue work for the engine's dispatch goroutine
// and completion is observed through the Listener. A later command
// supersedes an earlier one once processed; there is no cancellation
// primitive.
type Interface interface {
	Snapshot

	Play() error
	Pause()
	Stop()
	Next() error
	Previous() error
	SeekTo(pos time.Duration)
	SeekBy(delta time.Duration)
	SetRate(rate float64)

	SetQueue(items []Item)
	Append(items ...Item)
	ClearQueue()

	AddListener(l Listener)
	Close() error
}
