package playback

import (
	"time"

	"github.com/llehouerou/cadence/internal/engine"
)

// Default seek increments for Forward and Rewind.
const (
	DefaultForwardBy = 15 * time.Second
	DefaultRewindBy  = 5 * time.Second
)

// Options configures a Service at construction.
type Options struct {
	// InterceptCommands routes externally-issued transport commands to
	// the holder instead of the engine. Fixed for the service lifetime.
	InterceptCommands bool

	// ForwardBy and RewindBy are the Forward/Rewind seek increments.
	// Zero means the default.
	ForwardBy time.Duration
	RewindBy  time.Duration
}

// Service is the audio-player facade: it owns the reconciler and the
// holder, subscribes to the engine, and exposes the transport surface.
type Service interface {
	Controls

	// SeekBy moves the position by a delta, negative for rewind.
	SeekBy(delta time.Duration)

	// Queue manipulation
	SetQueue(items []engine.Item)
	Append(items ...engine.Item)
	ClearQueue()

	// Mode control
	RepeatMode() engine.RepeatMode
	SetRepeatMode(mode engine.RepeatMode)

	// State queries (safe from any goroutine)
	State() State
	Position() time.Duration
	Duration() time.Duration
	CurrentItem() *engine.Item
	QueueLen() int
	QueueIndex() int
	HasNext() bool
	Rate() float64

	// Rating
	SetRating(r Rating)

	// External surface: the possibly-intercepting transport used by
	// the media session and other out-of-process controllers.
	External() *Forwarder

	// Event access
	Holder() *Holder
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
