package playback

import (
	"sync"
	"time"

	"github.com/llehouerou/cadence/internal/engine"
)

// Verify serviceImpl implements Service and engine.Listener at compile
// time.
var (
	_ Service         = (*serviceImpl)(nil)
	_ engine.Listener = (*serviceImpl)(nil)
)

// repeatControl is the optional engine capability behind
// SetRepeatMode.
type repeatControl interface {
	SetRepeatMode(mode engine.RepeatMode)
}

type serviceImpl struct {
	// mu serializes reconciler access: engine callbacks arrive on the
	// engine's dispatch goroutine, forced transitions (Stop, error
	// recovery) on the caller's.
	mu sync.Mutex

	engine     engine.Interface
	holder     *Holder
	reconciler *Reconciler
	external   *Forwarder

	forwardBy time.Duration
	rewindBy  time.Duration

	// mirror holds the engine queue view captured on the dispatch
	// context, so cross-goroutine queries never race the engine.
	mirrorMu sync.RWMutex
	mirror   struct {
		item       *engine.Item
		queueLen   int
		queueIndex int
		hasNext    bool
		rate       float64
		repeat     engine.RepeatMode
	}

	closed bool
}

// New creates a playback service over the given engine and registers
// it as a listener.
func New(e engine.Interface, opts Options) Service {
	s := &serviceImpl{
		engine:    e,
		holder:    NewHolder(),
		forwardBy: opts.ForwardBy,
		rewindBy:  opts.RewindBy,
	}
	if s.forwardBy <= 0 {
		s.forwardBy = DefaultForwardBy
	}
	if s.rewindBy <= 0 {
		s.rewindBy = DefaultRewindBy
	}
	s.reconciler = NewReconciler(s.holder)
	s.external = NewForwarder(s, s.holder, opts.InterceptCommands)
	s.mirror.queueIndex = -1
	s.mirror.rate = 1.0
	e.AddListener(s)
	return s
}

// OnTick refreshes the queue mirror and feeds the batch to the
// reconciler in order. Item transitions additionally publish their
// classified reason.
func (s *serviceImpl) OnTick(snap engine.Snapshot, signals []engine.Signal) {
	s.refreshMirror(snap)

	s.mu.Lock()
	s.reconciler.Apply(snap, signals)
	s.mu.Unlock()

	for _, sig := range signals {
		if sig.Kind != engine.SignalItemTransition {
			continue
		}
		s.holder.SetItem(ItemChange{
			Item:   sig.Item,
			Reason: MapItemTransition(sig.ItemReason, snap.Position()),
		})
	}
}

// OnPositionDiscontinuity classifies and publishes the position jump.
func (s *serviceImpl) OnPositionDiscontinuity(oldPos, newPos time.Duration, code engine.DiscontinuityCode) {
	s.holder.SetPosition(MapDiscontinuity(code, oldPos, newPos))
}

// OnPlaybackError publishes the normalized error and forces the Error
// state ahead of the engine's idle wind-down.
func (s *serviceImpl) OnPlaybackError(err *engine.Error) {
	s.holder.SetError(NewErrorInfo(err))
	s.mu.Lock()
	s.reconciler.ForceError()
	s.mu.Unlock()
}

// OnMetadata publishes the metadata blob.
func (s *serviceImpl) OnMetadata(meta engine.Metadata) {
	s.holder.SetMetadata(meta)
}

func (s *serviceImpl) refreshMirror(snap engine.Snapshot) {
	s.mirrorMu.Lock()
	s.mirror.item = snap.CurrentItem()
	s.mirror.queueLen = snap.QueueLen()
	s.mirror.queueIndex = snap.QueueIndex()
	s.mirror.hasNext = snap.HasNext()
	s.mirror.rate = snap.Rate()
	s.mirrorMu.Unlock()
}

// Transport surface (direct: always reaches the engine).

func (s *serviceImpl) Play() error {
	s.mu.Lock()
	if s.reconciler.State().IsTerminal() {
		// Restarting out of Stopped/Error: lift the idle suppression
		// before the engine reports its way back up.
		s.reconciler.Reset()
	}
	s.mu.Unlock()
	return s.engine.Play()
}

func (s *serviceImpl) Pause() { s.engine.Pause() }

func (s *serviceImpl) Stop() {
	// Stopped must be set before the engine's idle signal lands so the
	// reconciler can tell a genuine idle from a stop side effect.
	s.mu.Lock()
	s.reconciler.ForceStop()
	s.mu.Unlock()
	s.engine.Stop()
}

func (s *serviceImpl) Next() error { return s.engine.Next() }

func (s *serviceImpl) Previous() error { return s.engine.Previous() }

func (s *serviceImpl) Forward() { s.engine.SeekBy(s.forwardBy) }

func (s *serviceImpl) Rewind() { s.engine.SeekBy(-s.rewindBy) }

func (s *serviceImpl) SeekTo(pos time.Duration) { s.engine.SeekTo(pos) }

func (s *serviceImpl) SeekBy(delta time.Duration) { s.engine.SeekBy(delta) }

func (s *serviceImpl) SetRate(rate float64) {
	s.engine.SetRate(rate)
	s.mirrorMu.Lock()
	s.mirror.rate = rate
	s.mirrorMu.Unlock()
}

// Queue manipulation.

func (s *serviceImpl) SetQueue(items []engine.Item) { s.engine.SetQueue(items) }

func (s *serviceImpl) Append(items ...engine.Item) { s.engine.Append(items...) }

func (s *serviceImpl) ClearQueue() { s.engine.ClearQueue() }

// Mode control.

func (s *serviceImpl) RepeatMode() engine.RepeatMode {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.mirror.repeat
}

func (s *serviceImpl) SetRepeatMode(mode engine.RepeatMode) {
	if rc, ok := s.engine.(repeatControl); ok {
		rc.SetRepeatMode(mode)
	}
	s.mirrorMu.Lock()
	s.mirror.repeat = mode
	s.mirrorMu.Unlock()
}

// State queries.

func (s *serviceImpl) State() State { return s.holder.State() }

func (s *serviceImpl) Position() time.Duration { return s.engine.Position() }

// Duration returns the live stream length, falling back to the current
// item's duration hint while nothing is loaded.
func (s *serviceImpl) Duration() time.Duration {
	if d := s.engine.Duration(); d > 0 {
		return d
	}
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	if s.mirror.item != nil {
		return s.mirror.item.Duration
	}
	return 0
}

func (s *serviceImpl) CurrentItem() *engine.Item {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.mirror.item
}

func (s *serviceImpl) QueueLen() int {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.mirror.queueLen
}

func (s *serviceImpl) QueueIndex() int {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.mirror.queueIndex
}

func (s *serviceImpl) HasNext() bool {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.mirror.hasNext
}

func (s *serviceImpl) Rate() float64 {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.mirror.rate
}

// SetRating publishes the user rating for the current item.
func (s *serviceImpl) SetRating(r Rating) { s.holder.SetRating(r) }

func (s *serviceImpl) External() *Forwarder { return s.external }

func (s *serviceImpl) Holder() *Holder { return s.holder }

func (s *serviceImpl) Subscribe() *Subscription { return s.holder.Subscribe() }

// Close shuts down the service and its subscriptions. The engine is
// owned by the caller and stays open.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.holder.Close()
	return nil
}
