package playback

import (
	"sync"

	"github.com/llehouerou/cadence/internal/engine"
)

// Holder is the latest-value store for every observable signal. Writes
// come from the service's dispatch context only; reads are safe from
// any goroutine. It carries no logic beyond storage and fan-out.
type Holder struct {
	mu sync.RWMutex

	state      State
	position   *TransitionReason
	itemChange *ItemChange
	errInfo    *ErrorInfo
	command    Command
	metadata   engine.Metadata
	rating     Rating

	subsMu sync.Mutex
	subs   []*Subscription
}

// NewHolder creates a holder in the Idle state.
func NewHolder() *Holder {
	return &Holder{state: StateIdle}
}

// Subscribe creates a new event subscription.
func (h *Holder) Subscribe() *Subscription {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	sub := newSubscription()
	h.subs = append(h.subs, sub)
	return sub
}

// Close closes every subscription.
func (h *Holder) Close() {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	for _, sub := range h.subs {
		sub.close()
	}
	h.subs = nil
}

func (h *Holder) each(fn func(*Subscription)) {
	h.subsMu.Lock()
	subs := h.subs
	h.subsMu.Unlock()
	for _, sub := range subs {
		fn(sub)
	}
}

// setState stores and broadcasts a state transition. The reconciler is
// the only writer.
func (h *Holder) setState(prev, cur State) {
	h.mu.Lock()
	h.state = cur
	h.mu.Unlock()
	e := StateChange{Previous: prev, Current: cur}
	h.each(func(s *Subscription) { s.sendState(e) })
}

// SetPosition stores and broadcasts a position transition reason.
func (h *Holder) SetPosition(r TransitionReason) {
	h.mu.Lock()
	h.position = &r
	h.mu.Unlock()
	h.each(func(s *Subscription) { s.sendPosition(r) })
}

// SetItem stores and broadcasts an item change.
func (h *Holder) SetItem(e ItemChange) {
	h.mu.Lock()
	h.itemChange = &e
	h.mu.Unlock()
	h.each(func(s *Subscription) { s.sendItem(e) })
}

// SetError stores and broadcasts a playback error.
func (h *Holder) SetError(info ErrorInfo) {
	h.mu.Lock()
	h.errInfo = &info
	h.mu.Unlock()
	h.each(func(s *Subscription) { s.sendError(info) })
}

// ClearError drops the stored error without broadcasting. Called on
// item transitions: a new item starts with a clean slate.
func (h *Holder) ClearError() {
	h.mu.Lock()
	h.errInfo = nil
	h.mu.Unlock()
}

// SetCommand stores and broadcasts an intercepted external command.
func (h *Holder) SetCommand(c Command) {
	h.mu.Lock()
	h.command = c
	h.mu.Unlock()
	h.each(func(s *Subscription) { s.sendCommand(c) })
}

// SetMetadata stores and broadcasts a metadata blob.
func (h *Holder) SetMetadata(m engine.Metadata) {
	h.mu.Lock()
	h.metadata = m
	h.mu.Unlock()
	h.each(func(s *Subscription) { s.sendMetadata(m) })
}

// SetRating stores and broadcasts the user rating.
func (h *Holder) SetRating(r Rating) {
	h.mu.Lock()
	h.rating = r
	h.mu.Unlock()
	h.each(func(s *Subscription) { s.sendRating(r) })
}

// State returns the latest reconciled state.
func (h *Holder) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// LastPosition returns the latest position transition reason, or nil.
func (h *Holder) LastPosition() *TransitionReason {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.position
}

// LastItemChange returns the latest item change, or nil.
func (h *Holder) LastItemChange() *ItemChange {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.itemChange
}

// LastError returns the latest playback error, or nil when none is
// pending.
func (h *Holder) LastError() *ErrorInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.errInfo
}

// LastCommand returns the latest intercepted command, or nil.
func (h *Holder) LastCommand() Command {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.command
}

// LastMetadata returns the latest metadata blob, or nil.
func (h *Holder) LastMetadata() engine.Metadata {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.metadata
}

// CurrentRating returns the latest user rating.
func (h *Holder) CurrentRating() Rating {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rating
}
