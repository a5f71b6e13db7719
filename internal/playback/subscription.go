package playback

import "github.com/llehouerou/cadence/internal/engine"

const eventBufferSize = 16

// StateChange is emitted for every reconciled state transition.
type StateChange struct {
	Previous State
	Current  State
}

// ItemChange is emitted when the current item changes, carrying the
// classified reason.
type ItemChange struct {
	Item   *engine.Item // nil when nothing is current
	Reason ItemTransitionReason
}

// Rating is the user rating for the current item, 0.0 to 1.0.
type Rating struct {
	Rated bool
	Value float64
}

// Subscription provides event channels for one observer. Sends are
// non-blocking: a slow observer loses intermediate events but the
// holder always retains the latest value for polling.
type Subscription struct {
	StateChanged    <-chan StateChange
	PositionChanged <-chan TransitionReason
	ItemChanged     <-chan ItemChange
	Error           <-chan ErrorInfo
	Commands        <-chan Command
	Metadata        <-chan engine.Metadata
	RatingChanged   <-chan Rating
	Done            <-chan struct{}

	// Internal write channels
	stateCh    chan StateChange
	positionCh chan TransitionReason
	itemCh     chan ItemChange
	errorCh    chan ErrorInfo
	commandCh  chan Command
	metadataCh chan engine.Metadata
	ratingCh   chan Rating
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		positionCh: make(chan TransitionReason, eventBufferSize),
		itemCh:     make(chan ItemChange, eventBufferSize),
		errorCh:    make(chan ErrorInfo, eventBufferSize),
		commandCh:  make(chan Command, eventBufferSize),
		metadataCh: make(chan engine.Metadata, eventBufferSize),
		ratingCh:   make(chan Rating, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.PositionChanged = s.positionCh
	s.ItemChanged = s.itemCh
	s.Error = s.errorCh
	s.Commands = s.commandCh
	s.Metadata = s.metadataCh
	s.RatingChanged = s.ratingCh
	s.Done = s.doneCh
	return s
}

// close signals the observer to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

func (s *Subscription) sendPosition(e TransitionReason) {
	select {
	case s.positionCh <- e:
	default:
	}
}

func (s *Subscription) sendItem(e ItemChange) {
	select {
	case s.itemCh <- e:
	default:
	}
}

func (s *Subscription) sendError(e ErrorInfo) {
	select {
	case s.errorCh <- e:
	default:
	}
}

func (s *Subscription) sendCommand(c Command) {
	select {
	case s.commandCh <- c:
	default:
	}
}

func (s *Subscription) sendMetadata(m engine.Metadata) {
	select {
	case s.metadataCh <- m:
	default:
	}
}

func (s *Subscription) sendRating(r Rating) {
	select {
	case s.ratingCh <- r:
	default:
	}
}
