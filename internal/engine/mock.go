package engine

import "time"

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

// Mock is a scriptable test double for the engine. Tests drive it by
// calling EmitTick / EmitDiscontinuity / EmitError / EmitMetadata;
// control methods only record their invocations. Callbacks run on the
// caller's goroutine, which stands in for the dispatch context.
type Mock struct {
	MockPhase         Phase
	MockPlayWhenReady bool
	MockIsPlaying     bool
	MockPosition      time.Duration
	MockDuration      time.Duration
	MockItem          *Item
	MockQueueLen      int
	MockQueueIndex    int
	MockRate          float64

	PlayCalls     int
	PauseCalls    int
	StopCalls     int
	NextCalls     int
	PreviousCalls int
	SeekToCalls   []time.Duration
	SeekByCalls   []time.Duration
	RateCalls     []float64
	QueueSets     [][]Item

	PlayErr error

	listeners []Listener
}

// NewMock creates a mock engine in the idle phase.
func NewMock() *Mock {
	return &Mock{MockPhase: PhaseIdle, MockQueueIndex: -1, MockRate: 1.0}
}

func (m *Mock) Play() error {
	m.PlayCalls++
	return m.PlayErr
}

func (m *Mock) Pause() { m.PauseCalls++ }

func (m *Mock) Stop() { m.StopCalls++ }

func (m *Mock) Next() error {
	m.NextCalls++
	return nil
}

func (m *Mock) Previous() error {
	m.PreviousCalls++
	return nil
}

func (m *Mock) SeekTo(pos time.Duration) { m.SeekToCalls = append(m.SeekToCalls, pos) }

func (m *Mock) SeekBy(delta time.Duration) { m.SeekByCalls = append(m.SeekByCalls, delta) }

func (m *Mock) SetRate(rate float64) { m.RateCalls = append(m.RateCalls, rate) }

func (m *Mock) SetQueue(items []Item) {
	m.QueueSets = append(m.QueueSets, items)
	m.MockQueueLen = len(items)
}

func (m *Mock) Append(items ...Item) { m.MockQueueLen += len(items) }

func (m *Mock) ClearQueue() { m.MockQueueLen = 0 }

func (m *Mock) AddListener(l Listener) { m.listeners = append(m.listeners, l) }

func (m *Mock) Close() error { return nil }

func (m *Mock) Phase() Phase { return m.MockPhase }

func (m *Mock) PlayWhenReady() bool { return m.MockPlayWhenReady }

func (m *Mock) IsPlaying() bool { return m.MockIsPlaying }

func (m *Mock) Position() time.Duration { return m.MockPosition }

func (m *Mock) Duration() time.Duration { return m.MockDuration }

func (m *Mock) CurrentItem() *Item { return m.MockItem }

func (m *Mock) QueueLen() int { return m.MockQueueLen }

func (m *Mock) QueueIndex() int { return m.MockQueueIndex }

func (m *Mock) HasNext() bool { return m.MockQueueIndex+1 < m.MockQueueLen }

func (m *Mock) Rate() float64 { return m.MockRate }

// EmitTick delivers a batch of signals to every listener.
func (m *Mock) EmitTick(signals ...Signal) {
	for _, l := range m.listeners {
		l.OnTick(m, signals)
	}
}

// EmitDiscontinuity delivers a position discontinuity to every listener.
func (m *Mock) EmitDiscontinuity(oldPos, newPos time.Duration, code DiscontinuityCode) {
	for _, l := range m.listeners {
		l.OnPositionDiscontinuity(oldPos, newPos, code)
	}
}

// EmitError delivers a playback error to every listener.
func (m *Mock) EmitError(err *Error) {
	for _, l := range m.listeners {
		l.OnPlaybackError(err)
	}
}

// EmitMetadata delivers a metadata blob to every listener.
func (m *Mock) EmitMetadata(meta Metadata) {
	for _, l := range m.listeners {
		l.OnMetadata(meta)
	}
}
