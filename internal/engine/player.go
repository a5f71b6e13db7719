package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// speakerRate is the fixed output sample rate. Streams at other rates
// are resampled on the fly.
const speakerRate beep.SampleRate = 44100

const opBufferSize = 32

// ErrQueueEmpty is returned by transport commands that need at least
// one queued item.
var ErrQueueEmpty = errors.New("queue is empty")

var speakerInitialized bool

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)

// PlayerOptions configures the concrete engine.
type PlayerOptions struct {
	// SpeakerBuffer is the output buffer duration. Zero means the
	// default; anything else is handed to the speaker unvalidated and
	// bad values surface as an audio device error on first load.
	SpeakerBuffer time.Duration
}

// Player is the concrete engine backed by the beep speaker. All state
// transitions and listener callbacks run on a single dispatch
// goroutine; control methods post work to it and return.
type Player struct {
	state playerState

	// streamMu guards the streamer and format fields against
	// cross-goroutine Position/Duration reads racing a teardown on the
	// dispatch goroutine.
	streamMu sync.Mutex

	// queueLen shadows len(state.queue) for the synchronous
	// queue-empty guards, which run on the caller's goroutine.
	queueLen atomic.Int64

	speakerBuffer time.Duration

	ops      chan func()
	finished chan struct{}
	done     chan struct{}

	listeners []Listener
}

// playerState is only touched from the dispatch goroutine, except for
// the snapshot fields published through snapshotView.
type playerState struct {
	phase         Phase
	playWhenReady bool
	rate          float64
	repeat        RepeatMode

	queue []Item
	index int // -1 when nothing current

	ctrl     *beep.Ctrl
	rateCtl  *beep.Resampler
	streamer beep.StreamSeekCloser
	format   beep.Format
	file     *os.File
}

// NewPlayer creates a new engine and starts its dispatch goroutine.
func NewPlayer(opts PlayerOptions) *Player {
	buf := opts.SpeakerBuffer
	if buf == 0 {
		buf = 100 * time.Millisecond
	}
	p := &Player{
		state: playerState{
			phase: PhaseIdle,
			rate:  1.0,
			index: -1,
		},
		speakerBuffer: buf,
		ops:           make(chan func(), opBufferSize),
		finished:      make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	go p.loop()
	return p
}

// AddListener registers a listener. Must be called before playback
// starts; listeners are invoked from the dispatch goroutine.
func (p *Player) AddListener(l Listener) {
	done := make(chan struct{})
	p.post(func() {
		p.listeners = append(p.listeners, l)
		close(done)
	})
	<-done
}

// Close stops playback and shuts down the dispatch goroutine.
func (p *Player) Close() error {
	p.post(func() {
		p.stopLocked(false)
		close(p.done)
	})
	<-p.done
	return nil
}

// post enqueues fn for the dispatch goroutine. Drops nothing: ops is
// sized for the realistic command burst and callers block if it fills.
func (p *Player) post(fn func()) {
	select {
	case <-p.done:
	case p.ops <- fn:
	}
}

func (p *Player) loop() {
	for {
		select {
		case <-p.done:
			return
		case fn := <-p.ops:
			fn()
		case <-p.finished:
			p.handleFinished()
		}
	}
}

// emit invokes OnTick on every listener. Caller is the dispatch
// goroutine.
func (p *Player) emit(signals ...Signal) {
	if len(signals) == 0 {
		return
	}
	for _, l := range p.listeners {
		l.OnTick(p, signals)
	}
}

func (p *Player) emitDiscontinuity(oldPos, newPos time.Duration, code DiscontinuityCode) {
	for _, l := range p.listeners {
		l.OnPositionDiscontinuity(oldPos, newPos, code)
	}
}

func (p *Player) emitError(err *Error) {
	for _, l := range p.listeners {
		l.OnPlaybackError(err)
	}
}

func (p *Player) emitMetadata(meta Metadata) {
	if len(meta) == 0 {
		return
	}
	for _, l := range p.listeners {
		l.OnMetadata(meta)
	}
}

// SetQueue replaces the queue. Current playback stops; the first item
// becomes current without starting playback.
func (p *Player) SetQueue(items []Item) {
	p.post(func() {
		oldPos := p.streamPosition()
		p.releaseStream()
		p.state.queue = append([]Item(nil), items...)
		p.queueLen.Store(int64(len(p.state.queue)))
		if len(items) > 0 {
			p.state.index = 0
		} else {
			p.state.index = -1
		}
		p.emitDiscontinuity(oldPos, 0, DiscontinuityRemove)
		signals := []Signal{itemTransitionSignal(p.currentLocked(), ItemTransitionQueueChanged)}
		if p.state.phase != PhaseIdle {
			p.state.phase = PhaseIdle
			signals = append(signals, Signal{Kind: SignalPhaseChanged, Phase: PhaseIdle})
		}
		p.emit(signals...)
	})
}

// Append adds items to the end of the queue.
func (p *Player) Append(items ...Item) {
	p.post(func() {
		hadCurrent := p.state.index >= 0
		p.state.queue = append(p.state.queue, items...)
		p.queueLen.Store(int64(len(p.state.queue)))
		if !hadCurrent && len(p.state.queue) > 0 {
			p.state.index = 0
			p.emit(itemTransitionSignal(p.currentLocked(), ItemTransitionQueueChanged))
		}
	})
}

// ClearQueue removes all items and stops playback.
func (p *Player) ClearQueue() {
	p.SetQueue(nil)
}

// SetRepeatMode sets the repeat behavior applied on auto-advance.
func (p *Player) SetRepeatMode(mode RepeatMode) {
	p.post(func() { p.state.repeat = mode })
}

func itemTransitionSignal(item *Item, code ItemTransitionCode) Signal {
	return Signal{Kind: SignalItemTransition, Item: item, ItemReason: code}
}

func (p *Player) currentLocked() *Item {
	if p.state.index < 0 || p.state.index >= len(p.state.queue) {
		return nil
	}
	it := p.state.queue[p.state.index]
	return &it
}

// releaseStream tears down the active stream without emitting signals.
// The streamer field is nilled under streamMu so a concurrent position
// read never dereferences a closed stream.
func (p *Player) releaseStream() {
	if p.state.streamer == nil && p.state.file == nil {
		return
	}
	speaker.Clear()
	p.streamMu.Lock()
	streamer := p.state.streamer
	p.state.streamer = nil
	p.streamMu.Unlock()
	if streamer != nil {
		streamer.Close()
	}
	if p.state.file != nil {
		p.state.file.Close()
		p.state.file = nil
	}
	p.state.ctrl = nil
	p.state.rateCtl = nil
}

// loadCurrent opens and decodes the current item and hands it to the
// speaker. Emits Buffering before decode and Ready after; decode
// failures surface through OnPlaybackError plus an idle phase signal.
func (p *Player) loadCurrent(transition *Signal) {
	p.releaseStream()

	item := p.currentLocked()
	if item == nil {
		return
	}

	signals := []Signal{}
	if transition != nil {
		signals = append(signals, *transition)
	}
	p.state.phase = PhaseBuffering
	signals = append(signals, Signal{Kind: SignalPhaseChanged, Phase: PhaseBuffering})
	p.emit(signals...)

	streamer, format, file, err := decode(item.Path)
	if err != nil {
		p.state.phase = PhaseIdle
		p.emitError(classifyDecodeError(item.Path, err))
		p.emit(Signal{Kind: SignalPhaseChanged, Phase: PhaseIdle})
		return
	}

	if !speakerInitialized {
		if err := speaker.Init(speakerRate, speakerRate.N(p.speakerBuffer)); err != nil {
			streamer.Close()
			file.Close()
			p.state.phase = PhaseIdle
			p.emitError(&Error{Code: ErrCodeAudioDeviceFail, Message: err.Error()})
			p.emit(Signal{Kind: SignalPhaseChanged, Phase: PhaseIdle})
			return
		}
		speakerInitialized = true
	}

	p.streamMu.Lock()
	p.state.streamer = streamer
	p.state.format = format
	p.streamMu.Unlock()
	p.state.file = file
	p.state.ctrl = &beep.Ctrl{Streamer: streamer, Paused: !p.state.playWhenReady}

	resampled := beep.Resample(4, format.SampleRate, speakerRate, p.state.ctrl)
	p.state.rateCtl = beep.ResampleRatio(4, p.state.rate, resampled)

	speaker.Play(beep.Seq(p.state.rateCtl, beep.Callback(func() {
		select {
		case p.finished <- struct{}{}:
		default:
		}
	})))

	p.state.phase = PhaseReady
	p.emitMetadata(readStreamMetadata(item.Path))
	ready := []Signal{{Kind: SignalPhaseChanged, Phase: PhaseReady}}
	if p.state.playWhenReady {
		ready = append(ready, Signal{Kind: SignalIsPlayingChanged, IsPlaying: true})
	}
	p.emit(ready...)
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("unsupported format: %s", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, nil, err
	}
	return streamer, format, f, nil
}

func classifyDecodeError(path string, err error) *Error {
	switch {
	case os.IsNotExist(err):
		return &Error{Code: ErrCodeIOFileNotFound, Message: path}
	case strings.Contains(err.Error(), "unsupported format"):
		return &Error{Code: ErrCodeUnsupported, Message: err.Error()}
	default:
		return &Error{Code: ErrCodeDecodingFailed, Message: err.Error()}
	}
}

// handleFinished advances the queue when a stream plays to completion,
// honoring the repeat mode.
func (p *Player) handleFinished() {
	if p.state.streamer == nil {
		return
	}
	endPos := p.streamDuration()

	switch {
	case p.state.repeat == RepeatOne:
		p.emitDiscontinuity(endPos, 0, DiscontinuityAutoTransition)
		p.loadCurrent(ptr(itemTransitionSignal(p.currentLocked(), ItemTransitionRepeat)))
	case p.state.index+1 < len(p.state.queue):
		p.state.index++
		p.emitDiscontinuity(endPos, 0, DiscontinuityAutoTransition)
		p.loadCurrent(ptr(itemTransitionSignal(p.currentLocked(), ItemTransitionAuto)))
	case p.state.repeat == RepeatAll && len(p.state.queue) > 0:
		p.state.index = 0
		p.emitDiscontinuity(endPos, 0, DiscontinuityAutoTransition)
		p.loadCurrent(ptr(itemTransitionSignal(p.currentLocked(), ItemTransitionRepeat)))
	default:
		p.releaseStream()
		p.state.phase = PhaseEnded
		p.emit(
			Signal{Kind: SignalIsPlayingChanged, IsPlaying: false},
			Signal{Kind: SignalPhaseChanged, Phase: PhaseEnded},
		)
	}
}

func ptr(s Signal) *Signal { return &s }

// streamPosition reads the decoder position under the speaker lock so
// it never races a concurrent Stream call. Cross-goroutine callers
// additionally hold streamMu; dispatch-context callers need not, being
// the only writer of the streamer field.
func (p *Player) streamPosition() time.Duration {
	if p.state.streamer == nil {
		return 0
	}
	speaker.Lock()
	n := p.state.streamer.Position()
	speaker.Unlock()
	return p.state.format.SampleRate.D(n)
}

// streamDuration reads the stream length. Same locking contract as
// streamPosition.
func (p *Player) streamDuration() time.Duration {
	if p.state.streamer == nil {
		return 0
	}
	speaker.Lock()
	n := p.state.streamer.Len()
	speaker.Unlock()
	return p.state.format.SampleRate.D(n)
}
