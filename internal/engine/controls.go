package engine

import (
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

// Play starts or resumes playback of the current item. Returns
// ErrQueueEmpty when nothing is queued; load failures are reported
// asynchronously through OnPlaybackError.
func (p *Player) Play() error {
	if p.QueueLen() == 0 {
		return ErrQueueEmpty
	}
	p.post(func() {
		if p.state.index < 0 {
			p.state.index = 0
		}
		wasReady := p.state.playWhenReady
		p.state.playWhenReady = true

		switch p.state.phase {
		case PhaseReady:
			if p.state.ctrl != nil && !wasReady {
				speaker.Lock()
				p.state.ctrl.Paused = false
				speaker.Unlock()
				p.emit(
					Signal{Kind: SignalPlayWhenReadyChanged, PlayWhenReady: true},
					Signal{Kind: SignalIsPlayingChanged, IsPlaying: true},
				)
			}
		case PhaseIdle, PhaseEnded:
			if p.state.phase == PhaseEnded {
				p.state.index = 0
			}
			if !wasReady {
				p.emit(Signal{Kind: SignalPlayWhenReadyChanged, PlayWhenReady: true})
			}
			p.loadCurrent(nil)
		case PhaseBuffering:
			// Load already in flight.
		}
	})
	return nil
}

// Pause suspends playback, keeping the current item and position.
func (p *Player) Pause() {
	p.post(func() {
		if !p.state.playWhenReady {
			return
		}
		p.state.playWhenReady = false
		if p.state.ctrl != nil {
			speaker.Lock()
			p.state.ctrl.Paused = true
			speaker.Unlock()
		}
		p.emit(
			Signal{Kind: SignalPlayWhenReadyChanged, PlayWhenReady: false},
			Signal{Kind: SignalIsPlayingChanged, IsPlaying: false},
		)
	})
}

// Stop halts playback and releases the stream. The queue and current
// index are kept so Play can restart from the same item.
func (p *Player) Stop() {
	p.post(func() { p.stopLocked(true) })
}

func (p *Player) stopLocked(signal bool) {
	if p.state.phase == PhaseIdle && p.state.streamer == nil {
		return
	}
	p.releaseStream()
	p.state.playWhenReady = false
	p.state.phase = PhaseIdle
	if signal {
		p.emit(
			Signal{Kind: SignalPlayWhenReadyChanged, PlayWhenReady: false},
			Signal{Kind: SignalIsPlayingChanged, IsPlaying: false},
			Signal{Kind: SignalPhaseChanged, Phase: PhaseIdle},
		)
	}
}

// Next skips to the next queued item.
func (p *Player) Next() error {
	if p.QueueLen() == 0 {
		return ErrQueueEmpty
	}
	p.post(func() {
		if p.state.index+1 >= len(p.state.queue) {
			return
		}
		oldPos := p.streamPosition()
		p.state.index++
		p.emitDiscontinuity(oldPos, 0, DiscontinuitySkip)
		p.loadCurrent(ptr(itemTransitionSignal(p.currentLocked(), ItemTransitionSeek)))
	})
	return nil
}

// Previous skips to the previous queued item.
func (p *Player) Previous() error {
	if p.QueueLen() == 0 {
		return ErrQueueEmpty
	}
	p.post(func() {
		if p.state.index <= 0 {
			return
		}
		oldPos := p.streamPosition()
		p.state.index--
		p.emitDiscontinuity(oldPos, 0, DiscontinuitySkip)
		p.loadCurrent(ptr(itemTransitionSignal(p.currentLocked(), ItemTransitionSeek)))
	})
	return nil
}

// SeekTo moves the playback position of the current item. Positions
// past the end are clamped and reported as a seek adjustment; seeking
// at or past the very end finishes the item.
func (p *Player) SeekTo(pos time.Duration) {
	p.post(func() { p.seekLocked(pos) })
}

// SeekBy moves the playback position by a delta, negative for rewind.
func (p *Player) SeekBy(delta time.Duration) {
	p.post(func() { p.seekLocked(p.streamPosition() + delta) })
}

func (p *Player) seekLocked(pos time.Duration) {
	if p.state.streamer == nil {
		return
	}
	oldPos := p.streamPosition()
	total := p.streamDuration()

	if pos >= total {
		// Treat as track finished rather than parking on the last sample.
		select {
		case p.finished <- struct{}{}:
		default:
		}
		return
	}

	code := DiscontinuitySeek
	if pos < 0 {
		pos = 0
		code = DiscontinuitySeekAdjustment
	}

	speaker.Lock()
	err := p.state.streamer.Seek(p.state.format.SampleRate.N(pos))
	speaker.Unlock()
	if err != nil {
		code = DiscontinuitySeekAdjustment
		pos = p.streamPosition()
	}
	p.emitDiscontinuity(oldPos, pos, code)
}

// SetRate changes the playback speed. Values at or below zero are
// ignored.
func (p *Player) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	p.post(func() {
		p.state.rate = rate
		if p.state.rateCtl != nil {
			speaker.Lock()
			p.state.rateCtl.SetRatio(rate)
			speaker.Unlock()
		}
	})
}

// Snapshot queries. Position, Duration and QueueLen are safe from any
// goroutine; the rest must be called from the dispatch context
// (listener callbacks). Cross-goroutine observers read the facade's
// holder and mirror instead.

func (p *Player) Phase() Phase { return p.state.phase }

func (p *Player) PlayWhenReady() bool { return p.state.playWhenReady }

func (p *Player) IsPlaying() bool {
	return p.state.playWhenReady && p.state.phase == PhaseReady
}

// Position returns the live playback position, zero when no stream is
// loaded.
func (p *Player) Position() time.Duration {
	p.streamMu.Lock()
	defer p.streamMu.Unlock()
	return p.streamPosition()
}

// Duration returns the loaded stream's length, zero when no stream is
// loaded. The facade falls back to the queue item's duration hint.
func (p *Player) Duration() time.Duration {
	p.streamMu.Lock()
	defer p.streamMu.Unlock()
	return p.streamDuration()
}

func (p *Player) CurrentItem() *Item { return p.currentLocked() }

func (p *Player) QueueLen() int { return int(p.queueLen.Load()) }

func (p *Player) QueueIndex() int { return p.state.index }

func (p *Player) HasNext() bool { return p.state.index+1 < len(p.state.queue) }

func (p *Player) Rate() float64 { return p.state.rate }
