package playback

import "time"

// Controls is the transport surface the forwarder sits in front of:
// the service implements it with real engine calls.
type Controls interface {
	Play() error
	Pause()
	Next() error
	Previous() error
	Forward()
	Rewind()
	Stop()
	SeekTo(pos time.Duration)
	SetRate(rate float64)
}

// Verify Forwarder implements Controls at compile time.
var _ Controls = (*Forwarder)(nil)

// Forwarder is the entry point for externally-issued transport
// commands (media session, hardware keys). With interception off it
// calls straight through. With interception on, nothing reaches the
// engine: each command is published to the holder and playback only
// changes if the host reacts by invoking the real controls itself.
//
// The policy is fixed at construction; there is no runtime toggle.
type Forwarder struct {
	direct    Controls
	holder    *Holder
	intercept bool
}

// NewForwarder creates a forwarder over the given direct controls.
func NewForwarder(direct Controls, holder *Holder, intercept bool) *Forwarder {
	return &Forwarder{direct: direct, holder: holder, intercept: intercept}
}

// Intercepting reports whether commands are forwarded instead of
// executed.
func (f *Forwarder) Intercepting() bool { return f.intercept }

func (f *Forwarder) Play() error {
	if f.intercept {
		f.holder.SetCommand(PlayCommand{})
		return nil
	}
	return f.direct.Play()
}

func (f *Forwarder) Pause() {
	if f.intercept {
		f.holder.SetCommand(PauseCommand{})
		return
	}
	f.direct.Pause()
}

func (f *Forwarder) Next() error {
	if f.intercept {
		f.holder.SetCommand(NextCommand{})
		return nil
	}
	return f.direct.Next()
}

func (f *Forwarder) Previous() error {
	if f.intercept {
		f.holder.SetCommand(PreviousCommand{})
		return nil
	}
	return f.direct.Previous()
}

func (f *Forwarder) Forward() {
	if f.intercept {
		f.holder.SetCommand(ForwardCommand{})
		return
	}
	f.direct.Forward()
}

func (f *Forwarder) Rewind() {
	if f.intercept {
		f.holder.SetCommand(RewindCommand{})
		return
	}
	f.direct.Rewind()
}

func (f *Forwarder) Stop() {
	if f.intercept {
		f.holder.SetCommand(StopCommand{})
		return
	}
	f.direct.Stop()
}

func (f *Forwarder) SeekTo(pos time.Duration) {
	if f.intercept {
		f.holder.SetCommand(SeekCommand{Position: pos})
		return
	}
	f.direct.SeekTo(pos)
}

func (f *Forwarder) SetRate(rate float64) {
	if f.intercept {
		f.holder.SetCommand(RateCommand{Rate: rate})
		return
	}
	f.direct.SetRate(rate)
}
