package playback

import "time"

// Command is a transport command that originated outside the host
// process (media keys, a remote controller, the session bus). When
// interception is enabled the forwarder publishes these instead of
// driving the engine, and the host decides what to do with them.
//
// Command is a closed set: the concrete types below are the only
// implementations.
type Command interface {
	isCommand()
	String() string
}

type (
	// PlayCommand requests playback start or resume.
	PlayCommand struct{}
	// PauseCommand requests playback pause.
	PauseCommand struct{}
	// NextCommand requests a skip to the next item.
	NextCommand struct{}
	// PreviousCommand requests a skip to the previous item.
	PreviousCommand struct{}
	// ForwardCommand requests a fixed-interval seek forward.
	ForwardCommand struct{}
	// RewindCommand requests a fixed-interval seek backward.
	RewindCommand struct{}
	// StopCommand requests playback stop.
	StopCommand struct{}
	// SeekCommand requests a seek to an absolute position.
	SeekCommand struct{ Position time.Duration }
	// RateCommand requests a playback speed change.
	RateCommand struct{ Rate float64 }
)

func (PlayCommand) isCommand()     {}
func (PauseCommand) isCommand()    {}
func (NextCommand) isCommand()     {}
func (PreviousCommand) isCommand() {}
func (ForwardCommand) isCommand()  {}
func (RewindCommand) isCommand()   {}
func (StopCommand) isCommand()     {}
func (SeekCommand) isCommand()     {}
func (RateCommand) isCommand()     {}

func (PlayCommand) String() string     { return "Play" }
func (PauseCommand) String() string    { return "Pause" }
func (NextCommand) String() string     { return "Next" }
func (PreviousCommand) String() string { return "Previous" }
func (ForwardCommand) String() string  { return "Forward" }
func (RewindCommand) String() string   { return "Rewind" }
func (StopCommand) String() string     { return "Stop" }
func (SeekCommand) String() string     { return "Seek" }
func (RateCommand) String() string     { return "Rate" }
