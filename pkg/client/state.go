package client

// State identifies the connection lifecycle phase. Exactly one is active
// at a time.
type State uint8

const (
	StateIdle       State = iota // No channel, no attempt outstanding
	StateConnecting              // Dial issued, waiting for open event
	StateConnected               // Channel established, keepalive running
	StateBackoff                 // Channel lost, retry timer scheduled
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateBackoff:
		return "Backoff"
	default:
		return "Unknown"
	}
}

// ConnState is the coarse connection state reported to the Presenter.
type ConnState uint8

const (
	ConnReady ConnState = iota
	ConnDisconnected
)

// String returns the string representation of the presenter state.
func (cs ConnState) String() string {
	switch cs {
	case ConnReady:
		return "ready"
	case ConnDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
