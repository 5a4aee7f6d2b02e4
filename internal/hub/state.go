package hub

// State is the hub's connection state.
type State int32

const (
	// StateConnecting is the initial state, before the first announce.
	StateConnecting State = iota
	// StateWaiting means connect was announced and no topology has been
	// confirmed by a peer yet, or a focus broadcast failed.
	StateWaiting
	// StateConnected means at least one peer exchanged topology with us.
	StateConnected
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateWaiting:
		return "waiting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}
