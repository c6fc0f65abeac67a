package session

// State is the position of a Manager in the authentication lifecycle.
type State int

const (
	// StateUnknown is the state before the first Restore completes.
	StateUnknown State = iota
	// StateAnonymous means no valid credential is held.
	StateAnonymous
	// StateAuthenticated means a credential is stored and the current user
	// is loaded.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}
