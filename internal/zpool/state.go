package zpool

// State is the health or spare-role state of a pool, subpool or drive.
// The numeric values are the ones exported as metric samples.
type State int

const (
	StateOnline         State = 0
	StateDegraded       State = 1
	StateUnavailable    State = 2
	StateSpareInUse     State = 3
	StateSpareAvailable State = 4
	StateOffline        State = 5
	StateRemoved        State = 6
	StateFaulted        State = 7
)

var stateKeywords = map[string]State{
	"ONLINE":   StateOnline,
	"OFFLINE":  StateOffline,
	"UNAVAIL":  StateUnavailable,
	"DEGRADED": StateDegraded,
	"REMOVED":  StateRemoved,
	"FAULTED":  StateFaulted,
	"INUSE":    StateSpareInUse,
	"AVAIL":    StateSpareAvailable,
}

// DecodeState maps a zpool status keyword to a State. Unknown tokens
// decode to StateOnline and ok is false.
func DecodeState(token string) (state State, ok bool) {
	state, ok = stateKeywords[token]
	if !ok {
		return StateOnline, false
	}
	return state, true
}

// decodePoolState decodes the narrower vocabulary of a pool's state: line.
func decodePoolState(token string) (State, bool) {
	switch token {
	case "ONLINE":
		return StateOnline, true
	case "DEGRADED":
		return StateDegraded, true
	case "UNAVAIL":
		return StateUnavailable, true
	default:
		return StateOnline, false
	}
}

// String returns the zpool keyword for the state.
func (s State) String() string {
	switch s {
	case StateOnline:
		return "ONLINE"
	case StateDegraded:
		return "DEGRADED"
	case StateUnavailable:
		return "UNAVAIL"
	case StateSpareInUse:
		return "INUSE"
	case StateSpareAvailable:
		return "AVAIL"
	case StateOffline:
		return "OFFLINE"
	case StateRemoved:
		return "REMOVED"
	case StateFaulted:
		return "FAULTED"
	default:
		return "UNKNOWN"
	}
}

// IsSpareRole reports whether the state describes a hot spare's role
// rather than device health.
func (s State) IsSpareRole() bool {
	return s == StateSpareInUse || s == StateSpareAvailable
}

// Health folds spare-role states onto StateOnline and returns every other
// state unchanged.
func (s State) Health() State {
	if s.IsSpareRole() {
		return StateOnline
	}
	return s
}
