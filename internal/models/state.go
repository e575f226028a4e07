package models

// State is the lifecycle state of a file record.
type State string

const (
	StateActive  State = "active"
	StateTrashed State = "trashed"
	StatePurged  State = "purged"
)

// StateOf derives the state of r. A nil record is purged.
func StateOf(r *FileRecord) State {
	switch {
	case r == nil:
		return StatePurged
	case r.IsTrashed():
		return StateTrashed
	default:
		return StateActive
	}
}

var transitions = map[State][]State{
	StateActive:  {StateTrashed},
	StateTrashed: {StateActive, StatePurged},
}

// CanTransition reports whether a record may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
