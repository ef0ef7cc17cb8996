package types

// State is the readiness state of a type.
// A type moves NotReady -> Readying -> Ready and never leaves Ready.
// A failed readying pass moves it back from Readying to NotReady.
type State int

const (
	NotReady State = iota
	Readying
	Ready
)

var stateNames = [...]string{
	NotReady: "not-ready",
	Readying: "readying",
	Ready:    "ready",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}

// State returns the readiness state.
func (t *Type) State() State {
	return t.state
}

// IsReady reports whether the type has completed readying.
func (t *Type) IsReady() bool {
	return t.state == Ready
}

// BeginReadying moves a not-ready type into the Readying state.
func (t *Type) BeginReadying() {
	if t.state != NotReady {
		panic("types: BeginReadying on " + t.Name + " in state " + t.state.String())
	}
	t.state = Readying
}

// AbortReadying moves a readying type back to NotReady, discarding the
// linearization computed so far.
func (t *Type) AbortReadying() {
	if t.state != Readying {
		panic("types: AbortReadying on " + t.Name + " in state " + t.state.String())
	}
	t.mro = nil
	t.state = NotReady
}

// MarkReady completes readying. The base, if any, must already be ready.
func (t *Type) MarkReady() {
	if t.state != Readying {
		panic("types: MarkReady on " + t.Name + " in state " + t.state.String())
	}
	if t.Base != nil && t.Base.state != Ready {
		panic("types: MarkReady on " + t.Name + " before its base " + t.Base.Name)
	}
	t.state = Ready
}
