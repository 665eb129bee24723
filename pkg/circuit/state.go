package circuit

// State holds the per-vector value of every wire of one netlist. A wire
// is resolved once its value has been committed for the current vector;
// a resolved wire may still carry X.
//
// The good and faulty passes each own a State; a State must not be shared
// between goroutines.
type State struct {
	resolved []bool
	values   []LogicValue
}

// NewState creates a state for n with every wire unresolved and unknown
func NewState(n *Netlist) *State {
	return &State{
		resolved: make([]bool, len(n.Wires)),
		values:   make([]LogicValue, len(n.Wires)),
	}
}

// Reset marks every wire unresolved and unknown
func (s *State) Reset() {
	for i := range s.values {
		s.resolved[i] = false
		s.values[i] = X
	}
}

// Assign commits v to wire id
func (s *State) Assign(id WireID, v LogicValue) {
	s.values[id] = v
	s.resolved[id] = true
}

// Value returns the current value of wire id
func (s *State) Value(id WireID) LogicValue {
	return s.values[id]
}

// Resolved returns true if wire id has been committed for this vector
func (s *State) Resolved(id WireID) bool {
	return s.resolved[id]
}

// Len returns the number of wires tracked
func (s *State) Len() int {
	return len(s.values)
}
