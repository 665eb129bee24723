package fault

import (
	"github.com/fyerfyer/fault-sim/pkg/circuit"
	"github.com/pkg/errors"
)

// Entry is a resolved terminal fault on one gate.
type Entry struct {
	Terminal circuit.WireID
	StuckAt  circuit.LogicValue
}

// Set is a fault list resolved against one netlist. It is read-only after
// NewSet and may be shared by concurrent simulations of that netlist.
type Set struct {
	netlist   *circuit.Netlist
	faults    []Fault
	lines     map[circuit.WireID]circuit.LogicValue
	terminals map[circuit.WireID][]Entry
}

// NewSet resolves faults against n. Two faults may not target the same
// (gate, terminal) pair or the same line, and a gate carrying terminal
// faults may not also carry a line fault on its output.
func NewSet(n *circuit.Netlist, faults []Fault) (*Set, error) {
	s := &Set{
		netlist:   n,
		faults:    make([]Fault, 0, len(faults)),
		lines:     make(map[circuit.WireID]circuit.LogicValue),
		terminals: make(map[circuit.WireID][]Entry),
	}
	for _, f := range faults {
		if err := s.add(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) add(f Fault) error {
	if !f.StuckAt.IsKnown() {
		return errors.Wrapf(ErrInvalidFault, "%s: stuck value must be 0 or 1", f)
	}
	site, ok := s.netlist.Lookup(f.Site)
	if !ok {
		return errors.Wrapf(ErrUnknownSite, "%s: no wire %q", f, f.Site)
	}

	if f.Kind() == LineFault {
		if _, dup := s.lines[site]; dup {
			return errors.Wrapf(ErrFaultConflict, "%s: line %q already faulted", f, f.Site)
		}
		if len(s.terminals[site]) > 0 {
			return errors.Wrapf(ErrFaultConflict, "%s: gate %q already has terminal faults", f, f.Site)
		}
		s.lines[site] = f.StuckAt
		s.faults = append(s.faults, f)
		return nil
	}

	gate := s.netlist.Driver(site)
	if gate == nil {
		return errors.Wrapf(ErrTerminalOnInput, "%s", f)
	}
	term, ok := s.netlist.Lookup(f.Terminal)
	if !ok {
		return errors.Wrapf(ErrUnknownSite, "%s: no wire %q", f, f.Terminal)
	}
	if !hasInput(gate, term) {
		return errors.Wrapf(ErrNotATerminal, "%s: %q does not feed %q", f, f.Terminal, f.Site)
	}
	if _, dup := s.lines[site]; dup {
		return errors.Wrapf(ErrFaultConflict, "%s: line %q already faulted", f, f.Site)
	}
	for _, e := range s.terminals[site] {
		if e.Terminal == term {
			return errors.Wrapf(ErrFaultConflict, "%s: terminal %q of %q already faulted", f, f.Terminal, f.Site)
		}
	}
	s.terminals[site] = append(s.terminals[site], Entry{Terminal: term, StuckAt: f.StuckAt})
	s.faults = append(s.faults, f)
	return nil
}

func hasInput(g *circuit.Gate, id circuit.WireID) bool {
	for _, in := range g.Inputs {
		if in == id {
			return true
		}
	}
	return false
}

// Line returns the stuck value of a line fault on wire id
func (s *Set) Line(id circuit.WireID) (circuit.LogicValue, bool) {
	if s == nil {
		return circuit.X, false
	}
	v, ok := s.lines[id]
	return v, ok
}

// Terminals returns the terminal faults of the gate driving id
func (s *Set) Terminals(id circuit.WireID) []Entry {
	if s == nil {
		return nil
	}
	return s.terminals[id]
}

// Terminal returns the value gate observes on terminal, if faulted
func (s *Set) Terminal(gate, terminal circuit.WireID) (circuit.LogicValue, bool) {
	for _, e := range s.Terminals(gate) {
		if e.Terminal == terminal {
			return e.StuckAt, true
		}
	}
	return circuit.X, false
}

// Faults returns the faults in the order they were added
func (s *Set) Faults() []Fault {
	if s == nil {
		return nil
	}
	return s.faults
}

// Len returns the number of faults
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.faults)
}

// Netlist returns the netlist the set was resolved against
func (s *Set) Netlist() *circuit.Netlist {
	return s.netlist
}
