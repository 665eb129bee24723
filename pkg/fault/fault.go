// Package fault describes stuck-at faults and resolves fault lists against
// a netlist.
//
// Two fault forms are supported, written the way fault list files spell
// them:
//
//	A-SA-0       line fault: wire A stuck at 0 for every consumer
//	K-IN-g-SA-1  terminal fault: gate K observes its input g as 1
package fault

import (
	"fmt"
	"strings"

	"github.com/fyerfyer/fault-sim/pkg/circuit"
	"github.com/pkg/errors"
)

var (
	ErrInvalidFault    = errors.New("invalid fault")
	ErrFaultConflict   = errors.New("fault conflict")
	ErrUnknownSite     = errors.New("unknown fault site")
	ErrNotATerminal    = errors.New("wire is not an input of the gate")
	ErrTerminalOnInput = errors.New("terminal fault on a primary input")
)

const (
	stuckMarker    = "-SA-"
	terminalMarker = "-IN-"
)

// Kind distinguishes line faults from gate terminal faults
type Kind int

const (
	LineFault Kind = iota
	TerminalFault
)

// String returns a string representation of the fault kind
func (k Kind) String() string {
	if k == TerminalFault {
		return "terminal"
	}
	return "line"
}

// Fault is a single stuck-at fault in name form.
type Fault struct {
	Site     string             // Faulted wire, or the gate (by output name) for terminal faults
	Terminal string             // Input wire observed by Site; empty for line faults
	StuckAt  circuit.LogicValue // Zero or One
}

// Kind returns the fault kind
func (f Fault) Kind() Kind {
	if f.Terminal != "" {
		return TerminalFault
	}
	return LineFault
}

// String renders the fault in fault list syntax
func (f Fault) String() string {
	if f.Kind() == TerminalFault {
		return fmt.Sprintf("%s%s%s%s%s", f.Site, terminalMarker, f.Terminal, stuckMarker, f.StuckAt)
	}
	return fmt.Sprintf("%s%s%s", f.Site, stuckMarker, f.StuckAt)
}

// Parse parses a fault string like "a-SA-0" or "z-IN-a-SA-1"
func Parse(s string) (Fault, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, stuckMarker)
	if i < 0 {
		return Fault{}, errors.Wrapf(ErrInvalidFault, "%q: missing -SA-<value> suffix", s)
	}

	var f Fault
	switch s[i+len(stuckMarker):] {
	case "0":
		f.StuckAt = circuit.Zero
	case "1":
		f.StuckAt = circuit.One
	default:
		return Fault{}, errors.Wrapf(ErrInvalidFault, "%q: stuck value must be 0 or 1", s)
	}

	head := s[:i]
	if site, term, ok := strings.Cut(head, terminalMarker); ok {
		f.Site, f.Terminal = site, term
		if f.Terminal == "" {
			return Fault{}, errors.Wrapf(ErrInvalidFault, "%q: empty terminal name", s)
		}
	} else {
		f.Site = head
	}
	if f.Site == "" {
		return Fault{}, errors.Wrapf(ErrInvalidFault, "%q: empty site name", s)
	}
	return f, nil
}

// StuckAt builds a line fault
func StuckAt(wire string, v circuit.LogicValue) Fault {
	return Fault{Site: wire, StuckAt: v}
}

// TerminalStuckAt builds a terminal fault on the input terminal of gate
func TerminalStuckAt(gate, terminal string, v circuit.LogicValue) Fault {
	return Fault{Site: gate, Terminal: terminal, StuckAt: v}
}
