package circuit

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// GateSpec is one gate record as handed over by a netlist reader.
type GateSpec struct {
	Output string
	Type   GateType
	Inputs []string
}

// Description is the unresolved, name-based form of a netlist.
type Description struct {
	Name    string
	Inputs  []string // Primary inputs in declaration order
	Outputs []string // Primary outputs in declaration order
	Gates   []GateSpec
}

// Output is a declared primary output. Wire is NoWire when the name is
// never defined by an input or a gate.
type Output struct {
	Name string
	Wire WireID
}

// Dangling returns true if the output refers to an undefined wire
func (o Output) Dangling() bool {
	return o.Wire == NoWire
}

// Netlist is the immutable structure of a combinational circuit.
type Netlist struct {
	Name    string
	Wires   []*Wire
	Gates   []*Gate // Declaration order; evaluation order is decided by the scheduler
	Inputs  []WireID
	Outputs []Output

	byName   map[string]WireID
	order    []*Gate
	maxLevel int
}

// New resolves d into a Netlist. Every wire name must be defined exactly
// once, every gate input must be defined, and the gate graph must be
// acyclic.
func New(d Description) (*Netlist, error) {
	n := &Netlist{
		Name:    d.Name,
		Wires:   make([]*Wire, 0, len(d.Inputs)+len(d.Gates)),
		Gates:   make([]*Gate, 0, len(d.Gates)),
		Inputs:  make([]WireID, 0, len(d.Inputs)),
		Outputs: make([]Output, 0, len(d.Outputs)),
		byName:  make(map[string]WireID, len(d.Inputs)+len(d.Gates)),
	}

	for _, name := range d.Inputs {
		id, err := n.define(name, PrimaryInput)
		if err != nil {
			return nil, errors.Wrap(err, "input")
		}
		n.Inputs = append(n.Inputs, id)
	}

	// Define all gate outputs first so gates may be listed in any order.
	for _, gs := range d.Gates {
		if !gs.Type.Valid() {
			return nil, errors.Wrapf(ErrUnknownGateKind, "gate %q: type %d", gs.Output, int(gs.Type))
		}
		if len(gs.Inputs) == 0 {
			return nil, errors.Wrapf(ErrArity, "gate %q has no inputs", gs.Output)
		}
		if gs.Type == NOT && len(gs.Inputs) != 1 {
			return nil, errors.Wrapf(ErrArity, "gate %q: NOT takes 1 input, got %d", gs.Output, len(gs.Inputs))
		}
		id, err := n.define(gs.Output, GateOutput)
		if err != nil {
			return nil, errors.Wrap(err, "gate output")
		}
		g := &Gate{Type: gs.Type, Output: id}
		n.Wires[id].Driver = g
		n.Gates = append(n.Gates, g)
	}

	for i, gs := range d.Gates {
		g := n.Gates[i]
		g.Inputs = make([]WireID, len(gs.Inputs))
		for j, in := range gs.Inputs {
			id, ok := n.byName[in]
			if !ok {
				return nil, errors.Wrapf(ErrUndefinedWire, "gate %q input %q", gs.Output, in)
			}
			g.Inputs[j] = id
			n.Wires[id].Fanout = append(n.Wires[id].Fanout, g)
		}
	}

	for _, name := range d.Outputs {
		id, ok := n.byName[name]
		if !ok {
			id = NoWire
		}
		n.Outputs = append(n.Outputs, Output{Name: name, Wire: id})
	}

	if err := n.levelize(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Netlist) define(name string, t WireType) (WireID, error) {
	if name == "" {
		return NoWire, errors.New("empty wire name")
	}
	if _, exists := n.byName[name]; exists {
		return NoWire, errors.Wrapf(ErrDuplicateDefinition, "%q", name)
	}
	id := WireID(len(n.Wires))
	n.Wires = append(n.Wires, &Wire{ID: id, Name: name, Type: t})
	n.byName[name] = id
	return id, nil
}

// Lookup returns the wire id for a name
func (n *Netlist) Lookup(name string) (WireID, bool) {
	id, ok := n.byName[name]
	return id, ok
}

// Wire returns a wire by ID
func (n *Netlist) Wire(id WireID) *Wire {
	return n.Wires[id]
}

// Driver returns the gate driving a wire, or nil for a primary input
func (n *Netlist) Driver(id WireID) *Gate {
	return n.Wires[id].Driver
}

// InputWidth is the number of bits a vector must supply
func (n *Netlist) InputWidth() int {
	return len(n.Inputs)
}

// MaxLevel returns the logic depth of the deepest wire
func (n *Netlist) MaxLevel() int {
	return n.maxLevel
}

// FanoutPoints returns wires feeding more than one gate, in id order
func (n *Netlist) FanoutPoints() []*Wire {
	var points []*Wire
	for _, w := range n.Wires {
		if w.IsFanoutPoint() {
			points = append(points, w)
		}
	}
	return points
}

// DescribeGate renders g in BENCH syntax, e.g. "z = AND(a, b)".
func (n *Netlist) DescribeGate(g *Gate) string {
	names := make([]string, len(g.Inputs))
	for i, id := range g.Inputs {
		names[i] = n.Wires[id].Name
	}
	return fmt.Sprintf("%s = %s(%s)", n.Wires[g.Output].Name, g.Type, strings.Join(names, ", "))
}

// String returns a summary of the netlist structure
func (n *Netlist) String() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Netlist: %s\n", n.Name))

	builder.WriteString("Inputs: ")
	for _, id := range n.Inputs {
		builder.WriteString(fmt.Sprintf("%s ", n.Wires[id].Name))
	}

	builder.WriteString("\nOutputs: ")
	for _, out := range n.Outputs {
		builder.WriteString(fmt.Sprintf("%s ", out.Name))
	}

	builder.WriteString("\nGates:\n")
	for _, g := range n.Gates {
		builder.WriteString(fmt.Sprintf("  %s\n", n.DescribeGate(g)))
	}

	return builder.String()
}
