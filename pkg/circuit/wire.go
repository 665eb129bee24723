package circuit

import "fmt"

// WireID indexes a wire inside its Netlist.
type WireID int

// NoWire marks a name that does not resolve to any wire.
const NoWire WireID = -1

// WireType represents the classification of a wire in the circuit
type WireType int

const (
	PrimaryInput WireType = iota
	GateOutput
)

// String returns a string representation of the wire type
func (t WireType) String() string {
	switch t {
	case PrimaryInput:
		return "INPUT"
	case GateOutput:
		return "GATE"
	default:
		return "UNKNOWN"
	}
}

// Wire represents a named signal in the circuit. Wires are immutable once
// the netlist is built; per-vector values live in State.
type Wire struct {
	ID     WireID   // Index in Netlist.Wires
	Name   string   // Name of the wire
	Type   WireType // Type of the wire
	Driver *Gate    // Gate driving this wire (nil for primary inputs)
	Fanout []*Gate  // Gates to which this wire is an input
	Level  int      // Logic depth, 0 for primary inputs
}

// String returns a string representation of the wire
func (w *Wire) String() string {
	return fmt.Sprintf("%s(%s)", w.Name, w.Type)
}

// IsFanoutPoint returns true if the wire feeds more than one gate
func (w *Wire) IsFanoutPoint() bool {
	return len(w.Fanout) > 1
}
