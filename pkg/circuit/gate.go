package circuit

import (
	"strings"

	"github.com/pkg/errors"
)

// GateType represents the type of logic gate
type GateType int

const (
	AND GateType = iota
	OR
	NOT
	NAND
	NOR
	XOR
	XNOR
)

// String returns a string representation of the gate type
func (gt GateType) String() string {
	switch gt {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case NAND:
		return "NAND"
	case NOR:
		return "NOR"
	case XOR:
		return "XOR"
	case XNOR:
		return "XNOR"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether gt is one of the supported gate kinds
func (gt GateType) Valid() bool {
	return gt >= AND && gt <= XNOR
}

// ParseGateType converts a BENCH gate keyword to a GateType.
// Matching is case-insensitive and INV is accepted for NOT.
func ParseGateType(s string) (GateType, error) {
	switch strings.ToUpper(s) {
	case "AND":
		return AND, nil
	case "OR":
		return OR, nil
	case "NOT", "INV":
		return NOT, nil
	case "NAND":
		return NAND, nil
	case "NOR":
		return NOR, nil
	case "XOR":
		return XOR, nil
	case "XNOR":
		return XNOR, nil
	default:
		return 0, errors.Wrapf(ErrUnknownGateKind, "%q", s)
	}
}

// Gate represents a logic gate in the circuit. A gate is identified by
// the wire it drives.
type Gate struct {
	Type   GateType // Type of the gate
	Output WireID   // Driven wire, also the gate's identity
	Inputs []WireID // Input wires in declaration order
}

// Evaluate computes the output of gate type t for the given input values.
// The values are taken as observed by the gate, so any stuck-at
// substitution has to happen before the call.
func Evaluate(t GateType, in []LogicValue) (LogicValue, error) {
	switch t {
	case AND:
		return evaluateAND(in), nil
	case OR:
		return evaluateOR(in), nil
	case NOT:
		if len(in) != 1 {
			return X, errors.Wrapf(ErrArity, "NOT takes 1 input, got %d", len(in))
		}
		return in[0].Not(), nil
	case NAND:
		return evaluateAND(in).Not(), nil
	case NOR:
		return evaluateOR(in).Not(), nil
	case XOR:
		return evaluateXOR(in), nil
	case XNOR:
		return evaluateXOR(in).Not(), nil
	default:
		return X, errors.Wrapf(ErrUnknownGateKind, "gate type %d", int(t))
	}
}

// A 0 on any input decides the output even next to unknowns.
func evaluateAND(in []LogicValue) LogicValue {
	result := One
	for _, v := range in {
		switch v {
		case Zero:
			return Zero // Short-circuit for AND gate
		case X:
			result = X
		}
	}
	return result
}

func evaluateOR(in []LogicValue) LogicValue {
	result := Zero
	for _, v := range in {
		switch v {
		case One:
			return One // Short-circuit for OR gate
		case X:
			result = X
		}
	}
	return result
}

func evaluateXOR(in []LogicValue) LogicValue {
	ones := 0
	for _, v := range in {
		switch v {
		case X:
			return X
		case One:
			ones++
		}
	}
	if ones%2 == 1 {
		return One
	}
	return Zero
}
