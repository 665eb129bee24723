package circuit

// LogicValue represents the possible values for a signal line
type LogicValue int

const (
	X    LogicValue = iota // Unknown/unassigned
	Zero                   // Logic 0
	One                    // Logic 1
)

// String returns a string representation of the logic value.
// Unknown is printed as "U", the symbol used in vector and output files.
func (v LogicValue) String() string {
	switch v {
	case X:
		return "U"
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "?"
	}
}

// IsKnown returns true if the value is 0 or 1
func (v LogicValue) IsKnown() bool {
	return v == Zero || v == One
}

// Not returns the complement of v. Unknown stays unknown.
func (v LogicValue) Not() LogicValue {
	switch v {
	case Zero:
		return One
	case One:
		return Zero
	default:
		return X
	}
}

// ParseLogicValue converts a vector symbol to a logic value.
// Accepted symbols are '0', '1', 'U' and 'u'.
func ParseLogicValue(c byte) (LogicValue, bool) {
	switch c {
	case '0':
		return Zero, true
	case '1':
		return One, true
	case 'U', 'u':
		return X, true
	default:
		return X, false
	}
}

// FromBool converts a two-valued signal
func FromBool(b bool) LogicValue {
	if b {
		return One
	}
	return Zero
}
