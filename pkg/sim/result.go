package sim

import (
	"fmt"

	"github.com/pkg/errors"
)

// Result is the outcome of simulating one vector.
type Result struct {
	Vector  string
	Good    string // Good-circuit outputs, last declared output first
	Faulty  string // Faulty-circuit outputs, empty unless Faulted
	Faulted bool   // The session carried a fault set
	Err     error  // Per-vector error; Good and Faulty are empty when set
}

// Detected returns true if some output is known in both circuits and
// differs between them, i.e. the vector tests the injected faults.
func (r Result) Detected() bool {
	if r.Err != nil || !r.Faulted || len(r.Good) != len(r.Faulty) {
		return false
	}
	for i := 0; i < len(r.Good); i++ {
		g, f := r.Good[i], r.Faulty[i]
		if g != 'U' && f != 'U' && g != f {
			return true
		}
	}
	return false
}

// GoodText returns the good outputs, or the diagnostic that replaces them
func (r Result) GoodText() string {
	if r.Err != nil {
		return Diagnostic(r.Err)
	}
	return r.Good
}

// FaultyText returns the faulty outputs, or the diagnostic that replaces
// them
func (r Result) FaultyText() string {
	if r.Err != nil {
		return Diagnostic(r.Err)
	}
	return r.Faulty
}

// String returns a string representation of the result
func (r Result) String() string {
	if r.Err != nil {
		return Diagnostic(r.Err)
	}
	if r.Faulted {
		return fmt.Sprintf("good=%s faulty=%s", r.Good, r.Faulty)
	}
	return r.Good
}

// Diagnostic renders a per-vector error as the text written to output
// files in place of an output bit-string.
func Diagnostic(err error) string {
	var unreached *UnreachedError
	switch {
	case errors.As(err, &unreached):
		return fmt.Sprintf("NETLIST ERROR: OUTPUT LINE %q NOT ACCESSED", unreached.Output)
	case errors.Is(err, ErrInsufficientBits):
		return "INPUT ERROR: INSUFFICIENT BITS"
	case errors.Is(err, ErrExcessBits):
		return "INPUT ERROR: EXCESS BITS"
	case errors.Is(err, ErrInvalidSymbol):
		return "INPUT ERROR: INVALID INPUT VALUE/S"
	default:
		return "SIMULATION ERROR: " + err.Error()
	}
}
