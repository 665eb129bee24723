// Package atpg generates test vectors for stuck-at faults by handing a
// good/faulty miter of the netlist to the gini SAT solver.
package atpg

import (
	"strings"

	"github.com/fyerfyer/fault-sim/pkg/circuit"
	"github.com/fyerfyer/fault-sim/pkg/fault"
	"github.com/fyerfyer/fault-sim/pkg/utils"
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// ErrWrongNetlist is returned for a fault set resolved against another
// netlist.
var ErrWrongNetlist = errors.New("fault set belongs to a different netlist")

// Generator finds vectors that distinguish a faulty circuit from the good
// one.
type Generator struct {
	Netlist *circuit.Netlist
	Logger  *utils.Logger
}

// NewGenerator creates a generator for n
func NewGenerator(n *circuit.Netlist, logger *utils.Logger) *Generator {
	if logger == nil {
		logger = utils.DefaultLogger
	}
	return &Generator{Netlist: n, Logger: logger}
}

// Encoding maps a netlist into an and-inverter circuit. Wires holds the
// literal of each wire, indexed by WireID.
type Encoding struct {
	C      *logic.C
	Inputs []z.Lit // Literals of the primary inputs, declaration order
	Wires  []z.Lit
}

// Encode builds the good circuit of n
func Encode(n *circuit.Netlist) *Encoding {
	c := logic.NewCCap(2 * len(n.Wires))
	inputs := make([]z.Lit, len(n.Inputs))
	for i := range n.Inputs {
		inputs[i] = c.Lit()
	}
	e := &Encoding{C: c, Inputs: inputs}
	e.Wires = encodeCopy(n, c, inputs, nil)
	return e
}

// encodeCopy adds one copy of n's gates on top of the given input
// literals. With a fault set, terminal faults become constants on the
// faulted gate's inputs and line faults replace the wire literal.
func encodeCopy(n *circuit.Netlist, c *logic.C, inputs []z.Lit, fs *fault.Set) []z.Lit {
	constant := func(v circuit.LogicValue) z.Lit {
		if v == circuit.One {
			return c.T
		}
		return c.F
	}

	wires := make([]z.Lit, len(n.Wires))
	for i, id := range n.Inputs {
		wires[id] = inputs[i]
		if v, ok := fs.Line(id); ok {
			wires[id] = constant(v)
		}
	}

	ins := make([]z.Lit, 0, 4)
	for _, g := range n.Levelized() {
		ins = ins[:0]
		for _, in := range g.Inputs {
			ins = append(ins, wires[in])
		}
		for _, t := range fs.Terminals(g.Output) {
			for i, in := range g.Inputs {
				if in == t.Terminal {
					ins[i] = constant(t.StuckAt)
				}
			}
		}

		out := encodeGate(c, g.Type, ins)
		if v, ok := fs.Line(g.Output); ok {
			out = constant(v)
		}
		wires[g.Output] = out
	}
	return wires
}

func encodeGate(c *logic.C, t circuit.GateType, ins []z.Lit) z.Lit {
	switch t {
	case circuit.AND:
		return c.Ands(ins...)
	case circuit.NAND:
		return c.Ands(ins...).Not()
	case circuit.OR:
		return c.Ors(ins...)
	case circuit.NOR:
		return c.Ors(ins...).Not()
	case circuit.NOT:
		return ins[0].Not()
	case circuit.XOR, circuit.XNOR:
		acc := c.F
		for _, m := range ins {
			acc = c.Xor(acc, m)
		}
		if t == circuit.XNOR {
			return acc.Not()
		}
		return acc
	default:
		// New rejects other gate types.
		panic("atpg: unsupported gate type " + t.String())
	}
}

// FindTest searches for a two-valued vector whose good and faulty outputs
// differ. It returns the vector in the format accepted by Session.Apply
// and false if the faults cannot be observed at any reachable output.
func (g *Generator) FindTest(fs *fault.Set) (string, bool, error) {
	n := g.Netlist
	if fs != nil && fs.Netlist() != n {
		return "", false, ErrWrongNetlist
	}

	enc := Encode(n)
	c := enc.C
	faulty := encodeCopy(n, c, enc.Inputs, fs)

	diffs := make([]z.Lit, 0, len(n.Outputs))
	for _, o := range n.Outputs {
		if o.Dangling() {
			g.Logger.Warning("output %q is not driven, excluded from the miter", o.Name)
			continue
		}
		diffs = append(diffs, c.Xor(enc.Wires[o.Wire], faulty[o.Wire]))
	}
	miter := c.Ors(diffs...)

	switch miter {
	case c.F:
		g.Logger.Solver("miter folded to false for %d faults", fs.Len())
		return "", false, nil
	case c.T:
		g.Logger.Solver("miter folded to true for %d faults", fs.Len())
		return strings.Repeat("0", n.InputWidth()), true, nil
	}

	s := gini.New()
	c.ToCnf(s)
	s.Add(c.T)
	s.Add(0)
	s.Assume(miter)

	switch s.Solve() {
	case 1:
	case -1:
		g.Logger.Solver("miter unsatisfiable, faults undetectable")
		return "", false, nil
	default:
		return "", false, errors.New("solver returned no answer")
	}

	var vec strings.Builder
	maxVar := s.MaxVar()
	for _, m := range enc.Inputs {
		// Inputs outside the miter's cone never reach the solver.
		v := circuit.FromBool(m.Var() <= maxVar && s.Value(m))
		vec.WriteString(v.String())
	}
	g.Logger.Solver("found test %s", vec.String())
	return vec.String(), true, nil
}
