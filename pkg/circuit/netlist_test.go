package circuit_test

import (
	"strings"
	"testing"

	"github.com/fyerfyer/fault-sim/pkg/circuit"
	"github.com/pkg/errors"
)

// simpleDescription is
//
//	d = AND(a, b)
//	e = NOT(b)
//	f = OR(d, e)
func simpleDescription() circuit.Description {
	return circuit.Description{
		Name:    "simple",
		Inputs:  []string{"a", "b"},
		Outputs: []string{"f"},
		Gates: []circuit.GateSpec{
			{Output: "f", Type: circuit.OR, Inputs: []string{"d", "e"}},
			{Output: "d", Type: circuit.AND, Inputs: []string{"a", "b"}},
			{Output: "e", Type: circuit.NOT, Inputs: []string{"b"}},
		},
	}
}

func TestNewNetlist(t *testing.T) {
	n, err := circuit.New(simpleDescription())
	if err != nil {
		t.Fatalf("Failed to build netlist: %v", err)
	}

	if len(n.Wires) != 5 {
		t.Errorf("Expected 5 wires, got %d", len(n.Wires))
	}
	if len(n.Gates) != 3 {
		t.Errorf("Expected 3 gates, got %d", len(n.Gates))
	}
	if n.InputWidth() != 2 {
		t.Errorf("Expected input width 2, got %d", n.InputWidth())
	}

	b, ok := n.Lookup("b")
	if !ok {
		t.Fatalf("Expected wire b to exist")
	}
	if n.Wire(b).Type != circuit.PrimaryInput || n.Driver(b) != nil {
		t.Errorf("Expected b to be an undriven primary input")
	}
	if !n.Wire(b).IsFanoutPoint() {
		t.Errorf("Expected b to be a fanout point")
	}
	if points := n.FanoutPoints(); len(points) != 1 || points[0].Name != "b" {
		t.Errorf("Expected fanout points [b], got %v", points)
	}

	f, _ := n.Lookup("f")
	g := n.Driver(f)
	if g == nil || g.Type != circuit.OR {
		t.Fatalf("Expected f to be driven by an OR gate")
	}
	if got := n.DescribeGate(g); got != "f = OR(d, e)" {
		t.Errorf("Expected 'f = OR(d, e)', got '%s'", got)
	}

	if n.Outputs[0].Dangling() || n.Outputs[0].Wire != f {
		t.Errorf("Expected output f to resolve to wire %d", f)
	}
}

func TestLevels(t *testing.T) {
	n, err := circuit.New(simpleDescription())
	if err != nil {
		t.Fatalf("Failed to build netlist: %v", err)
	}

	expected := map[string]int{"a": 0, "b": 0, "d": 1, "e": 1, "f": 2}
	for name, level := range expected {
		id, _ := n.Lookup(name)
		if got := n.Wire(id).Level; got != level {
			t.Errorf("Expected level %d for %s, got %d", level, name, got)
		}
	}
	if n.MaxLevel() != 2 {
		t.Errorf("Expected max level 2, got %d", n.MaxLevel())
	}

	levels := n.LevelMap()
	if strings.Join(levels[1], ",") != "d,e" {
		t.Errorf("Expected level 1 to be [d e], got %v", levels[1])
	}

	// Levelized order must place every gate after its drivers.
	seen := make(map[circuit.WireID]bool)
	for _, id := range n.Inputs {
		seen[id] = true
	}
	for _, g := range n.Levelized() {
		for _, in := range g.Inputs {
			if !seen[in] {
				t.Errorf("Gate %s ordered before its input %s", n.DescribeGate(g), n.Wire(in).Name)
			}
		}
		seen[g.Output] = true
	}
}

func TestConstructionErrors(t *testing.T) {
	tests := []struct {
		name string
		desc circuit.Description
		want error
	}{
		{
			name: "duplicate input",
			desc: circuit.Description{Inputs: []string{"a", "a"}},
			want: circuit.ErrDuplicateDefinition,
		},
		{
			name: "gate redefines input",
			desc: circuit.Description{
				Inputs: []string{"a"},
				Gates:  []circuit.GateSpec{{Output: "a", Type: circuit.NOT, Inputs: []string{"a"}}},
			},
			want: circuit.ErrDuplicateDefinition,
		},
		{
			name: "gate defined twice",
			desc: circuit.Description{
				Inputs: []string{"a", "b"},
				Gates: []circuit.GateSpec{
					{Output: "z", Type: circuit.AND, Inputs: []string{"a", "b"}},
					{Output: "z", Type: circuit.OR, Inputs: []string{"a", "b"}},
				},
			},
			want: circuit.ErrDuplicateDefinition,
		},
		{
			name: "two-step cycle",
			desc: circuit.Description{
				Inputs: []string{"a"},
				Gates: []circuit.GateSpec{
					{Output: "x", Type: circuit.AND, Inputs: []string{"a", "y"}},
					{Output: "y", Type: circuit.NOT, Inputs: []string{"x"}},
				},
			},
			want: circuit.ErrCyclicDependency,
		},
		{
			name: "self loop",
			desc: circuit.Description{
				Inputs: []string{"a"},
				Gates:  []circuit.GateSpec{{Output: "z", Type: circuit.OR, Inputs: []string{"a", "z"}}},
			},
			want: circuit.ErrCyclicDependency,
		},
		{
			name: "unknown kind",
			desc: circuit.Description{
				Inputs: []string{"a"},
				Gates:  []circuit.GateSpec{{Output: "z", Type: circuit.GateType(99), Inputs: []string{"a"}}},
			},
			want: circuit.ErrUnknownGateKind,
		},
		{
			name: "undefined input",
			desc: circuit.Description{
				Inputs: []string{"a"},
				Gates:  []circuit.GateSpec{{Output: "z", Type: circuit.AND, Inputs: []string{"a", "q"}}},
			},
			want: circuit.ErrUndefinedWire,
		},
		{
			name: "NOT with two inputs",
			desc: circuit.Description{
				Inputs: []string{"a", "b"},
				Gates:  []circuit.GateSpec{{Output: "z", Type: circuit.NOT, Inputs: []string{"a", "b"}}},
			},
			want: circuit.ErrArity,
		},
		{
			name: "gate without inputs",
			desc: circuit.Description{
				Gates: []circuit.GateSpec{{Output: "z", Type: circuit.AND}},
			},
			want: circuit.ErrArity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := circuit.New(tt.desc)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCycleIsNamed(t *testing.T) {
	_, err := circuit.New(circuit.Description{
		Inputs: []string{"a"},
		Gates: []circuit.GateSpec{
			{Output: "p", Type: circuit.NOT, Inputs: []string{"a"}},
			{Output: "x", Type: circuit.AND, Inputs: []string{"p", "y"}},
			{Output: "y", Type: circuit.NOT, Inputs: []string{"x"}},
		},
	})
	if err == nil {
		t.Fatalf("Expected a cycle error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "x -> y -> x") && !strings.Contains(msg, "y -> x -> y") {
		t.Errorf("Expected the cycle x/y in the message, got %q", msg)
	}
}

func TestDanglingOutput(t *testing.T) {
	d := simpleDescription()
	d.Outputs = append(d.Outputs, "ghost")
	n, err := circuit.New(d)
	if err != nil {
		t.Fatalf("Dangling outputs must not fail construction: %v", err)
	}
	if !n.Outputs[1].Dangling() || n.Outputs[1].Name != "ghost" {
		t.Errorf("Expected output ghost to be dangling, got %+v", n.Outputs[1])
	}
}

func TestState(t *testing.T) {
	n, err := circuit.New(simpleDescription())
	if err != nil {
		t.Fatalf("Failed to build netlist: %v", err)
	}
	st := circuit.NewState(n)
	if st.Len() != len(n.Wires) {
		t.Errorf("Expected %d wire states, got %d", len(n.Wires), st.Len())
	}

	a, _ := n.Lookup("a")
	if st.Resolved(a) || st.Value(a) != circuit.X {
		t.Errorf("Expected a fresh state to be unresolved and unknown")
	}

	st.Assign(a, circuit.X)
	if !st.Resolved(a) {
		t.Errorf("Expected an assigned unknown to count as resolved")
	}
	st.Assign(a, circuit.One)
	st.Reset()
	if st.Resolved(a) || st.Value(a) != circuit.X {
		t.Errorf("Expected Reset to clear wire a, got resolved=%v value=%s", st.Resolved(a), st.Value(a))
	}
}
