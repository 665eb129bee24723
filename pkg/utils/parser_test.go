package utils_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fyerfyer/fault-sim/pkg/circuit"
	"github.com/fyerfyer/fault-sim/pkg/fault"
	"github.com/fyerfyer/fault-sim/pkg/utils"
	"github.com/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	return path
}

// TestParseBenchFile tests parsing a BENCH format circuit description
func TestParseBenchFile(t *testing.T) {
	benchFile := writeFile(t, "test_circuit.bench", `# Simple test circuit
INPUT(a)
INPUT( b )
OUTPUT(f)

d = AND(a, b)
e = not(b)
f = OR( d , e )
`)

	n, err := utils.ParseBenchFile(benchFile)
	if err != nil {
		t.Fatalf("Failed to parse BENCH file: %v", err)
	}

	if n.Name != "test_circuit" {
		t.Errorf("Expected circuit name 'test_circuit', got '%s'", n.Name)
	}
	if len(n.Gates) != 3 {
		t.Errorf("Expected 3 gates, got %d", len(n.Gates))
	}
	if len(n.Wires) != 5 {
		t.Errorf("Expected 5 wires, got %d", len(n.Wires))
	}
	if len(n.Inputs) != 2 || len(n.Outputs) != 1 {
		t.Errorf("Expected 2 inputs and 1 output, got %d and %d", len(n.Inputs), len(n.Outputs))
	}

	for _, want := range []string{"d = AND(a, b)", "e = NOT(b)", "f = OR(d, e)"} {
		found := false
		for _, g := range n.Gates {
			if n.DescribeGate(g) == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Gate %q not found", want)
		}
	}
}

// TestParseAllGateTypes tests every supported gate keyword
func TestParseAllGateTypes(t *testing.T) {
	n, err := utils.ParseBench(strings.NewReader(`
INPUT(a)
INPUT(b)
INPUT(c)
OUTPUT(y)
OUTPUT(z)
d = AND(a, b)
e = OR(b, c)
f = NAND(c, d)
g = NOR(a, e)
h = XOR(d, e, f)
i = XNOR(f, g)
j = INV(h)
y = NOT(i)
z = AND(j, a)
`), "complex")
	if err != nil {
		t.Fatalf("Failed to parse netlist: %v", err)
	}

	counts := make(map[circuit.GateType]int)
	for _, g := range n.Gates {
		counts[g.Type]++
	}
	expected := map[circuit.GateType]int{
		circuit.AND:  2,
		circuit.OR:   1,
		circuit.NAND: 1,
		circuit.NOR:  1,
		circuit.XOR:  1,
		circuit.XNOR: 1,
		circuit.NOT:  2,
	}
	for gateType, want := range expected {
		if counts[gateType] != want {
			t.Errorf("Expected %d gates of type %s, got %d", want, gateType, counts[gateType])
		}
	}
}

func TestParseBenchErrors(t *testing.T) {
	tests := []struct {
		name  string
		bench string
		want  error
	}{
		{"garbage line", "INPUT(a)\nthis is not bench\n", utils.ErrSyntax},
		{"missing paren", "INPUT(a\n", utils.ErrSyntax},
		{"unknown gate", "INPUT(a)\nz = MUX(a, a)\n", circuit.ErrUnknownGateKind},
		{"duplicate", "INPUT(a)\nINPUT(a)\n", circuit.ErrDuplicateDefinition},
		{"cycle", "INPUT(a)\nx = AND(a, y)\ny = NOT(x)\n", circuit.ErrCyclicDependency},
		{"undefined", "INPUT(a)\nz = AND(a, q)\n", circuit.ErrUndefinedWire},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := utils.ParseBench(strings.NewReader(tt.bench), "bad")
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	_, err := utils.ParseBench(strings.NewReader("INPUT(a)\nz = MUX(a, a)\n"), "bad")
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected the error to name line 2, got %v", err)
	}
}

// TestParseInvalidBenchFile tests error handling for missing files
func TestParseInvalidBenchFile(t *testing.T) {
	if _, err := utils.ParseBenchFile("non_existent_file.bench"); err == nil {
		t.Error("Expected error when parsing non-existent file, got nil")
	}
	if _, err := utils.ParseFaultFile("non_existent_file.txt"); err == nil {
		t.Error("Expected error when reading non-existent fault file, got nil")
	}
	if _, err := utils.ReadVectorFile("non_existent_file.txt"); err == nil {
		t.Error("Expected error when reading non-existent vector file, got nil")
	}
}

func TestParseFaultFile(t *testing.T) {
	path := writeFile(t, "faults.txt", `# faults
a-SA-0

z - IN - a - SA - 1
`)
	faults, err := utils.ParseFaultFile(path)
	if err != nil {
		t.Fatalf("Failed to parse fault file: %v", err)
	}
	want := []fault.Fault{
		fault.StuckAt("a", circuit.Zero),
		fault.TerminalStuckAt("z", "a", circuit.One),
	}
	if len(faults) != len(want) {
		t.Fatalf("Expected %d faults, got %d", len(want), len(faults))
	}
	for i := range want {
		if faults[i] != want[i] {
			t.Errorf("Fault %d: expected %s, got %s", i, want[i], faults[i])
		}
	}

	_, err = utils.ParseFaults(strings.NewReader("a-SA-0\na-SA-7\n"))
	if !errors.Is(err, fault.ErrInvalidFault) {
		t.Errorf("Expected ErrInvalidFault, got %v", err)
	}
}

func TestReadVectors(t *testing.T) {
	path := writeFile(t, "input.txt", "01\n\n1 1\n# skipped\n0U\r\nx1\n")
	vectors, err := utils.ReadVectorFile(path)
	if err != nil {
		t.Fatalf("Failed to read vectors: %v", err)
	}
	want := []utils.Vector{
		{Text: "01", Bits: "01"},
		{Text: "1 1", Bits: "11"},
		{Text: "0U", Bits: "0U"},
		{Text: "x1", Bits: "x1"},
	}
	if len(vectors) != len(want) {
		t.Fatalf("Expected %d vectors, got %v", len(want), vectors)
	}
	for i := range want {
		if vectors[i] != want[i] {
			t.Errorf("Vector %d: expected %+v, got %+v", i, want[i], vectors[i])
		}
	}
}

func TestWriteOutputs(t *testing.T) {
	records := []utils.OutputRecord{
		{Vector: "01", Text: "0"},
		{Vector: "1", Text: "INPUT ERROR: INSUFFICIENT BITS"},
	}

	var buf bytes.Buffer
	if err := utils.WriteOutputs(&buf, records); err != nil {
		t.Fatalf("WriteOutputs failed: %v", err)
	}
	want := "01 -> 0\n1 -> INPUT ERROR: INSUFFICIENT BITS\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}

	path := filepath.Join(t.TempDir(), "output.txt")
	if err := utils.WriteOutputFile(path, records); err != nil {
		t.Fatalf("WriteOutputFile failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if string(content) != want {
		t.Errorf("Expected file content %q, got %q", want, content)
	}
}
