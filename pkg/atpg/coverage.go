package atpg

import (
	"fmt"

	"github.com/fyerfyer/fault-sim/pkg/circuit"
	"github.com/fyerfyer/fault-sim/pkg/fault"
	"github.com/fyerfyer/fault-sim/pkg/sim"
	"github.com/pkg/errors"
)

// FaultResult is the test generation outcome for one fault.
type FaultResult struct {
	Fault    fault.Fault
	Vector   string // Empty when the fault is undetectable
	Detected bool
}

// Report summarizes single stuck-at test generation over a netlist.
type Report struct {
	Results      []FaultResult
	Detected     int
	Undetectable int
}

// Coverage returns the fraction of faults with a test
func (r *Report) Coverage() float64 {
	total := r.Detected + r.Undetectable
	if total == 0 {
		return 0
	}
	return float64(r.Detected) / float64(total)
}

// String returns a one-line summary of the report
func (r *Report) String() string {
	return fmt.Sprintf("%d faults, %d detected, %d undetectable (%.1f%% coverage)",
		r.Detected+r.Undetectable, r.Detected, r.Undetectable, 100*r.Coverage())
}

// SingleFaults lists the stuck-at-0 and stuck-at-1 line fault of every
// wire, in wire order.
func SingleFaults(n *circuit.Netlist) []fault.Fault {
	faults := make([]fault.Fault, 0, 2*len(n.Wires))
	for _, w := range n.Wires {
		faults = append(faults,
			fault.StuckAt(w.Name, circuit.Zero),
			fault.StuckAt(w.Name, circuit.One))
	}
	return faults
}

// Coverage generates a test for each fault in faults, one fault at a time.
// Every generated vector is replayed in a simulation session and must
// distinguish the faulty circuit from the good one.
func (g *Generator) Coverage(faults []fault.Fault) (*Report, error) {
	report := &Report{Results: make([]FaultResult, 0, len(faults))}

	for _, f := range faults {
		fs, err := fault.NewSet(g.Netlist, []fault.Fault{f})
		if err != nil {
			return nil, err
		}
		vec, ok, err := g.FindTest(fs)
		if err != nil {
			return nil, errors.Wrapf(err, "fault %s", f)
		}
		if !ok {
			report.Undetectable++
			report.Results = append(report.Results, FaultResult{Fault: f})
			continue
		}

		res, err := sim.NewSession(g.Netlist, fs, sim.WithLogger(g.Logger)).Simulate(vec)
		if err != nil {
			return nil, errors.Wrapf(err, "replay test %s for fault %s", vec, f)
		}
		if !res.Detected() {
			return nil, errors.Errorf("test %s for fault %s not confirmed by simulation (%s)", vec, f, res)
		}
		g.Logger.Fault("%s detected by %s (%s)", f, vec, res)

		report.Detected++
		report.Results = append(report.Results, FaultResult{Fault: f, Vector: vec, Detected: true})
	}
	return report, nil
}
