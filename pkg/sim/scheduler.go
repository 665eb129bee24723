// Package sim evaluates a netlist under input vectors, with and without
// stuck-at faults injected.
package sim

import (
	"github.com/fyerfyer/fault-sim/pkg/circuit"
	"github.com/fyerfyer/fault-sim/pkg/fault"
	"github.com/fyerfyer/fault-sim/pkg/utils"
	"github.com/pkg/errors"
)

// ErrStalled is returned when gates remain whose inputs can never be
// resolved, which happens when a pass starts before the primary inputs
// were applied.
var ErrStalled = errors.New("evaluation stalled")

// Strategy selects how the scheduler orders gate evaluations. Both
// strategies evaluate each gate exactly once and commit identical values.
type Strategy int

const (
	// ReadyQueue tracks unresolved inputs per gate and queues a gate as
	// soon as its count reaches zero.
	ReadyQueue Strategy = iota
	// Worklist seeds a queue with every gate, evaluates the head if ready
	// and otherwise moves it to the back.
	Worklist
)

// String returns a string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case ReadyQueue:
		return "ready-queue"
	case Worklist:
		return "worklist"
	default:
		return "unknown"
	}
}

// Stats describes one scheduler pass.
type Stats struct {
	Evaluated int // Gates evaluated
	Deferred  int // Times a gate was popped before it was ready (Worklist only)
}

// Scheduler drives gate evaluation over a State to a fixed point. With a
// non-nil fault set it runs the faulty pass.
type Scheduler struct {
	Netlist  *circuit.Netlist
	Faults   *fault.Set
	Strategy Strategy
	Logger   *utils.Logger

	inputs []circuit.LogicValue // scratch buffer for gate input values
}

// NewScheduler creates a scheduler for n. fs may be nil.
func NewScheduler(n *circuit.Netlist, fs *fault.Set, logger *utils.Logger) *Scheduler {
	if logger == nil {
		logger = utils.DefaultLogger
	}
	return &Scheduler{
		Netlist: n,
		Faults:  fs,
		Logger:  logger,
	}
}

// Run evaluates every gate of the netlist once, reading and committing
// wire values in st. Primary inputs must already be resolved.
func (s *Scheduler) Run(st *circuit.State) (Stats, error) {
	switch s.Strategy {
	case ReadyQueue:
		return s.runReadyQueue(st)
	case Worklist:
		return s.runWorklist(st)
	default:
		return Stats{}, errors.Errorf("unknown scheduling strategy %d", int(s.Strategy))
	}
}

func (s *Scheduler) runReadyQueue(st *circuit.State) (Stats, error) {
	var stats Stats
	gates := s.Netlist.Gates
	pending := make(map[*circuit.Gate]int, len(gates))
	queue := make([]*circuit.Gate, 0, len(gates))

	for _, g := range gates {
		if st.Resolved(g.Output) {
			continue
		}
		count := 0
		for _, in := range g.Inputs {
			if !st.Resolved(in) {
				count++
			}
		}
		pending[g] = count
		if count == 0 {
			queue = append(queue, g)
		}
	}

	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]
		delete(pending, g)

		if err := s.evaluate(g, st); err != nil {
			return stats, err
		}
		stats.Evaluated++

		for _, next := range s.Netlist.Wire(g.Output).Fanout {
			if _, waiting := pending[next]; !waiting {
				continue
			}
			pending[next]--
			if pending[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(pending) > 0 {
		return stats, errors.Wrapf(ErrStalled, "%d gates never became ready", len(pending))
	}
	return stats, nil
}

func (s *Scheduler) runWorklist(st *circuit.State) (Stats, error) {
	var stats Stats
	queue := make([]*circuit.Gate, 0, len(s.Netlist.Gates))
	for _, g := range s.Netlist.Gates {
		if !st.Resolved(g.Output) {
			queue = append(queue, g)
		}
	}

	// misses counts consecutive deferrals; a full rotation of them means
	// nothing in the queue can ever become ready.
	misses := 0
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]

		if !s.ready(g, st) {
			queue = append(queue, g)
			stats.Deferred++
			misses++
			if misses >= len(queue) {
				return stats, errors.Wrapf(ErrStalled, "%d gates never became ready", len(queue))
			}
			continue
		}
		misses = 0

		if err := s.evaluate(g, st); err != nil {
			return stats, err
		}
		stats.Evaluated++
	}
	return stats, nil
}

func (s *Scheduler) ready(g *circuit.Gate, st *circuit.State) bool {
	for _, in := range g.Inputs {
		if !st.Resolved(in) {
			return false
		}
	}
	return true
}

// evaluate computes g from the values it observes and commits its output.
// Terminal faults only change the observed copy of an input; a line fault
// on the output replaces the committed value.
func (s *Scheduler) evaluate(g *circuit.Gate, st *circuit.State) error {
	s.inputs = s.inputs[:0]
	for _, in := range g.Inputs {
		s.inputs = append(s.inputs, st.Value(in))
	}
	for _, e := range s.Faults.Terminals(g.Output) {
		for i, in := range g.Inputs {
			if in == e.Terminal {
				s.inputs[i] = e.StuckAt
			}
		}
	}

	v, err := circuit.Evaluate(g.Type, s.inputs)
	if err != nil {
		return errors.Wrapf(err, "evaluate %s", s.Netlist.DescribeGate(g))
	}
	if stuck, ok := s.Faults.Line(g.Output); ok {
		v = stuck
	}
	st.Assign(g.Output, v)

	if log := s.logger(); log.Enabled(utils.TraceLevel) {
		log.Schedule("%s -> %s", s.Netlist.DescribeGate(g), v)
	}
	return nil
}

func (s *Scheduler) logger() *utils.Logger {
	if s.Logger == nil {
		return utils.DefaultLogger
	}
	return s.Logger
}
