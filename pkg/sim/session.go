package sim

import (
	"fmt"

	"github.com/fyerfyer/fault-sim/pkg/circuit"
	"github.com/fyerfyer/fault-sim/pkg/fault"
	"github.com/fyerfyer/fault-sim/pkg/utils"
	"github.com/pkg/errors"
)

// Per-vector errors. A session that returned one of them is reset by
// Simulate and can take the next vector.
var (
	ErrInsufficientBits = errors.New("insufficient bits")
	ErrExcessBits       = errors.New("excess bits")
	ErrInvalidSymbol    = errors.New("invalid input symbol")
	ErrOutputUnreached  = errors.New("output not reached")
	ErrNoFaults         = errors.New("session has no fault set")
)

// UnreachedError names a primary output that was never resolved.
type UnreachedError struct {
	Output string
}

func (e *UnreachedError) Error() string {
	return fmt.Sprintf("output %q not reached", e.Output)
}

// Is makes errors.Is(err, ErrOutputUnreached) hold
func (e *UnreachedError) Is(target error) bool {
	return target == ErrOutputUnreached
}

// Option configures a Session
type Option func(*Session)

// WithStrictWidth rejects vectors longer than the input width instead of
// discarding their leading characters.
func WithStrictWidth() Option {
	return func(s *Session) { s.strict = true }
}

// WithStrategy selects the scheduling strategy for both passes
func WithStrategy(st Strategy) Option {
	return func(s *Session) { s.strategy = st }
}

// WithLogger sets the session logger
func WithLogger(l *utils.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session simulates one netlist vector by vector. It owns a good wire
// state and, when a fault set is given, a separate faulty wire state.
// A Session is not safe for concurrent use; use one per goroutine.
type Session struct {
	netlist  *circuit.Netlist
	faults   *fault.Set
	strict   bool
	strategy Strategy
	logger   *utils.Logger

	good, faulty           *circuit.State
	goodSched, faultySched *Scheduler
	values                 []circuit.LogicValue
}

// NewSession creates a session for n. A nil fault set gives a good-only
// session.
func NewSession(n *circuit.Netlist, fs *fault.Set, opts ...Option) *Session {
	s := &Session{
		netlist: n,
		faults:  fs,
		logger:  utils.DefaultLogger,
		good:    circuit.NewState(n),
		values:  make([]circuit.LogicValue, n.InputWidth()),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.goodSched = NewScheduler(n, nil, s.logger)
	s.goodSched.Strategy = s.strategy
	if fs != nil {
		s.faulty = circuit.NewState(n)
		s.faultySched = NewScheduler(n, fs, s.logger)
		s.faultySched.Strategy = s.strategy
	}
	return s
}

// HasFaults returns true if the session runs a faulty pass
func (s *Session) HasFaults() bool {
	return s.faults != nil
}

// Netlist returns the simulated netlist
func (s *Session) Netlist() *circuit.Netlist {
	return s.netlist
}

// Apply assigns a vector to the primary inputs of both wire states. Only
// the trailing InputWidth characters are used; the first of them goes to
// the first declared input. A line fault on a primary input overrides the
// vector in the faulty state.
func (s *Session) Apply(vector string) error {
	width := s.netlist.InputWidth()
	if len(vector) < width {
		return errors.Wrapf(ErrInsufficientBits, "vector %q has %d bits, need %d", vector, len(vector), width)
	}
	if s.strict && len(vector) > width {
		return errors.Wrapf(ErrExcessBits, "vector %q has %d bits, need %d", vector, len(vector), width)
	}
	window := vector[len(vector)-width:]

	for i := 0; i < width; i++ {
		v, ok := circuit.ParseLogicValue(window[i])
		if !ok {
			return errors.Wrapf(ErrInvalidSymbol, "%q at position %d of %q", window[i], len(vector)-width+i, vector)
		}
		s.values[i] = v
	}

	for i, id := range s.netlist.Inputs {
		v := s.values[i]
		s.good.Assign(id, v)
		if s.faulty == nil {
			continue
		}
		if stuck, ok := s.faults.Line(id); ok {
			s.logger.Fault("input %s stuck at %s (vector gives %s)", s.netlist.Wire(id).Name, stuck, v)
			v = stuck
		}
		s.faulty.Assign(id, v)
	}
	return nil
}

// Run evaluates the good pass and, if the session has faults, the faulty
// pass.
func (s *Session) Run() error {
	stats, err := s.goodSched.Run(s.good)
	if err != nil {
		return errors.Wrap(err, "good pass")
	}
	s.logger.Vector("good pass evaluated %d gates (%d deferrals)", stats.Evaluated, stats.Deferred)

	if s.faulty == nil {
		return nil
	}
	stats, err = s.faultySched.Run(s.faulty)
	if err != nil {
		return errors.Wrap(err, "faulty pass")
	}
	s.logger.Vector("faulty pass evaluated %d gates (%d deferrals)", stats.Evaluated, stats.Deferred)
	return nil
}

// Outputs returns the good-circuit output values, last declared output
// first.
func (s *Session) Outputs() (string, error) {
	return s.extract(s.good)
}

// FaultyOutputs returns the faulty-circuit output values in the same form
// as Outputs.
func (s *Session) FaultyOutputs() (string, error) {
	if s.faulty == nil {
		return "", ErrNoFaults
	}
	return s.extract(s.faulty)
}

func (s *Session) extract(st *circuit.State) (string, error) {
	outs := s.netlist.Outputs
	buf := make([]byte, len(outs))
	for i, o := range outs {
		if o.Dangling() || !st.Resolved(o.Wire) {
			return "", &UnreachedError{Output: o.Name}
		}
		buf[len(outs)-1-i] = st.Value(o.Wire).String()[0]
	}
	return string(buf), nil
}

// Reset returns every wire of both states to unresolved and unknown.
func (s *Session) Reset() {
	s.good.Reset()
	if s.faulty != nil {
		s.faulty.Reset()
	}
}

// GoodState exposes the good wire state of the current vector
func (s *Session) GoodState() *circuit.State {
	return s.good
}

// FaultyState exposes the faulty wire state, nil for good-only sessions
func (s *Session) FaultyState() *circuit.State {
	return s.faulty
}

// Simulate applies vector, evaluates, and extracts the outputs. The
// session is reset before Simulate returns, whether or not it failed.
func (s *Session) Simulate(vector string) (Result, error) {
	defer s.Reset()

	res := Result{Vector: vector, Faulted: s.faulty != nil}
	if err := s.Apply(vector); err != nil {
		res.Err = err
		return res, err
	}
	if err := s.Run(); err != nil {
		res.Err = err
		return res, err
	}

	good, err := s.Outputs()
	if err != nil {
		res.Err = err
		return res, err
	}
	res.Good = good

	if s.faulty != nil {
		faulty, err := s.FaultyOutputs()
		if err != nil {
			res.Err = err
			return res, err
		}
		res.Faulty = faulty
	}
	s.logger.Vector("%s -> %s", vector, res)
	return res, nil
}
