package circuit

import "github.com/pkg/errors"

// Construction errors. They are returned wrapped with the offending
// names; use errors.Is or errors.Cause to test for them.
var (
	ErrDuplicateDefinition = errors.New("duplicate definition")
	ErrCyclicDependency    = errors.New("cyclic dependency")
	ErrUnknownGateKind     = errors.New("unknown gate kind")
	ErrUndefinedWire       = errors.New("undefined wire")
	ErrArity               = errors.New("wrong number of gate inputs")
)
