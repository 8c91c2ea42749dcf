package envelope

import "errors"

// Failures reported by Graph mutations. A failed call leaves the graph
// unchanged.
var (
	ErrCapacityExceeded  = errors.New("node capacity exceeded")
	ErrBelowMinimum      = errors.New("graph needs at least two nodes")
	ErrIndexOutOfRange   = errors.New("node index out of range")
	ErrOperationDisabled = errors.New("operation disabled for node")
)
