package knn

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("knn: k must be positive")
)

// ErrDimensionMismatch indicates that keys and queries disagree on feature
// dimensionality. Caller-recoverable by fixing inputs.
type ErrDimensionMismatch struct {
	Keys    int
	Queries int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("knn: feature dimension mismatch: keys have %d, queries have %d", e.Keys, e.Queries)
}

// ErrInvalidDistance indicates an unrecognized distance tag.
type ErrInvalidDistance struct {
	Distance Distance
}

func (e *ErrInvalidDistance) Error() string {
	return fmt.Sprintf("knn: invalid distance: %s", e.Distance)
}

// ErrUnsupportedDistance indicates a distance the selected backend cannot
// compute directly. Recoverable by pre-normalizing inputs and requesting
// dot_product, or by using a backend that supports the distance natively.
type ErrUnsupportedDistance struct {
	Backend  string
	Distance Distance
}

func (e *ErrUnsupportedDistance) Error() string {
	return fmt.Sprintf("knn: %s backend does not support distance %s", e.Backend, e.Distance)
}

// ErrPrecondition indicates a violated buffer contract: non-contiguous
// storage, wrong element width, or buffers on mismatched devices. These are
// caller contract violations; the call aborts rather than coercing buffers.
type ErrPrecondition struct {
	Reason string
}

func (e *ErrPrecondition) Error() string {
	return "knn: precondition violated: " + e.Reason
}
