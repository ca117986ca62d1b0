// Package testutil provides seeded random data generators and a naive
// reference nearest-neighbor implementation shared by tests and benchmarks.
// It is not part of the public API surface.
package testutil
