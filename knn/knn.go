// Package knn defines the exact nearest-neighbor search contract shared by
// the native and portable backends. A backend examines every key (no
// approximate indexing) and returns the k highest-scoring keys per query.
package knn

import (
	"context"
	"sync"

	"github.com/hupe1980/pkmgo/mat32"
)

// CandidateSet holds one search call's results: scores[n,k] sorted descending
// per row and row-aligned 64-bit key indices. Each row contains k distinct
// indices into the searched key matrix, or fewer if the codebook has fewer
// than k rows. Tie order among equal scores is backend-defined.
type CandidateSet struct {
	Scores  *mat32.Matrix
	Indices *mat32.Int64Matrix
}

// K returns the number of candidates per query row.
func (c *CandidateSet) K() int { return c.Indices.Cols() }

// Backend performs exact brute-force top-k search over (keys, queries).
// Calls are synchronous: any internal device-stream work is awaited before
// Search returns. Implementations document their own concurrency contract;
// see Serialized for wrapping backends that share unsynchronized state.
type Backend interface {
	// Name identifies the backend variant.
	Name() string

	// Search returns the k highest-scoring keys for every query row,
	// descending by score. keys is m x d, queries is n x d.
	Search(ctx context.Context, keys, queries *mat32.Matrix, k int, distance Distance) (*CandidateSet, error)
}

// ValidateArgs checks the argument contract common to all backends.
func ValidateArgs(keys, queries *mat32.Matrix, k int, distance Distance) error {
	if k <= 0 {
		return ErrInvalidK
	}
	if !distance.Valid() {
		return &ErrInvalidDistance{Distance: distance}
	}
	if keys.Cols() != queries.Cols() {
		return &ErrDimensionMismatch{Keys: keys.Cols(), Queries: queries.Cols()}
	}
	return nil
}

// serialized wraps a backend with a mutex so at most one Search is in flight.
type serialized struct {
	backend Backend
	mu      sync.Mutex
}

// Serialized returns a backend that forwards to b under a mutex. Use it for
// backends whose shared resources require externally serialized access, such
// as the native brute-force variant's process-wide device resources.
func Serialized(b Backend) Backend {
	return &serialized{backend: b}
}

func (s *serialized) Name() string { return s.backend.Name() }

func (s *serialized) Search(ctx context.Context, keys, queries *mat32.Matrix, k int, distance Distance) (*CandidateSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Search(ctx, keys, queries, k, distance)
}
