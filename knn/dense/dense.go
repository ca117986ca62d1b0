// Package dense provides the portable brute-force search backend. It
// computes the full score matrix between keys and queries with SIMD dot
// products and selects an exact top-k per query row.
//
// The backend is stateless and reentrant: concurrent Search calls with
// independent buffers are safe. Memory cost is O(m*n) work with O(k)
// selection state per row, acceptable for small and medium codebooks. It is
// selected automatically when the native library or an accelerator is
// unavailable.
package dense

import (
	"context"
	"math"

	"github.com/hupe1980/pkmgo/internal/queue"
	"github.com/hupe1980/pkmgo/knn"
	"github.com/hupe1980/pkmgo/mat32"
	"github.com/viterin/vek/vek32"
)

// Compile-time check to ensure Backend satisfies the knn.Backend interface.
var _ knn.Backend = (*Backend)(nil)

// Backend is the portable exact top-k search implementation. The zero value
// is ready to use.
type Backend struct{}

// New creates a dense matrix top-k backend.
func New() *Backend { return &Backend{} }

// Name identifies the backend variant.
func (b *Backend) Name() string { return "DenseMatrixTopK" }

// Search scores every key against every query row and returns the k best
// keys per row, descending by score. All three distance kinds are supported
// natively; no pre-normalization is required.
func (b *Backend) Search(ctx context.Context, keys, queries *mat32.Matrix, k int, distance knn.Distance) (*knn.CandidateSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := knn.ValidateArgs(keys, queries, k, distance); err != nil {
		return nil, err
	}

	m := keys.Rows()
	n := queries.Rows()
	if k > m {
		k = m
	}

	// Key norm terms are query-independent; hoist them out of the row loop.
	var keyNorms []float32
	switch distance {
	case knn.DistanceCosine:
		keyNorms = make([]float32, m)
		for j := 0; j < m; j++ {
			row := keys.Row(j)
			keyNorms[j] = sqrt32(vek32.Dot(row, row)) + knn.Epsilon
		}
	case knn.DistanceL2:
		keyNorms = make([]float32, m)
		for j := 0; j < m; j++ {
			row := keys.Row(j)
			keyNorms[j] = vek32.Dot(row, row)
		}
	}

	scores, err := mat32.New(n, k)
	if err != nil {
		return nil, err
	}
	indices, err := mat32.NewInt64(n, k)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q := queries.Row(i)

		var qNorm float32
		switch distance {
		case knn.DistanceCosine:
			qNorm = sqrt32(vek32.Dot(q, q)) + knn.Epsilon
		case knn.DistanceL2:
			qNorm = vek32.Dot(q, q)
		}

		top := queue.NewTopK(k)
		for j := 0; j < m; j++ {
			dot := vek32.Dot(q, keys.Row(j))
			var score float32
			switch distance {
			case knn.DistanceDotProduct:
				score = dot
			case knn.DistanceCosine:
				score = dot / (qNorm * keyNorms[j])
			case knn.DistanceL2:
				score = 2*dot - qNorm - keyNorms[j]
			}
			top.Push(queue.Item{Index: int64(j), Score: score})
		}

		outScores := scores.Row(i)
		outIndices := indices.Row(i)
		for p, item := range top.Descending() {
			outScores[p] = item.Score
			outIndices[p] = item.Index
		}
	}

	return &knn.CandidateSet{Scores: scores, Indices: indices}, nil
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
