package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/pkmgo/mat32"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformMatrix generates a rows x cols matrix with entries in [-1, 1).
func (r *RNG) UniformMatrix(rows, cols int) *mat32.Matrix {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, _ := mat32.New(rows, cols)
	data := m.Raw()
	for i := range data {
		data[i] = r.rand.Float32()*2 - 1
	}
	return m
}

// GaussianMatrix generates a rows x cols matrix with standard normal entries.
func (r *RNG) GaussianMatrix(rows, cols int) *mat32.Matrix {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, _ := mat32.New(rows, cols)
	data := m.Raw()
	for i := range data {
		data[i] = float32(r.rand.NormFloat64())
	}
	return m
}

// NearestByL2 returns the indices of the k keys closest to the query by true
// squared euclidean distance, computed naively and sorted by full scan. It
// is the reference the backends' l2 scoring is checked against.
func NearestByL2(keys *mat32.Matrix, query []float32, k int) []int64 {
	type cand struct {
		idx  int64
		dist float64
	}
	cands := make([]cand, keys.Rows())
	for i := 0; i < keys.Rows(); i++ {
		row := keys.Row(i)
		var d float64
		for j := range row {
			diff := float64(row[j]) - float64(query[j])
			d += diff * diff
		}
		cands[i] = cand{idx: int64(i), dist: d}
	}
	sort.Slice(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })
	if k > len(cands) {
		k = len(cands)
	}
	out := make([]int64, k)
	for i := 0; i < k; i++ {
		out[i] = cands[i].idx
	}
	return out
}

// L2Norm returns the euclidean norm of v in float64 precision.
func L2Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// IndexSet collects a row of indices into a set for order-insensitive
// comparison (tie order among equal scores is backend-defined).
func IndexSet(indices []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(indices))
	for _, idx := range indices {
		set[idx] = struct{}{}
	}
	return set
}
