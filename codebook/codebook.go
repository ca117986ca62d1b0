// Package codebook generates the deterministic pseudo-random key matrices
// searched by the retrieval engine. A codebook is generated once per
// (seed, nKeys, dim, distribution, normalized) tuple and is immutable
// afterwards; identical inputs reproduce a bit-identical matrix on every run.
package codebook

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hupe1980/pkmgo/mat32"
	"github.com/viterin/vek/vek32"
)

// Distribution selects the entry distribution of a generated codebook.
type Distribution int

const (
	// DistributionGaussian draws entries i.i.d. from a standard normal.
	DistributionGaussian Distribution = iota
	// DistributionUniform draws entries i.i.d. from [-1/sqrt(dim), 1/sqrt(dim)],
	// the conventional linear-layer initialization scale.
	DistributionUniform
)

// String returns a string representation of the Distribution.
func (d Distribution) String() string {
	switch d {
	case DistributionGaussian:
		return "gaussian"
	case DistributionUniform:
		return "uniform"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// ParseDistribution parses a string into a Distribution value.
func ParseDistribution(s string) (Distribution, bool) {
	switch s {
	case "gaussian":
		return DistributionGaussian, true
	case "uniform":
		return DistributionUniform, true
	default:
		return DistributionGaussian, false
	}
}

// Gaussian generates an nKeys x dim key matrix with standard normal entries.
// If normalized is true every row is rescaled to unit L2 norm. Entries are
// stored as float32 regardless of generator precision, matching the search
// backend buffer contract.
func Gaussian(nKeys, dim int, normalized bool, seed int64) (*mat32.Matrix, error) {
	if err := validate(nKeys, dim, seed); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	m, err := mat32.New(nKeys, dim)
	if err != nil {
		return nil, err
	}
	data := m.Raw()
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}
	if normalized {
		normalizeRows(m)
	}
	return m, nil
}

// Uniform generates an nKeys x dim key matrix with entries drawn uniformly
// from [-1/sqrt(dim), 1/sqrt(dim)]. The bound matches common linear-layer
// weight initialization, so the matrix can double as a learnable parameter
// initializer. If normalized is true every row is rescaled to unit L2 norm.
func Uniform(nKeys, dim int, normalized bool, seed int64) (*mat32.Matrix, error) {
	if err := validate(nKeys, dim, seed); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	bound := 1 / math.Sqrt(float64(dim))
	m, err := mat32.New(nKeys, dim)
	if err != nil {
		return nil, err
	}
	data := m.Raw()
	for i := range data {
		data[i] = float32(bound * (2*rng.Float64() - 1))
	}
	if normalized {
		normalizeRows(m)
	}
	return m, nil
}

// Generate dispatches to Gaussian or Uniform based on the distribution.
func Generate(dist Distribution, nKeys, dim int, normalized bool, seed int64) (*mat32.Matrix, error) {
	switch dist {
	case DistributionGaussian:
		return Gaussian(nKeys, dim, normalized, seed)
	case DistributionUniform:
		return Uniform(nKeys, dim, normalized, seed)
	default:
		return nil, fmt.Errorf("codebook: unknown distribution %d", int(dist))
	}
}

func validate(nKeys, dim int, seed int64) error {
	if nKeys <= 0 {
		return fmt.Errorf("codebook: nKeys must be positive, got %d", nKeys)
	}
	if dim <= 0 {
		return fmt.Errorf("codebook: dim must be positive, got %d", dim)
	}
	if seed < 0 {
		return fmt.Errorf("codebook: seed must be non-negative, got %d", seed)
	}
	return nil
}

// normalizeRows rescales every row to unit L2 norm. Zero rows are a
// measure-zero event under both distributions and are not defended against.
func normalizeRows(m *mat32.Matrix) {
	for i := 0; i < m.Rows(); i++ {
		row := m.Row(i)
		norm := float32(math.Sqrt(float64(vek32.Dot(row, row))))
		vek32.MulNumber_Inplace(row, 1/norm)
	}
}
