package codebook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussianDeterminism(t *testing.T) {
	a, err := Gaussian(64, 16, false, 42)
	require.NoError(t, err)
	b, err := Gaussian(64, 16, false, 42)
	require.NoError(t, err)

	// Bit-identical, not merely close.
	assert.Equal(t, a.Raw(), b.Raw())

	c, err := Gaussian(64, 16, false, 43)
	require.NoError(t, err)
	assert.NotEqual(t, a.Raw(), c.Raw())
}

func TestUniformDeterminism(t *testing.T) {
	a, err := Uniform(64, 16, false, 7)
	require.NoError(t, err)
	b, err := Uniform(64, 16, false, 7)
	require.NoError(t, err)
	assert.Equal(t, a.Raw(), b.Raw())
}

func TestUniformRange(t *testing.T) {
	dims := []int{4, 16, 100}
	for _, dim := range dims {
		m, err := Uniform(128, dim, false, 1)
		require.NoError(t, err)

		bound := float32(1 / math.Sqrt(float64(dim)))
		for _, v := range m.Raw() {
			assert.GreaterOrEqual(t, v, -bound)
			assert.LessOrEqual(t, v, bound)
		}
	}
}

func TestNormalizedRows(t *testing.T) {
	for _, dist := range []Distribution{DistributionGaussian, DistributionUniform} {
		t.Run(dist.String(), func(t *testing.T) {
			m, err := Generate(dist, 32, 24, true, 5)
			require.NoError(t, err)

			for i := 0; i < m.Rows(); i++ {
				var sum float64
				for _, v := range m.Row(i) {
					sum += float64(v) * float64(v)
				}
				assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
			}
		})
	}
}

func TestNormalizedMatchesUnnormalizedDirection(t *testing.T) {
	raw, err := Gaussian(8, 6, false, 99)
	require.NoError(t, err)
	norm, err := Gaussian(8, 6, true, 99)
	require.NoError(t, err)

	// Same seed draws the same entries; normalization only rescales rows.
	for i := 0; i < raw.Rows(); i++ {
		var sum float64
		for _, v := range raw.Row(i) {
			sum += float64(v) * float64(v)
		}
		scale := float32(1 / math.Sqrt(sum))
		for j := 0; j < raw.Cols(); j++ {
			assert.InDelta(t, raw.At(i, j)*scale, norm.At(i, j), 1e-6)
		}
	}
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name  string
		nKeys int
		dim   int
		seed  int64
	}{
		{"ZeroKeys", 0, 8, 1},
		{"NegativeKeys", -1, 8, 1},
		{"ZeroDim", 8, 0, 1},
		{"NegativeSeed", 8, 8, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Gaussian(tt.nKeys, tt.dim, false, tt.seed)
			assert.Error(t, err)
			_, err = Uniform(tt.nKeys, tt.dim, false, tt.seed)
			assert.Error(t, err)
		})
	}

	_, err := Generate(Distribution(99), 8, 8, false, 1)
	assert.Error(t, err)
}

func TestParseDistribution(t *testing.T) {
	d, ok := ParseDistribution("gaussian")
	assert.True(t, ok)
	assert.Equal(t, DistributionGaussian, d)

	d, ok = ParseDistribution("uniform")
	assert.True(t, ok)
	assert.Equal(t, DistributionUniform, d)

	_, ok = ParseDistribution("zipf")
	assert.False(t, ok)
}
