package combine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pkmgo/mat32"
)

func TestCartesianCompleteness(t *testing.T) {
	a, err := mat32.Int64FromSlice([]int64{10, 11, 20, 21}, 2, 2)
	require.NoError(t, err)
	b, err := mat32.Int64FromSlice([]int64{5, 6, 7, 8, 9, 10}, 2, 3)
	require.NoError(t, err)

	pairs, err := Cartesian(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, pairs.Rows())
	assert.Equal(t, 6, pairs.Width())

	// Row-major over A then B: pair (a_i, b_j) at position i*kB + j.
	expected := [][2]int64{
		{10, 5}, {10, 6}, {10, 7},
		{11, 5}, {11, 6}, {11, 7},
	}
	for p, want := range expected {
		ga, gb := pairs.Pair(0, p)
		assert.Equal(t, want[0], ga, "pair %d", p)
		assert.Equal(t, want[1], gb, "pair %d", p)
	}

	// Every ordered pair appears exactly once per row.
	for row := 0; row < pairs.Rows(); row++ {
		seen := make(map[[2]int64]int)
		for p := 0; p < pairs.Width(); p++ {
			ga, gb := pairs.Pair(row, p)
			seen[[2]int64{ga, gb}]++
		}
		assert.Len(t, seen, 6)
		for pair, count := range seen {
			assert.Equalf(t, 1, count, "row %d pair %v", row, pair)
		}
	}
}

func TestCartesianRowMismatch(t *testing.T) {
	a, err := mat32.NewInt64(2, 2)
	require.NoError(t, err)
	b, err := mat32.NewInt64(3, 2)
	require.NoError(t, err)

	_, err = Cartesian(a, b)
	assert.Error(t, err)
}

func TestSumScores(t *testing.T) {
	a, err := mat32.FromSlice([]float32{1, 2}, 1, 2)
	require.NoError(t, err)
	b, err := mat32.FromSlice([]float32{10, 20, 30}, 1, 3)
	require.NoError(t, err)

	joint, err := SumScores(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, joint.Rows())
	assert.Equal(t, 6, joint.Cols())
	assert.Equal(t, []float32{11, 21, 31, 12, 22, 32}, joint.Row(0))

	c, err := mat32.New(2, 2)
	require.NoError(t, err)
	_, err = SumScores(a, c)
	assert.Error(t, err)
}

func TestFlattenPairs(t *testing.T) {
	a, err := mat32.Int64FromSlice([]int64{1, 2}, 1, 2)
	require.NoError(t, err)
	b, err := mat32.Int64FromSlice([]int64{3, 4}, 1, 2)
	require.NoError(t, err)

	pairs, err := Cartesian(a, b)
	require.NoError(t, err)

	flat, err := FlattenPairs(pairs, 10)
	require.NoError(t, err)
	// pairs: (1,3) (1,4) (2,3) (2,4)
	assert.Equal(t, []int64{13, 14, 23, 24}, flat.Row(0))

	_, err = FlattenPairs(pairs, 0)
	assert.Error(t, err)
}
