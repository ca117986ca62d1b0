// Package combine merges two independent sub-codebook candidate sets through
// a batched cartesian-product expansion. It performs only the structural
// merge; re-ranking the joint candidates is the caller's concern.
package combine

import (
	"fmt"

	"github.com/hupe1980/pkmgo/mat32"
)

// PairSet holds the ordered index pairs of a cartesian expansion. A and B
// are row-aligned n x (kA*kB) matrices: pair p of row i is
// (A[i][p], B[i][p]), and pair (a_i, b_j) sits at position i*kB + j
// (row-major over A then B).
type PairSet struct {
	A *mat32.Int64Matrix
	B *mat32.Int64Matrix
}

// Rows returns the number of query rows.
func (p *PairSet) Rows() int { return p.A.Rows() }

// Width returns the number of pairs per row (kA*kB).
func (p *PairSet) Width() int { return p.A.Cols() }

// Pair returns the pth ordered pair of the given row.
func (p *PairSet) Pair(row, pth int) (a, b int64) {
	return p.A.At(row, pth), p.B.At(row, pth)
}

// Cartesian forms every ordered pair of one index from a and one from b for
// each query row, preserving row alignment.
func Cartesian(a, b *mat32.Int64Matrix) (*PairSet, error) {
	if a.Rows() != b.Rows() {
		return nil, fmt.Errorf("combine: row count mismatch: %d vs %d", a.Rows(), b.Rows())
	}
	n := a.Rows()
	kA := a.Cols()
	kB := b.Cols()

	outA, err := mat32.NewInt64(n, kA*kB)
	if err != nil {
		return nil, err
	}
	outB, err := mat32.NewInt64(n, kA*kB)
	if err != nil {
		return nil, err
	}
	for row := 0; row < n; row++ {
		srcA := a.Row(row)
		srcB := b.Row(row)
		dstA := outA.Row(row)
		dstB := outB.Row(row)
		for i := 0; i < kA; i++ {
			base := i * kB
			for j := 0; j < kB; j++ {
				dstA[base+j] = srcA[i]
				dstB[base+j] = srcB[j]
			}
		}
	}
	return &PairSet{A: outA, B: outB}, nil
}

// SumScores expands two row-aligned score sets with the same pair ordering
// as Cartesian and sums the contributions elementwise, producing the joint
// candidate scores.
func SumScores(a, b *mat32.Matrix) (*mat32.Matrix, error) {
	if a.Rows() != b.Rows() {
		return nil, fmt.Errorf("combine: row count mismatch: %d vs %d", a.Rows(), b.Rows())
	}
	n := a.Rows()
	kA := a.Cols()
	kB := b.Cols()

	out, err := mat32.New(n, kA*kB)
	if err != nil {
		return nil, err
	}
	for row := 0; row < n; row++ {
		srcA := a.Row(row)
		srcB := b.Row(row)
		dst := out.Row(row)
		for i := 0; i < kA; i++ {
			base := i * kB
			for j := 0; j < kB; j++ {
				dst[base+j] = srcA[i] + srcB[j]
			}
		}
	}
	return out, nil
}

// FlattenPairs maps every pair (a, b) to the composite key id a*nB + b,
// where nB is the size of the second sub-codebook. This reconstructs flat
// ids over the full virtual key space without materializing it.
func FlattenPairs(pairs *PairSet, nB int64) (*mat32.Int64Matrix, error) {
	if nB <= 0 {
		return nil, fmt.Errorf("combine: nB must be positive, got %d", nB)
	}
	out, err := mat32.NewInt64(pairs.Rows(), pairs.Width())
	if err != nil {
		return nil, err
	}
	for row := 0; row < pairs.Rows(); row++ {
		srcA := pairs.A.Row(row)
		srcB := pairs.B.Row(row)
		dst := out.Row(row)
		for p := range dst {
			dst[p] = srcA[p]*nB + srcB[p]
		}
	}
	return out, nil
}
