// Package dimslice partitions a vector's coordinate axis into the range
// groups used for product-key sub-query decomposition.
package dimslice

import (
	"fmt"

	"github.com/hupe1980/pkmgo/mat32"
)

// Range is a half-open interval [Start, End) of coordinate indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of coordinates covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// Slices returns the coordinate ranges for the given head.
//
// Head 0 returns the single range [0, dim) (no decomposition). For head > 0
// the dimension is cut into blocks of size dim / 2^(headID+1); blocks at even
// ordinal positions form the first group and blocks at odd positions the
// second, each group preserving ascending order, and the two groups are
// returned concatenated. When dim is not evenly divisible by the block size
// the final block is shorter; that truncation is intentional and callers
// must not re-derive an even partition.
func Slices(dim, headID int) ([]Range, error) {
	if headID == 0 {
		if err := validate(dim, headID); err != nil {
			return nil, err
		}
		return []Range{{Start: 0, End: dim}}, nil
	}
	even, odd, err := blockGroups(dim, headID)
	if err != nil {
		return nil, err
	}
	return append(even, odd...), nil
}

// SplitGroups returns the two coordinate groups the retrieval engine projects
// sub-queries onto. For head 0, where Slices yields no decomposition, the
// dimension is bisected into its lower and upper halves; for other heads the
// even-ordinal blocks form group A and the odd-ordinal blocks group B. With
// an odd block count (truncated final block) the groups are uneven.
func SplitGroups(dim, headID int) (groupA, groupB []Range, err error) {
	if headID == 0 {
		if err := validate(dim, headID); err != nil {
			return nil, nil, err
		}
		half := dim / 2
		return []Range{{Start: 0, End: half}}, []Range{{Start: half, End: dim}}, nil
	}
	return blockGroups(dim, headID)
}

// blockGroups cuts [0, dim) into blocks of size dim / 2^(headID+1) and
// separates the even-ordinal blocks from the odd-ordinal ones.
func blockGroups(dim, headID int) (even, odd []Range, err error) {
	if err := validate(dim, headID); err != nil {
		return nil, nil, err
	}

	// Shift counts at or beyond the word size yield 0, so absurdly large
	// heads fall through to the zero-block error instead of overflowing
	// the divisor.
	offset := dim >> uint(headID+1)
	if offset == 0 {
		return nil, nil, fmt.Errorf("dimslice: head %d has zero block size for dim %d", headID, dim)
	}

	for i, start := 0, 0; start < dim; i, start = i+1, start+offset {
		end := start + offset
		if end > dim {
			end = dim
		}
		r := Range{Start: start, End: end}
		if i%2 == 0 {
			even = append(even, r)
		} else {
			odd = append(odd, r)
		}
	}
	return even, odd, nil
}

func validate(dim, headID int) error {
	if dim <= 0 {
		return fmt.Errorf("dimslice: dim must be positive, got %d", dim)
	}
	if headID < 0 {
		return fmt.Errorf("dimslice: headID must be non-negative, got %d", headID)
	}
	return nil
}

// Width returns the total number of coordinates covered by the ranges.
func Width(ranges []Range) int {
	w := 0
	for _, r := range ranges {
		w += r.Len()
	}
	return w
}

// Project gathers the given coordinate ranges from every row of src into a
// new contiguous matrix, preserving range order.
func Project(src *mat32.Matrix, ranges []Range) (*mat32.Matrix, error) {
	for _, r := range ranges {
		if r.Start < 0 || r.End < r.Start || r.End > src.Cols() {
			return nil, fmt.Errorf("dimslice: range [%d, %d) out of bounds [0, %d)", r.Start, r.End, src.Cols())
		}
	}
	out, err := mat32.New(src.Rows(), Width(ranges))
	if err != nil {
		return nil, err
	}
	for i := 0; i < src.Rows(); i++ {
		row := src.Row(i)
		dst := out.Row(i)
		pos := 0
		for _, r := range ranges {
			pos += copy(dst[pos:], row[r.Start:r.End])
		}
	}
	return out, nil
}
