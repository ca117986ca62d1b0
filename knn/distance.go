package knn

import "fmt"

// Distance selects the similarity used to rank keys against queries.
// All backends score with "higher is better" semantics:
//
//	DistanceDotProduct: score = q . k
//	DistanceCosine:     score = (q . k) / ((|q| + 1e-9) * (|k| + 1e-9))
//	DistanceL2:         score = 2*(q . k) - |q|^2 - |k|^2
//
// The L2 score is monotonically equivalent to the negative squared euclidean
// distance, so its top-k equals the top-k nearest neighbors by true L2.
type Distance int

const (
	DistanceDotProduct Distance = iota
	DistanceCosine
	DistanceL2
)

// Epsilon is added independently to each norm factor of the cosine score to
// guard the division.
const Epsilon = 1e-9

// String returns a string representation of the Distance.
func (d Distance) String() string {
	switch d {
	case DistanceDotProduct:
		return "dot_product"
	case DistanceCosine:
		return "cosine"
	case DistanceL2:
		return "l2"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// Valid reports whether d is one of the enumerated distance kinds.
func (d Distance) Valid() bool {
	switch d {
	case DistanceDotProduct, DistanceCosine, DistanceL2:
		return true
	default:
		return false
	}
}

// ParseDistance parses a distance tag into a Distance value.
func ParseDistance(s string) (Distance, bool) {
	switch s {
	case "dot_product":
		return DistanceDotProduct, true
	case "cosine":
		return DistanceCosine, true
	case "l2":
		return DistanceL2, true
	default:
		return DistanceDotProduct, false
	}
}
