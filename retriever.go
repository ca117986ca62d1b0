package pkmgo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pkmgo/codebook"
	"github.com/hupe1980/pkmgo/combine"
	"github.com/hupe1980/pkmgo/dimslice"
	"github.com/hupe1980/pkmgo/internal/queue"
	"github.com/hupe1980/pkmgo/knn"
	"github.com/hupe1980/pkmgo/mat32"
)

// Options contains configuration options for a Retriever.
type Options struct {
	// HeadID selects the coordinate slicing used for sub-query decomposition.
	HeadID int

	// Distribution selects the codebook entry distribution.
	Distribution codebook.Distribution

	// Normalized rescales every codebook row to unit L2 norm. Required when
	// cosine ranking is emulated on a backend that only supports dot_product.
	Normalized bool

	// Seed generates codebook A; codebook B uses Seed+1. Identical seeds
	// reproduce bit-identical codebooks across runs.
	Seed int64

	// Backend overrides the process-wide selected backend. Backends whose
	// shared resources require serialized access must be wrapped with
	// knn.Serialized before injection.
	Backend knn.Backend

	// Logger overrides the default text logger.
	Logger *Logger
}

// DefaultOptions contains the default configuration options for a Retriever.
var DefaultOptions = Options{
	Distribution: codebook.DistributionGaussian,
}

// WithHeadID sets the slicing head.
func WithHeadID(headID int) func(o *Options) {
	return func(o *Options) {
		o.HeadID = headID
	}
}

// WithDistribution sets the codebook distribution.
func WithDistribution(dist codebook.Distribution) func(o *Options) {
	return func(o *Options) {
		o.Distribution = dist
	}
}

// WithNormalized enables unit-L2 codebook rows.
func WithNormalized(normalized bool) func(o *Options) {
	return func(o *Options) {
		o.Normalized = normalized
	}
}

// WithSeed sets the codebook generator seed.
func WithSeed(seed int64) func(o *Options) {
	return func(o *Options) {
		o.Seed = seed
	}
}

// WithBackend injects a search backend.
func WithBackend(b knn.Backend) func(o *Options) {
	return func(o *Options) {
		o.Backend = b
	}
}

// WithLogger sets the logger.
func WithLogger(logger *Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Result holds the final top-k of a retrieval: joint candidate scores sorted
// descending per row, and the row-aligned sub-key index pairs. Callers map
// pairs to flat composite ids with Retriever.FlatIndices, or keep the pair
// form.
type Result struct {
	Scores *mat32.Matrix
	Pairs  *combine.PairSet
}

// K returns the number of final candidates per query row.
func (r *Result) K() int { return r.Pairs.Width() }

// Retriever performs end-to-end product-key lookup: it projects queries onto
// two coordinate groups, searches one sub-codebook per group, recombines the
// partial top-k sets via cartesian expansion and re-ranks the joint
// candidates. The two sub-codebooks of size nKeys reconstitute a virtual key
// space of nKeys^2 without ever materializing it.
//
// Retrieval calls are pure functions of their inputs; the only shared state
// is the lazily-initialized backend resource.
type Retriever struct {
	dim     int
	nKeys   int
	headID  int
	groupA  []dimslice.Range
	groupB  []dimslice.Range
	keysA   *mat32.Matrix
	keysB   *mat32.Matrix
	backend knn.Backend
	logger  *Logger
}

// New creates a Retriever over two generated sub-codebooks of nKeys rows
// each. dim is the full query dimensionality; the codebooks take the widths
// of the two coordinate groups derived from the configured head.
func New(dim, nKeys int, optFns ...func(o *Options)) (*Retriever, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	groupA, groupB, err := dimslice.SplitGroups(dim, opts.HeadID)
	if err != nil {
		return nil, err
	}
	widthA := dimslice.Width(groupA)
	widthB := dimslice.Width(groupB)
	if widthA == 0 || widthB == 0 {
		return nil, fmt.Errorf("pkmgo: dim %d is too small to split for head %d", dim, opts.HeadID)
	}

	keysA, err := codebook.Generate(opts.Distribution, nKeys, widthA, opts.Normalized, opts.Seed)
	if err != nil {
		return nil, err
	}
	keysB, err := codebook.Generate(opts.Distribution, nKeys, widthB, opts.Normalized, opts.Seed+1)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(nil)
	}
	backend := opts.Backend
	if backend == nil {
		backend = SelectBackend(nil, logger)
	}
	// Retrieval logs carry the head and backend of this instance.
	logger = logger.WithHead(opts.HeadID).WithBackend(backend.Name())

	return &Retriever{
		dim:     dim,
		nKeys:   nKeys,
		headID:  opts.HeadID,
		groupA:  groupA,
		groupB:  groupB,
		keysA:   keysA,
		keysB:   keysB,
		backend: backend,
		logger:  logger,
	}, nil
}

// Dim returns the full query dimensionality.
func (r *Retriever) Dim() int { return r.dim }

// NKeys returns the number of keys per sub-codebook.
func (r *Retriever) NKeys() int { return r.nKeys }

// KeysA returns sub-codebook A. The matrix is immutable by contract.
func (r *Retriever) KeysA() *mat32.Matrix { return r.keysA }

// KeysB returns sub-codebook B. The matrix is immutable by contract.
func (r *Retriever) KeysB() *mat32.Matrix { return r.keysB }

// Backend returns the search backend in use.
func (r *Retriever) Backend() knn.Backend { return r.backend }

// Retrieve returns the kFinal best joint candidates per query row. It runs
// one exact top-k1 search against codebook A and one top-k2 search against
// codebook B, expands the k1*k2 joint candidates with summed scores and
// re-ranks them exactly.
func (r *Retriever) Retrieve(ctx context.Context, queries *mat32.Matrix, k1, k2, kFinal int, distance knn.Distance) (*Result, error) {
	result, err := r.retrieve(ctx, queries, k1, k2, kFinal, distance)
	r.logger.LogRetrieve(ctx, queries.Rows(), kFinal, err)
	return result, err
}

func (r *Retriever) retrieve(ctx context.Context, queries *mat32.Matrix, k1, k2, kFinal int, distance knn.Distance) (*Result, error) {
	if kFinal <= 0 {
		return nil, knn.ErrInvalidK
	}
	if queries.Cols() != r.dim {
		return nil, &knn.ErrDimensionMismatch{Keys: r.dim, Queries: queries.Cols()}
	}

	queryA, err := dimslice.Project(queries, r.groupA)
	if err != nil {
		return nil, err
	}
	queryB, err := dimslice.Project(queries, r.groupB)
	if err != nil {
		return nil, err
	}

	// The two sub-codebook searches are independent. Backends that share
	// unsynchronized state are serialized by their own wrapper.
	var setA, setB *knn.CandidateSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		setA, err = r.backend.Search(gctx, r.keysA, queryA, k1, distance)
		r.logger.LogSearch(gctx, "A", k1, candidateCount(setA), err)
		return err
	})
	g.Go(func() error {
		var err error
		setB, err = r.backend.Search(gctx, r.keysB, queryB, k2, distance)
		r.logger.LogSearch(gctx, "B", k2, candidateCount(setB), err)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pairs, err := combine.Cartesian(setA.Indices, setB.Indices)
	if err != nil {
		return nil, err
	}
	joint, err := combine.SumScores(setA.Scores, setB.Scores)
	if err != nil {
		return nil, err
	}

	return rerank(joint, pairs, kFinal)
}

// FlatIndices maps the final pair indices onto composite key ids over the
// virtual codebook: flat = a*nKeys + b.
func (r *Retriever) FlatIndices(result *Result) (*mat32.Int64Matrix, error) {
	return combine.FlattenPairs(result.Pairs, int64(r.nKeys))
}

// rerank selects the kFinal highest summed scores per row from the joint
// candidate expansion. The candidate set is small (k1*k2), so selection is
// exact.
func rerank(joint *mat32.Matrix, pairs *combine.PairSet, kFinal int) (*Result, error) {
	n := joint.Rows()
	width := joint.Cols()
	if kFinal > width {
		kFinal = width
	}

	scores, err := mat32.New(n, kFinal)
	if err != nil {
		return nil, err
	}
	finalA, err := mat32.NewInt64(n, kFinal)
	if err != nil {
		return nil, err
	}
	finalB, err := mat32.NewInt64(n, kFinal)
	if err != nil {
		return nil, err
	}

	for row := 0; row < n; row++ {
		rowScores := joint.Row(row)
		top := queue.NewTopK(kFinal)
		for p, score := range rowScores {
			top.Push(queue.Item{Index: int64(p), Score: score})
		}

		outScores := scores.Row(row)
		outA := finalA.Row(row)
		outB := finalB.Row(row)
		for i, item := range top.Descending() {
			outScores[i] = item.Score
			a, b := pairs.Pair(row, int(item.Index))
			outA[i] = a
			outB[i] = b
		}
	}

	return &Result{
		Scores: scores,
		Pairs:  &combine.PairSet{A: finalA, B: finalB},
	}, nil
}

func candidateCount(set *knn.CandidateSet) int {
	if set == nil {
		return 0
	}
	return set.K()
}
