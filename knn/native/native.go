package native

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/hupe1980/pkmgo/knn"
	"github.com/hupe1980/pkmgo/mat32"
)

// Compile-time check to ensure Backend satisfies the knn.Backend interface.
var _ knn.Backend = (*Backend)(nil)

// DefaultTempMemoryBytes is the temporary device memory budget configured on
// the shared resources handle.
const DefaultTempMemoryBytes = 1200 * 1024 * 1024

// Options contains configuration options for the native backend.
type Options struct {
	// LibraryPath overrides the library search; empty means probe the
	// standard locations.
	LibraryPath string

	// TempMemoryBytes is the scratch memory budget for the shared device
	// resources. Only the value seen at first use takes effect.
	TempMemoryBytes int64
}

// DefaultOptions contains the default configuration options for the native backend.
var DefaultOptions = Options{
	TempMemoryBytes: DefaultTempMemoryBytes,
}

// Backend performs exact brute-force top-k search on an accelerator through
// the FAISS C API. Inputs must be contiguous float32 matrices on the same
// device; neighbor indices are produced as 64-bit integers.
//
// All calls share one process-wide resources handle with no internal
// locking: callers must ensure at most one Search is in flight, or wrap the
// backend with knn.Serialized. Cosine is not supported directly; normalize
// rows and request dot_product instead.
type Backend struct {
	opts Options
}

// New creates a native brute-force backend.
func New(optFns ...func(o *Options)) *Backend {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{opts: opts}
}

// WithLibraryPath overrides the FAISS library location.
func WithLibraryPath(path string) func(o *Options) {
	return func(o *Options) {
		o.LibraryPath = path
	}
}

// WithTempMemory sets the device scratch memory budget in bytes.
func WithTempMemory(bytes int64) func(o *Options) {
	return func(o *Options) {
		o.TempMemoryBytes = bytes
	}
}

// Name identifies the backend variant.
func (b *Backend) Name() string { return "NativeBruteForce" }

// Available reports whether the native library can be loaded and at least
// one accelerator is present. The probe result is fixed for the process
// lifetime; absence is reported as ErrUnavailable, not a failure.
func (b *Backend) Available() error {
	if err := initialize(b.opts.LibraryPath); err != nil {
		return err
	}
	if n := faissGetNumGpus(); n <= 0 {
		return fmt.Errorf("%w: no accelerator device found", ErrUnavailable)
	}
	return nil
}

// Process-wide device resources: temp memory arena plus null default stream
// on all devices. Built lazily at most once, never torn down before process
// exit.
var (
	resOnce   sync.Once
	resErr    error
	resHandle uintptr
)

func ensureResources(tempMemoryBytes int64) (uintptr, error) {
	resOnce.Do(func() {
		var handle uintptr
		if rc := faissGpuResourcesNew(&handle); rc != 0 {
			resErr = fmt.Errorf("native: creating gpu resources failed: %s", lastError())
			return
		}
		if rc := faissGpuResourcesSetNullStream(handle); rc != 0 {
			resErr = fmt.Errorf("native: configuring default stream failed: %s", lastError())
			return
		}
		if rc := faissGpuResourcesSetTempMem(handle, uintptr(tempMemoryBytes)); rc != 0 {
			resErr = fmt.Errorf("native: configuring temp memory failed: %s", lastError())
			return
		}
		resHandle = handle
	})
	return resHandle, resErr
}

// Search returns the k highest-scoring keys per query row, descending.
// Supported distances are dot_product and l2; the l2 score follows the
// common contract 2*(q.k) - |q|^2 - |k|^2.
func (b *Backend) Search(ctx context.Context, keys, queries *mat32.Matrix, k int, distance knn.Distance) (*knn.CandidateSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := knn.ValidateArgs(keys, queries, k, distance); err != nil {
		return nil, err
	}
	if distance == knn.DistanceCosine {
		return nil, &knn.ErrUnsupportedDistance{Backend: b.Name(), Distance: distance}
	}
	if !keys.Contiguous() || !queries.Contiguous() {
		return nil, &knn.ErrPrecondition{Reason: "buffers must be contiguous"}
	}
	if keys.Device() != queries.Device() {
		return nil, &knn.ErrPrecondition{
			Reason: fmt.Sprintf("buffers on mismatched devices: keys on %d, queries on %d", keys.Device(), queries.Device()),
		}
	}
	if err := b.Available(); err != nil {
		return nil, err
	}

	res, err := ensureResources(b.opts.TempMemoryBytes)
	if err != nil {
		return nil, err
	}

	metric := metricInnerProduct
	if distance == knn.DistanceL2 {
		metric = metricL2
	}

	m := keys.Rows()
	n := queries.Rows()
	if k > m {
		k = m
	}

	outScores := make([]float32, n*k)
	outIndices := make([]int64, n*k)

	keyData := keys.Raw()
	queryData := queries.Raw()

	params := gpuDistanceParams{
		metric:          metric,
		k:               int32(k),
		dims:            int32(keys.Cols()),
		vectors:         float32Ptr(keyData),
		vectorType:      distanceDataTypeF32,
		vectorsRowMajor: boolByte(true),
		numVectors:      int64(m),
		queries:         float32Ptr(queryData),
		queryType:       distanceDataTypeF32,
		queriesRowMajor: boolByte(true),
		numQueries:      int64(n),
		outDistances:    float32Ptr(outScores),
		outIndicesType:  indicesDataTypeI64,
		outIndices:      int64Ptr(outIndices),
		device:          int32(keys.Device()),
	}

	rc := faissBfKnn(res, &params)
	runtime.KeepAlive(keyData)
	runtime.KeepAlive(queryData)
	runtime.KeepAlive(outScores)
	runtime.KeepAlive(outIndices)
	if rc != 0 {
		return nil, fmt.Errorf("native: brute-force search failed: %s", lastError())
	}

	// The library reports L2 results as squared distances, best first.
	// Negating maps them onto the common descending score contract.
	if distance == knn.DistanceL2 {
		for i := range outScores {
			outScores[i] = -outScores[i]
		}
	}

	scores, err := mat32.FromSlice(outScores, n, k)
	if err != nil {
		return nil, err
	}
	indices, err := mat32.Int64FromSlice(outIndices, n, k)
	if err != nil {
		return nil, err
	}
	return &knn.CandidateSet{Scores: scores, Indices: indices}, nil
}
