package native

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The params struct is passed by pointer across the interop boundary; its
// layout must match the C API header exactly on 64-bit platforms.
func TestGpuDistanceParamsLayout(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layout check assumes 64-bit pointers")
	}

	var p gpuDistanceParams
	assert.Equal(t, uintptr(0), unsafe.Offsetof(p.metric))
	assert.Equal(t, uintptr(4), unsafe.Offsetof(p.metricArg))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(p.k))
	assert.Equal(t, uintptr(12), unsafe.Offsetof(p.dims))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(p.vectors))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(p.vectorType))
	assert.Equal(t, uintptr(28), unsafe.Offsetof(p.vectorsRowMajor))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(p.numVectors))
	assert.Equal(t, uintptr(40), unsafe.Offsetof(p.vectorNorms))
	assert.Equal(t, uintptr(48), unsafe.Offsetof(p.queries))
	assert.Equal(t, uintptr(56), unsafe.Offsetof(p.queryType))
	assert.Equal(t, uintptr(60), unsafe.Offsetof(p.queriesRowMajor))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(p.numQueries))
	assert.Equal(t, uintptr(72), unsafe.Offsetof(p.outDistances))
	assert.Equal(t, uintptr(80), unsafe.Offsetof(p.ignoreOutDistances))
	assert.Equal(t, uintptr(84), unsafe.Offsetof(p.outIndicesType))
	assert.Equal(t, uintptr(88), unsafe.Offsetof(p.outIndices))
	assert.Equal(t, uintptr(96), unsafe.Offsetof(p.device))
	assert.Equal(t, uintptr(104), unsafe.Sizeof(p))
}

func TestPointerConversion(t *testing.T) {
	assert.Nil(t, float32Ptr(nil))
	assert.Nil(t, int64Ptr(nil))

	f := []float32{1, 2, 3}
	require.Equal(t, unsafe.Pointer(&f[0]), float32Ptr(f))

	i := []int64{4, 5}
	require.Equal(t, unsafe.Pointer(&i[0]), int64Ptr(i))
}

func TestBoolByte(t *testing.T) {
	assert.Equal(t, uint8(1), boolByte(true))
	assert.Equal(t, uint8(0), boolByte(false))
}

func TestGoString(t *testing.T) {
	assert.Equal(t, "", goString(nil))

	buf := []byte("knn failed\x00trailing")
	assert.Equal(t, "knn failed", goString(&buf[0]))

	empty := []byte{0}
	assert.Equal(t, "", goString(&empty[0]))
}
