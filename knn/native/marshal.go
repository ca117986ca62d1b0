package native

import "unsafe"

// Metric and dtype tags from the FAISS C API headers.
const (
	metricInnerProduct int32 = 0
	metricL2           int32 = 1

	distanceDataTypeF32 int32 = 1
	indicesDataTypeI64  int32 = 1
)

// gpuDistanceParams mirrors FaissGpuDistanceParams from
// c_api/gpu/GpuDistance_c.h field for field, including alignment padding.
// Buffers cross the boundary as raw pointer plus row/column descriptors; no
// element is copied on the Go side.
type gpuDistanceParams struct {
	metric             int32
	metricArg          float32
	k                  int32
	dims               int32
	vectors            unsafe.Pointer
	vectorType         int32
	vectorsRowMajor    uint8
	_                  [3]byte
	numVectors         int64
	vectorNorms        unsafe.Pointer
	queries            unsafe.Pointer
	queryType          int32
	queriesRowMajor    uint8
	_                  [3]byte
	numQueries         int64
	outDistances       unsafe.Pointer
	ignoreOutDistances uint8
	_                  [3]byte
	outIndicesType     int32
	outIndices         unsafe.Pointer
	device             int32
	_                  [4]byte
}

// float32Ptr and int64Ptr are the only places a Go slice becomes a raw
// pointer for the interop boundary. Callers must pin the slice with
// runtime.KeepAlive across the native call.

func float32Ptr(s []float32) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

func int64Ptr(s []int64) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// goString copies a NUL-terminated C string into a Go string.
func goString(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	n := 0
	for p := ptr; *p != 0; p = (*byte)(unsafe.Add(unsafe.Pointer(p), 1)) {
		n++
	}
	return string(unsafe.Slice(ptr, n))
}
