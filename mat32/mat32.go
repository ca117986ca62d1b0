// Package mat32 provides dense row-major float32 matrices and 64-bit index
// matrices. These types define the buffer contract shared by all search
// backends: contiguous storage, fixed element width, and an explicit device
// descriptor for zero-copy interop with native libraries.
package mat32

import "fmt"

// DeviceHost marks a matrix whose backing buffer lives in host memory.
// Non-negative values identify accelerator devices.
const DeviceHost = -1

// Matrix is a dense row-major float32 matrix.
//
// A freshly constructed Matrix is always contiguous (stride == cols). Views
// created with Slice share the parent's backing storage and may be
// non-contiguous; backends that require zero-copy marshaling must check
// Contiguous before handing the buffer across an interop boundary.
type Matrix struct {
	data   []float32
	rows   int
	cols   int
	stride int
	device int
}

// New creates a zero-valued rows x cols matrix in host memory.
func New(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("mat32: invalid shape %dx%d", rows, cols)
	}
	return &Matrix{
		data:   make([]float32, rows*cols),
		rows:   rows,
		cols:   cols,
		stride: cols,
		device: DeviceHost,
	}, nil
}

// FromSlice wraps an existing slice as a rows x cols matrix without copying.
// The slice length must be exactly rows*cols.
func FromSlice(data []float32, rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("mat32: invalid shape %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("mat32: slice length %d does not match shape %dx%d", len(data), rows, cols)
	}
	return &Matrix{
		data:   data,
		rows:   rows,
		cols:   cols,
		stride: cols,
		device: DeviceHost,
	}, nil
}

// FromRows copies the given row slices into a new contiguous matrix.
// All rows must have equal length.
func FromRows(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return New(0, 0)
	}
	cols := len(rows[0])
	m, err := New(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("mat32: row %d has length %d, want %d", i, len(r), cols)
		}
		copy(m.Row(i), r)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Stride returns the distance in elements between the starts of adjacent rows.
func (m *Matrix) Stride() int { return m.stride }

// Device returns the device descriptor of the backing buffer.
func (m *Matrix) Device() int { return m.device }

// SetDevice tags the matrix with a device descriptor. It does not move data;
// it only records where the buffer is expected to reside.
func (m *Matrix) SetDevice(device int) { m.device = device }

// Contiguous reports whether the logical layout matches the physical layout
// with no gaps between rows.
func (m *Matrix) Contiguous() bool { return m.stride == m.cols }

// Row returns the i-th row. The returned slice aliases the matrix storage.
func (m *Matrix) Row(i int) []float32 {
	start := i * m.stride
	return m.data[start : start+m.cols]
}

// At returns the element at (i, j).
func (m *Matrix) At(i, j int) float32 { return m.data[i*m.stride+j] }

// Set stores v at (i, j).
func (m *Matrix) Set(i, j int, v float32) { m.data[i*m.stride+j] = v }

// Raw returns the backing slice. For contiguous matrices it contains exactly
// rows*cols elements in row-major order.
func (m *Matrix) Raw() []float32 { return m.data }

// Slice returns a view of columns [c0, c1) sharing the parent's storage.
// The view is non-contiguous unless it spans all columns.
func (m *Matrix) Slice(c0, c1 int) (*Matrix, error) {
	if c0 < 0 || c1 < c0 || c1 > m.cols {
		return nil, fmt.Errorf("mat32: column slice [%d, %d) out of range [0, %d)", c0, c1, m.cols)
	}
	data := m.data
	if m.rows > 0 {
		data = m.data[c0 : (m.rows-1)*m.stride+c1]
	}
	return &Matrix{
		data:   data,
		rows:   m.rows,
		cols:   c1 - c0,
		stride: m.stride,
		device: m.device,
	}, nil
}

// Clone returns a contiguous deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	out, _ := New(m.rows, m.cols)
	out.device = m.device
	for i := 0; i < m.rows; i++ {
		copy(out.Row(i), m.Row(i))
	}
	return out
}

// Int64Matrix is a dense row-major int64 matrix. Search backends report
// neighbor indices through this type; the 64-bit width is part of the
// native interop contract.
type Int64Matrix struct {
	data []int64
	rows int
	cols int
}

// NewInt64 creates a zero-valued rows x cols index matrix.
func NewInt64(rows, cols int) (*Int64Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("mat32: invalid shape %dx%d", rows, cols)
	}
	return &Int64Matrix{
		data: make([]int64, rows*cols),
		rows: rows,
		cols: cols,
	}, nil
}

// Int64FromSlice wraps an existing slice as a rows x cols index matrix.
func Int64FromSlice(data []int64, rows, cols int) (*Int64Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("mat32: invalid shape %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("mat32: slice length %d does not match shape %dx%d", len(data), rows, cols)
	}
	return &Int64Matrix{data: data, rows: rows, cols: cols}, nil
}

// Rows returns the number of rows.
func (m *Int64Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Int64Matrix) Cols() int { return m.cols }

// Row returns the i-th row. The returned slice aliases the matrix storage.
func (m *Int64Matrix) Row(i int) []int64 {
	start := i * m.cols
	return m.data[start : start+m.cols]
}

// At returns the element at (i, j).
func (m *Int64Matrix) At(i, j int) int64 { return m.data[i*m.cols+j] }

// Set stores v at (i, j).
func (m *Int64Matrix) Set(i, j int, v int64) { m.data[i*m.cols+j] = v }

// Raw returns the backing slice in row-major order.
func (m *Int64Matrix) Raw() []int64 { return m.data }
