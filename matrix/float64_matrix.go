package matrix

// internal Float64 matrix representation, used for the smoothed
// word-topic and document-topic tables and the derived distributions
type Float64Matrix struct {
	nrow uint32
	ncol uint32
	data []float64
}

// NewFloat64Matrix creates a new Float64Matrix with r rows and c columns
func NewFloat64Matrix(r, c uint32) *Float64Matrix {
	if r == 0 || c == 0 {
		panic(ErrBadShape)
	}
	return &Float64Matrix{
		nrow: r,
		ncol: c,
		data: make([]float64, uint64(r)*uint64(c)),
	}
}

// get the shape of the matrix
func (m *Float64Matrix) Shape() (uint32, uint32) {
	return m.nrow, m.ncol
}

// get the [r, c]-th element of the matrix
func (m *Float64Matrix) Get(r, c uint32) float64 {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	return m.data[r*m.ncol+c]
}

// set val to the [r, c]-th element of the matrix
func (m *Float64Matrix) Set(r, c uint32, val float64) {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	m.data[r*m.ncol+c] = val
}

// add val to the [r, c]-th element of the matrix
func (m *Float64Matrix) Add(r, c uint32, val float64) {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	m.data[r*m.ncol+c] += val
}

// add val to every element of the matrix
func (m *Float64Matrix) AddScalar(val float64) {
	for i := range m.data {
		m.data[i] += val
	}
}

// RawRow returns the r-th row backed by the matrix storage, writes
// through the returned slice are visible in the matrix
func (m *Float64Matrix) RawRow(r uint32) []float64 {
	if r >= m.nrow {
		panic(ErrIndexOutOfRange)
	}
	return m.data[r*m.ncol : (r+1)*m.ncol : (r+1)*m.ncol]
}
