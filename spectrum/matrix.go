package spectrum

// Matrix is a dense row-major float64 matrix. Zero-sized matrices are valid.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// MatrixFromRows copies equally sized rows into a new matrix. It panics if
// the rows differ in length.
func MatrixFromRows(rows [][]float64) *Matrix {
	if len(rows) == 0 {
		return NewMatrix(0, 0)
	}

	m := NewMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.cols {
			panic("spectrum: ragged rows")
		}
		copy(m.Row(i), row)
	}

	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// At returns the value at row r, column c.
func (m *Matrix) At(r, c int) float64 {
	return m.data[r*m.cols+c]
}

// Set stores v at row r, column c.
func (m *Matrix) Set(r, c int, v float64) {
	m.data[r*m.cols+c] = v
}

// Add accumulates v into row r, column c.
func (m *Matrix) Add(r, c int, v float64) {
	m.data[r*m.cols+c] += v
}

// Row returns row r. The slice aliases the matrix storage.
func (m *Matrix) Row(r int) []float64 {
	return m.data[r*m.cols : (r+1)*m.cols : (r+1)*m.cols]
}

// Column returns a copy of column c.
func (m *Matrix) Column(c int) []float64 {
	col := make([]float64, m.rows)
	for r := range col {
		col[r] = m.data[r*m.cols+c]
	}

	return col
}

// Data returns the row-major backing slice.
func (m *Matrix) Data() []float64 {
	return m.data
}

// ToRows copies the matrix into a slice of rows.
func (m *Matrix) ToRows() [][]float64 {
	rows := make([][]float64, m.rows)
	for r := range rows {
		rows[r] = append([]float64(nil), m.Row(r)...)
	}

	return rows
}
