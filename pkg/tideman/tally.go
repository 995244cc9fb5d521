package tideman

import (
	"fmt"
	"slices"

	"github.com/matzehuels/tideman/pkg/ballot"
)

// Matrix is the N×N pairwise preference matrix. At(i, j) is the total weight
// of ballots ranking i ahead of j; the diagonal is always zero.
//
// For a matrix built by [ComputeTally], At(i, j) + At(j, i) equals the total
// electorate weight for every i ≠ j, up to floating-point rounding of the
// weights (exact for integer weights).
//
// Matrix is an immutable value. Accessors return copies.
type Matrix struct {
	n     int
	cells []float64
}

// ComputeTally validates set and reduces it to a pairwise matrix.
// Validation errors are those of [ballot.Set.Validate]; nothing is computed
// when the set is invalid.
func ComputeTally(set ballot.Set) (Matrix, error) {
	if err := set.Validate(); err != nil {
		return Matrix{}, err
	}

	n := set.N()
	cells := make([]float64, n*n)
	for _, g := range set.Groups {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if g.Ranking[i] < g.Ranking[j] {
					cells[i*n+j] += g.Weight
				} else {
					cells[j*n+i] += g.Weight
				}
			}
		}
	}
	return Matrix{n: n, cells: cells}, nil
}

// MatrixFromRows builds a matrix from explicit rows. Rows must be square and
// entries non-negative; diagonal entries are ignored and stored as zero.
func MatrixFromRows(rows [][]float64) (Matrix, error) {
	n := len(rows)
	cells := make([]float64, n*n)
	for i, row := range rows {
		if len(row) != n {
			return Matrix{}, fmt.Errorf("row %d has %d entries, want %d", i, len(row), n)
		}
		for j, v := range row {
			if i == j {
				continue
			}
			if !(v >= 0) {
				return Matrix{}, fmt.Errorf("entry [%d][%d] = %v: must be non-negative", i, j, v)
			}
			cells[i*n+j] = v
		}
	}
	return Matrix{n: n, cells: cells}, nil
}

// Size returns the number of candidates N.
func (m Matrix) Size() int { return m.n }

// At returns the weight preferring i over j, or 0 when either index is out of
// range.
func (m Matrix) At(i, j int) float64 {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		return 0
	}
	return m.cells[i*m.n+j]
}

// Rows returns a copy of the matrix as a slice of rows.
func (m Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = slices.Clone(m.cells[i*m.n : (i+1)*m.n])
	}
	return rows
}

// Equal reports whether two matrices have the same size and entries.
func (m Matrix) Equal(o Matrix) bool {
	return m.n == o.n && slices.Equal(m.cells, o.cells)
}
