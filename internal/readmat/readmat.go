// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package readmat holds the dense integer read-matrix representation
// shared by the solver packages, and the small set of shape-checking
// and row-selection helpers every one of them needs.
package readmat

import "fmt"

// ShapeError is returned when a read matrix is not rectangular, or
// does not have the number of columns a caller expects.
type ShapeError struct {
	Rows int
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("readmat: row has %d columns, want %d (at row %d)", e.Got, e.Want, e.Rows)
}

// Matrix is an N (reads) by L (SNV positions) matrix of symbols in
// {0,1,2,3,4}; 0 is a gap, 1..4 are A, C, G, T.
type Matrix [][]int

// Cols returns the number of columns shared by every row of m, and a
// ShapeError if the rows are ragged.
func (m Matrix) Cols() (int, error) {
	if len(m) == 0 {
		return 0, nil
	}
	l := len(m[0])
	for i, row := range m {
		if len(row) != l {
			return 0, &ShapeError{Rows: i, Want: l, Got: len(row)}
		}
	}
	return l, nil
}

// CheckCols returns a ShapeError if any row of m does not have l
// columns.
func (m Matrix) CheckCols(l int) error {
	for i, row := range m {
		if len(row) != l {
			return &ShapeError{Rows: i, Want: l, Got: len(row)}
		}
	}
	return nil
}

// Select returns the submatrix of m containing only the given row
// indices, in order. The returned rows are not copied.
func (m Matrix) Select(idx []int) Matrix {
	out := make(Matrix, len(idx))
	for i, r := range idx {
		out[i] = m[r]
	}
	return out
}

// DeleteMask returns the submatrix of m omitting rows for which drop
// is true, along with the surviving original indices.
func (m Matrix) DeleteMask(drop []bool) (kept Matrix, keptIndex []int) {
	kept = make(Matrix, 0, len(m))
	keptIndex = make([]int, 0, len(m))
	for i, row := range m {
		if i < len(drop) && drop[i] {
			continue
		}
		kept = append(kept, row)
		keptIndex = append(keptIndex, i)
	}
	return kept, keptIndex
}

// NonGapCounts returns, for each row of m, the number of non-zero
// (non-gap) entries.
func (m Matrix) NonGapCounts() []int {
	out := make([]int, len(m))
	for i, row := range m {
		n := 0
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
		out[i] = n
	}
	return out
}
