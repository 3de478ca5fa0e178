// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nucstat computes per-position nucleotide statistics over a
// read submatrix, the ACGTcount table used throughout the solver.
package nucstat

import (
	"gonum.org/v1/gonum/floats"

	"github.com/vqr/tensqr/internal/readmat"
)

// Count returns an L-by-4 table whose (j, c) entry is the number of
// rows of m with value c+1 (A=0, C=1, G=2, T=3) at column j. l is the
// expected number of columns; it is required explicitly because m may
// have zero rows, in which case the shape cannot otherwise be
// inferred. Count returns a *readmat.ShapeError if m is ragged or any
// row's length does not equal l.
func Count(m readmat.Matrix, l int) ([][]int, error) {
	if err := m.CheckCols(l); err != nil {
		return nil, err
	}
	out := make([][]int, l)
	for j := range out {
		out[j] = make([]int, 4)
	}
	for _, row := range m {
		for j, v := range row {
			if v == 0 {
				continue
			}
			out[j][v-1]++
		}
	}
	return out, nil
}

// Argmax returns the index of the largest entry of counts, a single
// ACGTcount row (ties broken towards the lowest index), and whether
// that maximum is unique.
func Argmax(counts []int) (idx int, unique bool) {
	f := make([]float64, len(counts))
	for i, c := range counts {
		f[i] = float64(c)
	}
	idx = floats.MaxIdx(f)
	n := 0
	for _, v := range f {
		if v == f[idx] {
			n++
		}
	}
	return idx, n == 1
}

// RowSum returns the sum of a single ACGTcount row.
func RowSum(counts []int) int {
	s := 0
	for _, c := range counts {
		s += c
	}
	return s
}
