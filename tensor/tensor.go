// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tensor implements the one-hot tensor encoding of a read
// matrix used to give the discrete SNV alphabet a well-defined linear
// algebra structure for the SVD-initialized solver in package altmin.
//
// The one-hot blocks are laid out horizontally with block stride L:
// T = [𝟙{S=1} | 𝟙{S=2} | 𝟙{S=3} | 𝟙{S=4}]. Decode interprets the 4L
// axis the same way, group-major: channel g holds positions
// (g·L .. g·L+L-1).
package tensor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/vqr/tensqr/internal/readmat"
)

// Encode returns the N-by-4L tensor encoding of m, an N-by-L read
// matrix with entries in {0..4}.
func Encode(m readmat.Matrix, l int) (*mat.Dense, error) {
	if err := m.CheckCols(l); err != nil {
		return nil, err
	}
	t := mat.NewDense(len(m), 4*l, nil)
	for i, row := range m {
		for j, v := range row {
			if v == 0 {
				continue
			}
			t.Set(i, (v-1)*l+j, 1)
		}
	}
	return t, nil
}

// ProjectionMask returns the N-by-L mask that is 1 where m is
// non-gap and 0 where m is a gap.
func ProjectionMask(m readmat.Matrix, l int) (*mat.Dense, error) {
	if err := m.CheckCols(l); err != nil {
		return nil, err
	}
	p := mat.NewDense(len(m), l, nil)
	for i, row := range m {
		for j, v := range row {
			if v != 0 {
				p.Set(i, j, 1)
			}
		}
	}
	return p, nil
}

// Tile horizontally repeats an N-by-L projection mask four times to
// produce the N-by-4L mask used to zero gap positions in the tensor
// objective.
func Tile(p *mat.Dense) *mat.Dense {
	n, l := p.Dims()
	pt := mat.NewDense(n, 4*l, nil)
	for g := 0; g < 4; g++ {
		pt.Slice(0, n, g*l, (g+1)*l).(*mat.Dense).Copy(p)
	}
	return pt
}

// Decode recovers an R-by-L integer matrix with entries in {1..4}
// from an R-by-4L real-valued tensor, taking the per-position argmax
// over the four group-major channels.
func Decode(vt *mat.Dense, l int) [][]int {
	r, _ := vt.Dims()
	v := make([][]int, r)
	for i := 0; i < r; i++ {
		v[i] = make([]int, l)
		for j := 0; j < l; j++ {
			best, bestV := 0, vt.At(i, j)
			for g := 1; g < 4; g++ {
				if x := vt.At(i, g*l+j); x > bestV {
					best, bestV = g, x
				}
			}
			v[i][j] = best + 1
		}
	}
	return v
}

// EncodeHaplotypes one-hot encodes an R-by-L haplotype matrix with
// entries in {1..4} into its R-by-4L tensor form.
func EncodeHaplotypes(v [][]int, l int) *mat.Dense {
	vt := mat.NewDense(len(v), 4*l, nil)
	for i, row := range v {
		for j, c := range row {
			if c < 1 || c > 4 {
				continue
			}
			vt.Set(i, (c-1)*l+j, 1)
		}
	}
	return vt
}
