// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package altmin implements the alternating-minimization step of the
// solver: for a fixed rank R and read submatrix, it alternates
// assignment (U) and majority-vote reconstruction (V) of the tensor
// objective until a composite convergence criterion triggers.
package altmin

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/vqr/tensqr/internal/readmat"
	"github.com/vqr/tensqr/nucstat"
	"github.com/vqr/tensqr/tensor"
)

// Config collects the convergence and randomness parameters for Run.
type Config struct {
	MaxIter   int // iteration cap, spec default 2000
	ErrorThre float64
	Rand      *rand.Rand
}

// Result is the outcome of one alternating-minimization run.
type Result struct {
	Assign     []int   // per-read haplotype index, 0..R-1
	V          [][]int // R-by-L reconstructed haplotypes, entries in {1..4}
	Vt         *mat.Dense
	Iterations int
	Err        float64
}

// Run performs alternating minimization for rank r over read
// submatrix m (L columns), starting from an SVD-initialized Vt with
// sign determined by negate (the two SVD-sign branches explored by
// package cluster). Run returns an error if m has r or fewer rows,
// since a rank-r factorization is then underdetermined.
func Run(m readmat.Matrix, l, r int, negate bool, cfg Config) (*Result, error) {
	if len(m) <= r {
		return nil, fmt.Errorf("altmin: submatrix has %d rows, need more than R=%d", len(m), r)
	}

	t, err := tensor.Encode(m, l)
	if err != nil {
		return nil, err
	}
	p, err := tensor.ProjectionMask(m, l)
	if err != nil {
		return nil, err
	}
	pt := tensor.Tile(p)
	acgt, err := nucstat.Count(m, l)
	if err != nil {
		return nil, err
	}

	vt, err := initVt(t, l, r, negate)
	if err != nil {
		return nil, err
	}

	n := len(m)
	vtPrev := mat.NewDense(r, 4*l, nil)
	vtPrev.Apply(func(_, _ int, _ float64) float64 { return 100 }, vtPrev)

	var assign []int
	var prevErr = math.Inf(1)
	var curErr float64
	ite := 0
	for {
		ite++
		assign = assignReads(t, pt, vt, n, r)

		v := majorityVote(m, l, r, assign, acgt, cfg.Rand)
		vt = tensor.EncodeHaplotypes(v, l)

		curErr = maskedFrobenius(t, pt, vt, assign)
		errCom := math.Inf(1)
		if ite > 1 {
			errCom = math.Abs(curErr - prevErr)
		}
		errHap := diffFrobenius(vt, vtPrev) / math.Sqrt(float64(4*l)/float64(r))

		prevErr = curErr
		vtPrev = vt

		if (errHap <= cfg.ErrorThre || curErr <= cfg.ErrorThre || errCom <= cfg.ErrorThre) || ite >= cfg.MaxIter {
			return &Result{
				Assign:     assign,
				V:          tensor.Decode(vt, l),
				Vt:         vt,
				Iterations: ite,
				Err:        curErr,
			}, nil
		}
	}
}

// initVt computes the SVD-initialized starting point for Vt: the top
// R right singular vectors of t, scaled by the square root of their
// singular values, with rows reversed and negated when negate is
// true (the two sign branches explored by package cluster).
func initVt(t *mat.Dense, l, r int, negate bool) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(t, mat.SVDThin); !ok {
		return nil, fmt.Errorf("altmin: svd failed to converge")
	}
	vals := svd.Values(nil)
	var vAll mat.Dense
	svd.VTo(&vAll)
	if len(vals) < r {
		return nil, fmt.Errorf("altmin: rank %d exceeds available singular values %d", r, len(vals))
	}

	vt := mat.NewDense(r, 4*l, nil)
	for i := 0; i < r; i++ {
		scale := math.Sqrt(vals[i])
		for j := 0; j < 4*l; j++ {
			vt.Set(i, j, scale*vAll.At(j, i))
		}
	}

	reversed := mat.NewDense(r, 4*l, nil)
	for i := 0; i < r; i++ {
		reversed.SetRow(i, rowOf(vt, r-1-i))
	}
	if negate {
		reversed.Scale(-1, reversed)
	}
	return reversed, nil
}

func rowOf(m *mat.Dense, i int) []float64 {
	_, c := m.Dims()
	row := make([]float64, c)
	mat.Row(row, i, m)
	return row
}

// assignReads assigns each read to the haplotype minimizing the
// projected squared distance in tensor space.
func assignReads(t, pt, vt *mat.Dense, n, r int) []int {
	assign := make([]int, n)
	_, cols := t.Dims()
	for i := 0; i < n; i++ {
		best, bestD := 0, math.Inf(1)
		for h := 0; h < r; h++ {
			d := 0.0
			for j := 0; j < cols; j++ {
				diff := (t.At(i, j) - vt.At(h, j)) * pt.At(i, j)
				d += diff * diff
			}
			if d < bestD {
				best, bestD = h, d
			}
		}
		assign[i] = best
	}
	return assign
}

// majorityVote recomputes the R haplotypes by per-position majority
// vote over the reads currently assigned to each, falling back to the
// current submatrix's ACGTcount (with random tie-breaking) for any
// position a haplotype's assigned reads never cover.
func majorityVote(m readmat.Matrix, l, r int, assign []int, acgt [][]int, rnd *rand.Rand) [][]int {
	v := make([][]int, r)
	for h := 0; h < r; h++ {
		var idx []int
		for i, a := range assign {
			if a == h {
				idx = append(idx, i)
			}
		}
		single := make([][]int, l)
		for j := range single {
			single[j] = make([]int, 4)
		}
		if len(idx) != 0 {
			sub := m.Select(idx)
			counts, _ := nucstat.Count(sub, l)
			single = counts
		}
		row := make([]int, l)
		for j := 0; j < l; j++ {
			if nucstat.RowSum(single[j]) != 0 {
				c, _ := nucstat.Argmax(single[j])
				row[j] = c + 1
				continue
			}
			row[j] = fallbackPick(acgt[j], rnd) + 1
		}
		v[h] = row
	}
	return v
}

// fallbackPick returns the dominant nucleotide index (0..3) in
// counts, breaking ties uniformly at random.
func fallbackPick(counts []int, rnd *rand.Rand) int {
	idx, unique := nucstat.Argmax(counts)
	if unique {
		return idx
	}
	max := counts[idx]
	var tied []int
	for i, c := range counts {
		if c == max {
			tied = append(tied, i)
		}
	}
	return tied[rnd.Intn(len(tied))]
}

// maskedFrobenius returns ||(T - U*Vt) * P_T||_F, where U is the
// indicator matrix implied by assign.
func maskedFrobenius(t, pt, vt *mat.Dense, assign []int) float64 {
	n, cols := t.Dims()
	sum := 0.0
	for i := 0; i < n; i++ {
		h := assign[i]
		for j := 0; j < cols; j++ {
			diff := (t.At(i, j) - vt.At(h, j)) * pt.At(i, j)
			sum += diff * diff
		}
	}
	return math.Sqrt(sum)
}

// diffFrobenius returns ||a - b||_F.
func diffFrobenius(a, b *mat.Dense) float64 {
	r, c := a.Dims()
	sum := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := a.At(i, j) - b.At(i, j)
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}
