// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package postproc finalizes the chosen rank's haplotype set: a last
// majority vote that emits gaps rather than ACGT priors for uncovered
// positions, per-haplotype frequency estimation, and truncation to
// the population size given by the numerical rank of the resulting
// haplotype matrix.
package postproc

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/vqr/tensqr/internal/readmat"
	"github.com/vqr/tensqr/nucstat"
)

// Strain is one haplotype in the finalized quasispecies, with its
// relative frequency among the original reads.
type Strain struct {
	Seq  []int
	Freq float64
}

// Finalize reassigns every original read in s to the closest
// haplotype of recon2, recomputes each haplotype by majority vote
// (gaps where no assigned read covers a position), estimates
// frequencies, truncates to the numerical rank of the resulting
// haplotype matrix, and collapses any of the original haplotypes that
// are identical to a retained one into its frequency.
func Finalize(s readmat.Matrix, l int, recon2 [][]int, rnd *rand.Rand) ([]Strain, int, error) {
	assign := make([]int, len(s))
	for i, row := range s {
		best, bestN := 0, -1
		for h, hap := range recon2 {
			n := 0
			for j, sym := range row {
				if sym == hap[j] {
					n++
				}
			}
			if n > bestN {
				best, bestN = h, n
			}
		}
		assign[i] = best
	}

	m := len(recon2)
	vDel := make([][]int, m)
	counts := make([]int, m)
	for h := 0; h < m; h++ {
		var idx []int
		for i, a := range assign {
			if a == h {
				idx = append(idx, i)
			}
		}
		counts[h] = len(idx)

		row := make([]int, l)
		if len(idx) != 0 {
			single, err := nucstat.Count(s.Select(idx), l)
			if err != nil {
				return nil, 0, err
			}
			for j := 0; j < l; j++ {
				if nucstat.RowSum(single[j]) == 0 {
					continue // leave as gap (0)
				}
				c, _ := nucstat.Argmax(single[j])
				row[j] = c + 1
			}
		}
		vDel[h] = row
	}

	freq := make([]float64, m)
	for h, c := range counts {
		freq[h] = float64(c) / float64(len(s))
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return freq[order[a]] > freq[order[b]] })

	popSize := matrixRank(vDel)
	if popSize > m {
		popSize = m
	}

	kept := order[:popSize]
	strains := make([]Strain, popSize)
	for i, h := range kept {
		strains[i] = Strain{Seq: vDel[h], Freq: freq[h]}
	}

	// Collapse any haplotype identical to a retained one into its
	// frequency (including haplotypes dropped by the rank truncation).
	for h := 0; h < m; h++ {
		alreadyKept := false
		for _, k := range kept {
			if k == h {
				alreadyKept = true
				break
			}
		}
		if alreadyKept {
			continue
		}
		for i := range strains {
			if sameSeq(strains[i].Seq, vDel[h]) {
				strains[i].Freq += freq[h]
			}
		}
	}

	return strains, popSize, nil
}

func sameSeq(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// matrixRank returns the numerical rank of an integer matrix, using
// the same SVD-based tolerance numpy's default matrix_rank applies:
// singular values at most max(rows,cols)*eps*largest are treated as
// zero.
func matrixRank(data [][]int) int {
	rows := len(data)
	if rows == 0 {
		return 0
	}
	cols := len(data[0])
	md := mat.NewDense(rows, cols, nil)
	for i, row := range data {
		for j, v := range row {
			md.Set(i, j, float64(v))
		}
	}

	var svd mat.SVD
	if !svd.Factorize(md, mat.SVDNone) {
		return 0
	}
	vals := svd.Values(nil)
	if len(vals) == 0 {
		return 0
	}
	maxDim := rows
	if cols > maxDim {
		maxDim = cols
	}
	const eps = 2.220446049250313e-16
	tol := vals[0] * float64(maxDim) * eps
	rank := 0
	for _, v := range vals {
		if v > tol {
			rank++
		}
	}
	return rank
}
