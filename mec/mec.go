// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mec reassigns every original read to the closest
// reconstructed haplotype and scores the result by Minimum Error
// Correction: the number of non-gap read-position cells that
// disagree with the haplotype the read is assigned to.
package mec

import (
	"math/rand"

	"github.com/vqr/tensqr/internal/readmat"
	"github.com/vqr/tensqr/nucstat"
)

// Evaluate runs the first reassignment pass over the peeled
// haplotypes recon, recomputes them by a second majority vote
// (falling back to origACGT for any position left uncovered), and
// scores the result by MEC against the original read matrix s. It
// returns the MEC score and the refined haplotype set.
func Evaluate(s readmat.Matrix, l int, recon [][]int, origACGT [][]int, rnd *rand.Rand) (mecScore int, recon2 [][]int, err error) {
	assign, err := assignClosest(s, recon)
	if err != nil {
		return 0, nil, err
	}

	recon2, err = majorityVoteFallback(s, l, len(recon), assign, origACGT, rnd)
	if err != nil {
		return 0, nil, err
	}

	assign2, err := assignClosest(s, recon2)
	if err != nil {
		return 0, nil, err
	}

	score := 0
	for i, row := range s {
		h := assign2[i]
		for j, sym := range row {
			if sym == 0 {
				continue
			}
			if sym != recon2[h][j] {
				score++
			}
		}
	}
	return score, recon2, nil
}

// assignClosest assigns each read in s to the haplotype in set with
// the most identical non-gap-agnostic nucleotide matches (ties broken
// towards the lowest haplotype index, matching numpy argmax).
func assignClosest(s readmat.Matrix, set [][]int) ([]int, error) {
	assign := make([]int, len(s))
	for i, row := range s {
		best, bestN := 0, -1
		for h, hap := range set {
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
	return assign, nil
}

// majorityVoteFallback recomputes m haplotypes by per-position
// majority vote over the reads assigned to each, falling back to
// fallbackACGT (with random tie-breaking) for uncovered positions.
func majorityVoteFallback(s readmat.Matrix, l, m int, assign []int, fallbackACGT [][]int, rnd *rand.Rand) ([][]int, error) {
	out := make([][]int, m)
	for h := 0; h < m; h++ {
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
			counts, err := nucstat.Count(s.Select(idx), l)
			if err != nil {
				return nil, err
			}
			single = counts
		}
		row := make([]int, l)
		for j := 0; j < l; j++ {
			if nucstat.RowSum(single[j]) != 0 {
				c, _ := nucstat.Argmax(single[j])
				row[j] = c + 1
				continue
			}
			idx, unique := nucstat.Argmax(fallbackACGT[j])
			if unique {
				row[j] = idx + 1
				continue
			}
			max := fallbackACGT[j][idx]
			var tied []int
			for k, c := range fallbackACGT[j] {
				if c == max {
					tied = append(tied, k)
				}
			}
			row[j] = tied[rnd.Intn(len(tied))] + 1
		}
		out[h] = row
	}
	return out, nil
}
