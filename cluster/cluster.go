// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cluster implements successive clustering: given a starting
// rank, it repeatedly runs alternating minimization (package altmin),
// peels off the most dominant haplotype using a Hamming-distance and
// likelihood based read-assignment rule, and repeats on the shrinking
// read set until the rank is exhausted.
package cluster

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/vqr/tensqr/altmin"
	"github.com/vqr/tensqr/internal/readmat"
	"github.com/vqr/tensqr/mismatch"
	"github.com/vqr/tensqr/nucstat"
)

// Config collects the parameters successive clustering needs to drive
// alternating minimization and the read-selection rule.
type Config struct {
	AltMin   altmin.Config
	Table    mismatch.Table
	ErrRate  float64
	Rand     *rand.Rand
}

// Run peels r0 haplotypes, one at a time, from read matrix s (L
// columns), using the SVD sign branch selected by negate. It returns
// the peeled haplotypes in extraction order and ok=false if, at any
// peeling step, no read could be assigned to the dominant haplotype
// (spec's degenerate-branch guard) — in that case the branch is
// abandoned and the caller must treat its MEC as infinite.
func Run(s readmat.Matrix, l, r0 int, negate bool, cfg Config) (recon [][]int, ok bool, err error) {
	curM := append(readmat.Matrix(nil), s...)
	curNongap := curM.NonGapCounts()
	curMisCri := cfg.Table.Criteria(curNongap)

	r := r0
	for r > 0 && len(curM) > r {
		res, rerr := altmin.Run(curM, l, r, negate, cfg.AltMin)
		if rerr != nil {
			return nil, false, rerr
		}

		domi := dominant(res.Assign, r)
		vStar := append([]int(nil), res.V[domi]...)

		acgt, aerr := nucstat.Count(curM, l)
		if aerr != nil {
			return nil, false, aerr
		}

		var selected []int
		for i, row := range curM {
			ident, nongap := 0, 0
			for j, sym := range row {
				if sym == 0 {
					continue
				}
				nongap++
				if sym == vStar[j] {
					ident++
				}
			}
			hd := nongap - ident
			switch {
			case hd == 0:
				selected = append(selected, i)
			case hd <= curMisCri[i]:
				if sequencingDominates(row, vStar, acgt, nongap, hd, cfg.ErrRate) {
					selected = append(selected, i)
				}
			}
		}

		if len(selected) == 0 {
			return nil, false, nil
		}

		addi, aerr := nucstat.Count(curM.Select(selected), l)
		if aerr != nil {
			return nil, false, aerr
		}
		for j := range vStar {
			if nucstat.RowSum(addi[j]) == 0 {
				continue
			}
			c, _ := nucstat.Argmax(addi[j])
			vStar[j] = c + 1
		}
		recon = append(recon, vStar)

		drop := make([]bool, len(curM))
		for _, i := range selected {
			drop[i] = true
		}
		curM, _ = curM.DeleteMask(drop)
		curMisCri = deleteAt(curMisCri, drop)
		r--
	}

	return recon, true, nil
}

// dominant returns the haplotype index with the most assigned reads.
func dominant(assign []int, r int) int {
	counts := make([]int, r)
	for _, a := range assign {
		counts[a]++
	}
	best, bestN := 0, -1
	for h, n := range counts {
		if n > bestN {
			best, bestN = h, n
		}
	}
	return best
}

// sequencingDominates reports whether the sequencing-error
// explanation for read's mismatches against candidate is more likely
// than the variant explanation, under the current ACGTcount table.
func sequencingDominates(read, candidate []int, acgt [][]int, nongap, hd int, errRate float64) bool {
	prVariant := 1.0
	for j, sym := range read {
		if sym == 0 {
			continue
		}
		total := nucstat.RowSum(acgt[j])
		if total == 0 {
			continue
		}
		prVariant *= float64(acgt[j][sym-1]) / float64(total)
	}
	b := distuv.Binomial{N: float64(nongap), P: errRate}
	prSeq := b.Prob(float64(hd))
	return prSeq > prVariant
}

func deleteAt(s []int, drop []bool) []int {
	out := make([]int, 0, len(s))
	for i, v := range s {
		if i < len(drop) && drop[i] {
			continue
		}
		out = append(out, v)
	}
	return out
}
