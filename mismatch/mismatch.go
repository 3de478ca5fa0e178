// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mismatch builds the per-read Hamming-distance budget table
// that drives read-to-haplotype assignment in package cluster. For
// each candidate mismatch count t, the table holds the smallest
// non-gap length at which, under a binomial sequencing-error model
// with rate eps, the tail probability of t or more errors reaches a
// fixed p-value. The budget for a read with n non-gap positions is
// one more than the number of table lengths that n reaches (see
// Table.Criteria).
package mismatch

import "gonum.org/v1/gonum/stat/distuv"

// Params configures threshold-table construction. Zero-value Params
// probably isn't what a caller wants; use DefaultParams as a base.
type Params struct {
	ErrRate float64 // sequencing error rate, fraction, e.g. 0.002 for 0.2%
	PValue  float64 // binomial tail cutoff, e.g. 1e-5
	MaxThre int     // maximum candidate mismatch threshold, e.g. 20
	MaxLen  int     // maximum non-gap read length considered, e.g. 300
}

// DefaultParams matches spec.md §6's documented defaults, except for
// ErrRate which has no sensible zero-value default and must be set
// from the run's err-rate configuration.
var DefaultParams = Params{
	PValue:  1e-5,
	MaxThre: 20,
	MaxLen:  300,
}

// Table is the precomputed mismatch-threshold table: for threshold
// index l (0-based), L[l] is the smallest non-gap read length at
// which threshold Th[l] becomes admissible.
type Table struct {
	L  []int
	Th []int
}

// Build constructs the threshold table for the given parameters. For
// each candidate threshold t in [1, MaxThre], it finds the smallest
// non-gap length n in [1, MaxLen] such that
// Pr[X >= t | X ~ Binomial(n, ErrRate)] >= PValue, and records (n, t).
// L[0] is then incremented by one so the table starts at length 2
// (reads with a single non-gap position receive threshold 1).
func Build(p Params) Table {
	var t Table
	for thre := 1; thre <= p.MaxThre; thre++ {
		for l := 1; l <= p.MaxLen; l++ {
			b := distuv.Binomial{N: float64(l), P: p.ErrRate}
			pr := 1.0
			for k := 0; k < thre; k++ {
				pr -= b.Prob(float64(k))
			}
			if pr >= p.PValue {
				t.Th = append(t.Th, thre)
				t.L = append(t.L, l)
				break
			}
		}
	}
	if len(t.L) > 0 {
		t.L[0]++
	}
	return t
}

// Criteria returns, for each read's non-gap count in nongap, the
// mismatch budget mis_cri: the smallest index l+1 (1-based) such that
// nongap < t.L[l], or len(t.Th)+1 if no such index exists.
func (t Table) Criteria(nongap []int) []int {
	out := make([]int, len(nongap))
	for i, n := range nongap {
		crit := len(t.Th) + 1
		for l, bound := range t.L {
			if n < bound {
				crit = l + 1
				break
			}
		}
		out[i] = crit
	}
	return out
}
