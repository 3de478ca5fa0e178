// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rank implements the outer bisection search over candidate
// population sizes K, driven by the MEC-improvement ratio between K
// and K+1. It owns a per-K cache of cluster results keyed directly by
// K, replacing the dynamically-named per-K variables of the original
// solver (see spec's design notes on dynamic name binding).
package rank

import (
	"math"
	"math/rand"

	"github.com/vqr/tensqr/cluster"
	"github.com/vqr/tensqr/internal/readmat"
	"github.com/vqr/tensqr/mec"
)

// Record is the cached outcome of evaluating a candidate K: whether at
// least one SVD-sign branch produced a usable clustering, the better
// of the two branches' MEC scores, and the corresponding refined
// haplotype set.
type Record struct {
	OK    bool
	MEC   int
	Recon [][]int

	// Delta is the MEC-improvement ratio (recK.MEC-recK1.MEC)/recK.MEC
	// of the last bisection step in Run where both k and k+1 produced
	// a usable clustering; that k need not be this Record's K. Only
	// the Record returned by Run carries it; Records returned by
	// Evaluate have Delta zero.
	Delta float64
}

// Config collects the parameters the bisection and its per-K cluster
// evaluations need.
type Config struct {
	Cluster  cluster.Config
	MECThre  float64
	KStep    int
	Rand     *rand.Rand
	OrigACGT [][]int

	// Progress, if non-nil, is called after every K evaluation with a
	// one-line diagnostic, mirroring the per-K progress printing in
	// the original solver.
	Progress func(k int, rec Record)
}

// Estimator runs the rank bisection over a fixed read matrix.
type Estimator struct {
	s     readmat.Matrix
	l     int
	cfg   Config
	cache map[int]Record
}

// New returns an Estimator over read matrix s (L columns).
func New(s readmat.Matrix, l int, cfg Config) *Estimator {
	return &Estimator{s: s, l: l, cfg: cfg, cache: make(map[int]Record)}
}

// Visited returns the candidate K values evaluated so far, each
// paired with the MEC score recorded for it (records where neither
// sign branch succeeded are omitted).
func (e *Estimator) Visited() map[int]int {
	out := make(map[int]int, len(e.cache))
	for k, rec := range e.cache {
		if rec.OK {
			out[k] = rec.MEC
		}
	}
	return out
}

// Evaluate returns the (possibly cached) Record for candidate
// population size k, running successive clustering over both SVD
// sign branches and scoring each by MEC.
func (e *Estimator) Evaluate(k int) (Record, error) {
	if rec, ok := e.cache[k]; ok {
		return rec, nil
	}

	var (
		bestMEC = math.MaxInt64
		bestOK  bool
		bestRec [][]int
	)
	for _, negate := range [...]bool{false, true} {
		recon, ok, err := cluster.Run(e.s, e.l, k, negate, e.cfg.Cluster)
		if err != nil {
			return Record{}, err
		}
		if !ok {
			continue
		}
		score, recon2, err := mec.Evaluate(e.s, e.l, recon, e.cfg.OrigACGT, e.cfg.Rand)
		if err != nil {
			return Record{}, err
		}
		if score < bestMEC {
			bestMEC, bestRec, bestOK = score, recon2, true
		}
	}

	rec := Record{OK: bestOK, MEC: bestMEC, Recon: bestRec}
	e.cache[k] = rec
	if e.cfg.Progress != nil {
		e.cfg.Progress(k, rec)
	}
	return rec, nil
}

// Run performs the bisection search starting from initialK and
// returns the chosen K (= high on termination) and its Record, with
// Delta set to the MEC-improvement ratio last computed against K+1.
func (e *Estimator) Run(initialK int) (int, Record, error) {
	low, high := 1, 0
	k := initialK
	var lastDelta float64
	for high-low != 1 {
		recK, err := e.Evaluate(k)
		if err != nil {
			return 0, Record{}, err
		}
		recK1, err := e.Evaluate(k + 1)
		if err != nil {
			return 0, Record{}, err
		}

		if !recK.OK || !recK1.OK {
			low = k
			if high == 0 {
				k = 2 * k
			} else {
				k = (low + high) / 2
			}
			continue
		}

		delta := float64(recK.MEC-recK1.MEC) / float64(recK.MEC)
		lastDelta = delta
		if delta > e.cfg.MECThre {
			low = k
			if isPowerOfTwo(float64(k) / float64(e.cfg.KStep)) {
				k = 2 * k
			} else {
				k = (low + high) / 2
			}
		} else {
			high = k
			k = (low + high) / 2
		}
	}

	rec, err := e.Evaluate(high)
	rec.Delta = lastDelta
	return high, rec, err
}

func isPowerOfTwo(x float64) bool {
	if x <= 0 {
		return false
	}
	lg := math.Log2(x)
	return math.Abs(lg-math.Round(lg)) < 1e-9
}
