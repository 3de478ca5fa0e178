// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rank

import (
	"math/rand"
	"testing"

	"github.com/vqr/tensqr/altmin"
	"github.com/vqr/tensqr/cluster"
	"github.com/vqr/tensqr/internal/readmat"
	"github.com/vqr/tensqr/mismatch"
	"github.com/vqr/tensqr/nucstat"
)

func buildClusterConfig(seed int64) cluster.Config {
	p := mismatch.DefaultParams
	p.ErrRate = 0.002
	return cluster.Config{
		AltMin: altmin.Config{
			MaxIter:   200,
			ErrorThre: 1e-5,
			Rand:      rand.New(rand.NewSource(seed)),
		},
		Table:   mismatch.Build(p),
		ErrRate: 0.002,
		Rand:    rand.New(rand.NewSource(seed)),
	}
}

func TestEvaluateExactSingleHaplotype(t *testing.T) {
	hap := []int{1, 2, 3, 4, 1, 2, 3, 4}
	const n = 60
	m := make(readmat.Matrix, n)
	for i := range m {
		row := make([]int, len(hap))
		copy(row, hap)
		m[i] = row
	}
	origACGT, err := nucstat.Count(m, len(hap))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	e := New(m, len(hap), Config{
		Cluster:  buildClusterConfig(3),
		MECThre:  0.0312,
		KStep:    2,
		Rand:     rand.New(rand.NewSource(3)),
		OrigACGT: origACGT,
	})

	rec, err := e.Evaluate(1)
	if err != nil {
		t.Fatalf("Evaluate(1): %v", err)
	}
	if !rec.OK {
		t.Fatal("Evaluate(1) reported ok=false for an exact single-haplotype population")
	}
	if rec.MEC != 0 {
		t.Errorf("Evaluate(1).MEC = %d, want 0", rec.MEC)
	}
}

func TestEstimatorMemoizesEvaluate(t *testing.T) {
	hap := []int{1, 2, 3, 4}
	m := readmat.Matrix{hap, hap, hap, hap, hap, hap}
	origACGT, err := nucstat.Count(m, len(hap))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	calls := 0
	e := New(m, len(hap), Config{
		Cluster:  buildClusterConfig(4),
		MECThre:  0.0312,
		KStep:    2,
		Rand:     rand.New(rand.NewSource(4)),
		OrigACGT: origACGT,
		Progress: func(int, Record) { calls++ },
	})

	if _, err := e.Evaluate(1); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if _, err := e.Evaluate(1); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if calls != 1 {
		t.Errorf("Progress invoked %d times, want 1 (second Evaluate should hit the cache)", calls)
	}

	visited := e.Visited()
	if mec, ok := visited[1]; !ok || mec != 0 {
		t.Errorf("Visited()[1] = (%d, %v), want (0, true)", mec, ok)
	}
}

func TestRunTerminates(t *testing.T) {
	hap := []int{1, 2, 3, 4, 1, 2}
	const n = 40
	m := make(readmat.Matrix, n)
	for i := range m {
		row := make([]int, len(hap))
		copy(row, hap)
		m[i] = row
	}
	origACGT, err := nucstat.Count(m, len(hap))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	e := New(m, len(hap), Config{
		Cluster:  buildClusterConfig(5),
		MECThre:  0.0312,
		KStep:    2,
		Rand:     rand.New(rand.NewSource(5)),
		OrigACGT: origACGT,
	})

	k, rec, err := e.Run(2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if k < 1 {
		t.Errorf("Run returned K = %d, want >= 1", k)
	}
	if !rec.OK {
		t.Error("Run's final record is not ok")
	}
}
