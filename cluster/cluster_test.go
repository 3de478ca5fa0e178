// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cluster

import (
	"math/rand"
	"testing"

	"github.com/vqr/tensqr/altmin"
	"github.com/vqr/tensqr/internal/readmat"
	"github.com/vqr/tensqr/mismatch"
)

func buildConfig(seed int64) Config {
	p := mismatch.DefaultParams
	p.ErrRate = 0.002
	return Config{
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

func TestRunSingleHaplotype(t *testing.T) {
	hap := []int{1, 2, 3, 4, 1, 2, 3, 4, 1, 2}
	const n = 50
	m := make(readmat.Matrix, n)
	for i := range m {
		row := make([]int, len(hap))
		copy(row, hap)
		m[i] = row
	}

	recon, ok, err := Run(m, len(hap), 1, false, buildConfig(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ok {
		t.Fatal("Run reported ok=false for a clean single-haplotype population")
	}
	if len(recon) != 1 {
		t.Fatalf("len(recon) = %d, want 1", len(recon))
	}
	for j, v := range recon[0] {
		if v != hap[j] {
			t.Errorf("recon[0][%d] = %d, want %d", j, v, hap[j])
		}
	}
}

func TestRunTwoBalancedHaplotypes(t *testing.T) {
	hapA := []int{1, 1, 1, 1, 1, 1, 1, 1}
	hapB := []int{2, 2, 2, 2, 2, 2, 2, 2}
	const half = 30
	m := make(readmat.Matrix, 0, 2*half)
	for i := 0; i < half; i++ {
		rowA := append([]int(nil), hapA...)
		rowB := append([]int(nil), hapB...)
		m = append(m, rowA, rowB)
	}

	recon, ok, err := Run(m, len(hapA), 2, false, buildConfig(2))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ok {
		t.Fatal("Run reported ok=false for a clean two-haplotype population")
	}
	if len(recon) != 2 {
		t.Fatalf("len(recon) = %d, want 2", len(recon))
	}

	foundA, foundB := false, false
	for _, h := range recon {
		if sameSeq(h, hapA) {
			foundA = true
		}
		if sameSeq(h, hapB) {
			foundB = true
		}
	}
	if !foundA || !foundB {
		t.Errorf("recon = %v, want both %v and %v represented", recon, hapA, hapB)
	}
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
