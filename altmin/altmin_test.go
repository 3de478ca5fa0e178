// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package altmin

import (
	"math/rand"
	"testing"

	"github.com/vqr/tensqr/internal/readmat"
)

func TestRunSingleHaplotype(t *testing.T) {
	hap := []int{1, 2, 3, 4, 1, 2, 3, 4, 1, 2}
	const n = 40
	m := make(readmat.Matrix, n)
	for i := range m {
		row := make([]int, len(hap))
		copy(row, hap)
		m[i] = row
	}

	cfg := Config{
		MaxIter:   100,
		ErrorThre: 1e-5,
		Rand:      rand.New(rand.NewSource(1)),
	}
	res, err := Run(m, len(hap), 1, false, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for j, v := range res.V[0] {
		if v != hap[j] {
			t.Errorf("reconstructed haplotype[%d] = %d, want %d", j, v, hap[j])
		}
	}
	for _, a := range res.Assign {
		if a != 0 {
			t.Errorf("assignment = %d, want 0 (only one haplotype)", a)
		}
	}
	if res.Err > 1e-6 {
		t.Errorf("Err = %v, want ~0 for an exact single-haplotype population", res.Err)
	}
}

func TestRunTooFewReads(t *testing.T) {
	m := readmat.Matrix{{1, 2}}
	cfg := Config{MaxIter: 10, ErrorThre: 1e-5, Rand: rand.New(rand.NewSource(1))}
	if _, err := Run(m, 2, 1, false, cfg); err == nil {
		t.Fatal("expected an error when rows <= R")
	}
}
