// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dedupe supplements the exact-duplicate collapsing of
// package postproc with an optional near-duplicate merge: haplotypes
// within a small Hamming distance of one another are grouped by
// connected components of a threshold graph and merged into a single
// strain, frequency-weighted by their members.
//
// This is adapted from cmd/press's jaccard-threshold connected
// components idiom, swapping genomic-feature overlap for haplotype
// Hamming similarity. It is off by default (maxHamming <= 0 is a
// no-op), so default runs reproduce the exact-match-only collapsing
// spec.md §4.8 describes.
package dedupe

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vqr/tensqr/postproc"
)

// Merge groups strains whose sequences differ by at most maxHamming
// positions and merges each group into a single strain: the sequence
// of its highest-frequency member, with the group's frequencies
// summed. maxHamming <= 0 returns strains unchanged.
func Merge(strains []postproc.Strain, maxHamming int) []postproc.Strain {
	if maxHamming <= 0 || len(strains) < 2 {
		return strains
	}

	g := simple.NewUndirectedGraph()
	for i := range strains {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < len(strains)-1; i++ {
		for j := i + 1; j < len(strains); j++ {
			if hamming(strains[i].Seq, strains[j].Seq) <= maxHamming {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}

	groups := topo.ConnectedComponents(g)
	merged := make([]postproc.Strain, 0, len(groups))
	for _, group := range groups {
		best, bestFreq := int(group[0].ID()), -1.0
		var freq float64
		for _, n := range group {
			id := int(n.ID())
			freq += strains[id].Freq
			if strains[id].Freq > bestFreq {
				best, bestFreq = id, strains[id].Freq
			}
		}
		merged = append(merged, postproc.Strain{Seq: strains[best].Seq, Freq: freq})
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Freq > merged[j].Freq })
	return merged
}

func hamming(a, b []int) int {
	n := 0
	l := len(a)
	if len(b) < l {
		l = len(b)
	}
	for i := 0; i < l; i++ {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}
