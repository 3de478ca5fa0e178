// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mecplot renders the MEC-vs-K curve visited by the rank
// bisection (package rank) to an image file. It is an optional
// diagnostic, adapted from cmd/carta's plot.New()/p.Save() pattern
// with the genome-ring geometry dropped in favor of a plain line plot
// over the (K, MEC) pairs the bisection evaluated.
package mecplot

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Point is one (K, MEC) observation from the rank bisection.
type Point struct {
	K   int
	MEC int
}

// Save renders points, sorted by K, as a line plot to path. The image
// format is taken from path's extension (svg, png, pdf, ...), per
// gonum/plot's usual convention.
func Save(path string, points []Point) error {
	sorted := append([]Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].K < sorted[j].K })

	pts := make(plotter.XYs, len(sorted))
	for i, p := range sorted {
		pts[i].X = float64(p.K)
		pts[i].Y = float64(p.MEC)
	}

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("mecplot: %w", err)
	}
	p.Title.Text = "MEC vs. K"
	p.X.Label.Text = "K"
	p.Y.Label.Text = "MEC"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("mecplot: %w", err)
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("mecplot: %w", err)
	}
	p.Add(line, scatter)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("mecplot: %w", err)
	}
	return nil
}
