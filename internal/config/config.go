// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config centralizes the run parameter table spec.md §6
// enumerates, and the one fatal cross-file shape check the engine
// must perform before any solver component runs.
package config

import "fmt"

// Config is a complete set of run parameters. Fields map 1:1 onto
// spec.md §6's enumerated configuration.
type Config struct {
	Prefix string // run prefix P; input/output files are P_<name>

	ErrRatePercent float64 // sequencing error rate, percent; default 0.2
	MECThre        float64 // MEC-improvement ratio threshold; default 0.0312
	K              int     // initial rank guess and K_step; default 5
	PValue         float64 // binomial tail cutoff; fixed 1e-5
	MaxIter        int     // AM iteration cap; fixed 2000
	ErrorThre      float64 // AM convergence tolerance; fixed 1e-5
	MaxThre        int     // threshold table extent; fixed 20
	MaxLen         int     // threshold table extent; fixed 300

	Seed         int64 // RNG seed for reproducible tie-breaking; 0 means "seed from wall clock"
	MergeHamming int   // near-duplicate merge distance; 0 disables (see package dedupe)
	PlotPath     string
}

// Default returns a Config with spec.md §6's documented defaults. K
// must be filled in by the caller if the default of 5 is not wanted;
// Prefix is always required.
func Default() Config {
	return Config{
		ErrRatePercent: 0.2,
		MECThre:        0.0312,
		K:              5,
		PValue:         1e-5,
		MaxIter:        2000,
		ErrorThre:      1e-5,
		MaxThre:        20,
		MaxLen:         300,
	}
}

// ErrRate returns the fractional sequencing error rate implied by
// ErrRatePercent.
func (c Config) ErrRate() float64 { return c.ErrRatePercent / 100 }

// CheckShape returns a fatal error naming both files if the number of
// SNV positions does not match the number of SNV-matrix columns.
func CheckShape(posPath string, nPos int, matrixPath string, nCols int) error {
	if nPos != nCols {
		return fmt.Errorf("config: %s and %s have different numbers of SNVs: %d positions, %d matrix columns", posPath, matrixPath, nPos, nCols)
	}
	return nil
}
