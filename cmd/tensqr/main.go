// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tensqr reconstructs a viral quasispecies — the unknown number of
// haplotypes and their relative frequencies — from a matrix of
// aligned reads restricted to single-nucleotide variant positions.
//
// Given a run prefix P, it reads P_SNV_matrix.txt, P_SNV_pos.txt and
// P_Homo_seq.txt, and writes P_ViralSeq.fasta.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/vqr/tensqr/altmin"
	"github.com/vqr/tensqr/cluster"
	"github.com/vqr/tensqr/dedupe"
	"github.com/vqr/tensqr/internal/config"
	"github.com/vqr/tensqr/mecplot"
	"github.com/vqr/tensqr/mismatch"
	"github.com/vqr/tensqr/nucstat"
	"github.com/vqr/tensqr/postproc"
	"github.com/vqr/tensqr/qio"
	"github.com/vqr/tensqr/rank"
)

var (
	prefix = flag.String("prefix", "", "run prefix (required); reads <prefix>_SNV_matrix.txt etc.")

	errRate      = flag.Float64("err-rate", 0.2, "sequencing error rate, percent")
	mecThre      = flag.Float64("mec-thre", 0.0312, "MEC-improvement ratio threshold")
	k            = flag.Int("k", 5, "initial population size guess and K_step")
	pValue       = flag.Float64("p-value", 1e-5, "binomial tail cutoff for mismatch thresholds")
	maxIte       = flag.Int("max-ite", 2000, "alternating-minimization iteration cap")
	errorThre    = flag.Float64("error-thre", 1e-5, "alternating-minimization convergence tolerance")
	maxThre      = flag.Int("max-thre", 20, "maximum mismatch threshold considered")
	maxLen       = flag.Int("max-len", 300, "maximum non-gap read length considered")
	seed         = flag.Int64("seed", 0, "RNG seed for reproducible tie-breaking (0: seed from wall clock)")
	mergeHamming = flag.Int("merge-hamming", 0, "merge reconstructed haplotypes within this Hamming distance (0 disables)")
	plotPath     = flag.String("plot", "", "optional path to write an MEC-vs-K diagnostic plot (svg, png, ...)")

	errFile = flag.String("err", "", "log output file name (default to stderr)")
)

func main() {
	flag.Parse()
	if *prefix == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: -prefix is required")
		flag.Usage()
		os.Exit(1)
	}

	if *errFile != "" {
		w, err := os.Create(*errFile)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer w.Close()
		log.SetOutput(w)
	}

	cfg := config.Default()
	cfg.Prefix = *prefix
	cfg.ErrRatePercent = *errRate
	cfg.MECThre = *mecThre
	cfg.K = *k
	cfg.PValue = *pValue
	cfg.MaxIter = *maxIte
	cfg.ErrorThre = *errorThre
	cfg.MaxThre = *maxThre
	cfg.MaxLen = *maxLen
	cfg.Seed = *seed
	cfg.MergeHamming = *mergeHamming
	cfg.PlotPath = *plotPath

	if err := run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfg config.Config) error {
	matrixPath := cfg.Prefix + "_SNV_matrix.txt"
	posPath := cfg.Prefix + "_SNV_pos.txt"
	homoPath := cfg.Prefix + "_Homo_seq.txt"
	outPath := cfg.Prefix + "_ViralSeq.fasta"

	snv, err := qio.ReadMatrix(matrixPath)
	if err != nil {
		return fmt.Errorf("failed to read SNV matrix: %w", err)
	}
	if len(snv) == 0 {
		fmt.Fprintf(os.Stderr, "SNV matrix (%s) is empty. Not running quasispecies reconstruction.\n", matrixPath)
		return nil
	}

	l, err := snv.Cols()
	if err != nil {
		return err
	}

	positions, err := qio.ReadVector(posPath)
	if err != nil {
		return fmt.Errorf("failed to read SNV positions: %w", err)
	}
	if err := config.CheckShape(posPath, len(positions), matrixPath, l); err != nil {
		return err
	}

	homoSeq, err := qio.ReadVector(homoPath)
	if err != nil {
		return fmt.Errorf("failed to read homogeneous sequence: %w", err)
	}

	origACGT, err := nucstat.Count(snv, l)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	table := mismatch.Build(mismatch.Params{
		ErrRate: cfg.ErrRate(),
		PValue:  cfg.PValue,
		MaxThre: cfg.MaxThre,
		MaxLen:  cfg.MaxLen,
	})

	clusterCfg := cluster.Config{
		AltMin: altmin.Config{
			MaxIter:   cfg.MaxIter,
			ErrorThre: cfg.ErrorThre,
			Rand:      rnd,
		},
		Table:   table,
		ErrRate: cfg.ErrRate(),
		Rand:    rnd,
	}

	estimator := rank.New(snv, l, rank.Config{
		Cluster:  clusterCfg,
		MECThre:  cfg.MECThre,
		KStep:    cfg.K,
		Rand:     rnd,
		OrigACGT: origACGT,
		Progress: func(k int, rec rank.Record) {
			log.Printf("K = %d; ok = %v; MEC = %d", k, rec.OK, rec.MEC)
		},
	})

	start := time.Now()
	chosenK, best, err := estimator.Run(cfg.K)
	if err != nil {
		return fmt.Errorf("rank estimation failed: %w", err)
	}
	log.Printf("estimated K = %d", chosenK)
	log.Printf("MEC change rate = %v", best.Delta)

	strains, popSize, err := postproc.Finalize(snv, l, best.Recon, rnd)
	if err != nil {
		return fmt.Errorf("post-processing failed: %w", err)
	}
	strains = dedupe.Merge(strains, cfg.MergeHamming)

	log.Printf("estimated population size: %d", popSize)
	log.Printf("CPU time: %v", time.Since(start))

	if cfg.PlotPath != "" {
		var pts []mecplot.Point
		for k, m := range estimator.Visited() {
			pts = append(pts, mecplot.Point{K: k, MEC: m})
		}
		if err := mecplot.Save(cfg.PlotPath, pts); err != nil {
			return fmt.Errorf("failed to write MEC plot: %w", err)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer out.Close()
	if err := qio.WriteFasta(out, strains, positions, homoSeq); err != nil {
		return fmt.Errorf("failed to write FASTA: %w", err)
	}

	return nil
}
