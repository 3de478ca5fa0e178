// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package qio reads the whitespace-delimited integer tables that make
// up a run's input (the SNV matrix, SNV position list, and
// homogeneous reference sequence) and writes the final FASTA output.
// It is the engine's only external I/O boundary; SNV calling and
// command-line parsing belong to the upstream pipeline and to package
// main respectively.
package qio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/vqr/tensqr/internal/readmat"
	"github.com/vqr/tensqr/postproc"
)

// ReadMatrix reads a whitespace-delimited integer matrix, one row per
// line, with entries in {0..4}.
func ReadMatrix(path string) (readmat.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m readmat.Matrix
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for sc.Scan() {
		line := sc.Text()
		fields, err := splitInts(line)
		if err != nil {
			return nil, fmt.Errorf("qio: %s: %w", path, err)
		}
		if len(fields) == 0 {
			continue
		}
		m = append(m, fields)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("qio: %s: %w", path, err)
	}
	return m, nil
}

// ReadVector reads a whitespace-delimited integer vector, which may
// span multiple lines.
func ReadVector(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []int
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("qio: %s: %w", path, err)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("qio: %s: %w", path, err)
	}
	return out, nil
}

func splitInts(line string) ([]int, error) {
	fields := strings.Fields(line)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// symbol renders an SNV symbol in {0..4} as its FASTA glyph: gaps (0)
// as '*', 1..4 as A, C, G, T.
func symbol(v int) byte {
	switch v {
	case 1:
		return 'A'
	case 2:
		return 'C'
	case 3:
		return 'G'
	case 4:
		return 'T'
	default:
		return '*'
	}
}

// WriteFasta embeds each strain's SNV-position calls into the
// homogeneous reference sequence at positions, trims any trailing
// gap run that extends beyond the reference's own length, collapses
// strains whose resulting full sequence is identical, and writes one
// FASTA record per unique sequence, ordered by descending frequency.
//
// Per the original solver, SNV positions are used as direct indices
// into the reference sequence, not decremented from their nominally
// 1-based file encoding; this is preserved rather than "corrected"
// since the spec is silent on it and the original's output format
// depends on it.
func WriteFasta(w io.Writer, strains []postproc.Strain, positions, homoSeq []int) error {
	glen := len(homoSeq)
	full := glen
	for _, p := range positions {
		if p+1 > full {
			full = p + 1
		}
	}

	type record struct {
		seq  string
		freq float64
	}
	byFreq := make(map[string]float64)
	var order []string

	for _, st := range strains {
		row := make([]int, full)
		copy(row, homoSeq)
		for j, p := range positions {
			row[p] = st.Seq[j]
		}

		buf := make([]byte, 0, full)
		for j, v := range row {
			if j+1 > glen && v == 0 {
				break
			}
			buf = append(buf, symbol(v))
		}
		seq := string(buf)
		if _, ok := byFreq[seq]; !ok {
			order = append(order, seq)
		}
		byFreq[seq] += st.Freq
	}

	recs := make([]record, len(order))
	for i, seq := range order {
		recs[i] = record{seq: seq, freq: byFreq[seq]}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].freq > recs[j].freq })

	bw := bufio.NewWriter(w)
	for i, r := range recs {
		if _, err := fmt.Fprintf(bw, ">strain_%d freq: %f\n%s\n", i+1, r.freq, r.seq); err != nil {
			return err
		}
	}
	return bw.Flush()
}
