// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

import "github.com/pkg/errors"

// ScoreSize selects which striped query tables a Profile builds, and
// correspondingly which forward engine(s) Align may use.
type ScoreSize int

const (
	// ScoreByte builds only the 8-bit saturating table.
	ScoreByte ScoreSize = 0
	// ScoreWord builds only the 16-bit table.
	ScoreWord ScoreSize = 1
	// ScoreBoth builds both tables, letting Align fall back to the word
	// engine transparently if the byte engine overflows.
	ScoreBoth ScoreSize = 2
)

// Profile bundles a read with its striped query tables, ready to be aligned
// against any number of references. Build once per read via NewProfile,
// reuse for every reference, then discard; a Profile is logically immutable
// after construction and safe to share across goroutines that each perform
// independent Align calls.
type Profile struct {
	read   []int8
	length int32
	matrix []int8
	n      int32
	bias   uint8

	byteTable  []byteGroup // n * byteSegLen entries, or nil
	byteSegLen int32

	wordTable  []wordGroup // n * wordSegLen entries, or nil
	wordSegLen int32
}

// NewProfile builds a Profile for read against an n x n row-major
// substitution matrix, constructing the byte and/or word striped tables
// named by scoreSize. read holds alphabet indices in [0, n), not ASCII
// bytes; see package biosimd for converting raw sequence data.
func NewProfile(read []int8, matrix []int8, n int32, scoreSize ScoreSize) (*Profile, error) {
	if n <= 0 {
		return nil, errors.Errorf("swalign: alphabet size must be positive, got %d", n)
	}
	if int32(len(matrix)) != n*n {
		return nil, errors.Errorf("swalign: matrix length %d does not match n*n (n=%d)", len(matrix), n)
	}
	p := &Profile{
		read:   append([]int8(nil), read...),
		length: int32(len(read)),
		matrix: matrix,
		n:      n,
		bias:   computeBias(matrix),
	}
	switch scoreSize {
	case ScoreByte:
		p.byteTable, p.byteSegLen = buildByteProfile(p.read, matrix, n, p.bias)
	case ScoreWord:
		p.wordTable, p.wordSegLen = buildWordProfile(p.read, matrix, n)
	case ScoreBoth:
		p.byteTable, p.byteSegLen = buildByteProfile(p.read, matrix, n, p.bias)
		p.wordTable, p.wordSegLen = buildWordProfile(p.read, matrix, n)
	default:
		return nil, errors.Errorf("swalign: unknown score size %d", scoreSize)
	}
	return p, nil
}

// computeBias returns |min(matrix)|, or 0 if matrix is already non-negative.
// The bias keeps 8-bit DP cells non-negative under saturating arithmetic;
// reimplementers must subtract it exactly once per profile add.
func computeBias(matrix []int8) uint8 {
	var min int8
	for _, v := range matrix {
		if v < min {
			min = v
		}
	}
	if min >= 0 {
		return 0
	}
	return uint8(-int16(min))
}

// buildByteProfile lays out, for every reference symbol c and stripe s, the
// 16-lane group whose lane k holds matrix[c][read[s+k*W]] + bias, or bias
// when s+k*W is past the end of the read.
func buildByteProfile(read []int8, matrix []int8, n int32, bias uint8) ([]byteGroup, int32) {
	length := int32(len(read))
	segLen := (length + byteLanes - 1) / byteLanes
	if segLen == 0 {
		segLen = 1
	}
	table := make([]byteGroup, int32(n)*segLen)
	for c := int32(0); c < n; c++ {
		row := matrix[c*n : c*n+n]
		for s := int32(0); s < segLen; s++ {
			var g byteGroup
			for k := int32(0); k < byteLanes; k++ {
				pos := s + k*segLen
				if pos < length {
					g[k] = uint8(int16(row[read[pos]]) + int16(bias))
				} else {
					g[k] = bias
				}
			}
			table[c*segLen+s] = g
		}
	}
	return table, segLen
}

// buildWordProfile is analogous to buildByteProfile with 8-lane 16-bit
// groups, stripe width ceil(L/8), bias fixed at 0, and zero out-of-range
// lanes.
func buildWordProfile(read []int8, matrix []int8, n int32) ([]wordGroup, int32) {
	length := int32(len(read))
	segLen := (length + wordLanes - 1) / wordLanes
	if segLen == 0 {
		segLen = 1
	}
	table := make([]wordGroup, int32(n)*segLen)
	for c := int32(0); c < n; c++ {
		row := matrix[c*n : c*n+n]
		for s := int32(0); s < segLen; s++ {
			var g wordGroup
			for k := int32(0); k < wordLanes; k++ {
				pos := s + k*segLen
				if pos < length {
					g[k] = int16(row[read[pos]])
				} else {
					g[k] = 0
				}
			}
			table[c*segLen+s] = g
		}
	}
	return table, segLen
}
