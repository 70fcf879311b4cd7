// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

// reverseInt8 returns a newly allocated reversal of seq[:end+1].
func reverseInt8(seq []int8, end int32) []int8 {
	n := end + 1
	out := make([]int8, n)
	for i := int32(0); i < n; i++ {
		out[i] = seq[end-i]
	}
	return out
}

// reverseResult is the outcome of the begin-finding reverse pass.
type reverseResult struct {
	refBegin  int32
	readBegin int32
	disagree  bool // forward/reverse scores disagreed; flag |= 2 is a warning
}

// findBegin reverses the read prefix ending at endRead, rebuilds a query
// profile on the reversed read, and reruns the forward engine over the
// reference prefix ending at endRef, walking it backwards (dirReverse) with
// an early-exit terminate threshold of score1, to recover the alignment's
// start position.
func findBegin(
	p *Profile,
	ref []int8,
	endRef, endRead int32,
	gapOpen, gapExtend uint8,
	score1 int32,
	maskLen int32,
	useWord bool,
) reverseResult {
	reversedRead := reverseInt8(p.read, endRead)
	refPrefix := ref[:endRef+1]

	var best AlignmentEnd
	if useWord {
		wordTable, wordSegLen := buildWordProfile(reversedRead, p.matrix, p.n)
		bests := alignWord(refPrefix, dirReverse, endRef+1, endRead+1, gapOpen, gapExtend,
			wordTable, wordSegLen, int16(score1), maskLen)
		best = bests[0]
	} else {
		byteTable, byteSegLen := buildByteProfile(reversedRead, p.matrix, p.n, p.bias)
		bests := alignByte(refPrefix, dirReverse, endRef+1, endRead+1, gapOpen, gapExtend,
			byteTable, byteSegLen, uint8(score1), p.bias, maskLen)
		best = bests[0]
	}

	result := reverseResult{refBegin: best.RefPosition, readBegin: -1}
	if best.ReadPosition >= 0 {
		result.readBegin = endRead - best.ReadPosition
	}
	if int32(best.Score) < score1 {
		result.disagree = true
	}
	return result
}
