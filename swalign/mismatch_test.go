// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkMismatchSplitsMatchRun(t *testing.T) {
	ref := encodeACGT("ACCT")
	read := encodeACGT("ACGT")
	a := &Alignment{Cigar: Cigar{EncodeCigarOp(4, OpMatch)}}
	distance := MarkMismatch(a, 0, 0, 3, ref, read, 4)
	assert.Equal(t, "2=1X1=", a.Cigar.String())
	assert.EqualValues(t, 1, distance)
}

func TestMarkMismatchAddsSoftClips(t *testing.T) {
	ref := encodeACGT("CG")
	read := encodeACGT("ACGT")
	a := &Alignment{Cigar: Cigar{EncodeCigarOp(2, OpMatch)}}
	distance := MarkMismatch(a, 0, 1, 2, ref, read, 4)
	assert.Equal(t, "1S2=1S", a.Cigar.String())
	assert.EqualValues(t, 0, distance)
}

func TestMarkMismatchIdempotent(t *testing.T) {
	ref := encodeACGT("ACCT")
	read := encodeACGT("ACGT")
	a := &Alignment{Cigar: Cigar{EncodeCigarOp(4, OpMatch)}}
	MarkMismatch(a, 0, 0, 3, ref, read, 4)
	once := append(Cigar(nil), a.Cigar...)
	MarkMismatch(a, 0, 0, 3, ref, read, 4)
	assert.Equal(t, once, a.Cigar)
}

func TestMarkMismatchIdempotentWithClips(t *testing.T) {
	ref := encodeACGT("CG")
	read := encodeACGT("ACGT")
	a := &Alignment{Cigar: Cigar{EncodeCigarOp(2, OpMatch)}}
	MarkMismatch(a, 0, 1, 2, ref, read, 4)
	once := append(Cigar(nil), a.Cigar...)
	MarkMismatch(a, 0, 1, 2, ref, read, 4)
	assert.Equal(t, once, a.Cigar)
}

func TestMarkMismatchPreservesIndelRuns(t *testing.T) {
	ref := encodeACGT("ACT")
	read := encodeACGT("ACGT")
	a := &Alignment{Cigar: Cigar{EncodeCigarOp(2, OpMatch), EncodeCigarOp(1, OpIns), EncodeCigarOp(1, OpMatch)}}
	distance := MarkMismatch(a, 0, 0, 3, ref, read, 4)
	assert.Equal(t, "2=1I1=", a.Cigar.String())
	assert.EqualValues(t, 1, distance)
}
