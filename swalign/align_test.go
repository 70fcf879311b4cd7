// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGapOpen   uint8 = 3
	testGapExtend uint8 = 1
	testMaskLen   int32 = 15
	testFlag      uint8 = FlagTraceback | FlagFilterScore | FlagFilterDistance
)

func alignACGT(t *testing.T, read, ref string, scoreSize ScoreSize) *Alignment {
	t.Helper()
	p, err := NewProfile(encodeACGT(read), dnaMatrix, 4, scoreSize)
	require.NoError(t, err)
	a, err := Align(p, encodeACGT(ref), int32(len(ref)), testGapOpen, testGapExtend,
		testFlag, 0, 32767, testMaskLen)
	require.NoError(t, err)
	return a
}

// Scenario 1: an exact match embedded in a longer reference.
func TestAlignExactMatchEmbedded(t *testing.T) {
	a := alignACGT(t, "ACGT", "AAACGTAA", ScoreByte)
	assert.EqualValues(t, 8, a.Score1)
	assert.EqualValues(t, 2, a.RefBegin1)
	assert.EqualValues(t, 5, a.RefEnd1)
	assert.Equal(t, "4M", a.Cigar.String())
	MarkMismatch(a, a.RefBegin1, a.ReadBegin1, a.ReadEnd1, encodeACGT("AAACGTAA"), encodeACGT("ACGT"), 4)
	assert.Equal(t, "4=", a.Cigar.String())
}

// Scenario 2: a single internal mismatch.
func TestAlignSingleMismatch(t *testing.T) {
	a := alignACGT(t, "ACGT", "ACCT", ScoreByte)
	assert.EqualValues(t, 4, a.Score1)
	assert.EqualValues(t, 0, a.RefBegin1)
	assert.EqualValues(t, 3, a.RefEnd1)
	MarkMismatch(a, a.RefBegin1, a.ReadBegin1, a.ReadEnd1, encodeACGT("ACCT"), encodeACGT("ACGT"), 4)
	assert.Equal(t, "2=1X1=", a.Cigar.String())
}

// Scenario 3: reference one base shorter than the read (an insertion).
func TestAlignReferenceShorterByOne(t *testing.T) {
	a := alignACGT(t, "ACGT", "ACT", ScoreByte)
	assert.EqualValues(t, 3, a.Score1)
	assert.EqualValues(t, 0, a.RefBegin1)
	assert.EqualValues(t, 2, a.RefEnd1)
	MarkMismatch(a, a.RefBegin1, a.ReadBegin1, a.ReadEnd1, encodeACGT("ACT"), encodeACGT("ACGT"), 4)
	// read (4 bases) fully consumed, ref (3 bases) fully consumed: only
	// consistent with a single-base insertion, not a deletion.
	assert.Equal(t, "2=1I1=", a.Cigar.String())
}

// Scenario 4: a read with an extra leading base not present in the
// reference. The universal invariants (begin<=end, CIGAR spans) must hold
// regardless of whether the engine soft-clips the leading base or
// threads it through as an insertion.
func TestAlignExtraLeadingBase(t *testing.T) {
	a := alignACGT(t, "AACGT", "ACGT", ScoreByte)
	assert.True(t, a.Score1 > 0)
	assert.True(t, a.RefBegin1 <= a.RefEnd1)
	assert.True(t, a.ReadBegin1 <= a.ReadEnd1)
	assertCigarCoversSpans(t, a)
}

// Scenario 5: a long run of matches that overflows the byte engine; with
// both tables present, Align must transparently fall back to the word
// engine rather than reporting the 255 sentinel.
func TestAlignByteOverflowFallsBackToWord(t *testing.T) {
	read := strings.Repeat("A", 150)
	ref := strings.Repeat("A", 150)
	a := alignACGT(t, read, ref, ScoreBoth)
	assert.EqualValues(t, 300, a.Score1)
	assert.NotEqualValues(t, byteOverflowScore, a.Score1)
}

// Scenario 6: degenerate short reads must not crash and must produce
// internally consistent results.
func TestAlignDegenerateReads(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		p, err := NewProfile(nil, dnaMatrix, 4, ScoreByte)
		require.NoError(t, err)
		a, err := Align(p, encodeACGT("ACGT"), 4, testGapOpen, testGapExtend, testFlag, 0, 32767, testMaskLen)
		require.NoError(t, err)
		assert.EqualValues(t, 0, a.Score1)
	})
	t.Run("single base", func(t *testing.T) {
		a := alignACGT(t, "A", "AAAA", ScoreByte)
		assert.EqualValues(t, 2, a.Score1)
		assertCigarCoversSpans(t, a)
	})
}

func TestAlignScoreOnlyWhenFlagZero(t *testing.T) {
	p, err := NewProfile(encodeACGT("ACGT"), dnaMatrix, 4, ScoreByte)
	require.NoError(t, err)
	a, err := Align(p, encodeACGT("ACCT"), 4, testGapOpen, testGapExtend, 0, 0, 32767, testMaskLen)
	require.NoError(t, err)
	assert.EqualValues(t, 4, a.Score1)
	assert.Nil(t, a.Cigar)
	assert.EqualValues(t, -1, a.RefBegin1)
}

// The byte and word engines must agree on the alignment score whenever the
// true score fits in a byte; the sequences here are short enough that it
// always does.
func TestByteWordScoreAgreement(t *testing.T) {
	bases := "ACGT"
	for iter := 0; iter < 200; iter++ {
		readLen := rand.Intn(40) + 1
		refLen := rand.Intn(40) + 1
		read := make([]byte, readLen)
		ref := make([]byte, refLen)
		for i := range read {
			read[i] = bases[rand.Intn(4)]
		}
		for i := range ref {
			ref[i] = bases[rand.Intn(4)]
		}

		pb, err := NewProfile(encodeACGT(string(read)), dnaMatrix, 4, ScoreByte)
		require.NoError(t, err)
		ab, err := Align(pb, encodeACGT(string(ref)), int32(refLen), testGapOpen, testGapExtend, 0, 0, 32767, testMaskLen)
		require.NoError(t, err)

		pw, err := NewProfile(encodeACGT(string(read)), dnaMatrix, 4, ScoreWord)
		require.NoError(t, err)
		aw, err := Align(pw, encodeACGT(string(ref)), int32(refLen), testGapOpen, testGapExtend, 0, 0, 32767, testMaskLen)
		require.NoError(t, err)

		assert.Equal(t, aw.Score1, ab.Score1, "read %s vs ref %s", read, ref)
	}
}

// Aligning the reversal of both sequences must yield the same score, with
// begin and end positions mirrored. The pairs here have unique optima, so
// the mirrored positions are exact rather than merely tied.
func TestReverseSymmetry(t *testing.T) {
	pairs := []struct{ read, ref string }{
		{"ACGT", "AAACGTAA"},
		{"GATTACA", "TTGATTACATT"},
	}
	for _, pair := range pairs {
		fwd := alignACGT(t, pair.read, pair.ref, ScoreByte)
		rev := alignACGT(t, reverseString(pair.read), reverseString(pair.ref), ScoreByte)
		assert.Equal(t, fwd.Score1, rev.Score1, "%s vs %s", pair.read, pair.ref)
		refLen := int32(len(pair.ref))
		readLen := int32(len(pair.read))
		assert.Equal(t, refLen-1-fwd.RefEnd1, rev.RefBegin1, "%s vs %s", pair.read, pair.ref)
		assert.Equal(t, refLen-1-fwd.RefBegin1, rev.RefEnd1, "%s vs %s", pair.read, pair.ref)
		assert.Equal(t, readLen-1-fwd.ReadEnd1, rev.ReadBegin1, "%s vs %s", pair.read, pair.ref)
		assert.Equal(t, readLen-1-fwd.ReadBegin1, rev.ReadEnd1, "%s vs %s", pair.read, pair.ref)
	}
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// assertCigarCoversSpans checks that the CIGAR's read-consuming ops sum to
// the read span it covers, and its ref-consuming ops sum to the reference
// span.
func assertCigarCoversSpans(t *testing.T, a *Alignment) {
	t.Helper()
	if a.Cigar == nil {
		return
	}
	var readSum, refSum uint32
	for _, word := range a.Cigar {
		length := DecodeCigarLen(word)
		switch DecodeCigarOp(word) {
		case OpMatch, OpEqual, OpMismatch:
			readSum += length
			refSum += length
		case OpIns, OpSoftClip:
			readSum += length
		case OpDel, OpSkip:
			refSum += length
		}
	}
	assert.EqualValues(t, a.ReadEnd1-a.ReadBegin1+1, readSum-leadingTrailingClip(a))
	assert.EqualValues(t, a.RefEnd1-a.RefBegin1+1, refSum)
}

func leadingTrailingClip(a *Alignment) uint32 {
	var clip uint32
	if len(a.Cigar) == 0 {
		return 0
	}
	if DecodeCigarOp(a.Cigar[0]) == OpSoftClip {
		clip += DecodeCigarLen(a.Cigar[0])
	}
	if n := len(a.Cigar); n > 1 && DecodeCigarOp(a.Cigar[n-1]) == OpSoftClip {
		clip += DecodeCigarLen(a.Cigar[n-1])
	}
	return clip
}
