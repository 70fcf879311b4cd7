// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

import (
	"sync"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// Input flag bits for Align's flag parameter.
const (
	FlagTraceback      uint8 = 0x01 // run begin/CIGAR recovery at all
	FlagFilterScore    uint8 = 0x02 // only recover begin/CIGAR if score1 >= filters
	FlagFilterDistance uint8 = 0x04 // only recover the CIGAR if ref and read spans <= filterd; the begin is still reported
)

// Output flag bits set on Alignment.Flag.
const (
	ResultTracebackFailed uint8 = 0x01 // banded traceback could not reach the target score
	ResultBeginMismatch   uint8 = 0x02 // reverse pass disagreed with the forward pass's score
)

// Sub-optimal alignment reporting degrades below this mask_len; the warning
// fires once per process rather than once per call.
var maskLenWarnOnce sync.Once

// Alignment is the result of aligning a Profile's read against one
// reference. Positions are 0-based and inclusive.
type Alignment struct {
	Score1, Score2       int32
	RefBegin1, RefEnd1   int32
	ReadBegin1, ReadEnd1 int32
	RefEnd2              int32
	Cigar                Cigar
	Flag                 uint8
}

// Align runs the forward engine (falling back from byte to word on
// overflow), then — if requested by flag and the filters pass — the
// reverse pass and banded traceback, assembling the result the way the
// reference ssw_align entry point does. It returns an error only for
// caller mistakes: profile lacks the table the requested score size needs.
func Align(
	profile *Profile,
	ref []int8,
	refLen int32,
	gapOpen, gapExtend uint8,
	flag uint8,
	filters uint16,
	filterd int32,
	maskLen int32,
) (*Alignment, error) {
	if profile.byteTable == nil && profile.wordTable == nil {
		return nil, errors.Errorf("swalign: profile has neither byte nor word table")
	}

	useWord := profile.byteTable == nil
	var bests [2]AlignmentEnd
	if !useWord {
		bests = alignByte(ref, dirForward, refLen, profile.length, gapOpen, gapExtend,
			profile.byteTable, profile.byteSegLen, byteOverflowScore, profile.bias, maskLen)
		if bests[0].Score == byteOverflowScore {
			if profile.wordTable == nil {
				return nil, errors.Errorf("swalign: byte score overflowed but profile has no word table to fall back to")
			}
			useWord = true
		}
	}
	if useWord {
		bests = alignWord(ref, dirForward, refLen, profile.length, gapOpen, gapExtend,
			profile.wordTable, profile.wordSegLen, 32767, maskLen)
	}

	a := &Alignment{
		Score1:     bests[0].Score,
		Score2:     bests[1].Score,
		RefEnd1:    bests[0].RefPosition,
		ReadEnd1:   bests[0].ReadPosition,
		RefEnd2:    bests[1].RefPosition,
		RefBegin1:  -1,
		ReadBegin1: -1,
	}
	if maskLen < 15 {
		maskLenWarnOnce.Do(func() {
			log.Error.Printf("swalign: mask_len < 15 may lead to inaccurate sub-optimal alignment")
		})
		a.Score2 = 0
		a.RefEnd2 = -1
	}

	if flag&(FlagTraceback|FlagFilterScore|FlagFilterDistance) == 0 {
		return a, nil
	}
	if flag&FlagFilterScore != 0 && a.Score1 < int32(filters) {
		return a, nil
	}

	rev := findBegin(profile, ref, a.RefEnd1, a.ReadEnd1, gapOpen, gapExtend, a.Score1, maskLen, useWord)
	a.RefBegin1 = rev.refBegin
	a.ReadBegin1 = rev.readBegin
	if rev.disagree {
		a.Flag |= ResultBeginMismatch
		log.Error.Printf("swalign: reverse pass score disagreed with forward pass score")
	}

	if flag&FlagFilterDistance != 0 {
		refSpan := a.RefEnd1 - a.RefBegin1 + 1
		readSpan := a.ReadEnd1 - a.ReadBegin1 + 1
		if refSpan > filterd || readSpan > filterd {
			return a, nil
		}
	}

	if a.RefBegin1 < 0 || a.ReadBegin1 < 0 {
		a.Flag |= ResultTracebackFailed
		return a, nil
	}

	refWindow := ref[a.RefBegin1 : a.RefEnd1+1]
	readWindow := profile.read[a.ReadBegin1 : a.ReadEnd1+1]
	cigar, ok := bandedSW(refWindow, readWindow,
		a.RefEnd1-a.RefBegin1+1, a.ReadEnd1-a.ReadBegin1+1,
		a.Score1, int32(gapOpen), int32(gapExtend), profile.matrix, profile.n)
	if !ok {
		a.Flag |= ResultTracebackFailed
	}
	a.Cigar = cigar
	return a, nil
}
