// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

// MarkMismatch rewrites align.Cigar in place, splitting every raw M run
// into =/X runs by walking the aligned region and comparing ref and read
// symbols position by position, and surrounds the result with S (soft-clip)
// runs for any read prefix/suffix the alignment didn't cover. It returns
// the number of mismatched, inserted, or deleted positions in the covered
// region. Calling it twice on the same Alignment is a no-op the second time:
// any soft-clip wrapper from a prior call is stripped and recomputed from
// refBegin1/readBegin1/readEnd1 rather than accumulated.
func MarkMismatch(
	a *Alignment,
	refBegin1, readBegin1, readEnd1 int32,
	ref, read []int8,
	readLen int32,
) uint32 {
	core := a.Cigar
	if len(core) > 0 && DecodeCigarOp(core[0]) == OpSoftClip {
		core = core[1:]
	}
	if len(core) > 0 && DecodeCigarOp(core[len(core)-1]) == OpSoftClip {
		core = core[:len(core)-1]
	}

	var middle Cigar
	var distance uint32
	var pendingOp Op
	var pendingLen uint32
	flush := func() {
		if pendingLen > 0 {
			middle = append(middle, EncodeCigarOp(pendingLen, pendingOp))
			pendingLen = 0
		}
	}
	push := func(op Op) {
		if pendingLen > 0 && pendingOp == op {
			pendingLen++
			return
		}
		flush()
		pendingOp = op
		pendingLen = 1
	}

	refPos := refBegin1
	readPos := readBegin1
	for _, word := range core {
		length := DecodeCigarLen(word)
		op := DecodeCigarOp(word)
		switch op {
		case OpMatch, OpEqual, OpMismatch:
			for k := uint32(0); k < length; k++ {
				if ref[refPos] == read[readPos] {
					push(OpEqual)
				} else {
					push(OpMismatch)
					distance++
				}
				refPos++
				readPos++
			}
		case OpIns:
			flush()
			middle = append(middle, EncodeCigarOp(length, OpIns))
			readPos += int32(length)
			distance += length
		case OpDel:
			flush()
			middle = append(middle, EncodeCigarOp(length, OpDel))
			refPos += int32(length)
			distance += length
		default:
			flush()
			middle = append(middle, word)
		}
	}
	flush()

	var out Cigar
	if readBegin1 > 0 {
		out = append(out, EncodeCigarOp(uint32(readBegin1), OpSoftClip))
	}
	out = append(out, middle...)
	if readEnd1 < readLen-1 {
		out = append(out, EncodeCigarOp(uint32(readLen-1-readEnd1), OpSoftClip))
	}

	a.Cigar = out
	return distance
}
