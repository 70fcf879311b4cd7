// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

// refDirection selects which way the forward engine walks the reference:
// forward for the initial end-finding pass, reverse for the begin-finding
// pass over a reversed prefix.
type refDirection int

const (
	dirForward refDirection = iota
	dirReverse
)

// byteOverflowScore is the sentinel score signaling that the byte engine's
// saturating arithmetic may have clipped the true score; callers using
// ScoreBoth must re-run the word engine when they see it.
const byteOverflowScore = 255

// lazyFByteLimit bounds the byte engine's lazy-F fixup passes.
const lazyFByteLimit = 16

// AlignmentEnd is one candidate alignment endpoint: a score and the
// reference/read positions it was achieved at.
type AlignmentEnd struct {
	Score        int32
	RefPosition  int32
	ReadPosition int32
}

// alignByte runs the striped 8-bit saturating forward pass described for
// the forward end-finding and reverse begin-finding passes alike; dir and
// terminate distinguish the two uses. profile is the byte query table laid
// out by buildByteProfile, segLen its stripe width. It returns the best and
// second-best (outside a mask_len window around the best) alignment ends.
func alignByte(
	ref []int8,
	dir refDirection,
	refLen, readLen int32,
	gapOpen, gapExtend uint8,
	profile []byteGroup,
	segLen int32,
	terminate uint8,
	bias uint8,
	maskLen int32,
) [2]AlignmentEnd {
	w := segLen
	hStore := make([]byteGroup, w)
	hLoad := make([]byteGroup, w)
	e := make([]byteGroup, w)
	hMax := make([]byteGroup, w)

	maxColumn := make([]uint8, refLen)

	var globalMax uint8
	endRef := int32(-1)
	overflowed := false

	for step := int32(0); step < refLen; step++ {
		var i int32
		if dir == dirForward {
			i = step
		} else {
			i = refLen - 1 - step
		}

		var vH byteGroup
		if w > 0 {
			vH = shiftByteLanesRight1(hStore[w-1])
		}
		c := int32(ref[i])
		vP := profile[c*w : c*w+w]

		hLoad, hStore = hStore, hLoad

		var vF byteGroup
		for j := int32(0); j < w; j++ {
			vH = satAddU8(vH, vP[j])
			vH = satSubU8Scalar(vH, bias)

			ej := e[j]
			vH = maxU8(vH, ej)
			vH = maxU8(vH, vF)
			hStore[j] = vH

			vHOpen := satSubU8Scalar(vH, gapOpen)
			e[j] = maxU8(satSubU8Scalar(ej, gapExtend), vHOpen)
			vF = maxU8(satSubU8Scalar(vF, gapExtend), vHOpen)

			vH = hLoad[j]
		}

		for pass := 0; pass < lazyFByteLimit; pass++ {
			vF = shiftByteLanesRight1(vF)
			done := false
			for j := int32(0); j < w; j++ {
				vHj := maxU8(hStore[j], vF)
				hStore[j] = vHj

				vHOpen := satSubU8Scalar(vHj, gapOpen)
				vF = satSubU8Scalar(vF, gapExtend)
				if allZeroU8(satSubU8(vF, vHOpen)) {
					done = true
					break
				}
			}
			if done {
				break
			}
		}

		// Only lanes holding a read position count toward the column max:
		// lanes past the read end carry H values along the diagonal and
		// would otherwise tie the best score in later columns.
		var colMax uint8
		for s := int32(0); s < w; s++ {
			for lane := int32(0); lane < byteLanes; lane++ {
				if s+lane*w < readLen && hStore[s][lane] > colMax {
					colMax = hStore[s][lane]
				}
			}
		}
		if colMax >= globalMax {
			globalMax = colMax
			endRef = i
			copy(hMax, hStore)
		}
		maxColumn[i] = colMax

		if colMax == terminate {
			break
		}
		if int32(globalMax)+int32(bias) >= 255 {
			overflowed = true
			break
		}
	}

	var bests [2]AlignmentEnd
	bests[1].RefPosition = -1

	if overflowed {
		bests[0] = AlignmentEnd{Score: byteOverflowScore, RefPosition: endRef, ReadPosition: -1}
		return bests
	}

	readPos := int32(-1)
	if endRef >= 0 {
		for s := int32(0); s < w; s++ {
			for lane := int32(0); lane < byteLanes; lane++ {
				if hMax[s][lane] == globalMax {
					pos := s + lane*w
					if pos <= readLen-1 && (readPos < 0 || pos < readPos) {
						readPos = pos
					}
				}
			}
		}
	}
	bests[0] = AlignmentEnd{Score: int32(globalMax), RefPosition: endRef, ReadPosition: readPos}

	if endRef >= 0 {
		lowEdge := endRef - maskLen
		if lowEdge > refLen {
			lowEdge = refLen
		}
		if lowEdge < 0 {
			lowEdge = 0
		}
		highEdge := endRef + maskLen

		var bestScore uint8
		bestPos := int32(-1)
		for i := int32(0); i < lowEdge; i++ {
			if maxColumn[i] >= bestScore {
				bestScore = maxColumn[i]
				bestPos = i
			}
		}
		for i := highEdge + 1; i < refLen; i++ {
			if maxColumn[i] >= bestScore {
				bestScore = maxColumn[i]
				bestPos = i
			}
		}
		bests[1] = AlignmentEnd{Score: int32(bestScore), RefPosition: bestPos, ReadPosition: -1}
	}

	return bests
}
