// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

// lazyFWordLimit bounds the word engine's lazy-F fixup passes. Each pass
// shifts F by one lane, and a word group has 8 lanes against a byte group's
// 16, so the limit is half the byte engine's.
const lazyFWordLimit = 8

// alignWord is the 16-bit counterpart of alignByte: 8 lanes per group, no
// bias (the word table holds unbiased matrix entries), no saturation
// overflow check, and the lazy-F exit predicate is "vF can no longer raise
// vH anywhere" rather than a byte equality test. Scores are assumed never
// to exceed int16's positive range; callers are responsible for that.
func alignWord(
	ref []int8,
	dir refDirection,
	refLen, readLen int32,
	gapOpen, gapExtend uint8,
	profile []wordGroup,
	segLen int32,
	terminate int16,
	maskLen int32,
) [2]AlignmentEnd {
	w := segLen
	hStore := make([]wordGroup, w)
	hLoad := make([]wordGroup, w)
	e := make([]wordGroup, w)
	hMax := make([]wordGroup, w)

	maxColumn := make([]int16, refLen)

	var globalMax int16
	endRef := int32(-1)

	gOpen := wordGroup{}
	for i := range gOpen {
		gOpen[i] = int16(gapOpen)
	}
	gExt := wordGroup{}
	for i := range gExt {
		gExt[i] = int16(gapExtend)
	}

	for step := int32(0); step < refLen; step++ {
		var i int32
		if dir == dirForward {
			i = step
		} else {
			i = refLen - 1 - step
		}

		var vH wordGroup
		if w > 0 {
			vH = shiftWordLanesRight1(hStore[w-1])
		}
		c := int32(ref[i])
		vP := profile[c*w : c*w+w]

		hLoad, hStore = hStore, hLoad

		var vF wordGroup
		for j := int32(0); j < w; j++ {
			vH = satAddI16(vH, vP[j])

			ej := e[j]
			vH = maxI16(vH, ej)
			vH = maxI16(vH, vF)
			hStore[j] = vH

			vHOpen := satSubI16(vH, gOpen)
			e[j] = maxI16(satSubI16(ej, gExt), vHOpen)
			vF = maxI16(satSubI16(vF, gExt), vHOpen)

			vH = hLoad[j]
		}

		for pass := 0; pass < lazyFWordLimit; pass++ {
			vF = shiftWordLanesRight1(vF)
			done := true
			for j := int32(0); j < w; j++ {
				vHj := maxI16(hStore[j], vF)
				hStore[j] = vHj

				vHOpen := satSubI16(vHj, gOpen)
				vF = satSubI16(vF, gExt)
				if !lazyFDoneI16(vF, vHOpen) {
					done = false
				}
			}
			if done {
				break
			}
		}

		// As in alignByte, lanes past the read end are left out of the
		// column max.
		var colMax int16
		for s := int32(0); s < w; s++ {
			for lane := int32(0); lane < wordLanes; lane++ {
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
	}

	var bests [2]AlignmentEnd
	bests[1].RefPosition = -1

	readPos := int32(-1)
	if endRef >= 0 {
		for s := int32(0); s < w; s++ {
			for lane := int32(0); lane < wordLanes; lane++ {
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

		var bestScore int16
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
