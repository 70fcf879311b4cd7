// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

import "math"

// bandedDir is the traceback opcode recorded per cell, matching the
// direction table: 1 = diagonal match (M), 2/3 = vertical gap, extend/open
// (I), 4/5 = horizontal gap, extend/open (D).
type bandedDir uint8

const (
	dirNone     bandedDir = 0
	dirDiagM    bandedDir = 1
	dirUpExtend bandedDir = 2
	dirUpOpen   bandedDir = 3
	dirLeftExt  bandedDir = 4
	dirLeftOpen bandedDir = 5
)

const negInf = math.MinInt32 / 2

// bandedSW performs a scalar affine-gap Smith-Waterman restricted to a
// diagonal band, doubling the band and refilling until the known target
// score is reached or the band covers the whole matrix; the traceback then
// reads the direction matrices from that last fill, the narrowest band that
// actually reached the target. ref and read are already the [begin, end]
// windows located by the forward and reverse passes, so this is effectively
// a glocal alignment pinned at (0,0) and (readLen-1, refLen-1). It returns
// the CIGAR (in read-start to read-end order) and whether the last fill
// reached the target score and the traceback reached the start of both
// sequences cleanly.
func bandedSW(
	ref, read []int8,
	refLen, readLen int32,
	targetScore int32,
	gapOpen, gapExtend int32,
	matrix []int8,
	n int32,
) (Cigar, bool) {
	bandWidth := int32(abs32(refLen-readLen) + 1)
	maxWidth := refLen
	if readLen > maxWidth {
		maxWidth = readLen
	}

	var h, e, f [][]int32
	var dirH, dirE, dirF [][]bandedDir

	fill := func(w int32) int32 {
		h = make([][]int32, readLen+1)
		e = make([][]int32, readLen+1)
		f = make([][]int32, readLen+1)
		dirH = make([][]bandedDir, readLen+1)
		dirE = make([][]bandedDir, readLen+1)
		dirF = make([][]bandedDir, readLen+1)
		for i := int32(0); i <= readLen; i++ {
			h[i] = make([]int32, refLen+1)
			e[i] = make([]int32, refLen+1)
			f[i] = make([]int32, refLen+1)
			dirH[i] = make([]bandedDir, refLen+1)
			dirE[i] = make([]bandedDir, refLen+1)
			dirF[i] = make([]bandedDir, refLen+1)
			for j := int32(0); j <= refLen; j++ {
				h[i][j] = negInf
				e[i][j] = negInf
				f[i][j] = negInf
			}
		}
		h[0][0] = 0
		for j := int32(1); j <= refLen && j <= w; j++ {
			h[0][j] = -gapOpen - (j-1)*gapExtend
		}
		for i := int32(1); i <= readLen && i <= w; i++ {
			h[i][0] = -gapOpen - (i-1)*gapExtend
		}

		for i := int32(1); i <= readLen; i++ {
			lo := i - w
			if lo < 1 {
				lo = 1
			}
			hi := i + w
			if hi > refLen {
				hi = refLen
			}
			for j := lo; j <= hi; j++ {
				// E: vertical move, read advances (insertion).
				eOpen := h[i-1][j] - gapOpen
				eExt := e[i-1][j] - gapExtend
				if eOpen >= eExt {
					e[i][j] = eOpen
					dirE[i][j] = dirUpOpen
				} else {
					e[i][j] = eExt
					dirE[i][j] = dirUpExtend
				}

				// F: horizontal move, reference advances (deletion).
				fOpen := h[i][j-1] - gapOpen
				fExt := f[i][j-1] - gapExtend
				if fOpen >= fExt {
					f[i][j] = fOpen
					dirF[i][j] = dirLeftOpen
				} else {
					f[i][j] = fExt
					dirF[i][j] = dirLeftExt
				}

				eVal := e[i][j]
				if eVal < 0 {
					eVal = 0
				}
				fVal := f[i][j]
				if fVal < 0 {
					fVal = 0
				}
				diag := h[i-1][j-1] + int32(matrix[int32(ref[j-1])*n+int32(read[i-1])])

				best := diag
				dir := dirDiagM
				if eVal > best {
					best = eVal
					dir = dirE[i][j]
				}
				if fVal > best {
					best = fVal
					dir = dirF[i][j]
				}
				h[i][j] = best
				dirH[i][j] = dir
			}
		}
		return h[readLen][refLen]
	}

	w := bandWidth
	var maxVal int32
	for {
		maxVal = fill(w)
		if maxVal >= targetScore || w > maxWidth {
			break
		}
		w *= 2
	}

	cigar, ok := traceback(dirH, dirE, dirF, readLen, refLen)
	return cigar, ok && maxVal >= targetScore
}

func traceback(dirH, dirE, dirF [][]bandedDir, readLen, refLen int32) (Cigar, bool) {
	type run struct {
		op  Op
		len uint32
	}
	var runs []run
	appendOp := func(op Op) {
		if len(runs) > 0 && runs[len(runs)-1].op == op {
			runs[len(runs)-1].len++
		} else {
			runs = append(runs, run{op: op, len: 1})
		}
	}

	i, j := readLen, refLen
	ok := true
	const (
		planeH = iota
		planeE
		planeF
	)
	cur := planeH
	for i > 0 || j > 0 {
		var code bandedDir
		switch cur {
		case planeH:
			code = dirH[i][j]
		case planeE:
			code = dirE[i][j]
		case planeF:
			code = dirF[i][j]
		}
		switch code {
		case dirDiagM:
			appendOp(OpMatch)
			i--
			j--
			cur = planeH
		case dirUpExtend:
			appendOp(OpIns)
			i--
			cur = planeE
		case dirUpOpen:
			appendOp(OpIns)
			i--
			cur = planeH
		case dirLeftExt:
			appendOp(OpDel)
			j--
			cur = planeF
		case dirLeftOpen:
			appendOp(OpDel)
			j--
			cur = planeH
		default:
			ok = false
			i, j = 0, 0
		}
	}

	cigar := make(Cigar, len(runs))
	for idx, r := range runs {
		cigar[len(runs)-1-idx] = EncodeCigarOp(r.len, r.op)
	}
	return cigar, ok
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
