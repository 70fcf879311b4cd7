// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

import "github.com/grailbio/hts/sam"

// SAMOps converts a Cigar to sam.CigarOp form. This is a plain
// reinterpretation, not a translation: both encode (length << 4) | opcode
// with the same MIDNSHP=X opcode ordering, so the packed uint32 words carry
// straight across.
func (c Cigar) SAMOps() []sam.CigarOp {
	ops := make([]sam.CigarOp, len(c))
	for i, word := range c {
		ops[i] = sam.CigarOp(word)
	}
	return ops
}
