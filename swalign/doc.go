// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package swalign computes optimal local pairwise alignments between a read
// and a reference using Smith-Waterman with affine gap penalties. The
// forward pass is a striped vectorized implementation after Farrar (2007),
// operating on 8-bit saturating lanes with a 16-bit fallback for reads whose
// score overflows a byte; a banded scalar traceback recovers the exact
// CIGAR once a forward pass has located the alignment's end.
//
// Global or semi-global alignment, non-affine gap models, multiple
// alignment, and alphabet inference are out of scope: callers supply
// alphabet-index sequences and a substitution matrix, and get back a score,
// a span, and (optionally) a CIGAR.
package swalign
