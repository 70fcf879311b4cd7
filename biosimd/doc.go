// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package biosimd provides table-driven byte-array operations for cleaning
// and encoding raw nucleotide sequence data ahead of alignment: collapsing
// ambiguity codes to 'N' and translating 'A'/'C'/'G'/'T' characters into the
// small-integer alphabet ordinals that package swalign's scoring matrices are
// indexed by.
package biosimd
