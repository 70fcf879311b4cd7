// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swalign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseInt8(t *testing.T) {
	seq := encodeACGT("ACGTA")
	got := reverseInt8(seq, 2) // reverse the prefix "ACG"
	assert.Equal(t, encodeACGT("GCA"), got)
}

func TestFindBeginLocatesStart(t *testing.T) {
	p, err := NewProfile(encodeACGT("ACGT"), dnaMatrix, 4, ScoreByte)
	require.NoError(t, err)
	ref := encodeACGT("AAACGTAA")
	rev := findBegin(p, ref, 5 /* endRef */, 3 /* endRead */, testGapOpen, testGapExtend, 8, testMaskLen, false)
	assert.EqualValues(t, 2, rev.refBegin)
	assert.EqualValues(t, 0, rev.readBegin)
	assert.False(t, rev.disagree)
}
