package fasta_test

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/grailbio/ssw/encoding/fasta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastaData string

func init() {
	fastaData = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\n" + "ACGT\n" + "ACGT\n"
}

func TestGet(t *testing.T) {
	tests := []struct {
		seq   string
		start uint64
		end   uint64
		want  string
		err   error
	}{
		{"seq1", 1, 2, "C", nil},
		{"seq1", 1, 6, "CGTAC", nil},
		{"seq1", 0, 12, "ACGTACGTACGT", nil},
		{"seq1", 10, 12, "GT", nil},
		{"seq2", 0, 8, "ACGTACGT", nil},
		{"seq2", 2, 5, "GTA", nil},
		{"seq0", 0, 1, "", fmt.Errorf("sequence not found: seq0")},
		{"seq1", 10, 13, "", fmt.Errorf("invalid query range 10 - 13 for sequence seq1 with length 12")},
		{"seq1", 4, 3, "", fmt.Errorf("start must be less than end")},
	}
	fa, err := fasta.New(strings.NewReader(fastaData))
	require.NoError(t, err)
	for _, tt := range tests {
		got, err := fa.Get(tt.seq, tt.start, tt.end)
		if tt.err != nil {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
		}
		assert.Equal(t, tt.want, got)
	}
}

func TestLength(t *testing.T) {
	tests := []struct {
		seq  string
		want uint64
		err  error
	}{
		{"seq1", 12, nil},
		{"seq2", 8, nil},
		{"seq0", 0, fmt.Errorf("sequence not found: seq0")},
	}
	fa, err := fasta.New(strings.NewReader(fastaData))
	require.NoError(t, err)
	for _, tt := range tests {
		got, err := fa.Len(tt.seq)
		if tt.err != nil {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
		}
		assert.Equal(t, tt.want, got)
	}
}

func TestSeqNames(t *testing.T) {
	fa, err := fasta.New(strings.NewReader(fastaData))
	require.NoError(t, err)
	want := sort.StringSlice([]string{"seq1", "seq2"})
	want.Sort()
	got := sort.StringSlice(fa.SeqNames())
	got.Sort()
	assert.True(t, reflect.DeepEqual([]string(got), []string(want)))
}

func TestOptClean(t *testing.T) {
	fa, err := fasta.New(strings.NewReader(">seq1\nacgtn\n"), fasta.OptClean)
	require.NoError(t, err)
	got, err := fa.Get("seq1", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, "ACGTN", got)
}
