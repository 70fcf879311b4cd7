// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.
package main

/*
bio-ssw-align is a demo driver for the swalign striped Smith-Waterman
engine: it aligns every sequence in a query FASTA against every sequence
in a target FASTA and reports score, span, and CIGAR for each pair.
*/

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dgryski/go-farm"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/ssw/biosimd"
	"github.com/grailbio/ssw/encoding/fasta"
	"github.com/grailbio/ssw/swalign"
)

var (
	gapOpen        = flag.Int("gap-open", 5, "Gap open penalty")
	gapExtend      = flag.Int("gap-extend", 2, "Gap extend penalty")
	match          = flag.Int("match", 2, "Match score")
	mismatch       = flag.Int("mismatch", 2, "Mismatch penalty (positive value, subtracted)")
	maskLen        = flag.Int("mask-len", 15, "Minimum distance between the best and sub-optimal alignment end positions; below 15, no sub-optimal alignment is reported")
	scoreSizeFlag  = flag.String("score-size", "both", "Score table to build: 'byte', 'word', or 'both'")
	filterScore    = flag.Int("filter-score", 0, "Only recover CIGAR/begin position if the alignment score is at least this value")
	filterDistance = flag.Int("filter-distance", 32767, "Only recover the CIGAR if the reference and read spans are at most this value")
	noCigar        = flag.Bool("no-cigar", false, "Report score and end position only; skip the reverse pass and banded traceback")
)

func bioSswAlignUsage() {
	fmt.Printf("Usage: %s [OPTIONS] query.fasta target.fasta\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

// dnaMatrix is the row-major 4x4 substitution matrix over the ACGT
// alphabet index produced by biosimd.ASCIIToAlphabetIndex.
func dnaMatrix(match, mismatch int8) []int8 {
	m := make([]int8, 16)
	for row := int8(0); row < 4; row++ {
		for col := int8(0); col < 4; col++ {
			if row == col {
				m[int(row)*4+int(col)] = match
			} else {
				m[int(row)*4+int(col)] = -mismatch
			}
		}
	}
	return m
}

func parseScoreSize(s string) (swalign.ScoreSize, error) {
	switch strings.ToLower(s) {
	case "byte":
		return swalign.ScoreByte, nil
	case "word":
		return swalign.ScoreWord, nil
	case "both":
		return swalign.ScoreBoth, nil
	default:
		return 0, fmt.Errorf("unknown -score-size %q; want byte, word, or both", s)
	}
}

// cleanedSeq converts a FASTA record's raw ASCII sequence into the
// alphabet-index encoding swalign operates on, in place.
func cleanedSeq(raw string) []int8 {
	ascii := []byte(raw)
	biosimd.CleanASCIISeqInplace(ascii)
	if biosimd.IsNonACGTPresent(ascii) {
		log.Error.Printf("sequence contains non-ACGT characters (N after cleaning); scoring them as alphabet index 0 (A)")
	}
	idx := make([]int8, len(ascii))
	biosimd.ASCIIToAlphabetIndex(idx, ascii)
	return idx
}

// loadRecords reads every sequence out of a FASTA file and returns it as
// alphabet-index-encoded records keyed by sequence name, in file order.
func loadRecords(path string) ([]string, map[string][]int8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	fa, err := fasta.New(f, fasta.OptClean)
	if err != nil {
		return nil, nil, err
	}
	names := fa.SeqNames()
	out := make(map[string][]int8, len(names))
	for _, name := range names {
		length, err := fa.Len(name)
		if err != nil {
			return nil, nil, err
		}
		seq, err := fa.Get(name, 0, length)
		if err != nil {
			return nil, nil, err
		}
		out[name] = cleanedSeq(seq)
	}
	return names, out, nil
}

func main() {
	flag.Usage = bioSswAlignUsage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	nPositionalArgs := flag.NArg()
	positionalArgs := allArgs[len(allArgs)-nPositionalArgs:]
	if nPositionalArgs != 2 {
		log.Fatalf("Expected exactly 2 positional arguments (query.fasta target.fasta); got '%s'", strings.Join(positionalArgs, " "))
	}

	scoreSize, err := parseScoreSize(*scoreSizeFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}
	matrix := dnaMatrix(int8(*match), int8(*mismatch))

	queryNames, queries, err := loadRecords(positionalArgs[0])
	if err != nil {
		log.Fatalf("reading %s: %v", positionalArgs[0], err)
	}
	targetNames, targets, err := loadRecords(positionalArgs[1])
	if err != nil {
		log.Fatalf("reading %s: %v", positionalArgs[1], err)
	}

	var alignFlag uint8
	if !*noCigar {
		alignFlag = swalign.FlagTraceback | swalign.FlagFilterScore | swalign.FlagFilterDistance
	}

	// Dedup identical target sequences within a batch: alignment against a
	// reference already seen for this query is skipped and its prior
	// result reused, since the outcome only depends on (query, ref bytes).
	type cacheKey struct {
		query string
		hash  uint64
	}
	cache := make(map[cacheKey]*swalign.Alignment)

	for _, qname := range queryNames {
		qseq := queries[qname]
		profile, err := swalign.NewProfile(qseq, matrix, 4, scoreSize)
		if err != nil {
			log.Error.Printf("building profile for %s: %v", qname, err)
			continue
		}
		for _, tname := range targetNames {
			tseq := targets[tname]
			hash := farm.Hash64(int8sToBytes(tseq))
			key := cacheKey{query: qname, hash: hash}

			a, ok := cache[key]
			if !ok {
				a, err = swalign.Align(profile, tseq, int32(len(tseq)),
					uint8(*gapOpen), uint8(*gapExtend), alignFlag,
					uint16(*filterScore), int32(*filterDistance), int32(*maskLen))
				if err != nil {
					log.Error.Printf("aligning %s against %s: %v", qname, tname, err)
					continue
				}
				if a.Cigar != nil {
					swalign.MarkMismatch(a, a.RefBegin1, a.ReadBegin1, a.ReadEnd1, tseq, qseq, int32(len(qseq)))
				}
				cache[key] = a
			}

			cigarStr := "*"
			if a.Cigar != nil {
				cigarStr = a.Cigar.String()
			}
			fmt.Printf("%s\t%s\tscore=%d\tref=[%d,%d]\tread=[%d,%d]\tcigar=%s\n",
				qname, tname, a.Score1, a.RefBegin1, a.RefEnd1, a.ReadBegin1, a.ReadEnd1, cigarStr)
		}
	}
	log.Debug.Printf("exiting")
}

func int8sToBytes(s []int8) []byte {
	b := make([]byte, len(s))
	for i, v := range s {
		b[i] = byte(v)
	}
	return b
}
