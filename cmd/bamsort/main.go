// Copyright ©2017 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command bamsort sorts a BAM file by coordinate or read name using an
// external merge sort.
//
// Usage: bamsort -i input.bam -o output.bam [-order coordinate|queryname] [-buffer-size N]
package main

import (
	"flag"
	"os"

	"v.io/x/lib/vlog"

	"github.com/raphaelss/bamsort/bam"
)

var (
	inFlag         = flag.String("i", "", "input BAM file")
	outFlag        = flag.String("o", "", "output BAM file")
	orderFlag      = flag.String("order", "coordinate", "sort order: coordinate or queryname")
	bufferSizeFlag = flag.Int("buffer-size", bam.DefaultBufferSize, "maximum alignment records buffered per sort run")
)

func main() {
	flag.Parse()
	if *inFlag == "" || *outFlag == "" {
		vlog.Errorf("bamsort: -i and -o are required")
		flag.Usage()
		os.Exit(2)
	}

	var order bam.SortOrder
	switch *orderFlag {
	case "coordinate":
		order = bam.Coordinate
	case "queryname":
		order = bam.QueryName
	default:
		vlog.Errorf("bamsort: unrecognised -order %q", *orderFlag)
		os.Exit(2)
	}

	nSorted, nRuns, err := bam.SortBAMFile(*inFlag, *outFlag, order, *bufferSizeFlag)
	if err != nil {
		vlog.Errorf("bamsort: %v", err)
		os.Exit(1)
	}
	vlog.Infof("bamsort: sorted %d records across %d runs into %s", nSorted, nRuns, *outFlag)
}
