// Copyright ©2017 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/uuid"
	"v.io/x/lib/vlog"

	"github.com/raphaelss/bamsort/bgzf"
)

// DefaultBufferSize is the number of records buffered in memory per
// sort run when the caller does not request a specific size.
const DefaultBufferSize = 1000000

// SortBAMFile sorts the BAM file at inPath into outPath under order,
// buffering up to bufferSize records per run (DefaultBufferSize if
// bufferSize <= 0). It returns the number of alignments sorted and
// the number of temporary run files used.
func SortBAMFile(inPath, outPath string, order SortOrder, bufferSize int) (nSorted, nRuns int, err error) {
	inFile, err := os.Open(inPath)
	if err != nil {
		return 0, 0, fmt.Errorf("bam: failed to open %s: %w", inPath, err)
	}
	defer inFile.Close()

	in, err := bgzf.NewBufferedStream(inFile, 0)
	if err != nil {
		return 0, 0, err
	}
	defer in.Close()

	headerText, refs, err := ReadHeaderMeta(in)
	if err != nil {
		return 0, 0, err
	}
	headerText = RewriteSortOrder(headerText, order.String())

	outFile, err := os.Create(outPath)
	if err != nil {
		return 0, 0, fmt.Errorf("bam: failed to create %s: %w", outPath, err)
	}
	defer outFile.Close()

	out, err := bgzf.NewBufferedWriter(outFile, gzip.DefaultCompression, 0)
	if err != nil {
		return 0, 0, err
	}

	if err = WriteHeaderMeta(out, headerText, refs); err != nil {
		out.Close()
		return 0, 0, err
	}

	nSorted, nRuns, err = SortBAMAlignments(in, out, order.Less(), bufferSize)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return nSorted, nRuns, err
}

// SortBAMAlignments drives the external merge sort directly over a
// stream of length-prefixed alignment records (the framing
// ReadAlignment/WriteAlignment use), leaving header handling to the
// caller. It buffers up to bufferSize records (DefaultBufferSize if
// bufferSize <= 0), stably sorts each buffer under less, spills sorted
// runs to temporary files, and merges them into out. less may be one
// of the canned orders' SortOrder.Less() or any caller-supplied
// predicate; the external merge sort itself is agnostic to which.
func SortBAMAlignments(in io.Reader, out io.Writer, less LessFunc, bufferSize int) (nSorted, nRuns int, err error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	var runs []*sortedRun
	cleanup := func() {
		for _, r := range runs {
			r.close()
		}
	}

	buf := make([]AlignmentRecord, 0, bufferSize)
	for {
		buf = buf[:0]
		for len(buf) < bufferSize {
			rec, rerr := ReadAlignment(in)
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				cleanup()
				return nSorted, len(runs), rerr
			}
			buf = append(buf, rec)
		}
		if len(buf) == 0 {
			break
		}

		sort.SliceStable(buf, func(i, j int) bool { return less(buf[i], buf[j]) })

		r, serr := spillRun(buf, len(runs))
		if serr != nil {
			cleanup()
			return nSorted, len(runs), serr
		}
		runs = append(runs, r)
		nSorted += len(buf)
		vlog.VI(1).Infof("bam: spilled run %d with %d records", r.id, len(buf))

		if len(buf) < bufferSize {
			break
		}
	}

	nRuns = len(runs)
	if nRuns == 0 {
		return 0, 0, nil
	}

	vlog.VI(1).Infof("bam: merging %d runs", nRuns)
	merged, merr := mergeRuns(runs, less, out)
	if merr != nil {
		return merged, nRuns, merr
	}
	return merged, nRuns, nil
}

// spillRun stably-sorted records to a fresh temporary file and
// returns a sortedRun positioned at its first record.
func spillRun(records []AlignmentRecord, id int) (*sortedRun, error) {
	pattern := fmt.Sprintf("bamsort-run-%s-*.tmp", uuid.New().String())
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("bam: failed to create run file: %w", err)
	}

	for _, rec := range records {
		if err = WriteAlignment(f, rec); err != nil {
			f.Close()
			os.Remove(f.Name())
			return nil, err
		}
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("bam: failed to rewind run file: %w", err)
	}

	r := &sortedRun{id: id, f: f, path: f.Name()}
	if err = r.advance(); err != nil {
		r.close()
		return nil, err
	}
	return r, nil
}
