// Copyright ©2017 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/raphaelss/bamsort/bgzf"
)

func mustRecord(t *testing.T, name string, ref, pos int32, flag Flag) AlignmentRecord {
	t.Helper()
	opts := DefaultRecordOptions()
	opts.ReferenceID = ref
	opts.Position = pos
	rec, err := MakeAlignmentRecord(name, nil, flag, opts)
	if err != nil {
		t.Fatalf("MakeAlignmentRecord: %v", err)
	}
	return rec
}

func TestAlignmentRecordLessCoordinateOrder(t *testing.T) {
	recs := []AlignmentRecord{
		mustRecord(t, "a", 1, 10, 0),
		mustRecord(t, "b", 0, 50, 0),
		mustRecord(t, "c", -1, 0, QueryUnmapped),
		mustRecord(t, "d", 0, 20, 0),
	}
	sort.SliceStable(recs, func(i, j int) bool { return AlignmentRecordLess(recs[i], recs[j]) })

	var got []string
	for _, r := range recs {
		got = append(got, r.ReadName())
	}
	want := []string{"d", "b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sort order = %v, want %v", got, want)
		}
	}
}

// TestExternalMergeThreeRuns exercises scenario 6: sorting 2,500,000
// records with a 1,000,000-record buffer should spill exactly three
// runs and deliver every record exactly once, in order.
func TestExternalMergeThreeRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("large external-sort scenario skipped in short mode")
	}

	const total = 2500000
	var in bytes.Buffer
	for i := total - 1; i >= 0; i-- {
		rec := mustRecord(t, fmt.Sprintf("r%08d", i), 0, int32(i), 0)
		if err := WriteAlignment(&in, rec); err != nil {
			t.Fatalf("WriteAlignment: %v", err)
		}
	}

	var out bytes.Buffer
	nSorted, nRuns, err := SortBAMAlignments(&in, &out, AlignmentRecordLess, 1000000)
	if err != nil {
		t.Fatalf("SortBAMAlignments: %v", err)
	}
	if nSorted != total {
		t.Fatalf("nSorted = %d, want %d", nSorted, total)
	}
	if nRuns != 3 {
		t.Fatalf("nRuns = %d, want 3", nRuns)
	}

	var prev int32 = -1
	count := 0
	for {
		rec, err := ReadAlignment(&out)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadAlignment: %v", err)
		}
		if rec.Position() < prev {
			t.Fatalf("output not sorted: %d before %d", prev, rec.Position())
		}
		prev = rec.Position()
		count++
	}
	if count != total {
		t.Fatalf("output record count = %d, want %d", count, total)
	}
}

func TestExternalMergePreservesEveryRecord(t *testing.T) {
	var in bytes.Buffer
	names := []string{"z", "a", "m", "q", "b"}
	for i, n := range names {
		rec := mustRecord(t, n, 0, int32(len(names)-i), 0)
		if err := WriteAlignment(&in, rec); err != nil {
			t.Fatalf("WriteAlignment: %v", err)
		}
	}

	var out bytes.Buffer
	nSorted, nRuns, err := SortBAMAlignments(&in, &out, AlignmentNameLess, 2)
	if err != nil {
		t.Fatalf("SortBAMAlignments: %v", err)
	}
	if nSorted != len(names) {
		t.Fatalf("nSorted = %d, want %d", nSorted, len(names))
	}
	if nRuns < 2 {
		t.Fatalf("expected multiple runs for buffer size 2, got %d", nRuns)
	}

	var got []string
	for {
		rec, err := ReadAlignment(&out)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadAlignment: %v", err)
		}
		got = append(got, rec.ReadName())
	}
	want := []string{"a", "b", "m", "q", "z"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// TestSortBAMAlignmentsCustomLess confirms the external merge sort
// accepts any LessFunc, not just the two canned SortOrder predicates.
func TestSortBAMAlignmentsCustomLess(t *testing.T) {
	var in bytes.Buffer
	lengths := []int32{30, 10, 20}
	for i, l := range lengths {
		rec := mustRecord(t, fmt.Sprintf("r%d", i), 0, l, 0)
		if err := WriteAlignment(&in, rec); err != nil {
			t.Fatalf("WriteAlignment: %v", err)
		}
	}

	byPositionDescending := func(a, b AlignmentRecord) bool { return a.Position() > b.Position() }

	var out bytes.Buffer
	nSorted, _, err := SortBAMAlignments(&in, &out, byPositionDescending, 1000000)
	if err != nil {
		t.Fatalf("SortBAMAlignments: %v", err)
	}
	if nSorted != len(lengths) {
		t.Fatalf("nSorted = %d, want %d", nSorted, len(lengths))
	}

	var got []int32
	for {
		rec, err := ReadAlignment(&out)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadAlignment: %v", err)
		}
		got = append(got, rec.Position())
	}
	want := []int32{30, 20, 10}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func writeTestBAMFile(t *testing.T, headerText string, refs []ReferenceEntry, recs []AlignmentRecord) string {
	t.Helper()
	f, err := os.CreateTemp("", "bamsort-in-*.bam")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	w, err := bgzf.NewBufferedWriter(f, gzip.DefaultCompression, 0)
	if err != nil {
		t.Fatalf("bgzf.NewBufferedWriter: %v", err)
	}
	if err := WriteHeaderMeta(w, headerText, refs); err != nil {
		t.Fatalf("WriteHeaderMeta: %v", err)
	}
	for _, r := range recs {
		if err := WriteAlignment(w, r); err != nil {
			t.Fatalf("WriteAlignment: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("bgzf writer Close: %v", err)
	}
	return f.Name()
}

// TestSortBAMFileRoundTrip drives SortBAMFile end to end over real
// on-disk BGZF files: it confirms the output header's SO: tag is
// rewritten to the requested order while the reference dictionary and
// the rest of the header text survive unchanged, and that the
// alignment records come out in coordinate order.
func TestSortBAMFileRoundTrip(t *testing.T) {
	headerText := "@HD\tVN:1.6\tSO:unsorted\n@CO\tfree-text comment line\n"
	refs := []ReferenceEntry{{Name: "chr1", Length: 1000}, {Name: "chr2", Length: 2000}}
	inPath := writeTestBAMFile(t, headerText, refs, []AlignmentRecord{
		mustRecord(t, "b", 0, 20, 0),
		mustRecord(t, "a", 0, 10, 0),
		mustRecord(t, "c", 0, 30, 0),
	})
	defer os.Remove(inPath)

	outFile, err := os.CreateTemp("", "bamsort-out-*.bam")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	outPath := outFile.Name()
	outFile.Close()
	defer os.Remove(outPath)

	nSorted, nRuns, err := SortBAMFile(inPath, outPath, Coordinate, 10)
	if err != nil {
		t.Fatalf("SortBAMFile: %v", err)
	}
	if nSorted != 3 {
		t.Fatalf("nSorted = %d, want 3", nSorted)
	}
	if nRuns != 1 {
		t.Fatalf("nRuns = %d, want 1", nRuns)
	}

	outF, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("Open output: %v", err)
	}
	defer outF.Close()

	s, err := bgzf.NewBufferedStream(outF, 0)
	if err != nil {
		t.Fatalf("bgzf.NewBufferedStream: %v", err)
	}
	defer s.Close()

	gotText, gotRefs, err := ReadHeaderMeta(s)
	if err != nil {
		t.Fatalf("ReadHeaderMeta: %v", err)
	}
	if !strings.Contains(gotText, "SO:coordinate") {
		t.Fatalf("output header missing SO:coordinate: %q", gotText)
	}
	if !strings.Contains(gotText, "@CO\tfree-text comment line") {
		t.Fatalf("output header lost non-@HD line: %q", gotText)
	}
	if len(gotRefs) != len(refs) {
		t.Fatalf("reference dictionary length = %d, want %d", len(gotRefs), len(refs))
	}
	for i := range refs {
		if gotRefs[i] != refs[i] {
			t.Fatalf("reference[%d] = %+v, want %+v", i, gotRefs[i], refs[i])
		}
	}

	var gotNames []string
	var prev int32 = -1
	for {
		rec, err := ReadAlignment(s)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadAlignment: %v", err)
		}
		if rec.Position() < prev {
			t.Fatalf("output not sorted: %d before %d", prev, rec.Position())
		}
		prev = rec.Position()
		gotNames = append(gotNames, rec.ReadName())
	}
	wantNames := []string{"a", "b", "c"}
	if len(gotNames) != len(wantNames) {
		t.Fatalf("got %v, want %v", gotNames, wantNames)
	}
	for i := range wantNames {
		if gotNames[i] != wantNames[i] {
			t.Fatalf("got %v, want %v", gotNames, wantNames)
		}
	}
}

// TestRewriteSortOrderAndHeaderRoundTrip exercises ReadHeaderMeta,
// WriteHeaderMeta and RewriteSortOrder directly, independent of BGZF
// or the sort pipeline, confirming the SO: tag is rewritten, an
// unrelated @HD tag survives, and the reference dictionary round-trips.
func TestRewriteSortOrderAndHeaderRoundTrip(t *testing.T) {
	headerText := "@HD\tVN:1.6\tSO:unsorted\tGO:none\n@SQ\tSN:chr1\tLN:1000\n"
	rewritten := RewriteSortOrder(headerText, "coordinate")

	var buf bytes.Buffer
	refs := []ReferenceEntry{{Name: "chr1", Length: 1000}}
	if err := WriteHeaderMeta(&buf, rewritten, refs); err != nil {
		t.Fatalf("WriteHeaderMeta: %v", err)
	}

	gotText, gotRefs, err := ReadHeaderMeta(&buf)
	if err != nil {
		t.Fatalf("ReadHeaderMeta: %v", err)
	}
	if !strings.Contains(gotText, "SO:coordinate") {
		t.Fatalf("rewritten header missing SO:coordinate: %q", gotText)
	}
	if !strings.Contains(gotText, "GO:none") {
		t.Fatalf("rewritten header lost unrelated @HD tag: %q", gotText)
	}
	if len(gotRefs) != 1 || gotRefs[0] != refs[0] {
		t.Fatalf("reference dictionary mismatch: got %+v, want %+v", gotRefs, refs)
	}
}
