// Copyright ©2017 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"container/heap"
	"io"
	"os"
)

// sortedRun is one spilled, already-sorted run of records backed by a
// temporary file. head holds the next record to be merged while done
// is false; once the run is drained done is set and head still holds
// the last record read.
type sortedRun struct {
	id   int
	f    *os.File
	path string
	head AlignmentRecord
	done bool
}

func (r *sortedRun) advance() error {
	rec, err := ReadAlignment(r.f)
	if err != nil {
		r.done = true
		if err == io.EOF {
			return nil
		}
		return err
	}
	r.head = rec
	return nil
}

func (r *sortedRun) close() error {
	err := r.f.Close()
	os.Remove(r.path)
	return err
}

// runHeap implements container/heap.Interface over a set of
// sortedRuns, ordering by less applied to each run's current head and
// breaking exact ties by run id for stability — the same pattern the
// teacher's live-reader Merger uses for its bySortOrderAndID adapter,
// here applied to spilled runs instead of open readers.
type runHeap struct {
	runs []*sortedRun
	less LessFunc
}

func (h *runHeap) Len() int { return len(h.runs) }

func (h *runHeap) Less(i, j int) bool {
	a, b := h.runs[i], h.runs[j]
	if h.less(a.head, b.head) {
		return true
	}
	return a.id < b.id && !h.less(b.head, a.head)
}

func (h *runHeap) Swap(i, j int) { h.runs[i], h.runs[j] = h.runs[j], h.runs[i] }

func (h *runHeap) Push(x interface{}) { h.runs = append(h.runs, x.(*sortedRun)) }

func (h *runHeap) Pop() interface{} {
	n := len(h.runs) - 1
	r := h.runs[n]
	h.runs = h.runs[:n]
	return r
}

// mergeRuns performs a k-way merge of runs into w, writing each
// winning record with ReadAlignment/WriteAlignment's shared framing.
// Every run, whether drained normally or abandoned because of an
// error, is closed and its temp file removed before mergeRuns
// returns.
func mergeRuns(runs []*sortedRun, less LessFunc, w io.Writer) (int, error) {
	h := &runHeap{less: less}
	for _, r := range runs {
		if !r.done {
			h.runs = append(h.runs, r)
		}
	}
	heap.Init(h)

	defer func() {
		for _, r := range runs {
			r.close()
		}
	}()

	count := 0
	for h.Len() > 0 {
		r := heap.Pop(h).(*sortedRun)
		if err := WriteAlignment(w, r.head); err != nil {
			return count, err
		}
		count++
		if err := r.advance(); err != nil {
			return count, err
		}
		if !r.done {
			heap.Push(h, r)
		}
	}
	return count, nil
}
