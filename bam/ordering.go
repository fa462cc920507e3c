// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

// LessFunc reports whether a should sort before b under some total
// order over alignment records.
type LessFunc func(a, b AlignmentRecord) bool

// SortOrder names one of the total orders the external merge sort
// knows how to produce.
type SortOrder int

const (
	Coordinate SortOrder = iota
	QueryName
)

func (o SortOrder) String() string {
	switch o {
	case Coordinate:
		return "coordinate"
	case QueryName:
		return "queryname"
	default:
		return "unknown"
	}
}

// Less returns the comparison function for o.
func (o SortOrder) Less() LessFunc {
	switch o {
	case QueryName:
		return AlignmentNameLess
	default:
		return AlignmentRecordLess
	}
}

// AlignmentRecordLess orders records by reference id and position,
// with unmapped records sorting last and forward-strand breaking ties
// before reverse-strand.
func AlignmentRecordLess(a, b AlignmentRecord) bool {
	r1, r2 := a.ReferenceID(), b.ReferenceID()
	u1, u2 := r1 < 0, r2 < 0
	switch {
	case u1 && !u2:
		return false
	case u2 && !u1:
		return true
	case !u1 && !u2 && r1 != r2:
		return r1 < r2
	}

	if !u1 && !u2 {
		p1, p2 := a.Position(), b.Position()
		if p1 != p2 {
			return p1 < p2
		}
	}

	return strandLess(a, b)
}

// AlignmentNameLess orders records lexicographically by read name,
// breaking ties by position then strand.
func AlignmentNameLess(a, b AlignmentRecord) bool {
	n1, n2 := a.ReadName(), b.ReadName()
	if n1 != n2 {
		return n1 < n2
	}
	p1, p2 := a.Position(), b.Position()
	if p1 != p2 {
		return p1 < p2
	}
	return strandLess(a, b)
}

// strandLess reports whether a sorts before b purely by strand,
// forward before reverse. Equal strands are not ordered by this
// function.
func strandLess(a, b AlignmentRecord) bool {
	fa, fb := a.FlagValue().QueryForward(), b.FlagValue().QueryForward()
	return fa && !fb
}
