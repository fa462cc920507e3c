// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"fmt"
)

// CigarOpType represents the type of operation described by a CigarOp.
type CigarOpType byte

const (
	CigarMatch CigarOpType = iota
	CigarInsertion
	CigarDeletion
	CigarSkipped
	CigarSoftClipped
	CigarHardClipped
	CigarPadded
	CigarEqual
	CigarMismatch
)

var cigarOpNames = [...]byte{'M', 'I', 'D', 'N', 'S', 'H', 'P', '=', 'X'}

func (t CigarOpType) String() string {
	if int(t) >= len(cigarOpNames) {
		return "?"
	}
	return string(cigarOpNames[t])
}

// consumes describes whether an operation of a given type advances
// the query read position and/or the reference position.
type consumes struct {
	Query, Reference bool
}

var consume = [...]consumes{
	CigarMatch:       {true, true},
	CigarInsertion:   {true, false},
	CigarDeletion:    {false, true},
	CigarSkipped:     {false, true},
	CigarSoftClipped: {true, false},
	CigarHardClipped: {false, false},
	CigarPadded:      {false, false},
	CigarEqual:       {true, true},
	CigarMismatch:    {true, true},
}

// CigarOp is a single CIGAR operation: an operation type and a length.
type CigarOp uint32

// NewCigarOp returns a CigarOp with the given type and length.
func NewCigarOp(t CigarOpType, length int) CigarOp {
	return CigarOp(length<<4 | int(t)&0xf)
}

// Type returns the operation type encoded by op.
func (op CigarOp) Type() CigarOpType { return CigarOpType(op & 0xf) }

// Len returns the operation length encoded by op.
func (op CigarOp) Len() int { return int(op >> 4) }

func (op CigarOp) String() string {
	return fmt.Sprintf("%d%s", op.Len(), op.Type())
}

// Cigar is a sequence of CIGAR operations.
type Cigar []CigarOp

func (c Cigar) String() string {
	if len(c) == 0 {
		return "*"
	}
	var s []byte
	for _, op := range c {
		s = append(s, op.String()...)
	}
	return string(s)
}

// AlignmentReadLength returns the number of read bases consumed by c.
func (c Cigar) AlignmentReadLength() int {
	var n int
	for _, op := range c {
		if consume[op.Type()].Query {
			n += op.Len()
		}
	}
	return n
}

// AlignmentReferenceLength returns the number of reference bases
// consumed by c.
func (c Cigar) AlignmentReferenceLength() int {
	var n int
	for _, op := range c {
		if consume[op.Type()].Reference {
			n += op.Len()
		}
	}
	return n
}

// decodeCigar decodes n operations from the u32 little-endian words in
// buf.
func decodeCigar(buf []byte, n int) Cigar {
	if n == 0 {
		return nil
	}
	c := make(Cigar, n)
	for i := 0; i < n; i++ {
		c[i] = CigarOp(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return c
}

// encodeCigar writes c as n little-endian u32 words into buf, which
// must have length 4*len(c). It panics on an operation type outside
// the CIGAR op table.
func encodeCigar(buf []byte, c Cigar) {
	for i, op := range c {
		if int(op.Type()) >= len(cigarOpNames) {
			panic(fmt.Sprintf("bam: invalid CIGAR operation type %d", op.Type()))
		}
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(op))
	}
}
