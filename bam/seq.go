// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

// baseToNibble is the encoding table for packed sequence bases.
// Lower-case letters are folded to upper case before lookup.
var baseToNibble = map[byte]byte{
	'=': 0,
	'A': 1,
	'C': 2,
	'G': 4,
	'T': 8,
	'N': 15,
}

// nibbleToBase is the inverse of baseToNibble; unrecognised nibbles
// decode to 'N', matching the spec's ambiguity fallback.
var nibbleToBase = [16]byte{
	0:  '=',
	1:  'A',
	2:  'C',
	4:  'G',
	8:  'T',
	15: 'N',
}

func init() {
	for i, b := range nibbleToBase {
		if b == 0 {
			nibbleToBase[i] = 'N'
		}
	}
}

// decodeSeq unpacks n bases from the 4-bit packed bytes in buf. The
// first base of a pair occupies the high nibble.
func decodeSeq(buf []byte, n int) []byte {
	seq := make([]byte, n)
	for i := 0; i < n; i++ {
		b := buf[i/2]
		var nib byte
		if i%2 == 0 {
			nib = b >> 4
		} else {
			nib = b & 0xf
		}
		seq[i] = nibbleToBase[nib]
	}
	return seq
}

// encodeSeq packs seq into buf, which must have length (len(seq)+1)/2.
// The final nibble is zero-padded when len(seq) is odd.
func encodeSeq(buf []byte, seq []byte) {
	for i := 0; i < len(buf); i++ {
		buf[i] = 0
	}
	for i, c := range seq {
		nib, ok := baseToNibble[upper(c)]
		if !ok {
			nib = baseToNibble['N']
		}
		if i%2 == 0 {
			buf[i/2] |= nib << 4
		} else {
			buf[i/2] |= nib
		}
	}
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func seqByteLen(n int) int { return (n + 1) / 2 }
