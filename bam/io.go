// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadAlignment reads one length-prefixed alignment record from r: a
// little-endian u32 byte count followed by that many bytes of packed
// record. It returns io.EOF (and a zero record) only when r is
// exhausted exactly at a record boundary.
func ReadAlignment(r io.Reader) (AlignmentRecord, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return AlignmentRecord{}, io.EOF
		}
		return AlignmentRecord{}, fmt.Errorf("bam: failed to read record length: %w", err)
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if n > 1<<28 {
		return AlignmentRecord{}, &MalformedRecordError{Explanation: "implausible record length"}
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return AlignmentRecord{}, &MalformedRecordError{Explanation: "truncated record body"}
	}
	return AlignmentRecord{buf: buf}, nil
}

// WriteAlignment writes rec to w with the same length-prefixed framing
// ReadAlignment expects.
func WriteAlignment(w io.Writer, rec AlignmentRecord) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(rec.buf)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("bam: failed to write record length: %w", err)
	}
	if _, err := w.Write(rec.buf); err != nil {
		return fmt.Errorf("bam: failed to write record body: %w", err)
	}
	return nil
}
