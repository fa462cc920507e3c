// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bgzf provides a small buffered byte stream over a block-gzip
// (BGZF) file, built on top of the real BGZF deflate/inflate codec in
// github.com/biogo/hts/bgzf. It does not reimplement block
// compression; it only adds the fixed-size read-ahead buffer and the
// byte/seek-oriented API the alignment sort pipeline is built against.
package bgzf

import (
	"fmt"
	"io"

	hts "github.com/biogo/hts/bgzf"
)

// Offset is a virtual BGZF file offset: a compressed block position
// plus a byte offset within that block's decompressed data.
type Offset = hts.Offset

// Error reports a failure from the underlying BGZF transport —
// read, write, seek, or close.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("bgzf: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

const bufferSize = 8192

// BufferedStream is a read-side buffered adapter over an
// *hts.Reader. It maintains a fixed 8192-byte internal buffer so that
// ReadByte does not make a syscall-equivalent call to the underlying
// BGZF reader for every byte delivered.
type BufferedStream struct {
	r      *hts.Reader
	buf    [bufferSize]byte
	offset int
	num    int
}

// NewBufferedStream wraps r as a BufferedStream. readAhead is the
// number of concurrent block-decompression workers hts.NewReader
// should start; 0 uses its default.
func NewBufferedStream(r io.Reader, readAhead int) (*BufferedStream, error) {
	hr, err := hts.NewReader(r, readAhead)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	return &BufferedStream{r: hr}, nil
}

func (s *BufferedStream) refill() error {
	n, err := s.r.Read(s.buf[:])
	s.offset, s.num = 0, n
	if n == 0 && err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return &Error{Op: "read", Err: err}
	}
	return nil
}

// ReadByte returns the next byte in the stream, refilling the internal
// buffer as needed. It returns io.EOF once the underlying reader is
// exhausted.
func (s *BufferedStream) ReadByte() (byte, error) {
	if s.offset >= s.num {
		if err := s.refill(); err != nil {
			return 0, err
		}
	}
	b := s.buf[s.offset]
	s.offset++
	return b, nil
}

// Read implements io.Reader by copying whatever is currently buffered,
// refilling once if the buffer is empty. It may return fewer bytes
// than len(p) even before end of stream, per io.Reader's contract.
func (s *BufferedStream) Read(p []byte) (int, error) {
	if s.offset >= s.num {
		if err := s.refill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, s.buf[s.offset:s.num])
	s.offset += n
	return n, nil
}

// ReadInto fills p completely from the stream, refilling the internal
// buffer as many times as necessary. It returns the number of bytes
// copied, which is less than len(p) only at end of stream.
func (s *BufferedStream) ReadInto(p []byte) (int, error) {
	n, err := io.ReadFull(s, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

// FilePosition returns the underlying reader's current virtual
// offset, as of the last block read into the internal buffer. Bytes
// already buffered but not yet delivered to a caller are not
// reflected; callers that need a precise mid-buffer offset should
// SeekTo before reading ahead.
func (s *BufferedStream) FilePosition() Offset {
	return s.r.LastChunk().End
}

// SeekTo seeks the underlying reader to off and discards any buffered
// bytes.
func (s *BufferedStream) SeekTo(off Offset) error {
	if err := s.r.Seek(off); err != nil {
		return &Error{Op: "seek", Err: err}
	}
	s.offset, s.num = 0, 0
	return nil
}

// Close releases the underlying reader. It is safe to call at most
// once.
func (s *BufferedStream) Close() error {
	if err := s.r.Close(); err != nil {
		return &Error{Op: "close", Err: err}
	}
	return nil
}

// BufferedWriter is a thin write-side wrapper over an *hts.Writer,
// exposed for symmetry with BufferedStream. It performs no additional
// buffering of its own since hts.Writer already batches into BGZF
// blocks.
type BufferedWriter struct {
	w *hts.Writer
}

// NewBufferedWriter wraps w as a BufferedWriter using the given
// compression level and number of concurrent compression workers.
func NewBufferedWriter(w io.Writer, level, writeAhead int) (*BufferedWriter, error) {
	hw, err := hts.NewWriterLevel(w, level, writeAhead)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	return &BufferedWriter{w: hw}, nil
}

// Write writes p to the underlying BGZF stream.
func (s *BufferedWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil {
		return n, &Error{Op: "write", Err: err}
	}
	return n, nil
}

// Flush flushes any buffered BGZF blocks to the underlying writer.
func (s *BufferedWriter) Flush() error {
	if err := s.w.Flush(); err != nil {
		return &Error{Op: "flush", Err: err}
	}
	return nil
}

// Close flushes and closes the underlying BGZF writer, including
// writing the terminal empty BGZF block.
func (s *BufferedWriter) Close() error {
	if err := s.w.Close(); err != nil {
		return &Error{Op: "close", Err: err}
	}
	return nil
}
