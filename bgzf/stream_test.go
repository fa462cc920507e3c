// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	hts "github.com/biogo/hts/bgzf"
)

func TestBufferedStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	hw, err := hts.NewWriterLevel(&buf, gzip.DefaultCompression, 1)
	if err != nil {
		t.Fatalf("hts.NewWriterLevel: %v", err)
	}
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 4096)
	if _, err := hw.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := hw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err := NewBufferedStream(bytes.NewReader(buf.Bytes()), 1)
	if err != nil {
		t.Fatalf("NewBufferedStream: %v", err)
	}
	defer s.Close()

	got := make([]byte, len(payload))
	if _, err := s.ReadInto(got); err != nil {
		t.Fatalf("ReadInto: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(payload))
	}

	if _, err := s.ReadByte(); err != io.EOF {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestBufferedWriterProducesReadableStream(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewBufferedWriter(&buf, gzip.DefaultCompression, 1)
	if err != nil {
		t.Fatalf("NewBufferedWriter: %v", err)
	}
	payload := []byte("alignment records travel through bgzf blocks")
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err := NewBufferedStream(bytes.NewReader(buf.Bytes()), 1)
	if err != nil {
		t.Fatalf("NewBufferedStream: %v", err)
	}
	defer s.Close()

	got := make([]byte, len(payload))
	if _, err := s.ReadInto(got); err != nil {
		t.Fatalf("ReadInto: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, payload)
	}
}
