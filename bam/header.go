// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

var bamMagic = [4]byte{'B', 'A', 'M', 0x1}

// ReferenceEntry is one entry of the BAM reference dictionary: a
// sequence name and its length.
type ReferenceEntry struct {
	Name   string
	Length int32
}

// ReadHeaderMeta reads the BAM magic, header text and reference
// dictionary from r. It does not interpret the header text beyond
// returning it verbatim; SAM header parsing is the caller's concern.
func ReadHeaderMeta(r io.Reader) (headerText string, refs []ReferenceEntry, err error) {
	var magic [4]byte
	if _, err = io.ReadFull(r, magic[:]); err != nil {
		return "", nil, fmt.Errorf("bam: failed to read magic: %w", err)
	}
	if magic != bamMagic {
		return "", nil, &MalformedRecordError{Explanation: "not a BAM stream: bad magic"}
	}

	var lText int32
	if err = readInt32(r, &lText); err != nil {
		return "", nil, fmt.Errorf("bam: failed to read header text length: %w", err)
	}
	if lText < 0 {
		return "", nil, &MalformedRecordError{Explanation: "negative header text length"}
	}
	text := make([]byte, lText)
	if _, err = io.ReadFull(r, text); err != nil {
		return "", nil, fmt.Errorf("bam: failed to read header text: %w", err)
	}

	var nRef int32
	if err = readInt32(r, &nRef); err != nil {
		return "", nil, fmt.Errorf("bam: failed to read reference count: %w", err)
	}
	if nRef < 0 {
		return "", nil, &MalformedRecordError{Explanation: "negative reference count"}
	}
	refs = make([]ReferenceEntry, nRef)
	for i := range refs {
		var lName int32
		if err = readInt32(r, &lName); err != nil {
			return "", nil, fmt.Errorf("bam: failed to read reference name length: %w", err)
		}
		if lName < 1 {
			return "", nil, &MalformedRecordError{Explanation: "invalid reference name length"}
		}
		name := make([]byte, lName)
		if _, err = io.ReadFull(r, name); err != nil {
			return "", nil, fmt.Errorf("bam: failed to read reference name: %w", err)
		}
		var lRef int32
		if err = readInt32(r, &lRef); err != nil {
			return "", nil, fmt.Errorf("bam: failed to read reference length: %w", err)
		}
		refs[i] = ReferenceEntry{Name: string(name[:lName-1]), Length: lRef}
	}

	return string(text), refs, nil
}

// WriteHeaderMeta writes the BAM magic, header text and reference
// dictionary to w in the layout ReadHeaderMeta expects.
func WriteHeaderMeta(w io.Writer, headerText string, refs []ReferenceEntry) error {
	ew := &errWriter{w: w}
	ew.write(bamMagic[:])
	ew.writeInt32(int32(len(headerText)))
	ew.write([]byte(headerText))
	ew.writeInt32(int32(len(refs)))
	for _, ref := range refs {
		ew.writeInt32(int32(len(ref.Name) + 1))
		ew.write([]byte(ref.Name))
		ew.write([]byte{0})
		ew.writeInt32(ref.Length)
	}
	if ew.err != nil {
		return fmt.Errorf("bam: failed to write header: %w", ew.err)
	}
	return nil
}

// RewriteSortOrder rewrites the SO: field of the @HD line in
// headerText to order, adding a minimal @HD line with a default
// VN:1.6 if none is present. The rest of the header text, and all
// other @HD tags, are passed through unchanged. This is a line-level
// edit, not a full SAM header parse.
func RewriteSortOrder(headerText string, order string) string {
	lines := strings.Split(headerText, "\n")
	found := false
	for i, line := range lines {
		if !strings.HasPrefix(line, "@HD") {
			continue
		}
		found = true
		fields := strings.Split(line, "\t")
		soSet := false
		for j, f := range fields {
			if strings.HasPrefix(f, "SO:") {
				fields[j] = "SO:" + order
				soSet = true
			}
		}
		if !soSet {
			fields = append(fields, "SO:"+order)
		}
		lines[i] = strings.Join(fields, "\t")
	}
	if !found {
		hd := "@HD\tVN:1.6\tSO:" + order
		if headerText == "" {
			return hd + "\n"
		}
		return hd + "\n" + headerText
	}
	return strings.Join(lines, "\n")
}

func readInt32(r io.Reader, v *int32) error {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return err
	}
	*v = int32(binary.LittleEndian.Uint32(b[:]))
	return nil
}

// errWriter accumulates the first error encountered across a sequence
// of writes and thereafter skips further attempts, mirroring the
// teacher's write-then-check-once pattern.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}

func (w *errWriter) writeInt32(v int32) {
	if w.err != nil {
		return
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	_, w.err = w.w.Write(b[:])
}
