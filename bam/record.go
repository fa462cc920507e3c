// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import "encoding/binary"

// AlignmentRecord is a single BAM alignment record held as a packed
// byte buffer laid out exactly as the BAM wire format describes it.
// It is not a structured object: every accessor decodes directly from
// buf at a fixed or derived offset, so that a record read from a file
// and a record written back out are bit-for-bit identical modulo
// fields the caller explicitly changed.
type AlignmentRecord struct {
	buf []byte
}

// Bytes returns the record's underlying packed buffer. Callers must
// not retain or mutate it beyond the record's lifetime.
func (r AlignmentRecord) Bytes() []byte { return r.buf }

// NewAlignmentRecord wraps an existing packed buffer as a record
// without copying or validating it. It is used by readers that have
// already sliced an exact record out of a larger stream.
func NewAlignmentRecord(buf []byte) AlignmentRecord { return AlignmentRecord{buf: buf} }

func (r AlignmentRecord) i32(off int) int32 { return int32(binary.LittleEndian.Uint32(r.buf[off:])) }
func (r AlignmentRecord) u16(off int) uint16 { return binary.LittleEndian.Uint16(r.buf[off:]) }

// ReferenceID returns the index into the reference dictionary that
// this record aligns to, or -1 if unmapped.
func (r AlignmentRecord) ReferenceID() int32 { return r.i32(0) }

// Position returns the 0-based leftmost reference coordinate, or -1 if
// unmapped.
func (r AlignmentRecord) Position() int32 { return r.i32(4) }

// ReadNameLen returns the length of the read name including its
// terminating NUL.
func (r AlignmentRecord) ReadNameLen() int { return int(r.buf[8]) }

// MappingQuality returns the record's mapping quality.
func (r AlignmentRecord) MappingQuality() byte { return r.buf[9] }

// AlignmentBin returns the record's BAI-style bin index.
func (r AlignmentRecord) AlignmentBin() uint16 { return r.u16(10) }

// CigarLen returns the number of CIGAR operations.
func (r AlignmentRecord) CigarLen() int { return int(r.u16(12)) }

// FlagValue returns the record's alignment flag.
func (r AlignmentRecord) FlagValue() Flag { return Flag(r.u16(14)) }

// ReadLength returns the length of the read sequence in bases.
func (r AlignmentRecord) ReadLength() int { return int(r.i32(16)) }

// MateReferenceID returns the index into the reference dictionary that
// this record's mate aligns to, or -1 if absent.
func (r AlignmentRecord) MateReferenceID() int32 { return r.i32(20) }

// MatePosition returns the mate's 0-based leftmost coordinate, or -1
// if absent.
func (r AlignmentRecord) MatePosition() int32 { return r.i32(24) }

// InsertLength returns the signed template length (TLEN).
func (r AlignmentRecord) InsertLength() int32 { return r.i32(28) }

const fixedHeaderLen = 32

func (r AlignmentRecord) cigarIndex() int { return fixedHeaderLen + r.ReadNameLen() }
func (r AlignmentRecord) seqIndex() int   { return r.cigarIndex() + 4*r.CigarLen() }
func (r AlignmentRecord) qualIndex() int  { return r.seqIndex() + seqByteLen(r.ReadLength()) }
func (r AlignmentRecord) tagIndex() int   { return r.qualIndex() + r.ReadLength() }

// ReadName returns the read name without its terminating NUL.
func (r AlignmentRecord) ReadName() string {
	n := r.ReadNameLen()
	if n == 0 {
		return ""
	}
	return string(r.buf[fixedHeaderLen : fixedHeaderLen+n-1])
}

// Cigar returns the record's CIGAR operations.
func (r AlignmentRecord) Cigar() Cigar {
	n := r.CigarLen()
	if n == 0 {
		return nil
	}
	return decodeCigar(r.buf[r.cigarIndex():], n)
}

// Seq returns the decoded read sequence as upper-case ASCII bases.
func (r AlignmentRecord) Seq() []byte {
	n := r.ReadLength()
	if n == 0 {
		return nil
	}
	return decodeSeq(r.buf[r.seqIndex():], n)
}

// Quality returns the decoded Phred+33 quality string, or nil if
// quality is absent.
func (r AlignmentRecord) Quality() []byte {
	n := r.ReadLength()
	if n == 0 {
		return nil
	}
	return decodeQual(r.buf[r.qualIndex() : r.qualIndex()+n])
}

// Tags returns every auxiliary tag present on the record, in wire
// order.
func (r AlignmentRecord) Tags() ([]AuxTag, error) {
	return decodeTags(r.buf[r.tagIndex():])
}

// AlignmentReadLength returns the number of read bases consumed by
// the record's CIGAR (sum over I, M, S, = and X).
func (r AlignmentRecord) AlignmentReadLength() int {
	return r.Cigar().AlignmentReadLength()
}

// AlignmentReferenceLength returns the number of reference bases
// consumed by the record's CIGAR (sum over D, M, N, = and X).
func (r AlignmentRecord) AlignmentReferenceLength() int {
	return r.Cigar().AlignmentReferenceLength()
}

// Validate applies the flag validity rule to the record's flag.
func (r AlignmentRecord) Validate() error {
	return ValidateFlag(r.FlagValue(), r.ReadName(), r.Position(), r.ReferenceID())
}

// RecordOptions carries the optional fields accepted by
// MakeAlignmentRecord. Fields are written as given, so a zero value
// field is stored as zero (AlignmentBin excepted, see
// MakeAlignmentRecord); start from DefaultRecordOptions to get -1 for
// the reference and position fields.
type RecordOptions struct {
	ReferenceID     int32
	Position        int32
	MateReferenceID int32
	MatePosition    int32
	MappingQuality  byte
	AlignmentBin    uint16
	InsertLength    int32
	Cigar           Cigar
	Quality         []byte
	Tags            []AuxTag
	Validate        bool
}

// DefaultRecordOptions returns the default record options:
// unmapped, no mate, zero mapping quality and
// bin, no insert length, no CIGAR, absent quality, no tags.
func DefaultRecordOptions() RecordOptions {
	return RecordOptions{
		ReferenceID:     -1,
		Position:        -1,
		MateReferenceID: -1,
		MatePosition:    -1,
	}
}

// MakeAlignmentRecord allocates and populates a new packed record
// buffer sized exactly to hold readName, seq and the configured tags.
//
// When opts.AlignmentBin is left at its zero value and the record is
// mapped (opts.Position >= 0) with a non-empty opts.Cigar, the bin is
// computed from the alignment's reference span via
// ComputeAlignmentBin instead of being stored as a literal zero. Set
// opts.AlignmentBin explicitly to override this.
//
// It returns InvalidArgumentError if opts.Quality is non-nil and its
// length differs from len(seq).
func MakeAlignmentRecord(readName string, seq []byte, flag Flag, opts RecordOptions) (AlignmentRecord, error) {
	if opts.Quality != nil && len(opts.Quality) != len(seq) {
		return AlignmentRecord{}, &InvalidArgumentError{
			Explanation: "quality length must match sequence length",
		}
	}

	readNameLen := len(readName) + 1
	cigarBytes := 4 * len(opts.Cigar)
	seqBytes := seqByteLen(len(seq))
	qualBytes := len(seq)

	alignmentBin := opts.AlignmentBin
	if alignmentBin == 0 && opts.Position >= 0 && len(opts.Cigar) > 0 {
		beg := int(opts.Position)
		end := beg + opts.Cigar.AlignmentReferenceLength()
		alignmentBin = ComputeAlignmentBin(beg, end)
	}

	size := fixedHeaderLen + readNameLen + cigarBytes + seqBytes + qualBytes
	buf := make([]byte, size, size+64)

	binary.LittleEndian.PutUint32(buf[0:], uint32(opts.ReferenceID))
	binary.LittleEndian.PutUint32(buf[4:], uint32(opts.Position))
	buf[8] = byte(readNameLen)
	buf[9] = opts.MappingQuality
	binary.LittleEndian.PutUint16(buf[10:], alignmentBin)
	binary.LittleEndian.PutUint16(buf[12:], uint16(len(opts.Cigar)))
	binary.LittleEndian.PutUint16(buf[14:], uint16(flag))
	binary.LittleEndian.PutUint32(buf[16:], uint32(len(seq)))
	binary.LittleEndian.PutUint32(buf[20:], uint32(opts.MateReferenceID))
	binary.LittleEndian.PutUint32(buf[24:], uint32(opts.MatePosition))
	binary.LittleEndian.PutUint32(buf[28:], uint32(opts.InsertLength))

	off := fixedHeaderLen
	copy(buf[off:], readName)
	buf[off+len(readName)] = 0
	off += readNameLen

	if len(opts.Cigar) > 0 {
		encodeCigar(buf[off:], opts.Cigar)
	}
	off += cigarBytes

	encodeSeq(buf[off:off+seqBytes], seq)
	off += seqBytes

	encodeQual(buf[off:off+qualBytes], opts.Quality, len(seq))

	for _, t := range opts.Tags {
		var err error
		buf, err = EncodeTag(t.Tag, t.Value, buf)
		if err != nil {
			return AlignmentRecord{}, err
		}
	}

	rec := AlignmentRecord{buf: buf}
	if opts.Validate {
		if err := rec.Validate(); err != nil {
			return AlignmentRecord{}, err
		}
	}
	return rec, nil
}
