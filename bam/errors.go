// Copyright ©2017 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import "fmt"

// InvalidArgumentError is returned when a construction or encoding
// call is given arguments that are individually well-typed but
// mutually inconsistent.
type InvalidArgumentError struct {
	Explanation string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("bam: invalid argument: %s", e.Explanation)
}

// UnknownTagError is returned when a tag key is not present in the
// Tag Registry.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("bam: unknown tag %q", e.Tag)
}

// MalformedFieldError reports a record whose flag value violates the
// flag validity rule. ReadName, Position and ReferenceID are best
// effort and may be zero values when unavailable.
type MalformedFieldError struct {
	Flag        Flag
	ReadName    string
	Position    int32
	ReferenceID int32
	Explanation string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("bam: malformed flag 0x%04x for read %q at ref %d pos %d: %s",
		uint16(e.Flag), e.ReadName, e.ReferenceID, e.Position, e.Explanation)
}

// MalformedRecordError is returned when a record's framing or length
// fields cannot be reconciled with the bytes available to decode.
type MalformedRecordError struct {
	Explanation string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("bam: malformed record: %s", e.Explanation)
}
