// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

// qualAbsent is the sentinel byte value marking a quality score as
// absent. The region always occupies readLen bytes so that downstream
// offsets (tags) stay fixed; absence is signalled by the leading byte
// and is written through the whole region for conformance with
// readers that do not special-case it.
const qualAbsent = 0xff

// decodeQual returns the Phred-scaled quality string encoded in buf,
// or nil if absent (buf[0] == qualAbsent).
func decodeQual(buf []byte) []byte {
	if len(buf) == 0 {
		return nil
	}
	if buf[0] == qualAbsent {
		return nil
	}
	q := make([]byte, len(buf))
	for i, b := range buf {
		v := int(b)
		if v > 93 {
			v = 93
		}
		q[i] = byte(v + 33)
	}
	return q
}

// encodeQual packs qual (Phred+33 ASCII, or nil for absent) into buf,
// which must have length n.
func encodeQual(buf []byte, qual []byte, n int) {
	if qual == nil {
		for i := range buf {
			buf[i] = qualAbsent
		}
		return
	}
	for i := 0; i < n; i++ {
		buf[i] = qual[i] - 33
	}
}
