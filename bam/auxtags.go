// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"math"
)

// AuxTag is a single decoded auxiliary tag: a two-letter key paired
// with a value whose concrete Go type reflects the wire type code it
// was read with (byte for A, int64 for the integer codes, float32 for
// f, and string for Z and for H, the latter as its hex-digit text).
type AuxTag struct {
	Tag   string
	Value interface{}
}

// EncodeTag appends the wire encoding of key/value to buf and returns
// the extended slice. key must be a registered tag; the wire type code
// written is chosen from the registry's declared TagValueType for key,
// not from value's runtime type, so a mistyped value (e.g. a string
// passed for an int-declared tag) is rejected rather than silently
// mis-encoded. Integer values are encoded at the narrowest width that
// represents them exactly, preferring an unsigned code when the value
// is non-negative.
func EncodeTag(key string, value interface{}, buf []byte) ([]byte, error) {
	entry, ok := tagRegistry[key]
	if !ok {
		return nil, &UnknownTagError{Tag: key}
	}
	buf = append(buf, key[0], key[1])

	switch entry.Type {
	case TagChar:
		switch v := value.(type) {
		case byte:
			return append(buf, 'A', v), nil
		case rune:
			return append(buf, 'A', byte(v)), nil
		default:
			return nil, &InvalidArgumentError{Explanation: "tag " + key + " requires a char value"}
		}
	case TagString:
		s, ok := value.(string)
		if !ok {
			return nil, &InvalidArgumentError{Explanation: "tag " + key + " requires a string value"}
		}
		return append(append(buf, 'Z'), appendCString(s)...), nil
	case TagHex:
		b, ok := value.([]byte)
		if !ok {
			return nil, &InvalidArgumentError{Explanation: "tag " + key + " requires a []byte value"}
		}
		return append(append(buf, 'H'), appendCString(hexEncode(b))...), nil
	case TagFloat:
		switch v := value.(type) {
		case float32:
			buf = append(buf, 'f', 0, 0, 0, 0)
			binary.LittleEndian.PutUint32(buf[len(buf)-4:], math.Float32bits(v))
			return buf, nil
		case float64:
			buf = append(buf, 'f', 0, 0, 0, 0)
			binary.LittleEndian.PutUint32(buf[len(buf)-4:], math.Float32bits(float32(v)))
			return buf, nil
		default:
			return nil, &InvalidArgumentError{Explanation: "tag " + key + " requires a float value"}
		}
	case TagInt:
		n, ok := toInt64(value)
		if !ok {
			return nil, &InvalidArgumentError{Explanation: "tag " + key + " requires an integer value"}
		}
		return encodeInt(buf, n)
	default:
		return nil, &InvalidArgumentError{Explanation: "unrecognised tag value type"}
	}
}

// toInt64 widens any of Go's integer types to int64, reporting false
// for any other type.
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	}
	return 0, false
}

// encodeInt chooses the narrowest of c/C, s/S, i/I that represents n
// exactly, preferring the unsigned code when n >= 0.
func encodeInt(buf []byte, n int64) ([]byte, error) {
	switch {
	case n >= 0 && n <= math.MaxUint8:
		return append(buf, 'C', byte(n)), nil
	case n >= math.MinInt8 && n < 0:
		return append(buf, 'c', byte(int8(n))), nil
	case n >= 0 && n <= math.MaxUint16:
		b := append(buf, 'S', 0, 0)
		binary.LittleEndian.PutUint16(b[len(b)-2:], uint16(n))
		return b, nil
	case n >= math.MinInt16 && n < 0:
		b := append(buf, 's', 0, 0)
		binary.LittleEndian.PutUint16(b[len(b)-2:], uint16(int16(n)))
		return b, nil
	case n >= 0 && n <= math.MaxUint32:
		b := append(buf, 'I', 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(b[len(b)-4:], uint32(n))
		return b, nil
	case n >= math.MinInt32 && n < 0:
		b := append(buf, 'i', 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(b[len(b)-4:], uint32(int32(n)))
		return b, nil
	default:
		return nil, &InvalidArgumentError{Explanation: "integer tag value out of representable range"}
	}
}

func appendCString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	b[len(s)] = 0
	return b
}

const hexDigits = "0123456789ABCDEF"

func hexEncode(b []byte) string {
	out := make([]byte, 2*len(b))
	for i, c := range b {
		out[2*i] = hexDigits[c>>4]
		out[2*i+1] = hexDigits[c&0xf]
	}
	return string(out)
}

// decodeTags decodes every tag entry in buf in order.
func decodeTags(buf []byte) ([]AuxTag, error) {
	var tags []AuxTag
	for len(buf) > 0 {
		if len(buf) < 3 {
			return nil, &MalformedRecordError{Explanation: "truncated tag header"}
		}
		key := string(buf[:2])
		typ := buf[2]
		buf = buf[3:]

		var value interface{}
		switch typ {
		case 'A':
			if len(buf) < 1 {
				return nil, &MalformedRecordError{Explanation: "truncated A tag"}
			}
			value = buf[0]
			buf = buf[1:]
		case 'c':
			value = int64(int8(buf[0]))
			buf = buf[1:]
		case 'C':
			value = int64(buf[0])
			buf = buf[1:]
		case 's':
			value = int64(int16(binary.LittleEndian.Uint16(buf)))
			buf = buf[2:]
		case 'S':
			value = int64(binary.LittleEndian.Uint16(buf))
			buf = buf[2:]
		case 'i':
			value = int64(int32(binary.LittleEndian.Uint32(buf)))
			buf = buf[4:]
		case 'I':
			value = int64(binary.LittleEndian.Uint32(buf))
			buf = buf[4:]
		case 'f':
			value = math.Float32frombits(binary.LittleEndian.Uint32(buf))
			buf = buf[4:]
		case 'Z', 'H':
			i := 0
			for i < len(buf) && buf[i] != 0 {
				i++
			}
			if i >= len(buf) {
				return nil, &MalformedRecordError{Explanation: "unterminated Z/H tag"}
			}
			value = string(buf[:i])
			buf = buf[i+1:]
		default:
			return nil, &MalformedRecordError{Explanation: "unrecognised tag type code"}
		}
		tags = append(tags, AuxTag{Tag: key, Value: value})
	}
	return tags, nil
}
