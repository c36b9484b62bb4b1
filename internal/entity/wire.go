//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package entity

import (
	"encoding/binary"
	"fmt"

	"github.com/svalbard/svbd/internal/apperr"
)

// The wire codec used by Scheme and SharingMetadata is a flat,
// length-prefixed, field-tagged record: a sequence of
// (tag byte, 4-byte big-endian length, payload) triples. Unknown tags
// are skipped on read so a future field addition does not break older
// readers, and a repeated tag accumulates into a slice so the same
// encoding serves both scalar and repeated fields.

func writeField(buf []byte, tag byte, payload []byte) []byte {
	buf = append(buf, tag)
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(payload)))
	buf = append(buf, lenBytes[:]...)
	buf = append(buf, payload...)
	return buf
}

func writeUint32Field(buf []byte, tag byte, v uint32) []byte {
	var payload [4]byte
	binary.BigEndian.PutUint32(payload[:], v)
	return writeField(buf, tag, payload[:])
}

// parseFields walks a field-tagged record and groups payloads by tag,
// in encounter order. It is the single place that detects a
// syntactically malformed record: a length prefix that overruns the
// remaining bytes.
func parseFields(data []byte) (map[byte][][]byte, error) {
	fields := make(map[byte][][]byte)
	pos := 0
	for pos < len(data) {
		if pos+5 > len(data) {
			return nil, apperr.New(apperr.KindInvalidArgument,
				"truncated field header")
		}
		tag := data[pos]
		length := binary.BigEndian.Uint32(data[pos+1 : pos+5])
		pos += 5
		end := pos + int(length)
		if length > uint32(len(data)) || end < pos || end > len(data) {
			return nil, apperr.New(apperr.KindInvalidArgument,
				fmt.Sprintf("field %d length %d overruns record", tag, length))
		}
		fields[tag] = append(fields[tag], data[pos:end])
		pos = end
	}
	return fields, nil
}

func firstField(fields map[byte][][]byte, tag byte) ([]byte, bool) {
	vs, ok := fields[tag]
	if !ok || len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}

func requireUint32Field(fields map[byte][][]byte, tag byte, name string) (uint32, error) {
	v, ok := firstField(fields, tag)
	if !ok {
		return 0, apperr.New(apperr.KindInvalidArgument, "missing field "+name)
	}
	if len(v) != 4 {
		return 0, apperr.New(apperr.KindInvalidArgument, "malformed field "+name)
	}
	return binary.BigEndian.Uint32(v), nil
}

func requireStringField(fields map[byte][][]byte, tag byte, name string) (string, error) {
	v, ok := firstField(fields, tag)
	if !ok {
		return "", apperr.New(apperr.KindInvalidArgument, "missing field "+name)
	}
	return string(v), nil
}

func requireBytesField(fields map[byte][][]byte, tag byte, name string) ([]byte, error) {
	v, ok := firstField(fields, tag)
	if !ok {
		return nil, apperr.New(apperr.KindInvalidArgument, "missing field "+name)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}
