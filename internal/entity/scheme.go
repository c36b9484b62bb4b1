//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package entity

import "github.com/svalbard/svbd/internal/apperr"

// FieldID identifies which finite field a Scheme's shares were
// produced over. svbd has exactly one implementation today; the field
// exists so a future second field can be rejected cleanly instead of
// silently misinterpreted.
const FieldID = "gf264"

const (
	schemeFieldK       byte = 1
	schemeFieldN       byte = 2
	schemeFieldFieldID byte = 3
)

// Scheme is the (k, n, field id) triple a sharing was produced with.
// It is serialized as an opaque byte string inside SharingMetadata's
// sharing_scheme field, so that SharingMetadata does not need to know
// the scheme's internal layout.
type Scheme struct {
	K       int
	N       int
	FieldID string
}

// MarshalBinary encodes the scheme as a field-tagged record.
func (s Scheme) MarshalBinary() ([]byte, error) {
	if s.K <= 0 || s.N < s.K {
		return nil, apperr.New(apperr.KindInvalidArgument, "scheme: k and n out of range")
	}
	var buf []byte
	buf = writeUint32Field(buf, schemeFieldK, uint32(s.K))
	buf = writeUint32Field(buf, schemeFieldN, uint32(s.N))
	buf = writeField(buf, schemeFieldFieldID, []byte(s.FieldID))
	return buf, nil
}

// UnmarshalBinary decodes a scheme previously produced by
// MarshalBinary. A syntactically invalid record (truncated header,
// overrunning length) surfaces as apperr.KindInvalidArgument, distinct
// from a record that parses cleanly but names an unrecognized field
// id (the caller's concern, not this function's).
func (s *Scheme) UnmarshalBinary(data []byte) error {
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	k, err := requireUint32Field(fields, schemeFieldK, "k")
	if err != nil {
		return err
	}
	n, err := requireUint32Field(fields, schemeFieldN, "n")
	if err != nil {
		return err
	}
	fieldID, err := requireStringField(fields, schemeFieldFieldID, "field_id")
	if err != nil {
		return err
	}
	if k == 0 || n < k {
		return apperr.New(apperr.KindInvalidArgument, "scheme: k and n out of range")
	}
	s.K = int(k)
	s.N = int(n)
	s.FieldID = fieldID
	return nil
}
