//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package entity

import "github.com/svalbard/svbd/internal/apperr"

const (
	locationFieldType        byte = 1
	locationFieldName        byte = 2
	locationFieldOwnerIDType byte = 3
	locationFieldOwnerID     byte = 4
)

func (l ShareLocation) marshal() []byte {
	var buf []byte
	buf = writeField(buf, locationFieldType, []byte(l.Type))
	buf = writeField(buf, locationFieldName, []byte(l.Name))
	buf = writeField(buf, locationFieldOwnerIDType, []byte(l.OwnerIDType))
	buf = writeField(buf, locationFieldOwnerID, []byte(l.OwnerID))
	return buf
}

func unmarshalLocation(data []byte) (ShareLocation, error) {
	fields, err := parseFields(data)
	if err != nil {
		return ShareLocation{}, err
	}
	typ, err := requireStringField(fields, locationFieldType, "location.type")
	if err != nil {
		return ShareLocation{}, err
	}
	name, err := requireStringField(fields, locationFieldName, "location.name")
	if err != nil {
		return ShareLocation{}, err
	}
	ownerType, err := requireStringField(fields, locationFieldOwnerIDType, "location.owner_id_type")
	if err != nil {
		return ShareLocation{}, err
	}
	ownerID, err := requireStringField(fields, locationFieldOwnerID, "location.owner_id")
	if err != nil {
		return ShareLocation{}, err
	}
	return ShareLocation{
		Type:        LocationType(typ),
		Name:        name,
		OwnerIDType: ownerType,
		OwnerID:     ownerID,
	}, nil
}

const (
	shareMetaFieldLocation  byte = 1
	shareMetaFieldShareHash byte = 2
)

// ShareMetadata is the per-share recovery record: where the share
// lives, and the salted hash of the share bytes themselves so
// corruption can be detected before it reaches Lagrange interpolation.
type ShareMetadata struct {
	Location  ShareLocation
	ShareHash []byte
}

func (m ShareMetadata) marshal() ([]byte, error) {
	if len(m.ShareHash) == 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "share metadata hash must not be empty")
	}
	var buf []byte
	buf = writeField(buf, shareMetaFieldLocation, m.Location.marshal())
	buf = writeField(buf, shareMetaFieldShareHash, m.ShareHash)
	return buf, nil
}

func unmarshalShareMetadata(data []byte) (ShareMetadata, error) {
	fields, err := parseFields(data)
	if err != nil {
		return ShareMetadata{}, err
	}
	locBytes, err := requireBytesField(fields, shareMetaFieldLocation, "share_metadata.location")
	if err != nil {
		return ShareMetadata{}, err
	}
	loc, err := unmarshalLocation(locBytes)
	if err != nil {
		return ShareMetadata{}, err
	}
	hash, err := requireBytesField(fields, shareMetaFieldShareHash, "share_metadata.share_hash")
	if err != nil {
		return ShareMetadata{}, err
	}
	if len(hash) == 0 {
		return ShareMetadata{}, apperr.New(apperr.KindInvalidArgument, "share metadata hash must not be empty")
	}
	return ShareMetadata{Location: loc, ShareHash: hash}, nil
}

const (
	metaFieldSchemeType byte = 1
	metaFieldScheme     byte = 2
	metaFieldSecretName byte = 3
	metaFieldSecretMask byte = 4
	metaFieldHashSalt   byte = 5
	metaFieldShares     byte = 6
)

// SharingMetadata is the full recovery record for one secret: enough
// to find, verify, and recombine every second-level share without
// ever storing the secret itself.
type SharingMetadata struct {
	SchemeType string
	Scheme     []byte
	SecretName string
	SecretMask []byte
	HashSalt   []byte
	Shares     []ShareMetadata
}

// Validate enforces the cross-field invariants a complete metadata
// record must satisfy, beyond what the wire codec alone can check.
func (m SharingMetadata) Validate(secretLen int) error {
	if m.SecretName == "" {
		return apperr.New(apperr.KindInvalidArgument, "secret name must not be empty")
	}
	if len(m.SecretMask) != secretLen {
		return apperr.New(apperr.KindInvalidArgument, "secret mask length must equal secret length")
	}
	if len(m.HashSalt) < 1 || len(m.HashSalt) > 255 {
		return apperr.New(apperr.KindInvalidArgument, "hash salt length must be in [1, 255]")
	}
	return nil
}

// MarshalBinary encodes the metadata record as a field-tagged record.
// Field numbers are fixed at 1..6 and must never be reassigned:
// backups produced by an older build must stay readable.
func (m SharingMetadata) MarshalBinary() ([]byte, error) {
	if m.SchemeType == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "scheme type must not be empty")
	}
	var buf []byte
	buf = writeField(buf, metaFieldSchemeType, []byte(m.SchemeType))
	buf = writeField(buf, metaFieldScheme, m.Scheme)
	buf = writeField(buf, metaFieldSecretName, []byte(m.SecretName))
	buf = writeField(buf, metaFieldSecretMask, m.SecretMask)
	buf = writeField(buf, metaFieldHashSalt, m.HashSalt)
	for _, sm := range m.Shares {
		encoded, err := sm.marshal()
		if err != nil {
			return nil, err
		}
		buf = writeField(buf, metaFieldShares, encoded)
	}
	return buf, nil
}

// UnmarshalBinary decodes a metadata record previously produced by
// MarshalBinary. Every error returned is apperr.KindInvalidArgument:
// by the time a record reaches this function it is either well formed
// or it is corrupt, never merely "unknown".
func (m *SharingMetadata) UnmarshalBinary(data []byte) error {
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	schemeType, err := requireStringField(fields, metaFieldSchemeType, "sharing_scheme_type")
	if err != nil {
		return err
	}
	scheme, err := requireBytesField(fields, metaFieldScheme, "sharing_scheme")
	if err != nil {
		return err
	}
	secretName, err := requireStringField(fields, metaFieldSecretName, "secret_name")
	if err != nil {
		return err
	}
	mask, err := requireBytesField(fields, metaFieldSecretMask, "secret_mask")
	if err != nil {
		return err
	}
	salt, err := requireBytesField(fields, metaFieldHashSalt, "hash_salt")
	if err != nil {
		return err
	}

	rawShares := fields[metaFieldShares]
	shares := make([]ShareMetadata, len(rawShares))
	for i, raw := range rawShares {
		sm, err := unmarshalShareMetadata(raw)
		if err != nil {
			return err
		}
		shares[i] = sm
	}

	m.SchemeType = schemeType
	m.Scheme = scheme
	m.SecretName = secretName
	m.SecretMask = mask
	m.HashSalt = salt
	m.Shares = shares
	return nil
}
