//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package crypto holds the small set of primitives the integrity layer
// needs on top of pkg/shamir: a salt generator, the salted-hash
// function used to detect corruption of shares and of the first-level
// share, and a process-wide random source.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
)

// ErrSaltLength is returned by SaltedHash and NewSalt when a salt
// falls outside the 1..255 byte range the wire format can encode as a
// single length-prefix byte.
var ErrSaltLength = errors.New("crypto: salt length must be in [1, 255]")

// SaltedHash computes SHA-256(len(salt) || salt || message), with
// len(salt) encoded as a single byte. This binds the salt length into
// the digest so truncation or extension of the salt changes the
// result, not just the salt bytes themselves.
func SaltedHash(message, salt []byte) ([32]byte, error) {
	if len(salt) < 1 || len(salt) > 255 {
		return [32]byte{}, ErrSaltLength
	}
	h := sha256.New()
	h.Write([]byte{byte(len(salt))})
	h.Write(salt)
	h.Write(message)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// NewSalt draws n cryptographically random bytes to use as a hash
// salt. n must be in [1, 255].
func NewSalt(n int) ([]byte, error) {
	if n < 1 || n > 255 {
		return nil, ErrSaltLength
	}
	salt := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// RandomBytes draws n cryptographically random bytes from the
// process-wide secure source. crypto/rand.Reader is already safe for
// concurrent use, so no additional locking is layered on top here.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
