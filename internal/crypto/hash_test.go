//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaltedHashMatchesDirectConstruction(t *testing.T) {
	salt := []byte("0123456789")
	message := []byte("a secret value")

	got, err := SaltedHash(message, salt)
	require.NoError(t, err)

	want := sha256.Sum256(append([]byte{byte(len(salt))}, append(append([]byte{}, salt...), message...)...))
	require.Equal(t, want, got)
}

func TestSaltedHashRejectsEmptySalt(t *testing.T) {
	_, err := SaltedHash([]byte("m"), nil)
	require.ErrorIs(t, err, ErrSaltLength)
}

func TestSaltedHashRejectsOversizeSalt(t *testing.T) {
	_, err := SaltedHash([]byte("m"), make([]byte, 256))
	require.ErrorIs(t, err, ErrSaltLength)
}

func TestSaltedHashDistinguishesSaltLength(t *testing.T) {
	// salt="1", message="23" must not collide with salt="12", message="3",
	// which is exactly what the length prefix byte guards against.
	a, err := SaltedHash([]byte("23"), []byte("1"))
	require.NoError(t, err)
	b, err := SaltedHash([]byte("3"), []byte("12"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestNewSaltLength(t *testing.T) {
	salt, err := NewSalt(10)
	require.NoError(t, err)
	require.Len(t, salt, 10)
}

func TestNewSaltRejectsOutOfRange(t *testing.T) {
	_, err := NewSalt(0)
	require.ErrorIs(t, err, ErrSaltLength)

	_, err = NewSalt(256)
	require.ErrorIs(t, err, ErrSaltLength)
}

func TestRandomBytesLengthAndVariance(t *testing.T) {
	a, err := RandomBytes(32)
	require.NoError(t, err)
	b, err := RandomBytes(32)
	require.NoError(t, err)

	require.Len(t, a, 32)
	require.Len(t, b, 32)
	require.NotEqual(t, a, b)
}
