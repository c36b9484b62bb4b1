//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByKindOnly(t *testing.T) {
	a := New(KindNotFound, "share not found")
	b := Wrap(KindNotFound, "retrieve failed", errors.New("backend down"))

	require.True(t, errors.Is(b, a))
}

func TestErrorIsRejectsDifferentKind(t *testing.T) {
	a := New(KindNotFound, "share not found")
	b := New(KindForbidden, "token not valid")

	require.False(t, errors.Is(b, a))
}

func TestOfExtractsKind(t *testing.T) {
	err := Wrap(KindIntegrity, "hash mismatch", errors.New("cause"))
	require.Equal(t, KindIntegrity, Of(err))
	require.Equal(t, Kind(""), Of(errors.New("plain error")))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindTransport, "write failed", cause)
	require.ErrorIs(t, err, cause)
}
