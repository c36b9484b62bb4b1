//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package shareid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetShareIDRegressionVectors(t *testing.T) {
	require.Equal(t,
		"e998ba073ec38976e56156523126e98679eb916063d8cb5f1d9bd8193467dc25",
		GetShareID("a", "b", "c"))

	require.Equal(t,
		"7d97f68401fb8217b4beab14598eb88af5b5ab8c4282731a67b464ad47e2793b",
		GetShareID("abc", "xyz", "efg"))
}

func TestGetShareIDIsDeterministic(t *testing.T) {
	a := GetShareID("user", "alice", "prod-db-password")
	b := GetShareID("user", "alice", "prod-db-password")
	require.Equal(t, a, b)
}

func TestGetShareIDDistinguishesDelimiterPlacement(t *testing.T) {
	// "[a][bc]" vs "[ab][c]" must not collide just because the
	// concatenated characters match; the bracket delimiters guard
	// against this.
	a := GetShareID("a", "bc", "x")
	b := GetShareID("ab", "c", "x")
	require.NotEqual(t, a, b)
}

func TestGetShareIDLowercaseHex(t *testing.T) {
	id := GetShareID("owner-type", "owner-id", "secret-name")
	require.Len(t, id, 64)
	require.Regexp(t, "^[0-9a-f]{64}$", id)
}
