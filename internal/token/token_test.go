//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package token

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsBelowFloors(t *testing.T) {
	_, err := New(4, 10*time.Second)
	require.Error(t, err)

	_, err = New(10, time.Second)
	require.Error(t, err)
}

func TestMintAndValidateLifecycle(t *testing.T) {
	s, err := New(10, time.Minute)
	require.NoError(t, err)

	tok, err := s.Mint("share-a", OperationStore)
	require.NoError(t, err)
	require.Len(t, tok, 10)

	require.Equal(t, Valid, s.Validate(tok, "share-a", OperationStore))
}

func TestValidateRejectsWrongShareOrOperation(t *testing.T) {
	s, err := New(10, time.Minute)
	require.NoError(t, err)

	tok, err := s.Mint("share-a", OperationStore)
	require.NoError(t, err)

	require.Equal(t, NotValid, s.Validate(tok, "share-b", OperationStore))
	require.Equal(t, NotValid, s.Validate(tok, "share-a", OperationRetrieve))
}

func TestValidateReportsNotFound(t *testing.T) {
	s, err := New(10, time.Minute)
	require.NoError(t, err)

	require.Equal(t, NotFound, s.Validate("AAAAAAAAAA", "share-a", OperationStore))
}

func TestValidateReportsExpired(t *testing.T) {
	s, err := New(10, time.Minute)
	require.NoError(t, err)

	fakeNow := time.Now()
	s.now = func() time.Time { return fakeNow }

	tok, err := s.Mint("share-a", OperationStore)
	require.NoError(t, err)

	fakeNow = fakeNow.Add(2 * time.Minute)
	require.Equal(t, Expired, s.Validate(tok, "share-a", OperationStore))
}

func TestMintProducesDistinctTokens(t *testing.T) {
	s, err := New(16, time.Minute)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := s.Mint("share-a", OperationStore)
		require.NoError(t, err)
		_, dup := seen[tok]
		require.Falsef(t, dup, "collision at mint %d", i)
		seen[tok] = struct{}{}
	}
}

func TestConcurrentMintAndValidate(t *testing.T) {
	s, err := New(12, time.Minute)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := s.Mint("share-a", OperationRetrieve)
			require.NoError(t, err)
			require.Equal(t, Valid, s.Validate(tok, "share-a", OperationRetrieve))
		}(i)
	}
	wg.Wait()
}

func TestRevoke(t *testing.T) {
	s, err := New(10, time.Minute)
	require.NoError(t, err)

	tok, err := s.Mint("share-a", OperationDelete)
	require.NoError(t, err)

	s.Revoke(tok)
	require.Equal(t, NotFound, s.Validate(tok, "share-a", OperationDelete))
}
