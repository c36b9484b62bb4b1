//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package sharestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/svalbard/svbd/internal/apperr"
)

// contractTest exercises the invariants every Store implementation
// must satisfy, regardless of backend.
func contractTest(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "share-1", []byte("payload")))

	got, err := store.Retrieve(ctx, "share-1")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)

	err = store.Store(ctx, "share-1", []byte("other"))
	require.Error(t, err)
	require.Equal(t, apperr.KindAlreadyExists, apperr.Of(err))

	_, err = store.Retrieve(ctx, "missing")
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.Of(err))

	err = store.Delete(ctx, "missing")
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.Of(err))

	require.NoError(t, store.Delete(ctx, "share-1"))

	_, err = store.Retrieve(ctx, "share-1")
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.Of(err))
}

func TestMemoryStoreContract(t *testing.T) {
	contractTest(t, NewMemory())
}

func TestMemoryStoreRejectsEmptyInputs(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.Store(ctx, "", []byte("x"))
	require.Equal(t, apperr.KindInvalidArgument, apperr.Of(err))

	err = m.Store(ctx, "share-1", nil)
	require.Equal(t, apperr.KindInvalidArgument, apperr.Of(err))
}

func TestSQLiteStoreContract(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shares.db")
	store, err := OpenSQLite(dbPath)
	require.NoError(t, err)
	defer store.Close()

	contractTest(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shares.db")
	ctx := context.Background()

	store, err := OpenSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Store(ctx, "share-1", []byte("payload")))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Retrieve(ctx, "share-1")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)
}
