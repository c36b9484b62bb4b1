//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package integrity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/entity"
	"github.com/svalbard/svbd/internal/future"
	"github.com/svalbard/svbd/internal/integrity"
	"github.com/svalbard/svbd/internal/manager"
	"github.com/svalbard/svbd/internal/sharestore"
)

// memoryManager is a test-only Manager that stores shares in an
// in-process map, keyed by location name, so sharing/recovery round
// trips can run without any HTTP server or filesystem.
type memoryManager struct {
	store *sharestore.Memory
}

func newMemoryManager() *memoryManager {
	return &memoryManager{store: sharestore.NewMemory()}
}

func (m *memoryManager) Store(ctx context.Context, _ string, shareBytes []byte,
	location entity.ShareLocation) *future.Future[struct{}] {
	err := m.store.Store(ctx, location.Name, shareBytes)
	return future.Done(struct{}{}, err)
}

func (m *memoryManager) Retrieve(ctx context.Context, _ string,
	location entity.ShareLocation) *future.Future[[]byte] {
	v, err := m.store.Retrieve(ctx, location.Name)
	return future.Done(v, err)
}

func (m *memoryManager) Delete(ctx context.Context, _ string,
	location entity.ShareLocation) *future.Future[struct{}] {
	err := m.store.Delete(ctx, location.Name)
	return future.Done(struct{}{}, err)
}

func testLocations(n int) []entity.ShareLocation {
	locations := make([]entity.ShareLocation, n)
	for i := range locations {
		locations[i] = entity.ShareLocation{
			Type:        entity.LocationServer,
			Name:        "https://custodian.example.com/slot-" + string(rune('a'+i)),
			OwnerIDType: "email",
			OwnerID:     "owner@example.com",
		}
	}
	return locations
}

func testRegistry() (*manager.Registry, *memoryManager) {
	mm := newMemoryManager()
	reg := manager.NewRegistry()
	reg.Register(entity.LocationServer, mm)
	return reg, mm
}

func TestShareAndRecoverRoundTrip(t *testing.T) {
	registry, _ := testRegistry()
	ctx := context.Background()

	secret := []byte("a short high-value secret")
	req := integrity.SharingRequest{
		SecretName: "vault-root-key",
		Secret:     secret,
		K:          3,
		N:          5,
		Locations:  testLocations(5),
	}

	sharingResult, err := integrity.Share(ctx, registry, req)
	require.NoError(t, err)
	require.Empty(t, sharingResult.SharesToBeStored)
	require.Len(t, sharingResult.Metadata.Shares, 5)

	recoveryResult, err := integrity.Recover(ctx, registry, sharingResult.Metadata)
	require.NoError(t, err)
	require.Equal(t, secret, recoveryResult.Secret)
	require.Len(t, recoveryResult.ShareDataList, 5)
	for _, outcome := range recoveryResult.ShareDataList {
		require.NoError(t, outcome.Err)
	}
}

func TestRecoverSucceedsWithOnlyThresholdManyShares(t *testing.T) {
	registry, mm := testRegistry()
	ctx := context.Background()

	secret := []byte("another secret of modest length")
	req := integrity.SharingRequest{
		SecretName: "vault-root-key",
		Secret:     secret,
		K:          3,
		N:          5,
		Locations:  testLocations(5),
	}
	sharingResult, err := integrity.Share(ctx, registry, req)
	require.NoError(t, err)

	// Delete two of the five underlying shares so only k remain.
	require.NoError(t, mm.store.Delete(ctx, req.Locations[0].Name))
	require.NoError(t, mm.store.Delete(ctx, req.Locations[1].Name))

	recoveryResult, err := integrity.Recover(ctx, registry, sharingResult.Metadata)
	require.NoError(t, err)
	require.Equal(t, secret, recoveryResult.Secret)
}

func TestRecoverFailsWithFewerThanThresholdShares(t *testing.T) {
	registry, mm := testRegistry()
	ctx := context.Background()

	req := integrity.SharingRequest{
		SecretName: "vault-root-key",
		Secret:     []byte("a secret"),
		K:          3,
		N:          5,
		Locations:  testLocations(5),
	}
	sharingResult, err := integrity.Share(ctx, registry, req)
	require.NoError(t, err)

	for _, loc := range req.Locations[:3] {
		require.NoError(t, mm.store.Delete(ctx, loc.Name))
	}

	recoveryResult, err := integrity.Recover(ctx, registry, sharingResult.Metadata)
	require.Error(t, err)
	require.Equal(t, apperr.KindInsufficient, apperr.Of(err))
	require.Nil(t, recoveryResult.Secret)
	require.Len(t, recoveryResult.ShareDataList, 5)
}

func TestRecoverDetectsCorruptedShare(t *testing.T) {
	registry, mm := testRegistry()
	ctx := context.Background()

	req := integrity.SharingRequest{
		SecretName: "vault-root-key",
		Secret:     []byte("a secret that must be protected"),
		K:          3,
		N:          5,
		Locations:  testLocations(5),
	}
	sharingResult, err := integrity.Share(ctx, registry, req)
	require.NoError(t, err)

	corrupted, err := mm.store.Retrieve(ctx, req.Locations[0].Name)
	require.NoError(t, err)
	corrupted = append([]byte{}, corrupted...)
	corrupted[0] ^= 0xFF
	require.NoError(t, mm.store.Delete(ctx, req.Locations[0].Name))
	require.NoError(t, mm.store.Store(ctx, req.Locations[0].Name, corrupted))

	recoveryResult, err := integrity.Recover(ctx, registry, sharingResult.Metadata)
	require.NoError(t, err, "4 of 5 shares still verify, satisfying k=3")
	require.Equal(t, []byte("a secret that must be protected"), recoveryResult.Secret)

	var corruptedOutcome *integrity.ShareOutcome
	for i := range recoveryResult.ShareDataList {
		if recoveryResult.ShareDataList[i].Metadata.Location.Name == req.Locations[0].Name {
			corruptedOutcome = &recoveryResult.ShareDataList[i]
		}
	}
	require.NotNil(t, corruptedOutcome)
	require.Error(t, corruptedOutcome.Err)
	require.Equal(t, apperr.KindIntegrity, apperr.Of(corruptedOutcome.Err))
}

func TestRecoverDetectsCorruptedSecretMask(t *testing.T) {
	registry, _ := testRegistry()
	ctx := context.Background()

	req := integrity.SharingRequest{
		SecretName: "vault-root-key",
		Secret:     []byte("yet another secret"),
		K:          3,
		N:          5,
		Locations:  testLocations(5),
	}
	sharingResult, err := integrity.Share(ctx, registry, req)
	require.NoError(t, err)

	sharingResult.Metadata.SecretMask[0] ^= 0xFF

	_, err = integrity.Recover(ctx, registry, sharingResult.Metadata)
	require.Error(t, err)
	require.Equal(t, apperr.KindIntegrity, apperr.Of(err))
}

func TestRecoverDetectsCorruptedHashSalt(t *testing.T) {
	registry, _ := testRegistry()
	ctx := context.Background()

	req := integrity.SharingRequest{
		SecretName: "vault-root-key",
		Secret:     []byte("still another secret"),
		K:          3,
		N:          5,
		Locations:  testLocations(5),
	}
	sharingResult, err := integrity.Share(ctx, registry, req)
	require.NoError(t, err)

	sharingResult.Metadata.HashSalt[0] ^= 0xFF

	_, err = integrity.Recover(ctx, registry, sharingResult.Metadata)
	require.Error(t, err)
}

func TestRecoverIsIdempotent(t *testing.T) {
	registry, _ := testRegistry()
	ctx := context.Background()

	req := integrity.SharingRequest{
		SecretName: "vault-root-key",
		Secret:     []byte("idempotence check secret"),
		K:          3,
		N:          5,
		Locations:  testLocations(5),
	}
	sharingResult, err := integrity.Share(ctx, registry, req)
	require.NoError(t, err)

	first, err := integrity.Recover(ctx, registry, sharingResult.Metadata)
	require.NoError(t, err)
	second, err := integrity.Recover(ctx, registry, sharingResult.Metadata)
	require.NoError(t, err)
	require.Equal(t, first.Secret, second.Secret)
}

func TestSharePartialDispatchFailureStillProducesMetadata(t *testing.T) {
	reg := manager.NewRegistry()
	reg.Register(entity.LocationServer, newMemoryManager())
	// LocationPeer has no registered manager, so dispatch to it fails.
	ctx := context.Background()

	locations := testLocations(4)
	locations[2] = entity.ShareLocation{
		Type: entity.LocationPeer, Name: "unreachable peer",
		OwnerIDType: "email", OwnerID: "owner@example.com",
	}

	req := integrity.SharingRequest{
		SecretName: "vault-root-key",
		Secret:     []byte("partial dispatch secret"),
		K:          3,
		N:          4,
		Locations:  locations,
	}
	result, err := integrity.Share(ctx, reg, req)
	require.NoError(t, err)
	require.Len(t, result.SharesToBeStored, 1)
	require.Equal(t, locations[2], result.SharesToBeStored[0].Location)
	require.Len(t, result.Metadata.Shares, 4)
}

func TestShareRejectsMismatchedLocationCount(t *testing.T) {
	registry, _ := testRegistry()
	req := integrity.SharingRequest{
		SecretName: "x",
		Secret:     []byte("secret"),
		K:          2,
		N:          3,
		Locations:  testLocations(2),
	}
	_, err := integrity.Share(context.Background(), registry, req)
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidArgument, apperr.Of(err))
}

func TestShareRejectsEmptySecretName(t *testing.T) {
	registry, _ := testRegistry()
	req := integrity.SharingRequest{
		SecretName: "",
		Secret:     []byte("secret"),
		K:          1,
		N:          1,
		Locations:  testLocations(1),
	}
	_, err := integrity.Share(context.Background(), registry, req)
	require.Error(t, err)
}

func TestRecoverRejectsUnknownSchemeType(t *testing.T) {
	registry, _ := testRegistry()
	ctx := context.Background()

	req := integrity.SharingRequest{
		SecretName: "x",
		Secret:     []byte("secret"),
		K:          2,
		N:          3,
		Locations:  testLocations(3),
	}
	sharingResult, err := integrity.Share(ctx, registry, req)
	require.NoError(t, err)

	sharingResult.Metadata.SchemeType = "some-future-scheme"
	_, err = integrity.Recover(ctx, registry, sharingResult.Metadata)
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidArgument, apperr.Of(err))
}
