//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package manager_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/entity"
	"github.com/svalbard/svbd/internal/manager"
)

func TestRegistryRoundTrip(t *testing.T) {
	reg := manager.NewRegistry()
	reg.Register(entity.LocationPeer, manager.NewPeer())

	m, err := reg.For(entity.LocationPeer)
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestRegistryUnregisteredTypeIsInvalidArgument(t *testing.T) {
	reg := manager.NewRegistry()
	_, err := reg.For(entity.LocationServer)
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidArgument, apperr.Of(err))
}

func TestPeerManagerAlwaysFails(t *testing.T) {
	p := manager.NewPeer()
	ctx := context.Background()
	location := entity.ShareLocation{
		Type: entity.LocationPeer, Name: "alice's phone", OwnerIDType: "email", OwnerID: "a@b.com",
	}

	_, err := p.Store(ctx, "s", []byte("share"), location).Await(ctx)
	require.Error(t, err)
	require.Equal(t, apperr.KindTransport, apperr.Of(err))

	_, err = p.Retrieve(ctx, "s", location).Await(ctx)
	require.Error(t, err)

	_, err = p.Delete(ctx, "s", location).Await(ctx)
	require.Error(t, err)
}

func TestPeerManagerRejectsWrongLocationType(t *testing.T) {
	p := manager.NewPeer()
	ctx := context.Background()
	location := entity.ShareLocation{Type: entity.LocationServer, Name: "https://x", OwnerIDType: "t", OwnerID: "o"}
	_, err := p.Store(ctx, "s", []byte("share"), location).Await(ctx)
	require.Equal(t, apperr.KindInvalidArgument, apperr.Of(err))
}

func TestBackupSheetRoundTrip(t *testing.T) {
	original := []byte("a share worth transcribing by hand, 17 bytes and change")
	sheet := manager.RenderBackupSheet(original)
	require.NotEmpty(t, sheet)

	decoded, err := manager.ParseBackupSheet(sheet)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestBackupSheetToleratesRetypedWhitespaceAndCase(t *testing.T) {
	original := []byte("another share")
	sheet := manager.RenderBackupSheet(original)

	retyped := ""
	for i, r := range sheet {
		if r == '-' {
			retyped += " "
			continue
		}
		if i%2 == 0 {
			retyped += string(r)
		} else {
			retyped += string(r | 0x20)
		}
	}

	decoded, err := manager.ParseBackupSheet(retyped)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestParseBackupSheetRejectsEmpty(t *testing.T) {
	_, err := manager.ParseBackupSheet("   ")
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidArgument, apperr.Of(err))
}

func TestParseBackupSheetRejectsMalformed(t *testing.T) {
	_, err := manager.ParseBackupSheet("not-valid-base32-!!!")
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidArgument, apperr.Of(err))
}

func TestPrintedStoreCarriesRenderedSheet(t *testing.T) {
	p := manager.NewPrinted()
	ctx := context.Background()
	location := entity.ShareLocation{
		Type: entity.LocationPrinted, Name: "backup sheet #1", OwnerIDType: "email", OwnerID: "a@b.com",
	}
	shareBytes := []byte("share bytes to print")

	_, err := p.Store(ctx, "s", shareBytes, location).Await(ctx)
	require.Error(t, err)

	var notImplemented *manager.NotImplementedError
	require.ErrorAs(t, err, &notImplemented)
	require.NotEmpty(t, notImplemented.Sheet)

	decoded, decodeErr := manager.ParseBackupSheet(notImplemented.Sheet)
	require.NoError(t, decodeErr)
	require.Equal(t, shareBytes, decoded)
}
