//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package manager

import (
	"context"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/entity"
	"github.com/svalbard/svbd/internal/future"
)

// Peer is the share-manager for the peer-device custody type: relay a
// share to a co-present device over NFC or Bluetooth, with an
// interactive acknowledgment from whoever is holding it. This build
// has no radio transport to drive, so every operation fails with a
// transport error the sharing client records the same way it would
// record a real relay timing out.
type Peer struct{}

// NewPeer returns a Peer manager.
func NewPeer() *Peer { return &Peer{} }

func (p *Peer) validateLocation(location entity.ShareLocation) error {
	if location.Type != entity.LocationPeer {
		return apperr.New(apperr.KindInvalidArgument,
			"peer manager cannot dispatch a non-peer location")
	}
	return location.Validate()
}

// Store implements Manager.
func (p *Peer) Store(_ context.Context, _ string, _ []byte,
	location entity.ShareLocation) *future.Future[struct{}] {
	if err := p.validateLocation(location); err != nil {
		return future.Done(struct{}{}, err)
	}
	return future.Done(struct{}{}, apperr.New(apperr.KindTransport,
		"peer-device relay is not implemented in this build"))
}

// Retrieve implements Manager.
func (p *Peer) Retrieve(_ context.Context, _ string,
	location entity.ShareLocation) *future.Future[[]byte] {
	if err := p.validateLocation(location); err != nil {
		return future.Done[[]byte](nil, err)
	}
	return future.Done[[]byte](nil, apperr.New(apperr.KindTransport,
		"peer-device relay is not implemented in this build"))
}

// Delete implements Manager.
func (p *Peer) Delete(_ context.Context, _ string,
	location entity.ShareLocation) *future.Future[struct{}] {
	if err := p.validateLocation(location); err != nil {
		return future.Done(struct{}{}, err)
	}
	return future.Done(struct{}{}, apperr.New(apperr.KindTransport,
		"peer-device relay is not implemented in this build"))
}
