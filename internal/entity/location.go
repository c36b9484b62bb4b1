//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package entity

import (
	"strings"

	"github.com/svalbard/svbd/internal/apperr"
)

// LocationType names a kind of share custodian.
type LocationType string

const (
	LocationServer  LocationType = "server"
	LocationPrinted LocationType = "printed"
	LocationPeer    LocationType = "peer"
)

// ShareLocation names where a second-level share is (or should be)
// kept: a custody type plus the owner identifiers the custodian uses
// to derive its own share id, and a location name (a URL for server
// locations, a free-form description otherwise).
type ShareLocation struct {
	Type        LocationType
	Name        string
	OwnerIDType string
	OwnerID     string
}

// Validate enforces the invariants every location must satisfy: a
// non-empty name and owner id, and (for server locations) an https
// URL.
func (l ShareLocation) Validate() error {
	if l.Name == "" {
		return apperr.New(apperr.KindInvalidArgument, "location name must not be empty")
	}
	if l.OwnerID == "" {
		return apperr.New(apperr.KindInvalidArgument, "owner id must not be empty")
	}
	if l.Type == LocationServer && !strings.HasPrefix(l.Name, "https://") {
		return apperr.New(apperr.KindInvalidArgument, "server location name must be an https URL")
	}
	return nil
}
