//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"crypto/tls"
	"net/http"

	"github.com/svalbard/svbd/internal/channel"
	"github.com/svalbard/svbd/internal/entity"
	"github.com/svalbard/svbd/internal/manager"
)

// buildRegistry wires the three share-manager implementations the CLI
// ships with. skipTLSVerify disables certificate validation for the
// server manager's client: this reference build's custodians
// generate their own self-signed certificate by default (see
// internal/tlsutil), so there is no CA to pin against unless the
// deployment supplies one.
func buildRegistry(channelDir string, skipTLSVerify bool) (*manager.Registry, error) {
	ch, err := channel.NewFile(channelDir)
	if err != nil {
		return nil, err
	}

	client := &http.Client{
		Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: skipTLSVerify}},
	}

	reg := manager.NewRegistry()
	reg.Register(entity.LocationServer, manager.NewServer(client, ch, nil))
	reg.Register(entity.LocationPrinted, newInteractivePrinted())
	reg.Register(entity.LocationPeer, manager.NewPeer())
	return reg, nil
}
