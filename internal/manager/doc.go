//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package manager implements the three concrete share-manager
// capabilities (server, printed, peer) and the Registry the sharing
// client consults to dispatch a share by its location type.
package manager
