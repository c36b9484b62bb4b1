//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package cmd implements the svbd CLI: share and recover a secret
// against a fleet of custody servers, or run a custody server
// in-process via serve-custodian.
package cmd
