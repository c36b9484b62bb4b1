//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package route implements the custody server's six HTTP endpoints:
// the three get_*_token handlers and the three {op}_share handlers
// that consume the tokens they mint.
package route
