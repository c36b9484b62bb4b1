//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package shamir implements k-of-n secret sharing of arbitrary-length
// byte strings over pkg/gf264.
//
// A secret is zero-padded to a multiple of 8 bytes, split into 8-byte
// chunks, and each chunk is the constant term of an independent random
// degree-(k-1) polynomial evaluated at the fixed points 1..n. A share
// is the concatenation of one evaluation per chunk plus a trailing
// padding-count byte, so every share of one secret has the same
// length and that length is always 1 more than a multiple of 8.
// Reconstruction runs Lagrange interpolation at x=0 per chunk and
// trims the padding back off.
//
// This package is intentionally malleable: anyone holding k-1 shares
// and guessing the rest can flip bits of the reconstructed secret
// without detection. Corruption detection belongs to a layer above
// (see internal/integrity), which adds salted hashes over the shares
// and over the secret itself.
package shamir
