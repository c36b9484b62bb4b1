//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package sharestore implements the custody server's opaque
// key-to-blob store: create-only-if-absent semantics over an
// arbitrary share id, with a memory-backed implementation for tests
// and a sqlite-backed one for durability across restarts.
package sharestore

import "context"

// Store is the contract both implementations satisfy. share_id is
// always a 64-character hex string produced by internal/shareid, but
// Store does not enforce that shape itself; it treats ids and values
// as opaque bytes.
type Store interface {
	// Store creates shareID -> value. It fails with
	// apperr.KindAlreadyExists if shareID is already present.
	Store(ctx context.Context, shareID string, value []byte) error
	// Retrieve returns the bytes stored under shareID, or
	// apperr.KindNotFound if absent.
	Retrieve(ctx context.Context, shareID string) ([]byte, error)
	// Delete removes shareID. It fails with apperr.KindNotFound if
	// absent.
	Delete(ctx context.Context, shareID string) error
}
