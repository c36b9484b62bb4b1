//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package entity holds the data types the cloud-stored metadata record
// is built from, and the field-tagged binary codec it is serialized
// with. Field numbers are part of the wire contract: a metadata record
// written by one build must stay readable by a later one, so existing
// tags are never reassigned or removed, only added to.
package entity
