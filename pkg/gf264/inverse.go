//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package gf264

// fieldOrderMinusTwo is 2^64 - 2, i.e. |GF(2^64)*| - 1. Every nonzero
// element satisfies a^(2^64-1) = 1, so a^(2^64-2) is its inverse.
const fieldOrderMinusTwo uint64 = 0xFFFFFFFFFFFFFFFE

// Inverse returns the multiplicative inverse of e.
//
// It is computed as e^(2^64-2) (Fermat's little theorem generalized to
// the multiplicative group of GF(2^64), which has order 2^64-1), using
// the same square-and-multiply ladder as Pow. This reuses one building
// block instead of a second, general-degree polynomial GCD
// implementation, and is the standard trick for fields whose order is
// known and small enough to exponentiate against directly.
func (e Elem) Inverse() (Elem, error) {
	if e.IsZero() {
		return Zero, ErrZeroInverse
	}
	return powU64(e, fieldOrderMinusTwo), nil
}
