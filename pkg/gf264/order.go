//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package gf264

import "errors"

// ErrZeroHasNoOrder is returned by Order when asked for the order of
// the zero element, which is not a member of the multiplicative group.
var ErrZeroHasNoOrder = errors.New("gf264: zero element has no multiplicative order")

// fieldOrder is 2^64 - 1, the size of GF(2^64)'s multiplicative group.
const fieldOrder uint64 = 0xFFFFFFFFFFFFFFFF

// fieldOrderFactors is the prime factorization of 2^64 - 1 =
// 3 * 5 * 17 * 257 * 641 * 65537 * 6700417, precomputed since 2^64-1
// is a fixed, known constant for this field.
var fieldOrderFactors = [...]uint64{3, 5, 17, 257, 641, 65537, 6700417}

// Order returns the smallest positive m such that e^m = 1, computed by
// starting from m = 2^64-1 and, for each known prime factor p of that
// group order, dividing m by p as many times as possible while e^(m/p)
// still equals 1.
func (e Elem) Order() (uint64, error) {
	if e.IsZero() {
		return 0, ErrZeroHasNoOrder
	}

	m := fieldOrder
	for _, p := range fieldOrderFactors {
		for m%p == 0 {
			candidate := m / p
			if powU64(e, candidate) != One {
				break
			}
			m = candidate
		}
	}
	return m, nil
}
