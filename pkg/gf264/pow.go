//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package gf264

import "errors"

// ErrZeroInverse is returned when the multiplicative inverse or a
// negative power of the zero element is requested.
var ErrZeroInverse = errors.New("gf264: zero element has no multiplicative inverse")

// powU64 computes a^e via square-and-multiply for an unsigned, full
// 64-bit range exponent. It is used internally by Order, whose
// exponents can approach 2^64-1 and therefore don't fit in an int64.
func powU64(a Elem, e uint64) Elem {
	result := One
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = result.Multiply(base)
		}
		base = base.Multiply(base)
		e >>= 1
	}
	return result
}

// Pow returns e^exp using square-and-multiply. A negative exponent
// first inverts e and raises the inverse to -exp. Raising zero to a
// negative power, or inverting zero, returns ErrZeroInverse. e^0 is
// One, including for e == 0, by the usual polynomial-ring convention.
func (e Elem) Pow(exp int64) (Elem, error) {
	if exp == 0 {
		return One, nil
	}
	if exp < 0 {
		inv, err := e.Inverse()
		if err != nil {
			return Zero, err
		}
		return powU64(inv, uint64(-exp)), nil
	}
	return powU64(e, uint64(exp)), nil
}
