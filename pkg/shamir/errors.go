//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package shamir

import "errors"

var (
	// ErrInvalidThreshold is returned when k <= 0.
	ErrInvalidThreshold = errors.New("shamir: threshold k must be positive")
	// ErrInvalidShareCount is returned when n < k.
	ErrInvalidShareCount = errors.New("shamir: share count n must be >= k")
	// ErrEmptySecret is returned when sharing a zero-length secret.
	ErrEmptySecret = errors.New("shamir: secret must be at least 1 byte")
	// ErrTooFewShares is returned to Reconstruct when fewer than k
	// shares are supplied.
	ErrTooFewShares = errors.New("shamir: fewer than k shares supplied")
	// ErrShareLengthMismatch is returned when supplied shares disagree
	// on length, or have a length not congruent to 1 mod 8.
	ErrShareLengthMismatch = errors.New("shamir: shares have inconsistent or invalid length")
	// ErrInvalidPadding is returned when a share's trailing padding
	// byte is outside [0, 7], or shares disagree on padding.
	ErrInvalidPadding = errors.New("shamir: invalid or inconsistent padding byte")
	// ErrDuplicatePoint is returned when two supplied shares carry the
	// same evaluation point, which makes Lagrange interpolation
	// undefined (division by zero).
	ErrDuplicatePoint = errors.New("shamir: two shares share the same point index")
)
