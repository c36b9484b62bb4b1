//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package shamir

import "github.com/svalbard/svbd/pkg/gf264"

// Reconstruct recovers the original secret from shares, given the
// threshold k the sharing was produced with. It requires at least k
// shares; if more are supplied, all of them are used in the Lagrange
// interpolation (which is still exact, since every share lies on the
// same underlying polynomial).
func Reconstruct(shares []Share, k int) ([]byte, error) {
	if k <= 0 {
		return nil, ErrInvalidThreshold
	}
	if len(shares) < k {
		return nil, ErrTooFewShares
	}
	if err := validateShareSet(shares); err != nil {
		return nil, err
	}

	wireLen := len(shares[0].Bytes)
	padding := int(shares[0].Bytes[wireLen-1])
	numChunks := (wireLen - 1) / chunkSize

	xs := make([]gf264.Elem, len(shares))
	for i, s := range shares {
		xs[i] = gf264.FromUint64(uint64(s.Index))
	}

	out := make([]byte, 0, numChunks*chunkSize)
	for c := 0; c < numChunks; c++ {
		ys := make([]gf264.Elem, len(shares))
		for i, s := range shares {
			ys[i] = decodeElem(s.Bytes[c*chunkSize : (c+1)*chunkSize])
		}
		secretChunk, err := lagrangeAtZero(xs, ys)
		if err != nil {
			return nil, err
		}
		enc := encodeElem(secretChunk)
		out = append(out, enc[:]...)
	}

	if padding > 0 {
		out = out[:len(out)-padding]
	}
	return out, nil
}

// validateShareSet checks the structural invariants every Reconstruct
// call depends on: consistent, valid-length wire bytes, a consistent
// padding byte, and no two shares claiming the same evaluation point.
func validateShareSet(shares []Share) error {
	wireLen := len(shares[0].Bytes)
	if wireLen == 0 || wireLen%chunkSize != 1 {
		return ErrShareLengthMismatch
	}
	padding := shares[0].Bytes[wireLen-1]
	if padding > 7 {
		return ErrInvalidPadding
	}

	seen := make(map[int]struct{}, len(shares))
	for _, s := range shares {
		if len(s.Bytes) != wireLen {
			return ErrShareLengthMismatch
		}
		if s.Bytes[wireLen-1] != padding {
			return ErrInvalidPadding
		}
		if _, dup := seen[s.Index]; dup {
			return ErrDuplicatePoint
		}
		seen[s.Index] = struct{}{}
	}
	return nil
}

// lagrangeAtZero evaluates, at x = 0, the unique polynomial through
// the points (xs[i], ys[i]), using
//
//	secret = (prod_j x_j) * sum_i y_i * (x_i * prod_{j!=i} (x_i + x_j))^-1
//
// A single inversion per term is computed; batching the inversions
// (e.g. Montgomery's trick) is a valid optimization that this
// straightforward version leaves on the table.
func lagrangeAtZero(xs, ys []gf264.Elem) (gf264.Elem, error) {
	prodAll := gf264.One
	for _, x := range xs {
		prodAll = prodAll.Multiply(x)
	}

	sum := gf264.Zero
	for i := range xs {
		denom := xs[i]
		for j := range xs {
			if j == i {
				continue
			}
			denom = denom.Multiply(xs[i].Add(xs[j]))
		}
		invDenom, err := denom.Inverse()
		if err != nil {
			// Two distinct i could still produce a zero denom term
			// only if x_i == 0 or two points coincide; the latter is
			// already rejected by validateShareSet, and x_i == 0 never
			// happens since points start at 1.
			return gf264.Zero, ErrDuplicatePoint
		}
		sum = sum.Add(ys[i].Multiply(invDenom))
	}

	return prodAll.Multiply(sum), nil
}
