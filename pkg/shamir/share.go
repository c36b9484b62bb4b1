//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package shamir

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/svalbard/svbd/pkg/gf264"
)

// Share is one evaluation, at a fixed point, of every chunk polynomial
// of a sharing. Bytes is the wire form: the big-endian 8-byte
// evaluation of each chunk in order, followed by a single padding-
// count byte. len(Bytes) % 8 is always 1.
type Share struct {
	// Index is the evaluation point this share was produced at,
	// 1 <= Index <= n. It is carried alongside the wire bytes, not
	// inside them.
	Index int
	// Bytes is the wire-form payload described above.
	Bytes []byte
}

// chunkSize is the width, in bytes, of one field element / one
// polynomial evaluation.
const chunkSize = 8

func encodeElem(e gf264.Elem) [chunkSize]byte {
	var b [chunkSize]byte
	binary.BigEndian.PutUint64(b[:], e.Uint64())
	return b
}

func decodeElem(b []byte) gf264.Elem {
	return gf264.FromUint64(binary.BigEndian.Uint64(b))
}

// randomElem draws a uniformly random field element from rnd.
func randomElem(rnd io.Reader) (gf264.Elem, error) {
	var buf [chunkSize]byte
	if _, err := io.ReadFull(rnd, buf[:]); err != nil {
		return gf264.Zero, fmt.Errorf("shamir: drawing random coefficient: %w", err)
	}
	return decodeElem(buf[:]), nil
}

// shareChunk evaluates a degree-(k-1) polynomial, whose constant
// term is the chunk's value and whose remaining k-1 coefficients were
// drawn independently at random, at every point 1..n.
func shareChunk(constant gf264.Elem, k, n int, rnd io.Reader) ([]gf264.Elem, error) {
	coeffs := make([]gf264.Elem, k)
	coeffs[0] = constant
	for i := 1; i < k; i++ {
		c, err := randomElem(rnd)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}

	evaluations := make([]gf264.Elem, n)
	for j := 1; j <= n; j++ {
		x := gf264.FromUint64(uint64(j))
		evaluations[j-1] = evaluatePolynomial(coeffs, x)
	}
	return evaluations, nil
}

// evaluatePolynomial evaluates coeffs (lowest degree first) at x using
// Horner's method.
func evaluatePolynomial(coeffs []gf264.Elem, x gf264.Elem) gf264.Elem {
	result := gf264.Zero
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result.Multiply(x).Add(coeffs[i])
	}
	return result
}

// Share splits secret into n shares, any k of which reconstruct it
// byte for byte, while any k-1 reveal nothing beyond its length.
//
// secret is zero-padded to a multiple of chunkSize bytes; the padding
// length (0..7) is recorded as the last byte of every returned share.
func Share(secret []byte, k, n int) ([]Share, error) {
	return shareWithRand(secret, k, n, rand.Reader)
}

// shareWithRand is Share with an injectable entropy source.
func shareWithRand(secret []byte, k, n int, rnd io.Reader) ([]Share, error) {
	if k <= 0 {
		return nil, ErrInvalidThreshold
	}
	if n < k {
		return nil, ErrInvalidShareCount
	}
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	padding := (chunkSize - len(secret)%chunkSize) % chunkSize
	padded := make([]byte, len(secret)+padding)
	copy(padded, secret)

	numChunks := len(padded) / chunkSize
	perShareChunks := make([][]gf264.Elem, numChunks)

	for c := 0; c < numChunks; c++ {
		constant := decodeElem(padded[c*chunkSize : (c+1)*chunkSize])
		evaluations, err := shareChunk(constant, k, n, rnd)
		if err != nil {
			return nil, err
		}
		perShareChunks[c] = evaluations
	}

	shares := make([]Share, n)
	for j := 0; j < n; j++ {
		wire := make([]byte, 0, numChunks*chunkSize+1)
		for c := 0; c < numChunks; c++ {
			enc := encodeElem(perShareChunks[c][j])
			wire = append(wire, enc[:]...)
		}
		wire = append(wire, byte(padding))
		shares[j] = Share{Index: j + 1, Bytes: wire}
	}
	return shares, nil
}
