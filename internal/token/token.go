//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package token implements the custody server's short-lived,
// operation-scoped capability tokens: mint one bound to a (share id,
// operation) pair, deliver it out of band, then validate it at
// execute time.
package token

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/svalbard/svbd/internal/apperr"
)

// Operation is one of the three custody-server operation families a
// token can be scoped to.
type Operation string

const (
	OperationStore    Operation = "store"
	OperationRetrieve Operation = "retrieve"
	OperationDelete   Operation = "delete"
)

// alphabet is the 52-letter set tokens are drawn from.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// MinLength and MinValidity are the construction-time floors a Store
// refuses to start below.
const (
	MinLength   = 5
	MinValidity = 2 * time.Second
)

// ValidationResult is the outcome of Validate.
type ValidationResult string

const (
	Valid    ValidationResult = "valid"
	NotFound ValidationResult = "not_found"
	Expired  ValidationResult = "expired"
	NotValid ValidationResult = "not_valid"
)

type binding struct {
	shareID   string
	operation Operation
	validTill time.Time
}

// Store is the process-wide, thread-safe registry of minted tokens.
// The zero value is not usable; construct with New.
type Store struct {
	mu       sync.RWMutex
	bindings map[string]binding

	length   int
	validity time.Duration
	now      func() time.Time
}

// New constructs a Store with the given token length and validity
// duration, enforcing the minimum floor for both.
func New(length int, validity time.Duration) (*Store, error) {
	if length < MinLength {
		return nil, apperr.New(apperr.KindInvalidArgument, "token length below minimum")
	}
	if validity < MinValidity {
		return nil, apperr.New(apperr.KindInvalidArgument, "token validity below minimum")
	}
	return &Store{
		bindings: make(map[string]binding),
		length:   length,
		validity: validity,
		now:      time.Now,
	}, nil
}

// Mint draws a fresh random token, binds it to (shareID, operation),
// and records its expiry as now + the store's configured validity.
func (s *Store) Mint(shareID string, op Operation) (string, error) {
	tok, err := randomToken(s.length)
	if err != nil {
		return "", apperr.Wrap(apperr.KindTransport, "failed to draw random token", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[tok] = binding{
		shareID:   shareID,
		operation: op,
		validTill: s.now().Add(s.validity),
	}
	return tok, nil
}

// Validate reports whether candidate is a live token bound to exactly
// (shareID, op).
func (s *Store) Validate(candidate, shareID string, op Operation) ValidationResult {
	if len(candidate) != s.length {
		return NotValid
	}

	s.mu.RLock()
	b, ok := s.bindings[candidate]
	s.mu.RUnlock()

	if !ok {
		return NotFound
	}
	if s.now().After(b.validTill) {
		return Expired
	}
	if b.shareID != shareID || b.operation != op {
		return NotValid
	}
	return Valid
}

// Revoke removes a token immediately, regardless of expiry. Used once
// a store/retrieve/delete execute call has consumed it, since a token
// is single-binding rather than strictly single-use (a retry before
// expiry with the same candidate is tolerated by Validate, but an
// explicit Revoke lets a caller close that window early).
func (s *Store) Revoke(candidate string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bindings, candidate)
}

func randomToken(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i, b := range raw {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}
