//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package sharestore

import (
	"context"
	"sync"

	"github.com/svalbard/svbd/internal/apperr"
)

// Memory is an RWMutex-guarded map implementation of Store, intended
// for tests and single-process deployments where durability across
// restarts does not matter.
type Memory struct {
	mu     sync.RWMutex
	shares map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{shares: make(map[string][]byte)}
}

func (m *Memory) Store(_ context.Context, shareID string, value []byte) error {
	if shareID == "" || len(value) == 0 {
		return apperr.New(apperr.KindInvalidArgument, "share id and value must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.shares[shareID]; exists {
		return apperr.New(apperr.KindAlreadyExists, "share already stored")
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.shares[shareID] = cp
	return nil
}

func (m *Memory) Retrieve(_ context.Context, shareID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.shares[shareID]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "share not found")
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (m *Memory) Delete(_ context.Context, shareID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shares[shareID]; !ok {
		return apperr.New(apperr.KindNotFound, "share not found")
	}
	delete(m.shares, shareID)
	return nil
}
