//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package manager implements the share-manager abstraction: a uniform
// store/retrieve/delete capability keyed by custody type, so the
// sharing client can dispatch each second-level share without caring
// whether its custodian is a remote server, a printed backup sheet,
// or a co-present peer device.
package manager

import (
	"context"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/entity"
	"github.com/svalbard/svbd/internal/future"
)

// Manager is the capability every custody type implements. Each
// operation returns a Future so the sharing client can keep several
// dispatches in flight at once instead of blocking share-by-share.
type Manager interface {
	Store(ctx context.Context, secretName string, shareBytes []byte,
		location entity.ShareLocation) *future.Future[struct{}]
	Retrieve(ctx context.Context, secretName string,
		location entity.ShareLocation) *future.Future[[]byte]
	Delete(ctx context.Context, secretName string,
		location entity.ShareLocation) *future.Future[struct{}]
}

// Registry maps a location type to the Manager capable of serving it.
// The zero value is not usable; construct with NewRegistry.
type Registry struct {
	managers map[entity.LocationType]Manager
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{managers: make(map[entity.LocationType]Manager)}
}

// Register binds a Manager to a location type, replacing any prior
// registration for the same type.
func (r *Registry) Register(t entity.LocationType, m Manager) {
	r.managers[t] = m
}

// For looks up the Manager registered for t. Adding a new custody
// type means registering a new Manager here; callers never switch on
// LocationType themselves.
func (r *Registry) For(t entity.LocationType) (Manager, error) {
	m, ok := r.managers[t]
	if !ok {
		return nil, apperr.New(apperr.KindInvalidArgument,
			"no share manager registered for location type "+string(t))
	}
	return m, nil
}
