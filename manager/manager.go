// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package manager - the public entry point to the identity cache
//
// The manager combines the weak primary cache, the secondary indexes
// and the online set.  Identities of connected players are held
// strongly by the online set; every other identity stays cached only
// while some other part of the program holds it.
//
// A manager is confined to one goroutine (see the coordinator
// package).  Only GetOrCreateAsync does work elsewhere, and it hands
// its result back through the Executor before touching any state.
package manager

import (
	"errors"
	"iter"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/identity"
	"github.com/bitmark-inc/identitycache/index"
	"github.com/bitmark-inc/identitycache/resolver"
	"github.com/bitmark-inc/identitycache/weakcache"
)

// Configuration - manager options
type Configuration struct {
	StrictIndex bool `gluamapper:"strict_index" json:"strict_index"`
}

// Executor - runs a closure on the goroutine that owns the manager
type Executor interface {
	Do(func()) error
}

// RemovalListener - told the id of every identity leaving the cache
type RemovalListener = weakcache.RemovalListener[uuid.UUID]

// ListenerID - handle for unregistering a removal listener
type ListenerID = weakcache.ListenerID

// Stats - sizes of the internal structures
type Stats struct {
	Cached      int `json:"cached"`
	Online      int `json:"online"`
	IDEntries   int `json:"idEntries"`
	NameBuckets int `json:"nameBuckets"`
}

// a connected player
type onlineEntry struct {
	identity    *identity.Identity // strong, keeps the identity cached
	displayName string
}

// Manager - the identity cache
type Manager struct {
	log      *logger.L
	resolver resolver.Resolver
	executor Executor
	cache    *weakcache.Cache[uuid.UUID, identity.Identity]
	index    *index.Index
	online   map[uuid.UUID]*onlineEntry
	listener ListenerID
	stopped  bool
}

// New - create a manager
//
// executor may be nil, then GetOrCreateAsync resolves synchronously
func New(configuration Configuration, res resolver.Resolver, executor Executor, log *logger.L) *Manager {
	if nil == res {
		res = resolver.None
	}
	m := &Manager{
		log:      log,
		resolver: res,
		executor: executor,
		cache:    weakcache.New[uuid.UUID, identity.Identity](),
		index:    index.New(log, configuration.StrictIndex),
		online:   make(map[uuid.UUID]*onlineEntry),
	}

	m.cache.SetErrorHandler(func(id uuid.UUID, recovered interface{}) {
		fault.Criticalf("removal listener failed for: %s  error: %v", id, recovered)
	})

	id, err := m.cache.RegisterRemovalListener(m.onRemoved)
	fault.PanicIfError("manager: register index listener", err)
	m.listener = id

	return m
}

// Stop - forget all online players and empty the cache
//
// removal listeners are told about every cached identity
func (m *Manager) Stop() {
	if m.stopped {
		return
	}
	m.stopped = true

	m.online = make(map[uuid.UUID]*onlineEntry)
	m.cache.Clear()
	m.cache.UnregisterRemovalListener(m.listener)
	m.log.Info("stopped")
}

// the index repairs itself from removal notifications
func (m *Manager) onRemoved(id uuid.UUID) {
	m.log.Debugf("removed: %s", id)
	m.index.OnEntryRemoved(id)
}

// Get - the cached identity or nil, never creates
func (m *Manager) Get(id uuid.UUID) *identity.Identity {
	return m.cache.Get(id)
}

// GetAsserted - the cached identity for an id that the caller knows
// must be cached, e.g. because the player is online
func (m *Manager) GetAsserted(id uuid.UUID) (*identity.Identity, error) {
	u := m.cache.Get(id)
	if nil == u {
		m.log.Errorf("asserted identity: %s is not cached", id)
		return nil, fault.ErrPreconditionFailed
	}
	return u, nil
}

// GetOrCreate - the cached identity or a new one named by the resolver
//
// may block while the resolver performs I/O
func (m *Manager) GetOrCreate(id uuid.UUID) *identity.Identity {
	if u := m.cache.Get(id); nil != u {
		return u
	}
	return m.install(id, m.resolve(id))
}

// GetOrCreateAsync - deferred GetOrCreate
//
// on a cache miss the resolver runs on its own goroutine and the
// identity is created on the executor.  The channel receives exactly
// one identity, or is closed empty if the executor has stopped.  The
// owner goroutine must not wait on the channel.
func (m *Manager) GetOrCreateAsync(id uuid.UUID) <-chan *identity.Identity {
	result := make(chan *identity.Identity, 1)

	if u := m.cache.Get(id); nil != u {
		result <- u
		return result
	}

	if nil == m.executor {
		result <- m.install(id, m.resolve(id))
		return result
	}

	go func() {
		name := m.resolve(id)
		err := m.executor.Do(func() {
			result <- m.install(id, name)
		})
		if nil != err {
			m.log.Warnf("create: %s  error: %s", id, err)
			close(result)
		}
	}()
	return result
}

// resolve - the last known name, "" when unknown or on error
func (m *Manager) resolve(id uuid.UUID) string {
	name, err := m.resolver.LastKnownName(id)
	if nil != err {
		if !errors.Is(err, resolver.ErrUnknown) {
			m.log.Errorf("resolve name: %s  error: %s", id, err)
		}
		return ""
	}
	return name
}

// install - cache a new identity unless one appeared while resolving
func (m *Manager) install(id uuid.UUID, name string) *identity.Identity {
	if u := m.cache.Get(id); nil != u {
		return u
	}

	u := identity.New(id, name)
	// any previous entry is retired and purged from the index by Put
	m.cache.Put(id, u)
	m.index.AddIDMapping(u)
	m.index.AddNameMapping(u)

	m.log.Debugf("created: %s", u)
	return u
}

// IsValid - true if u is the instance currently cached for its id
func (m *Manager) IsValid(u *identity.Identity) bool {
	return nil != u && m.cache.Get(u.ID()) == u
}

// All - every cached identity, in no particular order
func (m *Manager) All() iter.Seq[*identity.Identity] {
	return m.cache.Values()
}

// Count - number of cached identities
func (m *Manager) Count() int {
	return m.cache.Len()
}

// RegisterRemovalListener - observe identities leaving the cache
func (m *Manager) RegisterRemovalListener(listener RemovalListener) (ListenerID, error) {
	return m.cache.RegisterRemovalListener(listener)
}

// UnregisterRemovalListener - stop observing
func (m *Manager) UnregisterRemovalListener(id ListenerID) bool {
	return m.cache.UnregisterRemovalListener(id)
}

// Stats - sizes of the internal structures, after cleanup
func (m *Manager) Stats() Stats {
	m.cache.Cleanup()
	return Stats{
		Cached:      m.cache.Len(),
		Online:      len(m.online),
		IDEntries:   m.index.IDCount(),
		NameBuckets: m.index.NameCount(),
	}
}

// Check - verify that the indexes match the cache
func (m *Manager) Check() error {
	cached := make(map[uuid.UUID]*identity.Identity)
	for u := range m.cache.Values() {
		cached[u.ID()] = u
	}
	return m.index.Check(cached)
}
