// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package weakcache

import (
	"iter"

	"github.com/bitmark-inc/identitycache/fault"
)

// RemovalListener - called with the key of every entry that leaves
// the cache
type RemovalListener[K comparable] func(key K)

// ErrorHandler - receives the value recovered from a panicking
// listener
type ErrorHandler[K comparable] func(key K, recovered interface{})

// ListenerID - handle returned by RegisterRemovalListener
type ListenerID uint64

type registration[K comparable] struct {
	id       ListenerID
	listener RemovalListener[K]
}

// Cache - weak valued map
type Cache[K comparable, V any] struct {
	entries   map[K]*entry[K, V]
	queue     pending[K, V]
	listeners []registration[K] // replaced, never modified in place
	nextID    ListenerID
	onError   ErrorHandler[K]
}

// New - create an empty cache
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*entry[K, V]),
	}
}

// SetErrorHandler - report listener panics to h instead of discarding them
func (c *Cache[K, V]) SetErrorHandler(h ErrorHandler[K]) {
	c.onError = h
}

// RegisterRemovalListener - add a listener for removed keys
func (c *Cache[K, V]) RegisterRemovalListener(listener RemovalListener[K]) (ListenerID, error) {
	if nil == listener {
		return 0, fault.ErrNilListener
	}
	c.nextID += 1
	id := c.nextID

	listeners := make([]registration[K], len(c.listeners), len(c.listeners)+1)
	copy(listeners, c.listeners)
	c.listeners = append(listeners, registration[K]{id: id, listener: listener})
	return id, nil
}

// UnregisterRemovalListener - remove a listener, returns false if the
// id was not registered
func (c *Cache[K, V]) UnregisterRemovalListener(id ListenerID) bool {
	for i, r := range c.listeners {
		if r.id != id {
			continue
		}
		listeners := make([]registration[K], 0, len(c.listeners)-1)
		listeners = append(listeners, c.listeners[:i]...)
		c.listeners = append(listeners, c.listeners[i+1:]...)
		return true
	}
	return false
}

// Get - the live value for key or nil
func (c *Cache[K, V]) Get(key K) *V {
	c.drain()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	return e.value()
}

// Contains - true if key maps to a live value
func (c *Cache[K, V]) Contains(key K) bool {
	return nil != c.Get(key)
}

// Put - map key to value, returns the previous live value if any
//
// a replaced entry is reported to the removal listeners before Put
// returns.  A nil value is a programming error and panics.
func (c *Cache[K, V]) Put(key K, value *V) (*V, bool) {
	if nil == value {
		panic(fault.ErrNilValue)
	}
	c.drain()

	e := attach(key, value, &c.queue)
	old, found := c.entries[key]
	c.entries[key] = e

	var previous *V
	if found {
		previous = old.value()
		old.retire(&c.queue)
	}
	c.drain()
	return previous, nil != previous
}

// Remove - drop key, returns the live value that was mapped if any
func (c *Cache[K, V]) Remove(key K) (*V, bool) {
	e, found := c.entries[key]
	if !found {
		c.drain()
		return nil, false
	}
	delete(c.entries, key)
	previous := e.value()
	e.retire(&c.queue)
	c.drain()
	return previous, nil != previous
}

// Clear - drop every entry
func (c *Cache[K, V]) Clear() {
	entries := c.entries
	c.entries = make(map[K]*entry[K, V])
	for _, e := range entries {
		e.retire(&c.queue)
	}
	c.drain()
}

// Cleanup - process every entry queued by the collector
func (c *Cache[K, V]) Cleanup() {
	c.drain()
}

// Len - number of entries after cleanup
//
// an entry whose value has just been collected but not yet queued is
// still counted
func (c *Cache[K, V]) Len() int {
	c.drain()
	return len(c.entries)
}

// Keys - keys of live entries
func (c *Cache[K, V]) Keys() []K {
	c.drain()
	keys := make([]K, 0, len(c.entries))
	for key, e := range c.entries {
		if nil != e.value() {
			keys = append(keys, key)
		}
	}
	return keys
}

// Values - every live value, in no particular order
//
// the entries are captured when iteration starts, a value is yielded
// only if it is still alive when reached
func (c *Cache[K, V]) Values() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		c.drain()
		entries := make([]*entry[K, V], 0, len(c.entries))
		for _, e := range c.entries {
			entries = append(entries, e)
		}
		for _, e := range entries {
			v := e.value()
			if nil == v {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// internal: remove queued entries and notify the listeners
//
// a collected entry is only removed while it is still the current
// mapping for its key, so a late notification for a replaced entry
// cannot evict its successor
func (c *Cache[K, V]) drain() {
	for {
		items := c.queue.take()
		if 0 == len(items) {
			return
		}
		for _, e := range items {
			if !e.retired {
				if current, ok := c.entries[e.key]; !ok || current != e {
					continue
				}
				delete(c.entries, e.key)
			}
			c.notify(e.key)
		}
	}
}

// internal: call each listener registered when notification started
func (c *Cache[K, V]) notify(key K) {
	for _, r := range c.listeners {
		c.call(r.listener, key)
	}
}

// internal: a panicking listener does not stop the others
func (c *Cache[K, V]) call(listener RemovalListener[K], key K) {
	defer func() {
		if r := recover(); nil != r && nil != c.onError {
			c.onError(key, r)
		}
	}()
	listener(key)
}
