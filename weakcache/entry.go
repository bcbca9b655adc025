// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package weakcache

import (
	"runtime"
	"sync/atomic"
	"weak"
)

// entry - one mapping from a key to a weak value
//
// an entry is queued at most once, either by the collector cleanup
// or by explicit retirement
type entry[K comparable, V any] struct {
	key     K
	pointer weak.Pointer[V]
	cleanup runtime.Cleanup
	queued  atomic.Bool
	retired bool // only accessed by the owner
}

// attach - create an entry that is queued once value is collected
func attach[K comparable, V any](key K, value *V, queue *pending[K, V]) *entry[K, V] {
	e := &entry[K, V]{
		key:     key,
		pointer: weak.Make(value),
	}
	// the cleanup argument must not reach value, the entry only holds
	// a weak pointer to it
	e.cleanup = runtime.AddCleanup(value, queue.push, e)
	return e
}

// value - the referent or nil once collected
func (e *entry[K, V]) value() *V {
	return e.pointer.Value()
}

// retire - detach the collector cleanup and queue for notification
func (e *entry[K, V]) retire(queue *pending[K, V]) {
	e.retired = true
	e.cleanup.Stop()
	queue.push(e)
}
