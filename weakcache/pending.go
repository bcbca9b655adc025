// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package weakcache

import (
	"sync"
)

// the queue of entries waiting to be drained
type pending[K comparable, V any] struct {
	sync.Mutex
	items []*entry[K, V]
}

// push - add an entry unless it has already been queued
//
// called by the runtime cleanup goroutine and by the owner
func (p *pending[K, V]) push(e *entry[K, V]) {
	if !e.queued.CompareAndSwap(false, true) {
		return
	}
	p.Lock()
	p.items = append(p.items, e)
	p.Unlock()
}

// take - remove and return everything queued so far
func (p *pending[K, V]) take() []*entry[K, V] {
	p.Lock()
	items := p.items
	p.items = nil
	p.Unlock()
	return items
}
