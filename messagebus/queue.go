// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"

	"github.com/bitmark-inc/identitycache/fault"
)

// DefaultSize - queue depth used when none is configured
const DefaultSize = 1000

// Message - an item and where it came from
type Message struct {
	From string
	Item interface{}
}

// Queue - a single queue
type Queue struct {
	queue    chan Message
	released chan struct{}
	once     sync.Once
}

// New - create a queue of the given depth
func New(size int) *Queue {
	if size <= 0 {
		size = DefaultSize
	}
	return &Queue{
		queue:    make(chan Message, size),
		released: make(chan struct{}),
	}
}

// Send - queue an item, blocking while the queue is full
//
// fails once the queue has been released
func (q *Queue) Send(from string, item interface{}) error {
	select {
	case <-q.released:
		return fault.ErrQueueReleased
	default:
	}

	m := Message{
		From: from,
		Item: item,
	}
	select {
	case q.queue <- m:
		return nil
	case <-q.released:
		return fault.ErrQueueReleased
	}
}

// Chan - channel to read from
func (q *Queue) Chan() <-chan Message {
	return q.queue
}

// Released - closed when the consumer no longer reads
func (q *Queue) Released() <-chan struct{} {
	return q.released
}

// Release - stop accepting items, pending items stay readable
func (q *Queue) Release() {
	q.once.Do(func() {
		close(q.released)
	})
}
