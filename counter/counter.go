// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"sync/atomic"
)

// Counter - a connection or event counter that can be updated from
// many goroutines, with an optional ceiling for admission control
type Counter struct {
	value   atomic.Uint64
	ceiling uint64
}

// NewLimited - a counter whose Acquire fails once ceiling is reached
func NewLimited(ceiling uint64) *Counter {
	return &Counter{
		ceiling: ceiling,
	}
}

// Increment - add 1 to a counter, returns new value
func (c *Counter) Increment() uint64 {
	return c.value.Add(1)
}

// Decrement - subtract 1 from a counter, returns new value
func (c *Counter) Decrement() uint64 {
	return c.value.Add(^uint64(0))
}

// Acquire - increment unless the ceiling has been reached
//
// a zero ceiling means unlimited
func (c *Counter) Acquire() bool {
	for {
		n := c.value.Load()
		if 0 != c.ceiling && n >= c.ceiling {
			return false
		}
		if c.value.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Release - give back a slot taken by Acquire
func (c *Counter) Release() {
	c.Decrement()
}

// Uint64 - returns current value
func (c *Counter) Uint64() uint64 {
	return c.value.Load()
}

// IsZero - check if zero
func (c *Counter) IsZero() bool {
	return 0 == c.value.Load()
}
