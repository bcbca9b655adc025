// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package weakcache - a map from keys to weakly held values
//
// A value stays in the cache only while something outside the cache
// holds a strong reference to it.  Once the garbage collector
// reclaims a value its entry is queued and removed by the next
// operation on the cache, and every registered removal listener is
// told the key.  Entries replaced by Put or dropped by Remove or Clear
// are reported to the listeners in the same way.
//
// A cache is not thread safe: all operations must be called from one
// goroutine, and listeners run on that goroutine.  Only the internal
// queue fed by the garbage collector is shared with other goroutines.
package weakcache
