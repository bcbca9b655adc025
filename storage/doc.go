// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - persistent record of the last name each player
// was seen with
//
// names are kept in a LevelDB database and read through an in-memory
// cache.  The store is the usual source for the last known name
// resolver, so it implements resolver.Resolver.
//
// record layout:
//
//   key:    'N' ++ 16 byte UUID
//   value:  JSON {"name": string, "lastSeen": unix seconds}
package storage
