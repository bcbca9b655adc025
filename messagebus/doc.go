// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - bounded queue of items from producers to a
// single consumer
//
// producers such as the RPC event handlers send lifecycle items that
// are consumed in order by one background process
package messagebus
