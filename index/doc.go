// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package index - ordered secondary indexes over cached identities
//
// Two prefix searchable trees are kept: id text to identity, and
// normalised name to the identities last seen with that name.  All
// references to identities are weak, the index never keeps an
// identity alive.  A reverse map from id to normalised name locates
// the bucket to clean up when an identity is renamed or reclaimed,
// since by then the identity's own name may have changed or the
// identity may be gone.
//
// The index is repaired only through OnEntryRemoved, which the
// manager registers as a removal listener of the primary cache.
package index
