// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package index

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/identity"
)

// Check - verify the indexes against the identities currently cached
//
// every cached identity must have an id entry and, if named, a name
// entry under its current normalised name; every entry must belong to
// a cached identity; no bucket may be empty.  Entries whose identity
// has been collected but not yet reported are skipped.
func (ix *Index) Check(cached map[uuid.UUID]*identity.Identity) error {
	if !ix.byID.CheckUp() || !ix.byID.CheckCounts() {
		return fmt.Errorf("%w: id tree is corrupt", fault.ErrIndexInconsistent)
	}
	if !ix.byName.CheckUp() || !ix.byName.CheckCounts() {
		return fmt.Errorf("%w: name tree is corrupt", fault.ErrIndexInconsistent)
	}

	for key, h := range ix.byID.All() {
		if identity.IDKey(h.id) != key {
			return fmt.Errorf("%w: id entry: %q holds: %s", fault.ErrIndexInconsistent, key, h.id)
		}
		if nil == h.pointer.Value() {
			continue
		}
		if _, ok := cached[h.id]; !ok {
			return fmt.Errorf("%w: id entry: %s is not cached", fault.ErrIndexInconsistent, h.id)
		}
	}

	for id, u := range cached {
		node, _ := ix.byID.Search(identity.IDKey(id))
		if nil == node {
			return fmt.Errorf("%w: cached: %s has no id entry", fault.ErrIndexInconsistent, id)
		}
		if node.Value().pointer.Value() != u {
			return fmt.Errorf("%w: id entry: %s refers to another instance", fault.ErrIndexInconsistent, id)
		}
		recorded, ok := ix.names[id]
		if u.HasName() != ok {
			return fmt.Errorf("%w: cached: %s name recorded: %t", fault.ErrIndexInconsistent, id, ok)
		}
		if ok && identity.NormaliseName(u.Name()) != recorded {
			return fmt.Errorf("%w: cached: %s recorded as: %q", fault.ErrIndexInconsistent, u, recorded)
		}
	}

	entries := 0
	for name, b := range ix.byName.All() {
		if 0 == len(b.handles) {
			return fmt.Errorf("%w: empty bucket: %q", fault.ErrIndexInconsistent, name)
		}
		for _, h := range b.handles {
			if ix.names[h.id] != name {
				return fmt.Errorf("%w: bucket: %q holds: %s recorded as: %q", fault.ErrIndexInconsistent, name, h.id, ix.names[h.id])
			}
			entries += 1
			if nil == h.pointer.Value() {
				continue
			}
			if _, ok := cached[h.id]; !ok {
				return fmt.Errorf("%w: bucket: %q holds: %s which is not cached", fault.ErrIndexInconsistent, name, h.id)
			}
		}
	}
	if entries != len(ix.names) {
		return fmt.Errorf("%w: %d name entries but %d recorded names", fault.ErrIndexInconsistent, entries, len(ix.names))
	}
	return nil
}
