// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package index

import (
	"iter"
	"weak"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/bitmark-inc/identitycache/avl"
	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/identity"
)

// handle - weak reference that remembers which id it was made for
type handle struct {
	id      uuid.UUID
	pointer weak.Pointer[identity.Identity]
}

func newHandle(u *identity.Identity) handle {
	return handle{
		id:      u.ID(),
		pointer: weak.Make(u),
	}
}

// bucket - all identities indexed under one normalised name
type bucket struct {
	handles []handle
}

// Index - the secondary indexes
type Index struct {
	log    *logger.L
	strict bool
	byID   *avl.Tree[handle]
	byName *avl.Tree[*bucket]
	names  map[uuid.UUID]string
}

// New - create empty indexes
//
// with strict set any orphaned entry found while removing is a fatal
// error, otherwise it is logged and repaired
func New(log *logger.L, strict bool) *Index {
	return &Index{
		log:    log,
		strict: strict,
		byID:   avl.New[handle](),
		byName: avl.New[*bucket](),
		names:  make(map[uuid.UUID]string),
	}
}

// AddIDMapping - index the identity by its id text
func (ix *Index) AddIDMapping(u *identity.Identity) {
	ix.byID.Insert(identity.IDKey(u.ID()), newHandle(u))
}

// RemoveIDMapping - drop the id text entry, safe to repeat
func (ix *Index) RemoveIDMapping(id uuid.UUID) {
	ix.byID.Delete(identity.IDKey(id))
}

// AddNameMapping - index the identity under its normalised name
//
// nothing is recorded for an identity without a name
func (ix *Index) AddNameMapping(u *identity.Identity) {
	if !u.HasName() {
		return
	}
	id := u.ID()
	if _, ok := ix.names[id]; ok {
		ix.violation("add name mapping for: %s while one is already recorded", id)
		ix.RemoveNameMapping(id)
	}

	name := identity.NormaliseName(u.Name())
	node, _ := ix.byName.Search(name)
	if nil == node {
		ix.byName.Insert(name, &bucket{handles: []handle{newHandle(u)}})
	} else {
		b := node.Value()
		b.handles = append(b.handles, newHandle(u))
	}
	ix.names[id] = name
}

// RemoveNameMapping - drop the name entry recorded for id, safe to repeat
func (ix *Index) RemoveNameMapping(id uuid.UUID) {
	name, ok := ix.names[id]
	if !ok {
		return
	}
	delete(ix.names, id)

	node, _ := ix.byName.Search(name)
	if nil == node {
		ix.violation("name: %q recorded for: %s has no bucket", name, id)
		return
	}

	b := node.Value()
	handles := make([]handle, 0, len(b.handles))
	found := false
	for _, h := range b.handles {
		if h.id == id {
			found = true
			continue
		}
		handles = append(handles, h)
	}
	if !found {
		ix.violation("bucket: %q has no entry for: %s", name, id)
	}

	if 0 == len(handles) {
		ix.byName.Delete(name)
		return
	}
	b.handles = handles
}

// UpdateNameMapping - move the identity to the bucket of its current name
//
// the previous name comes from the reverse map because the identity
// has already been given its new name
func (ix *Index) UpdateNameMapping(u *identity.Identity) {
	current := ""
	if u.HasName() {
		current = identity.NormaliseName(u.Name())
	}
	recorded, ok := ix.names[u.ID()]
	if ok && recorded == current {
		return
	}
	if !ok && "" == current {
		return
	}
	ix.RemoveNameMapping(u.ID())
	ix.AddNameMapping(u)
}

// OnEntryRemoved - the cache has dropped id, remove every trace of it
func (ix *Index) OnEntryRemoved(id uuid.UUID) {
	ix.RemoveIDMapping(id)
	ix.RemoveNameMapping(id)
}

// MatchByIDPrefix - live identities whose id text starts with prefix,
// in id order
func (ix *Index) MatchByIDPrefix(prefix string) iter.Seq[*identity.Identity] {
	return func(yield func(*identity.Identity) bool) {
		for _, h := range ix.byID.Prefix(identity.NormaliseID(prefix)) {
			u := h.pointer.Value()
			if nil == u {
				continue
			}
			if !yield(u) {
				return
			}
		}
	}
}

// MatchByNamePrefix - live identities whose normalised name starts
// with the normalised prefix, in name order
func (ix *Index) MatchByNamePrefix(prefix string) iter.Seq[*identity.Identity] {
	return func(yield func(*identity.Identity) bool) {
		for _, b := range ix.byName.Prefix(identity.NormaliseName(prefix)) {
			if !yieldBucket(b, yield) {
				return
			}
		}
	}
}

// MatchByName - live identities whose normalised name equals the
// normalised name
func (ix *Index) MatchByName(name string) iter.Seq[*identity.Identity] {
	return func(yield func(*identity.Identity) bool) {
		node, _ := ix.byName.Search(identity.NormaliseName(name))
		if nil == node {
			return
		}
		yieldBucket(node.Value(), yield)
	}
}

// yield the live members of a bucket, returns false to stop
func yieldBucket(b *bucket, yield func(*identity.Identity) bool) bool {
	handles := b.handles // the bucket may be replaced while yielding
	for _, h := range handles {
		u := h.pointer.Value()
		if nil == u {
			continue
		}
		if !yield(u) {
			return false
		}
	}
	return true
}

// IDCount - number of id entries
func (ix *Index) IDCount() int {
	return ix.byID.Count()
}

// NameCount - number of name buckets
func (ix *Index) NameCount() int {
	return ix.byName.Count()
}

// RecordedName - the normalised name the index holds for id
func (ix *Index) RecordedName(id uuid.UUID) (string, bool) {
	name, ok := ix.names[id]
	return name, ok
}

// report a broken invariant
func (ix *Index) violation(format string, arguments ...interface{}) {
	if ix.strict {
		fault.Panicf(format, arguments...)
	}
	ix.log.Warnf("repaired: "+format, arguments...)
}
