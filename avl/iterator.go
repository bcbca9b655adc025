// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"iter"
	"strings"
)

// First - return the node with the lowest key value
func (tree *Tree[V]) First() *Node[V] {
	return tree.root.first()
}

// internal: lowest node in a sub-tree
func (p *Node[V]) first() *Node[V] {
	if nil == p {
		return nil
	}
	for nil != p.left {
		p = p.left
	}
	return p
}

// Last - return the node with the highest key value
func (tree *Tree[V]) Last() *Node[V] {
	return tree.root.last()
}

// internal: highest node in a sub-tree
func (p *Node[V]) last() *Node[V] {
	if nil == p {
		return nil
	}
	for nil != p.right {
		p = p.right
	}
	return p
}

// Next - given a node, return the node with the next highest key
// value or nil if no more nodes
func (p *Node[V]) Next() *Node[V] {
	if nil != p.right {
		return p.right.first()
	}
	key := p.key
	for p = p.up; nil != p; p = p.up {
		if compare(p.key, key) > 0 {
			return p
		}
	}
	return nil
}

// Prev - given a node, return the node with the next lowest key
// value or nil if no more nodes
func (p *Node[V]) Prev() *Node[V] {
	if nil != p.left {
		return p.left.last()
	}
	key := p.key
	for p = p.up; nil != p; p = p.up {
		if compare(p.key, key) < 0 {
			return p
		}
	}
	return nil
}

// All - every key/value in ascending key order
func (tree *Tree[V]) All() iter.Seq2[string, V] {
	return tree.Prefix("")
}

// Prefix - every key/value whose key starts with prefix, in
// ascending key order
//
// the scan starts at the lowest matching key and stops at the first
// key that no longer matches.  Each step is a fresh search from the
// previous key so the tree may be modified by the consumer while the
// sequence is being iterated.
func (tree *Tree[V]) Prefix(prefix string) iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for p := tree.Ceiling(prefix); nil != p && strings.HasPrefix(p.key, prefix); {
			key := p.key
			if !yield(key, p.value) {
				return
			}
			p = tree.Higher(key)
		}
	}
}
