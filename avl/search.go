// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// Search - find a specific key
// returns the node and its zero based index or nil, -1
func (tree *Tree[V]) Search(key string) (*Node[V], int) {
	index := 0
	for p := tree.root; nil != p; {
		switch compare(p.key, key) {
		case +1: // p.key > key
			p = p.left
		case -1: // p.key < key
			index += p.leftNodes + 1
			p = p.right
		default:
			return p, index + p.leftNodes
		}
	}
	return nil, -1
}

// Ceiling - the node with the lowest key that is greater than or
// equal to key, nil if there is none
func (tree *Tree[V]) Ceiling(key string) *Node[V] {
	var found *Node[V]
	for p := tree.root; nil != p; {
		switch compare(p.key, key) {
		case +1: // p.key > key
			found = p
			p = p.left
		case -1: // p.key < key
			p = p.right
		default:
			return p
		}
	}
	return found
}

// Higher - the node with the lowest key that is strictly greater
// than key, nil if there is none
func (tree *Tree[V]) Higher(key string) *Node[V] {
	var found *Node[V]
	for p := tree.root; nil != p; {
		if compare(p.key, key) > 0 {
			found = p
			p = p.left
		} else {
			p = p.right
		}
	}
	return found
}

// Get - the node at a specific zero based index
func (tree *Tree[V]) Get(index int) *Node[V] {
	if index < 0 || index >= tree.count {
		return nil
	}
	p := tree.root
	for nil != p {
		nl := p.leftNodes
		switch {
		case index < nl:
			p = p.left
		case index > nl:
			// skip left nodes + 1 (for this node)
			index -= nl + 1
			p = p.right
		default:
			return p
		}
	}
	return nil
}
