// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"strings"
)

// Node - a single key/value pair in a tree
type Node[V any] struct {
	left       *Node[V]
	right      *Node[V]
	up         *Node[V]
	balance    int // -1, 0, +1
	leftNodes  int // count of nodes in the left sub-tree
	rightNodes int // count of nodes in the right sub-tree
	key        string
	value      V
}

// Tree - type to hold the root node of a tree
type Tree[V any] struct {
	root  *Node[V]
	count int
}

// New - create an initially empty tree
func New[V any]() *Tree[V] {
	return &Tree[V]{}
}

// IsEmpty - true if tree contains no data
func (tree *Tree[V]) IsEmpty() bool {
	return nil == tree.root
}

// Count - number of nodes currently in the tree
func (tree *Tree[V]) Count() int {
	return tree.count
}

// Root - return the root node of the tree
func (tree *Tree[V]) Root() *Node[V] {
	return tree.root
}

// Key - read the key from a node item
func (p *Node[V]) Key() string {
	return p.key
}

// Value - read the value from a node item
func (p *Node[V]) Value() V {
	return p.value
}

// SetValue - replace the value of a node without touching the tree shape
func (p *Node[V]) SetValue(value V) {
	p.value = value
}

// Parent - return parent node of a node
func (p *Node[V]) Parent() *Node[V] {
	return p.up
}

// Depth - get the depth of a node
func (p *Node[V]) Depth() uint {
	count := uint(0)
	for parent := p.up; nil != parent; parent = parent.up {
		count += 1
	}
	return count
}

// compare two keys
func compare(a string, b string) int {
	return strings.Compare(a, b)
}
