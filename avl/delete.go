// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// Delete - removes a specific key from the tree
// returns the value that was stored and whether the key was present
func (tree *Tree[V]) Delete(key string) (V, bool) {
	value, removed, _ := remove(key, &tree.root)
	if removed {
		tree.count -= 1
	}
	return value, removed
}

// internal delete routine
// returns: (value, node was removed, sub-tree height shrank)
func remove[V any](key string, pp **Node[V]) (V, bool, bool) {
	var value V
	if nil == *pp { // key not in tree
		return value, false, false
	}

	removed := false
	h := false
	switch compare((*pp).key, key) {
	case +1: // (*pp).key > key
		value, removed, h = remove(key, &(*pp).left)
		if removed {
			(*pp).leftNodes -= 1
		}
		if h {
			h = balanceLeft(pp)
		}

	case -1: // (*pp).key < key
		value, removed, h = remove(key, &(*pp).right)
		if removed {
			(*pp).rightNodes -= 1
		}
		if h {
			h = balanceRight(pp)
		}

	default: // found: unlink q
		q := *pp
		value = q.value
		switch {
		case nil == q.right:
			if nil != q.left {
				q.left.up = q.up
			}
			*pp = q.left
			h = true
		case nil == q.left:
			q.right.up = q.up
			*pp = q.right
			h = true
		default:
			h = replaceWithPredecessor(pp, &q.left)
			(*pp).left = q.left // *pp has changed, but q.left has the left link value
			if h {
				h = balanceLeft(pp)
			}
		}

		// detach so that a stale node cannot reach the live tree
		q.left = nil
		q.right = nil
		q.up = nil
		removed = true
	}
	return value, removed, h
}

// move the rightmost node of the sub-tree rr into the position of qq
func replaceWithPredecessor[V any](qq **Node[V], rr **Node[V]) bool {
	if nil != (*rr).right {
		h := replaceWithPredecessor(qq, &(*rr).right)
		(*rr).rightNodes -= 1
		if h {
			h = balanceRight(rr)
		}
		return h
	}

	q := *qq
	r := *rr
	rl := r.left
	if nil != rl {
		rl.up = r.up
	}

	if r != q.left {
		r.left = q.left
		r.leftNodes = q.leftNodes - 1
	}
	r.right = q.right
	r.up = q.up
	r.balance = q.balance
	r.rightNodes = q.rightNodes

	if nil != r.right {
		r.right.up = r
	}
	if nil != r.left {
		r.left.up = r
	}

	*qq = r
	*rr = rl
	return true
}

// rebalance after the left branch has shrunk
func balanceLeft[V any](pp **Node[V]) bool {
	p := *pp
	switch p.balance {
	case -1:
		p.balance = 0
		return true
	case 0:
		p.balance = +1
		return false
	}

	h := true
	p1 := p.right
	if p1.balance >= 0 {
		// single RR rotation
		p.right = p1.left
		p1.left = p
		if 0 == p1.balance {
			p.balance = +1
			p1.balance = -1
			h = false
		} else {
			p.balance = 0
			p1.balance = 0
		}

		nn := 1 + p.leftNodes + p1.leftNodes
		p.rightNodes = p1.leftNodes
		p1.leftNodes = nn

		p1.up = p.up
		p.up = p1
		if nil != p.right {
			p.right.up = p
		}

		*pp = p1
		return h
	}

	// double RL rotation
	p2 := p1.left
	p1.left = p2.right
	p2.right = p1
	p.right = p2.left
	p2.left = p
	p.balance = 0
	if +1 == p2.balance {
		p.balance = -1
	}
	p1.balance = 0
	if -1 == p2.balance {
		p1.balance = +1
	}
	p2.balance = 0

	nl := 1 + p.leftNodes + p2.leftNodes
	nr := 1 + p2.rightNodes + p1.rightNodes
	p.rightNodes = p2.leftNodes
	p1.leftNodes = p2.rightNodes
	p2.leftNodes = nl
	p2.rightNodes = nr

	p2.up = p.up
	if nil != p.right {
		p.right.up = p
	}
	if nil != p1.left {
		p1.left.up = p1
	}
	p.up = p2
	p1.up = p2

	*pp = p2
	return h
}

// rebalance after the right branch has shrunk
func balanceRight[V any](pp **Node[V]) bool {
	p := *pp
	switch p.balance {
	case +1:
		p.balance = 0
		return true
	case 0:
		p.balance = -1
		return false
	}

	h := true
	p1 := p.left
	if p1.balance <= 0 {
		// single LL rotation
		p.left = p1.right
		p1.right = p
		if 0 == p1.balance {
			p.balance = -1
			p1.balance = +1
			h = false
		} else {
			p.balance = 0
			p1.balance = 0
		}

		nn := 1 + p1.rightNodes + p.rightNodes
		p.leftNodes = p1.rightNodes
		p1.rightNodes = nn

		p1.up = p.up
		p.up = p1
		if nil != p.left {
			p.left.up = p
		}

		*pp = p1
		return h
	}

	// double LR rotation
	p2 := p1.right
	p1.right = p2.left
	p2.left = p1
	p.left = p2.right
	p2.right = p
	p.balance = 0
	if -1 == p2.balance {
		p.balance = +1
	}
	p1.balance = 0
	if +1 == p2.balance {
		p1.balance = -1
	}
	p2.balance = 0

	nl := 1 + p1.leftNodes + p2.leftNodes
	nr := 1 + p2.rightNodes + p.rightNodes
	p1.rightNodes = p2.leftNodes
	p.leftNodes = p2.rightNodes
	p2.leftNodes = nl
	p2.rightNodes = nr

	p2.up = p.up
	if nil != p.left {
		p.left.up = p
	}
	if nil != p1.right {
		p1.right.up = p1
	}
	p.up = p2
	p1.up = p2

	*pp = p2
	return h
}
