// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"fmt"
	"io"
)

// CheckUp - check the up pointers for consistency
func (tree *Tree[V]) CheckUp() bool {
	return checkUp(tree.root, nil)
}

// internal: consistency checker
func checkUp[V any](p *Node[V], up *Node[V]) bool {
	if nil == p {
		return true
	}
	if p.up != up {
		return false
	}
	return checkUp(p.left, p) && checkUp(p.right, p)
}

// CheckCounts - check the left/right node counts and balance factors
func (tree *Tree[V]) CheckCounts() bool {
	n, _, ok := checkCounts(tree.root)
	return ok && n == tree.count
}

// internal: returns (node count, height, ok)
func checkCounts[V any](p *Node[V]) (int, int, bool) {
	if nil == p {
		return 0, 0, true
	}
	nl, hl, okl := checkCounts(p.left)
	nr, hr, okr := checkCounts(p.right)
	if !okl || !okr {
		return 0, 0, false
	}
	if nl != p.leftNodes || nr != p.rightNodes {
		return 0, 0, false
	}
	if hr-hl != p.balance {
		return 0, 0, false
	}
	h := hl
	if hr > h {
		h = hr
	}
	return 1 + nl + nr, 1 + h, true
}

// to control the print routine
type branch int

const (
	root branch = iota
	left
	right
)

// Print - write an ASCII graphic representation of the tree
// returns the maximum depth of the tree
func (tree *Tree[V]) Print(w io.Writer, printData bool) int {
	return printTree(w, tree.root, "", root, printData)
}

func printTree[V any](w io.Writer, p *Node[V], prefix string, br branch, printData bool) int {
	if nil == p {
		return 0
	}
	rd := 0
	ld := 0
	if nil != p.right {
		t := "       "
		if left == br {
			t = "|      "
		}
		rd = printTree(w, p.right, prefix+t, right, printData)
	}
	switch br {
	case root:
		fmt.Fprintf(w, "%s|------+ ", prefix)
	case left:
		fmt.Fprintf(w, "%s\\------+ ", prefix)
	case right:
		fmt.Fprintf(w, "%s/------+ ", prefix)
	}
	up := ""
	if nil != p.up {
		up = p.up.key
	}
	if printData {
		fmt.Fprintf(w, "%q → %v ^%q %+2d/[%d,%d]\n", p.key, p.value, up, p.balance, p.leftNodes, p.rightNodes)
	} else {
		fmt.Fprintf(w, "%q ^%q\n", p.key, up)
	}
	if nil != p.left {
		t := "       "
		if right == br {
			t = "|      "
		}
		ld = printTree(w, p.left, prefix+t, left, printData)
	}
	if rd > ld {
		return 1 + rd
	}
	return 1 + ld
}
