// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package avl - an AVL balanced tree of string keys with parent
// pointers to allow iteration through the nodes in key order
//
// Note: an individual tree is not thread safe, so either access only
//       in a single go routine or use mutex/rwmutex to restrict
//       access.
//
// The base algorithm was described in an old book by Niklaus Wirth
// called Algorithms + Data Structures = Programs.
//
// Each node also counts the nodes in its left and right sub-trees so
// that the tree can be indexed by position.  Delete does not copy
// data between nodes, a node keeps its address for as long as its key
// is in the tree.
package avl
