// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// Search - find a specific key
//
// returns the node and its zero-based position in key order, or
// (nil, -1) if the key is not present
func (tree *Tree) Search(key uint64) (*Node, int) {
	return search(key, tree.root, 0)
}

func search(key uint64, tree *Node, index int) (*Node, int) {
	if nil == tree {
		return nil, -1
	}

	switch {
	case key < tree.key:
		return search(key, tree.left, index)
	case key > tree.key:
		// skip over left nodes + 1 (for this node)
		return search(key, tree.right, index+tree.leftNodes+1)
	default:
		return tree, index + tree.leftNodes
	}
}

// Get - access a node by its zero-based position in key order
func (tree *Tree) Get(index int) *Node {
	if index < 0 || index >= tree.Count() {
		return nil
	}
	return get(index, tree.root)
}

func get(index int, tree *Node) *Node {
	if nil == tree {
		return nil
	}

	nl := tree.leftNodes

	if index < nl {
		return get(index, tree.left)
	}
	if index > nl {
		// subtract left nodes + 1 (for this node)
		return get(index-nl-1, tree.right)
	}
	return tree
}

// Seek - find the first node with key >= the given key
//
// used to resume an iteration at a key that may have been deleted
func (tree *Tree) Seek(key uint64) *Node {
	candidate := (*Node)(nil)
	p := tree.root
	for nil != p {
		if p.key >= key {
			candidate = p
			p = p.left
		} else {
			p = p.right
		}
	}
	return candidate
}

// First - return the node with the lowest key value
func (tree *Tree) First() *Node {
	return tree.root.first()
}

// internal: lowest node in a sub-tree
func (tree *Node) first() *Node {
	if nil == tree {
		return nil
	}
	for nil != tree.left {
		tree = tree.left
	}
	return tree
}

// Last - return the node with the highest key value
func (tree *Tree) Last() *Node {
	return tree.root.last()
}

// internal: highest node in a sub-tree
func (tree *Node) last() *Node {
	if nil == tree {
		return nil
	}
	for nil != tree.right {
		tree = tree.right
	}
	return tree
}

// Next - given a node, return the node with the next highest key
// value or nil if no more nodes
func (tree *Node) Next() *Node {
	if nil == tree.right {
		key := tree.key
		for {
			tree = tree.up
			if nil == tree {
				return nil
			}
			if tree.key > key {
				return tree
			}
		}
	}
	return tree.right.first()
}

// Prev - given a node, return the node with the next lowest key
// value or nil if no more nodes
func (tree *Node) Prev() *Node {
	if nil == tree.left {
		key := tree.key
		for {
			tree = tree.up
			if nil == tree {
				return nil
			}
			if tree.key < key {
				return tree
			}
		}
	}
	return tree.left.last()
}
