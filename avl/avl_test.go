// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/bitmark-inc/auctiond/avl"
)

func TestInsertOrdered(t *testing.T) {
	addList := []uint64{4201, 1254, 8608, 1639, 8950, 6740}

	tree := avl.New()
	for _, key := range addList {
		if !tree.Insert(key, key*10) {
			t.Fatalf("insert rejected key: %d", key)
		}
	}
	if len(addList) != tree.Count() {
		t.Fatalf("count expected: %d  actual: %d", len(addList), tree.Count())
	}

	expected := make([]uint64, len(addList))
	copy(expected, addList)
	sort.Slice(expected, func(i, j int) bool { return expected[i] < expected[j] })

	i := 0
	for node := tree.First(); nil != node; node = node.Next() {
		if expected[i] != node.Key() {
			t.Fatalf("iteration %d expected key: %d  actual: %d", i, expected[i], node.Key())
		}
		if node.Key()*10 != node.Value().(uint64) {
			t.Fatalf("value mismatch at key: %d", node.Key())
		}
		i += 1
	}
	if len(expected) != i {
		t.Fatalf("iterated: %d  expected: %d", i, len(expected))
	}
}

// duplicate keys must be rejected and must not disturb the count or
// the stored value
func TestInsertDuplicates(t *testing.T) {
	tree := avl.New()
	if !tree.Insert(1042, "first") {
		t.Fatal("insert rejected new key")
	}
	for i := 0; i < 50; i += 1 {
		if tree.Insert(1042, "second") {
			t.Fatal("insert accepted duplicate key")
		}
	}
	if 1 != tree.Count() {
		t.Fatalf("count expected: 1  actual: %d", tree.Count())
	}
	node, index := tree.Search(1042)
	if nil == node || 0 != index {
		t.Fatalf("search failed: node: %v  index: %d", node, index)
	}
	if "first" != node.Value().(string) {
		t.Fatalf("duplicate insert overwrote value: %q", node.Value())
	}
}

func TestSearchIndex(t *testing.T) {
	tree := avl.New()
	keys := []uint64{50, 20, 80, 10, 30, 70, 90, 60}
	for _, key := range keys {
		tree.Insert(key, nil)
	}

	sorted := make([]uint64, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for expectedIndex, key := range sorted {
		node, index := tree.Search(key)
		if nil == node {
			t.Fatalf("search missing key: %d", key)
		}
		if expectedIndex != index {
			t.Fatalf("search key: %d  index expected: %d  actual: %d", key, expectedIndex, index)
		}
		got := tree.Get(index)
		if nil == got || key != got.Key() {
			t.Fatalf("get(%d) expected key: %d  actual: %v", index, key, got)
		}
	}

	if nil != tree.Get(-1) || nil != tree.Get(len(keys)) {
		t.Fatal("out of range get must return nil")
	}

	node, index := tree.Search(55)
	if nil != node || -1 != index {
		t.Fatalf("search absent key: node: %v  index: %d", node, index)
	}
}

func TestDelete(t *testing.T) {
	tree := avl.New()
	const n = 500

	r := rand.New(rand.NewSource(1742))
	inserted := make(map[uint64]struct{})
	for len(inserted) < n {
		key := uint64(r.Intn(10 * n))
		if tree.Insert(key, key) {
			inserted[key] = struct{}{}
		}
	}

	// delete half in random order
	deleted := 0
	for key := range inserted {
		if deleted >= n/2 {
			break
		}
		value := tree.Delete(key)
		if nil == value || key != value.(uint64) {
			t.Fatalf("delete key: %d  returned: %v", key, value)
		}
		delete(inserted, key)
		deleted += 1
	}

	if n-deleted != tree.Count() {
		t.Fatalf("count expected: %d  actual: %d", n-deleted, tree.Count())
	}

	// delete of an absent key returns nil
	if nil != tree.Delete(uint64(10*n+1)) {
		t.Fatal("delete of absent key returned a value")
	}

	// remaining keys still iterate in order with correct positions
	previous := uint64(0)
	index := 0
	for node := tree.First(); nil != node; node = node.Next() {
		if index > 0 && node.Key() <= previous {
			t.Fatalf("out of order at index: %d  key: %d", index, node.Key())
		}
		if _, ok := inserted[node.Key()]; !ok {
			t.Fatalf("unexpected key survived: %d", node.Key())
		}
		_, searchIndex := tree.Search(node.Key())
		if index != searchIndex {
			t.Fatalf("key: %d  index expected: %d  actual: %d", node.Key(), index, searchIndex)
		}
		previous = node.Key()
		index += 1
	}
	if len(inserted) != index {
		t.Fatalf("iterated: %d  expected: %d", index, len(inserted))
	}
}

func TestReverseIteration(t *testing.T) {
	tree := avl.New()
	for key := uint64(1); key <= 9; key += 1 {
		tree.Insert(key, nil)
	}

	expected := uint64(9)
	for node := tree.Last(); nil != node; node = node.Prev() {
		if expected != node.Key() {
			t.Fatalf("expected key: %d  actual: %d", expected, node.Key())
		}
		expected -= 1
	}
	if 0 != expected {
		t.Fatalf("reverse iteration stopped early at: %d", expected)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := avl.New()
	if !tree.IsEmpty() {
		t.Fatal("new tree is not empty")
	}
	if nil != tree.First() || nil != tree.Last() {
		t.Fatal("empty tree has first/last")
	}
	if nil != tree.Get(0) {
		t.Fatal("empty tree get returned a node")
	}
	tree.Insert(1, nil)
	if tree.IsEmpty() {
		t.Fatal("tree with data reports empty")
	}
	tree.Delete(1)
	if !tree.IsEmpty() {
		t.Fatal("tree not empty after deleting only node")
	}
}
