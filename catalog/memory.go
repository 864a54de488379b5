// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package catalog

import (
	"sync"
)

// MemoryItemStore - item store backed by a map, used by tools and
// tests; the production store lives with the world server
type MemoryItemStore struct {
	sync.RWMutex
	items map[uint64]*Item
}

// NewMemoryItemStore - create an empty item store
func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{
		items: make(map[uint64]*Item),
	}
}

// Lookup - fetch one item instance
func (store *MemoryItemStore) Lookup(itemGuid uint64) (*Item, bool) {
	store.RLock()
	defer store.RUnlock()
	item, ok := store.items[itemGuid]
	return item, ok
}

// Add - register an item instance
func (store *MemoryItemStore) Add(itemGuid uint64, item *Item) {
	store.Lock()
	store.items[itemGuid] = item
	store.Unlock()
}

// Remove - drop an item instance
func (store *MemoryItemStore) Remove(itemGuid uint64) {
	store.Lock()
	delete(store.items, itemGuid)
	store.Unlock()
}

// MemoryCatalog - template table backed by a map
type MemoryCatalog struct {
	sync.RWMutex
	templates map[uint32]*Template
}

// NewMemoryCatalog - create an empty catalog
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		templates: make(map[uint32]*Template),
	}
}

// Template - fetch one template
func (c *MemoryCatalog) Template(templateId uint32) (*Template, bool) {
	c.RLock()
	defer c.RUnlock()
	template, ok := c.templates[templateId]
	return template, ok
}

// Define - register a template
func (c *MemoryCatalog) Define(template *Template) {
	c.Lock()
	c.templates[template.Id] = template
	c.Unlock()
}

// AllowAll - usable checker that accepts everything; stands in until
// a world server wires class and proficiency rules
type AllowAll struct{}

// Usable - always true
func (AllowAll) Usable(character uint64, template *Template) bool {
	return true
}
