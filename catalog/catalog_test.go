// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctiond/catalog"
)

func TestLocalNameFallback(t *testing.T) {
	template := &catalog.Template{
		Id: 1,
		Name: map[catalog.Locale]string{
			catalog.LocaleDefault: "Copper Ore",
			catalog.LocaleFrench:  "Minerai de cuivre",
		},
	}

	assert.Equal(t, "Minerai de cuivre", template.LocalName(catalog.LocaleFrench), "requested locale")
	assert.Equal(t, "Copper Ore", template.LocalName(catalog.LocaleGerman), "fallback to default")
}

func TestDeposit(t *testing.T) {
	template := &catalog.Template{Id: 1, SellPrice: 100}

	testCases := []struct {
		count    uint32
		rate     float64
		duration time.Duration
		expected uint64
	}{
		{1, 0.05, 12 * time.Hour, 5},    // one block
		{1, 0.05, 24 * time.Hour, 10},   // two blocks
		{20, 0.05, 24 * time.Hour, 200}, // full stack
		{1, 0.25, 48 * time.Hour, 100},  // goblin rate, four blocks
	}

	for i, testCase := range testCases {
		deposit := catalog.Deposit(template, testCase.count, testCase.rate, testCase.duration)
		assert.EqualValues(t, testCase.expected, deposit, "case %d", i)
	}
}

func TestDepositMinimum(t *testing.T) {
	// worthless items still cost something to list
	template := &catalog.Template{Id: 1, SellPrice: 0}
	deposit := catalog.Deposit(template, 1, 0.05, 12*time.Hour)
	assert.EqualValues(t, 1, deposit, "minimum one unit")
}

func TestMemoryStores(t *testing.T) {
	templates := catalog.NewMemoryCatalog()
	items := catalog.NewMemoryItemStore()

	_, ok := templates.Template(1)
	assert.False(t, ok, "empty catalog")

	templates.Define(&catalog.Template{Id: 1, SellPrice: 5})
	template, ok := templates.Template(1)
	assert.True(t, ok, "defined")
	assert.EqualValues(t, 5, template.SellPrice, "stored attributes")

	items.Add(700, &catalog.Item{Guid: 700, Template: 1, Count: 20})
	item, ok := items.Lookup(700)
	assert.True(t, ok, "item present")
	assert.EqualValues(t, 20, item.Count, "stack size")

	items.Remove(700)
	_, ok = items.Lookup(700)
	assert.False(t, ok, "item removed")
}
