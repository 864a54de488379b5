// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/auctiond/catalog"
	"github.com/bitmark-inc/auctiond/coin"
	"github.com/bitmark-inc/auctiond/configuration"
)

// catalog file mapping; a Lua file returning a templates table so
// operators can generate it straight from world database exports
type catalogEntry struct {
	Id            uint32 `gluamapper:"id"`
	Name          string `gluamapper:"name"`
	Quality       uint8  `gluamapper:"quality"`
	Class         uint8  `gluamapper:"class"`
	SubClass      uint8  `gluamapper:"sub_class"`
	InventoryType uint8  `gluamapper:"inventory_type"`
	RequiredLevel uint8  `gluamapper:"required_level"`
	SellPrice     uint64 `gluamapper:"sell_price"`
}

type catalogFile struct {
	Templates []catalogEntry `gluamapper:"templates"`
}

// loadCatalog - populate an in-process catalog from a Lua export
func loadCatalog(fileName string) (*catalog.MemoryCatalog, error) {
	entries := &catalogFile{}
	if err := configuration.ParseConfigurationFile(fileName, entries); nil != err {
		return nil, err
	}

	memory := catalog.NewMemoryCatalog()
	for _, entry := range entries.Templates {
		memory.Define(&catalog.Template{
			Id: entry.Id,
			Name: map[catalog.Locale]string{
				catalog.LocaleDefault: entry.Name,
			},
			Quality:       entry.Quality,
			Class:         entry.Class,
			SubClass:      entry.SubClass,
			InventoryType: entry.InventoryType,
			RequiredLevel: entry.RequiredLevel,
			SellPrice:     coin.Coin(entry.SellPrice),
		})
	}
	return memory, nil
}
