// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package catalog - item template and item instance collaborators
//
// the engine never owns template data; it reads prices and filter
// attributes through these interfaces and hands item ownership
// around by guid
package catalog

import (
	"time"

	"github.com/bitmark-inc/auctiond/coin"
)

// Locale - client locale selector for template names
type Locale uint8

// supported locales
const (
	LocaleDefault Locale = iota
	LocaleFrench
	LocaleGerman
	LocaleKorean
)

// Template - filterable item template attributes
type Template struct {
	Id            uint32
	Name          map[Locale]string
	Quality       uint8
	Class         uint8
	SubClass      uint8
	InventoryType uint8
	RequiredLevel uint8
	SellPrice     coin.Coin
}

// LocalName - template name in the requested locale, falling back
// to the default
func (t *Template) LocalName(locale Locale) string {
	if name, ok := t.Name[locale]; ok {
		return name
	}
	return t.Name[LocaleDefault]
}

// Item - one item instance referenced by a posting
type Item struct {
	Guid     uint64
	Template uint32
	Count    uint32
}

// Catalog - template lookup collaborator
type Catalog interface {
	Template(templateId uint32) (*Template, bool)
}

// ItemStore - item instance collaborator; postings reference items
// by guid and ownership transfers with settlement
type ItemStore interface {
	Lookup(itemGuid uint64) (*Item, bool)
	Add(itemGuid uint64, item *Item)
	Remove(itemGuid uint64)
}

// UsableChecker - "usable by this character" collaborator for the
// browse filter
type UsableChecker interface {
	Usable(character uint64, template *Template) bool
}

// Deposit - up front non-refundable listing fee
//
// a fraction of the stack sell price scaled by the house consignment
// rate, charged per 12 hour block of the listing duration, minimum
// one unit
func Deposit(template *Template, count uint32, consignmentRate float64, duration time.Duration) coin.Coin {
	blocks := uint64((duration + 12*time.Hour - 1) / (12 * time.Hour))
	if blocks < 1 {
		blocks = 1
	}
	base := float64(uint64(template.SellPrice)*uint64(count)) * consignmentRate
	deposit := coin.Coin(base) * coin.Coin(blocks)
	if deposit < 1 {
		deposit = 1
	}
	return deposit
}
