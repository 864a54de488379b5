// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coin - money amounts and auction price arithmetic
//
// all amounts are integral base units; arithmetic never goes through
// floating point except the configurable cut rates, whose product is
// truncated and clamped so conservation always holds
package coin

// Coin - an amount in base monetary units
type Coin uint64

// MinIncrement - smallest allowed raise over the current bid
//
// five percent of the current bid rounded half up, never less than
// one unit
func MinIncrement(current Coin) Coin {
	increment := (current*5 + 50) / 100
	if increment < 1 {
		increment = 1
	}
	return increment
}

// HouseCut - commission retained on a successful sale
//
// the global rate scales the per-house consignment rate; the formula
// is bid * consignmentRate * globalRate with the result truncated
// and clamped to the bid
func HouseCut(bid Coin, consignmentRate float64, globalRate float64) Coin {
	if consignmentRate < 0 || globalRate < 0 {
		return 0
	}
	cut := Coin(float64(bid) * consignmentRate * globalRate)
	if cut > bid {
		cut = bid
	}
	return cut
}

// Proceeds - amount mailed to the seller on a successful sale
//
// the deposit was charged at listing time and is returned inside the
// proceeds, so: bid + deposit == cut + proceeds
func Proceeds(bid Coin, deposit Coin, cut Coin) Coin {
	return bid + deposit - cut
}
