// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package faction - the market partitions
//
// each faction trades in its own house; the neutral house is open to
// everybody at a higher consignment rate
package faction

// Faction - type to denote one market partition
type Faction uint8

// all houses
const (
	Alliance Faction = iota
	Horde
	Neutral
	Count // number of houses, keep last
)

// Valid - check a faction is in range
func Valid(f Faction) bool {
	return f < Count
}

// String - name of the faction
func (f Faction) String() string {
	switch f {
	case Alliance:
		return "alliance"
	case Horde:
		return "horde"
	case Neutral:
		return "neutral"
	default:
		return "*invalid*"
	}
}
