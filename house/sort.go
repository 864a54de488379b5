// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house

import (
	"strings"

	"github.com/bitmark-inc/auctiond/catalog"
	"github.com/bitmark-inc/auctiond/posting"
)

// SortColumn - one sortable browse column
type SortColumn uint8

// all sortable columns
const (
	SortByBid SortColumn = iota // effective price: current bid, else minimum bid
	SortByBuyout
	SortByQuality
	SortByLevel
	SortByTimeLeft
	SortByName
	SortBySeller
)

// SortKey - one column with its direction
type SortKey struct {
	Column     SortColumn
	Descending bool
}

// SortOrder - columns evaluated left to right; the first non-zero
// comparison decides, the final tie break is always start time then
// id so pagination is deterministic
type SortOrder []SortKey

// a posting with its resolved template, the unit of filtering and
// sorting
type searchEntry struct {
	posting  *posting.Posting
	template *catalog.Template
}

// compare two entries under the sort order
func (order SortOrder) compare(locale catalog.Locale, a *searchEntry, b *searchEntry) int {
	for _, key := range order {
		c := 0
		switch key.Column {
		case SortByBid:
			c = compareCoin(effectiveBid(a.posting), effectiveBid(b.posting))
		case SortByBuyout:
			c = compareCoin(uint64(a.posting.BuyoutPrice), uint64(b.posting.BuyoutPrice))
		case SortByQuality:
			c = compareInt(int(a.template.Quality), int(b.template.Quality))
		case SortByLevel:
			c = compareInt(int(a.template.RequiredLevel), int(b.template.RequiredLevel))
		case SortByTimeLeft:
			if a.posting.EndTime.Before(b.posting.EndTime) {
				c = -1
			} else if a.posting.EndTime.After(b.posting.EndTime) {
				c = 1
			}
		case SortByName:
			c = strings.Compare(
				strings.ToLower(a.template.LocalName(locale)),
				strings.ToLower(b.template.LocalName(locale)),
			)
		case SortBySeller:
			c = compareCoin(a.posting.Seller, b.posting.Seller)
		}
		if 0 != c {
			if key.Descending {
				return -c
			}
			return c
		}
	}

	// deterministic tie break
	if a.posting.StartTime.Before(b.posting.StartTime) {
		return -1
	}
	if a.posting.StartTime.After(b.posting.StartTime) {
		return 1
	}
	return compareCoin(a.posting.Id, b.posting.Id)
}

func effectiveBid(p *posting.Posting) uint64 {
	if p.HasBid() {
		return uint64(p.CurrentBid)
	}
	return uint64(p.MinBid)
}

func compareCoin(a uint64, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt(a int, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
