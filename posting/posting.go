// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package posting - the record of one item offered for sale
//
// a posting is mutable while it sits in a house index and is frozen
// once settlement removes it
package posting

import (
	"time"

	"github.com/bitmark-inc/auctiond/coin"
	"github.com/bitmark-inc/auctiond/constants"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/fault"
)

// Flag - server side marker bits on a posting
type Flag uint32

// all flags
const (
	FlagNone      Flag = 0x00
	FlagAuditSale Flag = 0x01 // log full money breakdown at settlement
)

// Posting - one item listed for sale
type Posting struct {
	Id            uint64
	House         faction.Faction
	Seller        uint64 // character id
	SellerAccount uint64
	Bidder        uint64 // character id, 0 = no bid yet
	ItemGuid      uint64
	MinBid        coin.Coin
	BuyoutPrice   coin.Coin // 0 = no buyout
	Deposit       coin.Coin
	CurrentBid    coin.Coin
	StartTime     time.Time
	EndTime       time.Time
	Flags         Flag

	// every distinct bidder over the life of the posting, for
	// outbid notification and "my bids" browsing
	BidderHistory map[uint64]struct{}
}

// New - create a validated posting ready for staging
//
// the deposit is supplied by the caller as it is a function of the
// item template and the house consignment rate
func New(
	id uint64,
	house faction.Faction,
	seller uint64,
	sellerAccount uint64,
	itemGuid uint64,
	minBid coin.Coin,
	buyoutPrice coin.Coin,
	deposit coin.Coin,
	duration time.Duration,
	now time.Time,
) (*Posting, error) {

	if !faction.Valid(house) {
		return nil, fault.InvalidFaction
	}
	if 0 == itemGuid {
		return nil, fault.InvalidItem
	}
	if minBid < 1 {
		return nil, fault.InvalidPriceRange
	}
	if 0 != buyoutPrice && buyoutPrice < minBid {
		return nil, fault.InvalidPriceRange
	}
	if duration < constants.MinimumAuctionDuration || duration > constants.MaximumAuctionDuration {
		return nil, fault.InvalidDuration
	}

	return &Posting{
		Id:            id,
		House:         house,
		Seller:        seller,
		SellerAccount: sellerAccount,
		ItemGuid:      itemGuid,
		MinBid:        minBid,
		BuyoutPrice:   buyoutPrice,
		Deposit:       deposit,
		StartTime:     now,
		EndTime:       now.Add(duration),
		BidderHistory: make(map[uint64]struct{}),
	}, nil
}

// HasBid - true once any bid has been accepted
func (p *Posting) HasBid() bool {
	return 0 != p.Bidder
}

// IsSoldOut - true after a successful buyout, while the posting
// waits for the next sweep to settle it
func (p *Posting) IsSoldOut() bool {
	return 0 != p.BuyoutPrice && p.HasBid() && p.CurrentBid >= p.BuyoutPrice
}

// IsDue - true when the sweep at "now" must settle this posting
func (p *Posting) IsDue(now time.Time) bool {
	return !p.EndTime.After(now)
}

// MinimumRaise - lowest acceptable next bid
func (p *Posting) MinimumRaise() coin.Coin {
	if !p.HasBid() {
		return p.MinBid
	}
	return p.CurrentBid + coin.MinIncrement(p.CurrentBid)
}

// RecordBid - apply an accepted bid
//
// validation is the caller's job; this only mutates state
func (p *Posting) RecordBid(bidder uint64, amount coin.Coin) {
	p.Bidder = bidder
	p.CurrentBid = amount
	if nil == p.BidderHistory {
		p.BidderHistory = make(map[uint64]struct{})
	}
	p.BidderHistory[bidder] = struct{}{}
}
