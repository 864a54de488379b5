// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package posting

import (
	"encoding/binary"
	"time"

	"github.com/bitmark-inc/auctiond/coin"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/fault"
)

// Packed - a binary packed posting row
type Packed []byte

// field layout, all integers big endian
const (
	idOffset            = 0
	houseOffset         = idOffset + 8
	sellerOffset        = houseOffset + 1
	sellerAccountOffset = sellerOffset + 8
	bidderOffset        = sellerAccountOffset + 8
	itemGuidOffset      = bidderOffset + 8
	minBidOffset        = itemGuidOffset + 8
	buyoutOffset        = minBidOffset + 8
	depositOffset       = buyoutOffset + 8
	currentBidOffset    = depositOffset + 8
	startTimeOffset     = currentBidOffset + 8
	endTimeOffset       = startTimeOffset + 8
	flagsOffset         = endTimeOffset + 8
	packedLength        = flagsOffset + 4
)

// Pack - serialise a posting for the storage pool
//
// bidder history rows are stored separately, one row per bidder
func (p *Posting) Pack() Packed {
	buffer := make([]byte, packedLength)
	binary.BigEndian.PutUint64(buffer[idOffset:], p.Id)
	buffer[houseOffset] = byte(p.House)
	binary.BigEndian.PutUint64(buffer[sellerOffset:], p.Seller)
	binary.BigEndian.PutUint64(buffer[sellerAccountOffset:], p.SellerAccount)
	binary.BigEndian.PutUint64(buffer[bidderOffset:], p.Bidder)
	binary.BigEndian.PutUint64(buffer[itemGuidOffset:], p.ItemGuid)
	binary.BigEndian.PutUint64(buffer[minBidOffset:], uint64(p.MinBid))
	binary.BigEndian.PutUint64(buffer[buyoutOffset:], uint64(p.BuyoutPrice))
	binary.BigEndian.PutUint64(buffer[depositOffset:], uint64(p.Deposit))
	binary.BigEndian.PutUint64(buffer[currentBidOffset:], uint64(p.CurrentBid))
	binary.BigEndian.PutUint64(buffer[startTimeOffset:], uint64(p.StartTime.Unix()))
	binary.BigEndian.PutUint64(buffer[endTimeOffset:], uint64(p.EndTime.Unix()))
	binary.BigEndian.PutUint32(buffer[flagsOffset:], uint32(p.Flags))
	return buffer
}

// Unpack - deserialise a storage row back into a posting
func (record Packed) Unpack() (*Posting, error) {
	if packedLength != len(record) {
		return nil, fault.InvalidItem
	}

	house := faction.Faction(record[houseOffset])
	if !faction.Valid(house) {
		return nil, fault.InvalidFaction
	}

	p := &Posting{
		Id:            binary.BigEndian.Uint64(record[idOffset:]),
		House:         house,
		Seller:        binary.BigEndian.Uint64(record[sellerOffset:]),
		SellerAccount: binary.BigEndian.Uint64(record[sellerAccountOffset:]),
		Bidder:        binary.BigEndian.Uint64(record[bidderOffset:]),
		ItemGuid:      binary.BigEndian.Uint64(record[itemGuidOffset:]),
		MinBid:        coin.Coin(binary.BigEndian.Uint64(record[minBidOffset:])),
		BuyoutPrice:   coin.Coin(binary.BigEndian.Uint64(record[buyoutOffset:])),
		Deposit:       coin.Coin(binary.BigEndian.Uint64(record[depositOffset:])),
		CurrentBid:    coin.Coin(binary.BigEndian.Uint64(record[currentBidOffset:])),
		StartTime:     time.Unix(int64(binary.BigEndian.Uint64(record[startTimeOffset:])), 0).UTC(),
		EndTime:       time.Unix(int64(binary.BigEndian.Uint64(record[endTimeOffset:])), 0).UTC(),
		Flags:         Flag(binary.BigEndian.Uint32(record[flagsOffset:])),
		BidderHistory: make(map[uint64]struct{}),
	}
	return p, nil
}
