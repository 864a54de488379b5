// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house

import (
	"time"

	"github.com/bitmark-inc/auctiond/coin"
	"github.com/bitmark-inc/auctiond/fault"
	"github.com/bitmark-inc/auctiond/mail"
	"github.com/bitmark-inc/auctiond/posting"
	"github.com/bitmark-inc/auctiond/storage"
)

// PlaceBid - raise the current bid on a live posting
//
// the bid amount is escrowed immediately; the previous bidder gets
// an outbid mail returning their escrow
func (house *House) PlaceBid(postingId uint64, bidder uint64, amount coin.Coin, now time.Time) error {
	house.Lock()
	defer house.Unlock()

	node, _ := house.index.Search(postingId)
	if nil == node {
		return fault.AuctionNotFound
	}
	p := node.Value().(*posting.Posting)

	if p.Seller == bidder {
		return fault.BidOnOwnAuction
	}
	if p.IsSoldOut() {
		return fault.AuctionAlreadySold
	}
	if amount < p.MinimumRaise() {
		return fault.BidBelowMinimum
	}
	if 0 != p.BuyoutPrice && amount > p.BuyoutPrice {
		// an over-buyout bid is just a buyout
		amount = p.BuyoutPrice
	}

	if !house.companions.Wallet.HasFunds(bidder, amount) {
		return fault.InsufficientFunds
	}
	if err := house.companions.Wallet.Modify(bidder, -int64(amount)); nil != err {
		return err
	}

	previousBidder := p.Bidder
	previousBid := p.CurrentBid
	if 0 != previousBidder && previousBidder != bidder {
		house.companions.Mail.Send(mail.Outbid(p, previousBidder, previousBid))
	} else if previousBidder == bidder {
		// raising an own bid only escrows the difference
		if err := house.companions.Wallet.Modify(bidder, int64(previousBid)); nil != err {
			house.log.Criticalf("self raise refund failed: posting: %d  bidder: %d  amount: %d  error: %s", p.Id, bidder, previousBid, err)
		}
	}

	p.RecordBid(bidder, amount)
	house.reindexBidder(p, previousBidder)

	if p.IsSoldOut() {
		// settle on the next sweep, same path as natural expiry
		p.EndTime = now
		if house.nextDue.IsZero() || now.Before(house.nextDue) {
			house.nextDue = now
		}
	}

	house.log.Debugf("bid: posting: %d  bidder: %d  amount: %d", p.Id, bidder, amount)
	house.persist(p, bidder)
	return nil
}

// Buyout - purchase a posting at its buyout price
//
// the posting is marked due and settles on the next sweep exactly
// like a naturally expired sold auction
func (house *House) Buyout(postingId uint64, buyer uint64, now time.Time) error {
	house.Lock()
	defer house.Unlock()

	node, _ := house.index.Search(postingId)
	if nil == node {
		return fault.AuctionNotFound
	}
	p := node.Value().(*posting.Posting)

	if p.IsSoldOut() {
		return fault.AuctionAlreadySold
	}
	if 0 == p.BuyoutPrice {
		return fault.BuyoutUnavailable
	}
	if p.Seller == buyer {
		return fault.BidOnOwnAuction
	}

	if !house.companions.Wallet.HasFunds(buyer, p.BuyoutPrice) {
		return fault.InsufficientFunds
	}
	if err := house.companions.Wallet.Modify(buyer, -int64(p.BuyoutPrice)); nil != err {
		return err
	}

	previousBidder := p.Bidder
	previousBid := p.CurrentBid
	if 0 != previousBidder && previousBidder != buyer {
		house.companions.Mail.Send(mail.Outbid(p, previousBidder, previousBid))
	} else if previousBidder == buyer {
		if err := house.companions.Wallet.Modify(buyer, int64(previousBid)); nil != err {
			house.log.Criticalf("self raise refund failed: posting: %d  buyer: %d  amount: %d  error: %s", p.Id, buyer, previousBid, err)
		}
	}

	p.RecordBid(buyer, p.BuyoutPrice)
	house.reindexBidder(p, previousBidder)
	p.EndTime = now
	if house.nextDue.IsZero() || now.Before(house.nextDue) {
		house.nextDue = now
	}

	house.log.Debugf("buyout: posting: %d  buyer: %d  amount: %d", p.Id, buyer, p.BuyoutPrice)
	house.persist(p, buyer)
	return nil
}

// Cancel - seller withdraws an unbid posting
//
// refused once a bid exists to protect the bidder's stake; the
// deposit stays forfeit either way
func (house *House) Cancel(postingId uint64, actor uint64, now time.Time) error {
	house.Lock()
	defer house.Unlock()

	node, _ := house.index.Search(postingId)
	if nil == node {
		return fault.AuctionNotFound
	}
	p := node.Value().(*posting.Posting)

	if p.Seller != actor {
		return fault.NotAuctionOwner
	}
	if p.HasBid() {
		return fault.AuctionAlreadyHasBid
	}

	house.retire(p)
	house.companions.Mail.Send(mail.Cancelled(p))

	if storage.Initialised() {
		trx := storage.NewTransaction()
		if err := trx.Begin(); nil == err {
			house.persistRemoval(trx, p)
			if err := trx.Commit(); nil != err {
				house.log.Errorf("cancel commit error: %s", err)
			}
		}
	}

	house.log.Infof("cancel: posting: %d  seller: %d", p.Id, actor)
	return nil
}

// Remove - operator removal of any posting
//
// the outstanding bidder, if any, is refunded with a removal notice
func (house *House) Remove(postingId uint64, now time.Time) error {
	house.Lock()
	defer house.Unlock()

	node, _ := house.index.Search(postingId)
	if nil == node {
		return fault.AuctionNotFound
	}
	p := node.Value().(*posting.Posting)

	house.retire(p)
	if p.HasBid() {
		house.companions.Mail.Send(mail.Removed(p, p.Bidder, p.CurrentBid))
	}
	house.companions.Mail.Send(mail.Cancelled(p))

	if storage.Initialised() {
		trx := storage.NewTransaction()
		if err := trx.Begin(); nil == err {
			house.persistRemoval(trx, p)
			if err := trx.Commit(); nil != err {
				house.log.Errorf("remove commit error: %s", err)
			}
		}
	}

	house.log.Warnf("operator removal: posting: %d", p.Id)
	return nil
}
