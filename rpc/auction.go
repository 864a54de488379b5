// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/coin"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/fault"
	"github.com/bitmark-inc/auctiond/manager"
	"github.com/bitmark-inc/auctiond/mode"
	"github.com/bitmark-inc/auctiond/posting"
)

// Auction - type for the RPC
type Auction struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
	Manager      *manager.Manager
}

// PostingInfo - wire form of one live posting
type PostingInfo struct {
	Id          uint64          `json:"id,string"`
	House       faction.Faction `json:"house"`
	Seller      uint64          `json:"seller,string"`
	ItemGuid    uint64          `json:"itemGuid,string"`
	MinBid      coin.Coin       `json:"minBid"`
	BuyoutPrice coin.Coin       `json:"buyoutPrice"`
	CurrentBid  coin.Coin       `json:"currentBid"`
	MinimumBid  coin.Coin       `json:"minimumBid"`
	HasBid      bool            `json:"hasBid"`
	TimeLeft    string          `json:"timeLeft"`
}

func postingInfo(p *posting.Posting, now time.Time) PostingInfo {
	timeLeft := p.EndTime.Sub(now)
	if timeLeft < 0 {
		timeLeft = 0
	}
	return PostingInfo{
		Id:          p.Id,
		House:       p.House,
		Seller:      p.Seller,
		ItemGuid:    p.ItemGuid,
		MinBid:      p.MinBid,
		BuyoutPrice: p.BuyoutPrice,
		CurrentBid:  p.CurrentBid,
		MinimumBid:  p.MinimumRaise(),
		HasBid:      p.HasBid(),
		TimeLeft:    timeLeft.String(),
	}
}

// ListArguments - one item offered for auction
type ListArguments struct {
	House         faction.Faction `json:"house"`
	Seller        uint64          `json:"seller,string"`
	SellerAccount uint64          `json:"sellerAccount,string"`
	ItemGuid      uint64          `json:"itemGuid,string"`
	MinBid        coin.Coin       `json:"minBid"`
	BuyoutPrice   coin.Coin       `json:"buyoutPrice"`
	Minutes       uint64          `json:"minutes"`
	Staged        bool            `json:"staged"`
	Trusted       bool            `json:"trusted"`
}

// ListReply - result from listing an item
type ListReply struct {
	PostingId  uint64    `json:"postingId,string"`
	Deposit    coin.Coin `json:"deposit"`
	RetryAfter string    `json:"retryAfter,omitempty"`
}

// List - offer one item; staged listings wait for a Commit call
func (auction *Auction) List(arguments *ListArguments, reply *ListReply) error {
	if err := rateLimit(auction.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.InvalidItem
	}
	if !auction.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInReadOnly
	}

	h, err := auction.Manager.House(arguments.House)
	if nil != err {
		return err
	}

	now := time.Now().UTC()
	wait, err := h.ThrottleAcquire(arguments.Seller, arguments.Trusted, now)
	if wait > 0 {
		reply.RetryAfter = wait.String()
	}
	if nil != err {
		return err
	}

	request := manager.ListingRequest{
		House:         arguments.House,
		Seller:        arguments.Seller,
		SellerAccount: arguments.SellerAccount,
		ItemGuid:      arguments.ItemGuid,
		MinBid:        arguments.MinBid,
		BuyoutPrice:   arguments.BuyoutPrice,
		Duration:      time.Duration(arguments.Minutes) * time.Minute,
	}

	var p *posting.Posting
	if arguments.Staged {
		p, err = auction.Manager.StageListing(request, now)
	} else {
		p, err = auction.Manager.List(request, now)
	}
	if nil != err {
		return err
	}

	auction.Log.Infof("Auction.List: posting %d  seller %d  item %d", p.Id, p.Seller, p.ItemGuid)
	reply.PostingId = p.Id
	reply.Deposit = p.Deposit
	return nil
}

// CommitArguments - confirm every staged listing for a seller
type CommitArguments struct {
	House   faction.Faction `json:"house"`
	Seller  uint64          `json:"seller,string"`
	Trusted bool            `json:"trusted"`
}

// CommitReply - postings that went live
type CommitReply struct {
	PostingIds []uint64  `json:"postingIds"`
	Charged    coin.Coin `json:"charged"`
	RetryAfter string    `json:"retryAfter,omitempty"`
}

// Commit - charge the combined deposit and publish staged listings
func (auction *Auction) Commit(arguments *CommitArguments, reply *CommitReply) error {
	if err := rateLimit(auction.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.InvalidItem
	}
	if !auction.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInReadOnly
	}

	h, err := auction.Manager.House(arguments.House)
	if nil != err {
		return err
	}

	now := time.Now().UTC()
	wait, err := h.ThrottleAcquire(arguments.Seller, arguments.Trusted, now)
	if wait > 0 {
		reply.RetryAfter = wait.String()
	}
	if nil != err {
		return err
	}

	committed, err := auction.Manager.CommitStaged(arguments.Seller, now)
	if nil != err {
		return err
	}
	for _, p := range committed {
		reply.PostingIds = append(reply.PostingIds, p.Id)
		reply.Charged += p.Deposit
	}
	return nil
}

// BidArguments - raise or buy out
type BidArguments struct {
	House     faction.Faction `json:"house"`
	PostingId uint64          `json:"postingId,string"`
	Bidder    uint64          `json:"bidder,string"`
	Amount    coin.Coin       `json:"amount"`
	Buyout    bool            `json:"buyout"`
	Trusted   bool            `json:"trusted"`
}

// BidReply - state after the bid
type BidReply struct {
	Accepted   bool      `json:"accepted"`
	NextBid    coin.Coin `json:"nextBid"`
	RetryAfter string    `json:"retryAfter,omitempty"`
}

// Bid - place a bid or buy out a posting
func (auction *Auction) Bid(arguments *BidArguments, reply *BidReply) error {
	if err := rateLimit(auction.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.InvalidItem
	}
	if !auction.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInReadOnly
	}

	h, err := auction.Manager.House(arguments.House)
	if nil != err {
		return err
	}

	now := time.Now().UTC()
	wait, err := h.ThrottleAcquire(arguments.Bidder, arguments.Trusted, now)
	if wait > 0 {
		reply.RetryAfter = wait.String()
	}
	if nil != err {
		return err
	}

	if arguments.Buyout {
		err = h.Buyout(arguments.PostingId, arguments.Bidder, now)
	} else {
		err = h.PlaceBid(arguments.PostingId, arguments.Bidder, arguments.Amount, now)
	}
	if nil != err {
		return err
	}

	reply.Accepted = true
	if p, ok := h.Lookup(arguments.PostingId); ok {
		reply.NextBid = p.MinimumRaise()
	}
	return nil
}

// CancelArguments - withdraw an unbid posting
type CancelArguments struct {
	House     faction.Faction `json:"house"`
	PostingId uint64          `json:"postingId,string"`
	Seller    uint64          `json:"seller,string"`
	Trusted   bool            `json:"trusted"`
}

// CancelReply - result of the withdrawal
type CancelReply struct {
	Cancelled  bool   `json:"cancelled"`
	RetryAfter string `json:"retryAfter,omitempty"`
}

// Cancel - withdraw a posting; refused once a bid is in
func (auction *Auction) Cancel(arguments *CancelArguments, reply *CancelReply) error {
	if err := rateLimit(auction.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.InvalidItem
	}
	if !auction.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInReadOnly
	}

	h, err := auction.Manager.House(arguments.House)
	if nil != err {
		return err
	}

	now := time.Now().UTC()
	wait, err := h.ThrottleAcquire(arguments.Seller, arguments.Trusted, now)
	if wait > 0 {
		reply.RetryAfter = wait.String()
	}
	if nil != err {
		return err
	}

	if err := h.Cancel(arguments.PostingId, arguments.Seller, now); nil != err {
		return err
	}
	reply.Cancelled = true
	return nil
}

// OwnedArguments - list a character's own postings or bids
type OwnedArguments struct {
	House     faction.Faction `json:"house"`
	Character uint64          `json:"character,string"`
	Bids      bool            `json:"bids"`
}

// OwnedReply - the character's postings
type OwnedReply struct {
	Postings []PostingInfo `json:"postings"`
}

// Owned - everything a character is selling or bidding on
func (auction *Auction) Owned(arguments *OwnedArguments, reply *OwnedReply) error {
	if err := rateLimit(auction.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.InvalidItem
	}

	h, err := auction.Manager.House(arguments.House)
	if nil != err {
		return err
	}

	now := time.Now().UTC()
	var postings []*posting.Posting
	if arguments.Bids {
		postings = h.ListMyBids(arguments.Character)
	} else {
		postings = h.ListMine(arguments.Character)
	}
	for _, p := range postings {
		reply.Postings = append(reply.Postings, postingInfo(p, now))
	}
	return nil
}
