// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mail - delivery of auction outcome notifications
//
// the engine only decides when a mail is sent and what it carries;
// actual delivery belongs to the mail subsystem behind the Mailer
// interface
package mail

import (
	"fmt"

	"github.com/bitmark-inc/auctiond/coin"
	"github.com/bitmark-inc/auctiond/posting"
)

// Message - one notification with optional attachments
type Message struct {
	Recipient uint64 // character id
	Subject   string
	Body      string
	ItemGuid  uint64    // 0 = no item attached
	Money     coin.Coin // 0 = no money attached
}

// Mailer - delivery collaborator
type Mailer interface {
	Send(message Message)
}

// Outbid - previous bidder gets the refunded escrow back
func Outbid(p *posting.Posting, previousBidder uint64, refund coin.Coin) Message {
	return Message{
		Recipient: previousBidder,
		Subject:   fmt.Sprintf("auction %d: outbid", p.Id),
		Body:      fmt.Sprintf("your bid of %d on item %d was beaten; the amount is returned", refund, p.ItemGuid),
		Money:     refund,
	}
}

// Won - buyer receives the item
func Won(p *posting.Posting) Message {
	return Message{
		Recipient: p.Bidder,
		Subject:   fmt.Sprintf("auction %d: won", p.Id),
		Body:      fmt.Sprintf("you won item %d for %d", p.ItemGuid, p.CurrentBid),
		ItemGuid:  p.ItemGuid,
	}
}

// SoldInvoice - seller receives the proceeds with a full breakdown
func SoldInvoice(p *posting.Posting, cut coin.Coin, proceeds coin.Coin) Message {
	return Message{
		Recipient: p.Seller,
		Subject:   fmt.Sprintf("auction %d: sold", p.Id),
		Body: fmt.Sprintf(
			"item %d sold to %d for %d; deposit %d returned, house cut %d, paid out %d",
			p.ItemGuid, p.Bidder, p.CurrentBid, p.Deposit, cut, proceeds,
		),
		Money: proceeds,
	}
}

// Expired - item returned to the seller, deposit forfeit
func Expired(p *posting.Posting) Message {
	return Message{
		Recipient: p.Seller,
		Subject:   fmt.Sprintf("auction %d: expired", p.Id),
		Body:      fmt.Sprintf("no bids were placed on item %d; the deposit of %d is forfeit", p.ItemGuid, p.Deposit),
		ItemGuid:  p.ItemGuid,
	}
}

// Cancelled - item returned after the seller withdrew the posting
func Cancelled(p *posting.Posting) Message {
	return Message{
		Recipient: p.Seller,
		Subject:   fmt.Sprintf("auction %d: cancelled", p.Id),
		Body:      fmt.Sprintf("your posting of item %d was withdrawn; the deposit of %d is forfeit", p.ItemGuid, p.Deposit),
		ItemGuid:  p.ItemGuid,
	}
}

// Removed - outstanding bidder is refunded when a posting is
// removed by the operator
func Removed(p *posting.Posting, bidder uint64, refund coin.Coin) Message {
	return Message{
		Recipient: bidder,
		Subject:   fmt.Sprintf("auction %d: removed", p.Id),
		Body:      fmt.Sprintf("the posting of item %d was removed; your bid of %d is returned", p.ItemGuid, refund),
		Money:     refund,
	}
}

// StagingExpired - item returned when the seller never confirmed
// the listing funds
func StagingExpired(seller uint64, itemGuid uint64) Message {
	return Message{
		Recipient: seller,
		Subject:   "auction listing abandoned",
		Body:      fmt.Sprintf("listing of item %d was never paid for; the item is returned", itemGuid),
		ItemGuid:  itemGuid,
	}
}
