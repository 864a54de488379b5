// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house

import (
	"time"

	"github.com/bitmark-inc/auctiond/coin"
	"github.com/bitmark-inc/auctiond/mail"
	"github.com/bitmark-inc/auctiond/posting"
	"github.com/bitmark-inc/auctiond/storage"
)

// Tick - settle every due posting and expire stale caches
//
// postings with equal end times settle in ascending id order so a
// replay after restart produces the same outcome
func (house *House) Tick(now time.Time) {
	house.Lock()
	defer house.Unlock()

	// collect first, then mutate: removing while iterating would
	// invalidate the iteration; the scan is skipped entirely while
	// the earliest end time is still in the future
	due := []*posting.Posting(nil)
	if house.nextDue.IsZero() || !house.nextDue.After(now) {
		nextDue := time.Time{}
		for node := house.index.First(); nil != node; node = node.Next() {
			p := node.Value().(*posting.Posting)
			if p.IsDue(now) {
				due = append(due, p)
			} else if nextDue.IsZero() || p.EndTime.Before(nextDue) {
				nextDue = p.EndTime
			}
		}
		house.nextDue = nextDue
	}

	if len(due) > 0 {
		trx := storage.NewTransaction()
		begun := storage.Initialised() && nil == trx.Begin()

		for _, p := range due {
			house.settle(p, now)
			if begun {
				house.persistRemoval(trx, p)
			}
		}

		if begun {
			if err := trx.Commit(); nil != err {
				house.log.Errorf("settlement commit error: %s", err)
			}
		}
	}

	house.removed.DeleteExpired()
	house.expireSessions(now)
}

// internal: settle one due posting; caller holds the lock
func (house *House) settle(p *posting.Posting, now time.Time) {
	house.retire(p)

	if !p.HasBid() {
		// expired: item back to the seller, deposit forfeit
		house.companions.Mail.Send(mail.Expired(p))
		house.log.Debugf("expired: posting: %d  seller: %d", p.Id, p.Seller)
		return
	}

	// sold: item to the winner, proceeds to the seller
	cut := coin.HouseCut(p.CurrentBid, house.consignmentRate, house.globalCutRate)
	proceeds := coin.Proceeds(p.CurrentBid, p.Deposit, cut)

	house.companions.Mail.Send(mail.Won(p))
	house.companions.Mail.Send(mail.SoldInvoice(p, cut, proceeds))

	if 0 != p.Flags&posting.FlagAuditSale {
		house.log.Infof(
			"audit sale: posting: %d  seller: %d  buyer: %d  bid: %d  deposit: %d  cut: %d  proceeds: %d",
			p.Id, p.Seller, p.Bidder, p.CurrentBid, p.Deposit, cut, proceeds,
		)
	} else {
		house.log.Debugf("sold: posting: %d  buyer: %d  bid: %d", p.Id, p.Bidder, p.CurrentBid)
	}
}
