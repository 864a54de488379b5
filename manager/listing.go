// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package manager

import (
	"time"

	"github.com/bitmark-inc/auctiond/catalog"
	"github.com/bitmark-inc/auctiond/coin"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/fault"
	"github.com/bitmark-inc/auctiond/mail"
	"github.com/bitmark-inc/auctiond/posting"
)

// ListingRequest - one item offered for auction
type ListingRequest struct {
	House         faction.Faction
	Seller        uint64
	SellerAccount uint64
	ItemGuid      uint64
	MinBid        coin.Coin
	BuyoutPrice   coin.Coin
	Duration      time.Duration
}

// internal: validate the request and build an unlisted posting; the
// deposit is computed but not yet charged
func (m *Manager) prepare(request ListingRequest, now time.Time) (*posting.Posting, error) {
	if !faction.Valid(request.House) {
		return nil, fault.InvalidFaction
	}

	item, ok := m.companions.Items.Lookup(request.ItemGuid)
	if !ok {
		return nil, fault.ItemNotFound
	}
	template, ok := m.companions.Catalog.Template(item.Template)
	if !ok {
		m.log.Errorf("item %d references missing template %d", item.Guid, item.Template)
		return nil, fault.MissingItemRecord
	}

	deposit := catalog.Deposit(template, item.Count, m.rates.Consignment[request.House], request.Duration)

	return posting.New(
		m.NextId(),
		request.House,
		request.Seller,
		request.SellerAccount,
		request.ItemGuid,
		request.MinBid,
		request.BuyoutPrice,
		deposit,
		request.Duration,
		now,
	)
}

// List - validate, charge the deposit and commit one posting
func (m *Manager) List(request ListingRequest, now time.Time) (*posting.Posting, error) {
	p, err := m.prepare(request, now)
	if nil != err {
		return nil, err
	}

	if !m.companions.Wallet.HasFunds(request.Seller, p.Deposit) {
		return nil, fault.InsufficientFunds
	}
	if err := m.companions.Wallet.Modify(request.Seller, -int64(p.Deposit)); nil != err {
		return nil, err
	}
	if err := m.houses[p.House].Insert(p); nil != err {
		m.companions.Wallet.Modify(request.Seller, int64(p.Deposit))
		return nil, err
	}

	m.log.Debugf("listed: posting %d  seller %d  item %d  deposit %d", p.Id, p.Seller, p.ItemGuid, p.Deposit)
	return p, nil
}

// StageListing - park a validated posting until the seller confirms
//
// nothing is charged yet; the deposit is collected on commit or the
// entry expires and the item is returned by mail
func (m *Manager) StageListing(request ListingRequest, now time.Time) (*posting.Posting, error) {
	p, err := m.prepare(request, now)
	if nil != err {
		return nil, err
	}
	m.staged.Add(request.Seller, p, now)
	return p, nil
}

// CommitStaged - charge the combined deposit and commit every staged
// posting for the seller
//
// all or nothing: if the seller cannot cover the total the entries
// are returned to the staging area untouched
func (m *Manager) CommitStaged(seller uint64, now time.Time) ([]*posting.Posting, error) {
	staged := m.staged.Drain(seller)
	if 0 == len(staged) {
		return nil, fault.StagingExpired
	}

	total := coin.Coin(0)
	for _, p := range staged {
		total += p.Deposit
	}

	if !m.companions.Wallet.HasFunds(seller, total) {
		m.staged.Restore(seller, staged, now)
		return nil, fault.InsufficientFunds
	}
	if err := m.companions.Wallet.Modify(seller, -int64(total)); nil != err {
		m.staged.Restore(seller, staged, now)
		return nil, err
	}

	committed := make([]*posting.Posting, 0, len(staged))
	for _, p := range staged {
		if err := m.houses[p.House].Insert(p); nil != err {
			// duplicate id; refund this deposit and drop the record
			m.companions.Wallet.Modify(seller, int64(p.Deposit))
			continue
		}
		committed = append(committed, p)
	}

	m.log.Debugf("committed %d staged postings for seller %d  total deposit %d", len(committed), seller, total)
	return committed, nil
}

// internal: resolve abandoned staged listings
//
// the seller went away before confirming, so charge whatever funds
// are still available entry by entry and force-expire the remainder,
// returning those items by mail
func (m *Manager) resolveStaged(now time.Time) {
	for seller, postings := range m.staged.SweepExpired(now) {
		for _, p := range postings {
			if !m.companions.Wallet.HasFunds(seller, p.Deposit) {
				m.companions.Mail.Send(mail.StagingExpired(seller, p.ItemGuid))
				continue
			}
			if err := m.companions.Wallet.Modify(seller, -int64(p.Deposit)); nil != err {
				m.companions.Mail.Send(mail.StagingExpired(seller, p.ItemGuid))
				continue
			}
			if err := m.houses[p.House].Insert(p); nil != err {
				m.companions.Wallet.Modify(seller, int64(p.Deposit))
				m.companions.Mail.Send(mail.StagingExpired(seller, p.ItemGuid))
				continue
			}
			m.log.Infof("committed abandoned staged posting %d for seller %d  deposit %d", p.Id, seller, p.Deposit)
		}
	}
}
