// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package house - one partitioned auction market
//
// a house owns the sorted posting index, the owner and bidder
// indices, the recently removed cache, the search sessions, the
// throttle ledger and the replication cursors; all of them are
// private and only mutated by the house's own methods
package house

import (
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/avl"
	"github.com/bitmark-inc/auctiond/catalog"
	"github.com/bitmark-inc/auctiond/constants"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/fault"
	"github.com/bitmark-inc/auctiond/mail"
	"github.com/bitmark-inc/auctiond/posting"
	"github.com/bitmark-inc/auctiond/storage"
	"github.com/bitmark-inc/auctiond/wallet"
)

// Collaborators - the external subsystems a house calls out to
type Collaborators struct {
	Mail    mail.Mailer
	Wallet  wallet.Wallet
	Items   catalog.ItemStore
	Catalog catalog.Catalog
	Usable  catalog.UsableChecker // nil means everything is usable
}

// House - one auction market partition
type House struct {
	sync.RWMutex

	log             *logger.L
	partition       faction.Faction
	consignmentRate float64
	globalCutRate   float64

	index   *avl.Tree                              // posting id -> *posting.Posting
	owners  map[uint64]map[uint64]*posting.Posting // seller -> id -> posting
	bidders map[uint64]map[uint64]*posting.Posting // current bidder -> id -> posting
	removed *gocache.Cache                         // settled postings, retained for session diffing

	sessions  map[uint64]*searchSession
	throttles map[uint64]*throttleState
	cursors   map[uint64]*replicationState
	lastEpoch uint64

	// earliest end time of any live posting, zero when unknown
	nextDue time.Time

	companions Collaborators
}

// New - create an empty house
func New(partition faction.Faction, consignmentRate float64, globalCutRate float64, companions Collaborators) *House {
	return &House{
		log:             logger.New("house-" + partition.String()),
		partition:       partition,
		consignmentRate: consignmentRate,
		globalCutRate:   globalCutRate,
		index:           avl.New(),
		owners:          make(map[uint64]map[uint64]*posting.Posting),
		bidders:         make(map[uint64]map[uint64]*posting.Posting),
		removed:         gocache.New(constants.RemovedRetention, 0),
		sessions:        make(map[uint64]*searchSession),
		throttles:       make(map[uint64]*throttleState),
		cursors:         make(map[uint64]*replicationState),
		companions:      companions,
	}
}

// Faction - the partition this house trades for
func (house *House) Faction() faction.Faction {
	return house.partition
}

// Count - number of live postings
func (house *House) Count() int {
	house.RLock()
	defer house.RUnlock()
	return house.index.Count()
}

// Insert - commit a posting into the live indices
//
// a duplicate id is a consistency violation: the posting is refused
// and the caller decides whether to drop the record
func (house *House) Insert(p *posting.Posting) error {
	house.Lock()
	defer house.Unlock()
	if err := house.insert(p); nil != err {
		return err
	}
	house.persist(p, 0)
	return nil
}

// internal: caller holds the lock
func (house *House) insert(p *posting.Posting) error {
	if !house.index.Insert(p.Id, p) {
		house.log.Criticalf("duplicate posting id: %d", p.Id)
		return fault.DuplicatePostingId
	}

	if house.nextDue.IsZero() || p.EndTime.Before(house.nextDue) {
		house.nextDue = p.EndTime
	}

	ownerSet := house.owners[p.Seller]
	if nil == ownerSet {
		ownerSet = make(map[uint64]*posting.Posting)
		house.owners[p.Seller] = ownerSet
	}
	ownerSet[p.Id] = p

	if p.HasBid() {
		house.indexBidder(p)
	}
	return nil
}

// internal: register the current bidder; caller holds the lock
func (house *House) indexBidder(p *posting.Posting) {
	bidderSet := house.bidders[p.Bidder]
	if nil == bidderSet {
		bidderSet = make(map[uint64]*posting.Posting)
		house.bidders[p.Bidder] = bidderSet
	}
	bidderSet[p.Id] = p
}

// internal: move the current bid to another bidder; caller holds
// the lock
func (house *House) reindexBidder(p *posting.Posting, previousBidder uint64) {
	if 0 != previousBidder {
		if set, ok := house.bidders[previousBidder]; ok {
			delete(set, p.Id)
			if 0 == len(set) {
				delete(house.bidders, previousBidder)
			}
		}
	}
	house.indexBidder(p)
}

// internal: remove a posting from every live index and retain a
// terminal copy; caller holds the lock
func (house *House) retire(p *posting.Posting) {
	house.index.Delete(p.Id)

	if set, ok := house.owners[p.Seller]; ok {
		delete(set, p.Id)
		if 0 == len(set) {
			delete(house.owners, p.Seller)
		}
	}
	if p.HasBid() {
		if set, ok := house.bidders[p.Bidder]; ok {
			delete(set, p.Id)
			if 0 == len(set) {
				delete(house.bidders, p.Bidder)
			}
		}
	}

	house.removed.SetDefault(removedKey(p.Id), p)
}

func removedKey(postingId uint64) string {
	return strconv.FormatUint(postingId, 10)
}

// Lookup - find a live posting, falling back to the recently
// removed cache so a session page can still be resolved
func (house *House) Lookup(postingId uint64) (*posting.Posting, bool) {
	house.RLock()
	defer house.RUnlock()

	if node, _ := house.index.Search(postingId); nil != node {
		return node.Value().(*posting.Posting), true
	}
	if value, ok := house.removed.Get(removedKey(postingId)); ok {
		return value.(*posting.Posting), false
	}
	return nil, false
}

// ListMine - all live postings of one seller, id ascending
func (house *House) ListMine(seller uint64) []*posting.Posting {
	house.RLock()
	defer house.RUnlock()
	return sortedSet(house.owners[seller])
}

// ListMyBids - all live postings a character has ever bid on, id
// ascending
func (house *House) ListMyBids(bidder uint64) []*posting.Posting {
	house.RLock()
	defer house.RUnlock()

	// the bidder index only tracks the current bidder; outbid
	// postings are found through the bidder history
	results := []*posting.Posting(nil)
	for node := house.index.First(); nil != node; node = node.Next() {
		p := node.Value().(*posting.Posting)
		if _, ok := p.BidderHistory[bidder]; ok {
			results = append(results, p)
		}
	}
	return results
}

// internal: flatten a multi-index entry in id order
func sortedSet(set map[uint64]*posting.Posting) []*posting.Posting {
	if 0 == len(set) {
		return nil
	}
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	// insertion sort, the sets are small
	for i := 1; i < len(ids); i += 1 {
		for j := i; j > 0 && ids[j-1] > ids[j]; j -= 1 {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	results := make([]*posting.Posting, len(ids))
	for i, id := range ids {
		results[i] = set[id]
	}
	return results
}

// internal: mirror one posting to the database after the in-memory
// mutation succeeded; errors are logged, never surfaced
func (house *House) persist(p *posting.Posting, bidder uint64) {
	if !storage.Initialised() {
		return
	}
	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		house.log.Errorf("persist begin error: %s", err)
		return
	}
	trx.Put(storage.Pool.Postings, storage.PostingKey(p.Id), p.Pack())
	if 0 != bidder {
		trx.Put(storage.Pool.Bidders, storage.BidderKey(p.Id, bidder), []byte{})
	}
	if err := trx.Commit(); nil != err {
		house.log.Errorf("persist commit error: %s", err)
	}
}

// internal: delete all rows of a settled posting
func (house *House) persistRemoval(trx storage.Transaction, p *posting.Posting) {
	trx.Delete(storage.Pool.Postings, storage.PostingKey(p.Id))
	for bidder := range p.BidderHistory {
		trx.Delete(storage.Pool.Bidders, storage.BidderKey(p.Id, bidder))
	}
}
