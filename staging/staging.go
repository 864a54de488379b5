// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package staging - postings awaiting the seller's funds
//
// multi item listings arrive as a batch and must be charged
// atomically once the total deposit is confirmed, so the postings
// wait here and are not part of any house index yet; entries are
// drained by an explicit commit or force-resolved by the periodic
// sweep when the seller went away
package staging

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/constants"
	"github.com/bitmark-inc/auctiond/posting"
)

// entry - one staged posting with its arrival time
type entry struct {
	posting  *posting.Posting
	stagedAt time.Time
}

// Area - the staging table, keyed by seller
type Area struct {
	sync.Mutex
	log    *logger.L
	queues map[uint64][]entry
}

// New - create an empty staging area
func New() *Area {
	return &Area{
		log:    logger.New("staging"),
		queues: make(map[uint64][]entry),
	}
}

// Add - queue a posting for one seller
func (area *Area) Add(seller uint64, p *posting.Posting, now time.Time) {
	area.Lock()
	area.queues[seller] = append(area.queues[seller], entry{
		posting:  p,
		stagedAt: now,
	})
	area.Unlock()
}

// Drain - remove and return everything staged for one seller, in
// arrival order
func (area *Area) Drain(seller uint64) []*posting.Posting {
	area.Lock()
	defer area.Unlock()

	queue := area.queues[seller]
	if 0 == len(queue) {
		return nil
	}
	delete(area.queues, seller)

	postings := make([]*posting.Posting, len(queue))
	for i, e := range queue {
		postings[i] = e.posting
	}
	return postings
}

// Restore - put drained postings back at the front of the queue
//
// used when an explicit commit found insufficient funds so the
// sweep can still resolve the entries later
func (area *Area) Restore(seller uint64, postings []*posting.Posting, stagedAt time.Time) {
	area.Lock()
	defer area.Unlock()

	entries := make([]entry, len(postings), len(postings)+len(area.queues[seller]))
	for i, p := range postings {
		entries[i] = entry{
			posting:  p,
			stagedAt: stagedAt,
		}
	}
	area.queues[seller] = append(entries, area.queues[seller]...)
}

// Count - total staged postings over all sellers
func (area *Area) Count() int {
	area.Lock()
	defer area.Unlock()

	n := 0
	for _, queue := range area.queues {
		n += len(queue)
	}
	return n
}

// SweepExpired - remove every entry staged longer than the staging
// timeout, grouped by seller in arrival order
func (area *Area) SweepExpired(now time.Time) map[uint64][]*posting.Posting {
	area.Lock()
	defer area.Unlock()

	expired := make(map[uint64][]*posting.Posting)
	for seller, queue := range area.queues {
		keep := queue[:0]
		for _, e := range queue {
			if now.Sub(e.stagedAt) > constants.StagingTimeout {
				expired[seller] = append(expired[seller], e.posting)
			} else {
				keep = append(keep, e)
			}
		}
		if 0 == len(keep) {
			delete(area.queues, seller)
		} else {
			area.queues[seller] = keep
		}
	}

	if len(expired) > 0 {
		area.log.Infof("swept: %d sellers with expired staged postings", len(expired))
	}
	return expired
}
