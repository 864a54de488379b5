// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package manager

import (
	"github.com/bitmark-inc/auctiond/posting"
	"github.com/bitmark-inc/auctiond/storage"
)

// internal: rebuild the live houses from the storage pools
//
// a row that fails to unpack is a consistency violation: it is logged
// and deleted rather than crashing the restart
func (m *Manager) load() error {
	if !storage.Initialised() {
		return nil
	}

	restored := make(map[uint64]*posting.Posting)
	maxId := uint64(0)

	for _, element := range storage.Pool.Postings.Fetch() {
		p, err := posting.Packed(element.Value).Unpack()
		if nil != err {
			m.log.Criticalf("dropping corrupt posting row %x: %s", element.Key, err)
			if !storage.IsReadOnly() {
				storage.Pool.Postings.Delete(element.Key)
			}
			continue
		}
		restored[p.Id] = p
		if p.Id > maxId {
			maxId = p.Id
		}
	}

	for _, element := range storage.Pool.Bidders.Fetch() {
		postingId, bidder, ok := storage.SplitBidderKey(element.Key)
		if !ok {
			m.log.Criticalf("dropping malformed bidder row %x", element.Key)
			if !storage.IsReadOnly() {
				storage.Pool.Bidders.Delete(element.Key)
			}
			continue
		}
		p := restored[postingId]
		if nil == p {
			// posting settled while this row survived
			m.log.Warnf("dropping orphan bidder row: posting %d  bidder %d", postingId, bidder)
			if !storage.IsReadOnly() {
				storage.Pool.Bidders.Delete(element.Key)
			}
			continue
		}
		p.BidderHistory[bidder] = struct{}{}
	}

	count := 0
	for _, p := range restored {
		if err := m.houses[p.House].Insert(p); nil != err {
			return err
		}
		count += 1
	}

	m.nextId = maxId + 1
	if next, ok := storage.Pool.Metadata.GetN(storage.NextIdKey); ok && next > m.nextId {
		m.nextId = next
	}

	m.log.Infof("restored %d postings", count)
	return nil
}
