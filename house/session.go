// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house

import (
	"sort"
	"time"

	"github.com/bitmark-inc/auctiond/constants"
	"github.com/bitmark-inc/auctiond/posting"
)

// BrowseMax - heterogeneous results are capped at this size; a
// result of one single template may grow unbounded so every stack
// of that item stays visible
const BrowseMax = 500

// one cached filtered+sorted result per requester
//
// created only for a non-empty filter; the unfiltered path reads
// the live index directly and needs no cache
type searchSession struct {
	lastAccess time.Time
	created    time.Time
	limit      int // 0 = uncapped
	results    []*posting.Posting
}

// Page - one browse page
type Page struct {
	Postings []*posting.Posting
	Total    int
}

// Browse - filtered, sorted, paginated market query
//
// the first page of a filtered query materialises and caches the
// result set; later offsets page through the cached set even if the
// live index has mutated since, so a client never sees a shifting
// list while paging
func (house *House) Browse(requester uint64, filter *Filter, order SortOrder, offset int, pageSize int, now time.Time) (*Page, error) {
	house.Lock()
	defer house.Unlock()

	// unfiltered: page the live index, sorting is meaningless
	// without a filter; any cached filtered session is left alone so
	// the requester can resume paging it
	if filter.IsEmpty() {
		pag := newTreePaginator(house.index, 0)
		return &Page{
			Postings: pag.GetPage(offset, pageSize),
			Total:    pag.TotalCount(),
		}, nil
	}

	session := house.sessions[requester]
	if 0 == offset || nil == session {
		session = house.materialise(requester, filter, order, now)
		house.sessions[requester] = session
	}
	session.lastAccess = now

	pag := newSlicePaginator(session.results, session.limit)
	return &Page{
		Postings: pag.GetPage(offset, pageSize),
		Total:    pag.TotalCount(),
	}, nil
}

// internal: run the full scan for a filtered query; caller holds
// the lock
func (house *House) materialise(requester uint64, filter *Filter, order SortOrder, now time.Time) *searchSession {

	entries := []*searchEntry(nil)
	templates := make(map[uint32]struct{})
	limit := 0

scan:
	for node := house.index.First(); nil != node; node = node.Next() {
		p := node.Value().(*posting.Posting)

		item, ok := house.companions.Items.Lookup(p.ItemGuid)
		if !ok {
			// consistency violation: hide the record, keep serving
			house.log.Errorf("posting: %d references missing item: %d", p.Id, p.ItemGuid)
			continue scan
		}
		template, ok := house.companions.Catalog.Template(item.Template)
		if !ok {
			house.log.Errorf("item: %d references missing template: %d", item.Guid, item.Template)
			continue scan
		}

		if !filter.Match(requester, template, house.companions.Usable) {
			continue scan
		}

		entries = append(entries, &searchEntry{posting: p, template: template})
		templates[template.Id] = struct{}{}

		// a large heterogeneous result cannot be narrowed by
		// paging, so stop early; a single-template result stays
		// complete
		if len(entries) > BrowseMax && len(templates) > 1 {
			limit = BrowseMax
			break scan
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return order.compare(filter.Locale, entries[i], entries[j]) < 0
	})

	results := make([]*posting.Posting, len(entries))
	for i, entry := range entries {
		results[i] = entry.posting
	}

	return &searchSession{
		lastAccess: now,
		created:    now,
		limit:      limit,
		results:    results,
	}
}

// internal: drop idle and over-age sessions; caller holds the lock
func (house *House) expireSessions(now time.Time) {
	for requester, session := range house.sessions {
		if now.Sub(session.lastAccess) > constants.SearchSessionIdleTimeout ||
			now.Sub(session.created) > constants.SearchSessionHardTimeout {
			delete(house.sessions, requester)
		}
	}
}
