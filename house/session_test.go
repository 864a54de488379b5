// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctiond/house"
)

func TestBrowseUnfilteredPagination(t *testing.T) {
	rig := newRig(t)
	for i := 0; i < 25; i += 1 {
		rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	}

	page, err := rig.house.Browse(alice, nil, nil, 0, 10, rig.now)
	assert.NoError(t, err, "first page")
	assert.Equal(t, 25, page.Total, "total count")
	assert.Equal(t, 10, len(page.Postings), "page size")
	assert.EqualValues(t, 1, page.Postings[0].Id, "id order")

	page, err = rig.house.Browse(alice, nil, nil, 20, 10, rig.now)
	assert.NoError(t, err, "last page")
	assert.Equal(t, 5, len(page.Postings), "short last page")
	assert.EqualValues(t, 21, page.Postings[0].Id, "offset honoured")
}

func TestBrowseFilterByQuality(t *testing.T) {
	rig := newRig(t)
	rig.list(t, seller, 1, 100, 0, 24*time.Hour)         // quality 1
	epic := rig.list(t, seller, 2, 100, 0, 24*time.Hour) // quality 4

	filter := &house.Filter{QualityMask: 1 << 4}
	page, err := rig.house.Browse(alice, filter, nil, 0, 50, rig.now)
	assert.NoError(t, err, "filtered browse")
	assert.Equal(t, 1, page.Total, "only the epic")
	assert.Equal(t, epic.Id, page.Postings[0].Id, "the right posting")
}

func TestBrowseFilterByName(t *testing.T) {
	rig := newRig(t)
	rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	reaper := rig.list(t, seller, 2, 100, 0, 24*time.Hour)

	page, err := rig.house.Browse(alice, &house.Filter{Name: "reaper"}, nil, 0, 50, rig.now)
	assert.NoError(t, err, "substring match")
	assert.Equal(t, 1, page.Total, "one match")
	assert.Equal(t, reaper.Id, page.Postings[0].Id, "case insensitive substring")

	page, err = rig.house.Browse(alice, &house.Filter{Name: "reaper", ExactName: true}, nil, 0, 50, rig.now)
	assert.NoError(t, err, "exact match")
	assert.Equal(t, 0, page.Total, "no exact match for a fragment")

	page, err = rig.house.Browse(alice, &house.Filter{Name: "Arcanite Reaper", ExactName: true}, nil, 0, 50, rig.now)
	assert.NoError(t, err, "exact match full name")
	assert.Equal(t, 1, page.Total, "full name matches")
}

func TestBrowseSessionStableUnderMutation(t *testing.T) {
	rig := newRig(t)
	for i := 0; i < 10; i += 1 {
		rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	}

	filter := &house.Filter{QualityMask: 1 << 1}

	// first page materialises the snapshot
	page, err := rig.house.Browse(alice, filter, nil, 0, 5, rig.now)
	assert.NoError(t, err, "first page")
	assert.Equal(t, 10, page.Total, "ten matches")

	// new postings arrive between pages
	rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	rig.list(t, seller, 1, 100, 0, 24*time.Hour)

	// paging continues over the snapshot
	page, err = rig.house.Browse(alice, filter, nil, 5, 5, rig.now)
	assert.NoError(t, err, "second page")
	assert.Equal(t, 10, page.Total, "snapshot unchanged while paging")

	// restarting from offset zero picks up the new postings
	page, err = rig.house.Browse(alice, filter, nil, 0, 5, rig.now)
	assert.NoError(t, err, "restarted query")
	assert.Equal(t, 12, page.Total, "fresh snapshot")
}

func TestBrowseUnfilteredKeepsFilteredSession(t *testing.T) {
	rig := newRig(t)
	for i := 0; i < 8; i += 1 {
		rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	}

	filter := &house.Filter{QualityMask: 1 << 1}

	// first page materialises the snapshot
	page, err := rig.house.Browse(alice, filter, nil, 0, 4, rig.now)
	assert.NoError(t, err, "first filtered page")
	assert.Equal(t, 8, page.Total, "eight matches")

	// an interleaved unfiltered browse reads the live index only
	rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	page, err = rig.house.Browse(alice, nil, nil, 0, 4, rig.now)
	assert.NoError(t, err, "unfiltered browse")
	assert.Equal(t, 9, page.Total, "live index total")

	// the filtered snapshot survives and paging resumes over it
	page, err = rig.house.Browse(alice, filter, nil, 4, 4, rig.now)
	assert.NoError(t, err, "second filtered page")
	assert.Equal(t, 8, page.Total, "snapshot kept across the unfiltered call")
}

func TestBrowseSessionPerRequester(t *testing.T) {
	rig := newRig(t)
	for i := 0; i < 6; i += 1 {
		rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	}

	filter := &house.Filter{QualityMask: 1 << 1}

	_, err := rig.house.Browse(alice, filter, nil, 0, 3, rig.now)
	assert.NoError(t, err, "alice first page")

	rig.list(t, seller, 1, 100, 0, 24*time.Hour)

	// bob's first page sees the new listing, alice's session is
	// untouched
	page, err := rig.house.Browse(bob, filter, nil, 0, 3, rig.now)
	assert.NoError(t, err, "bob first page")
	assert.Equal(t, 7, page.Total, "bob gets a fresh snapshot")

	page, err = rig.house.Browse(alice, filter, nil, 3, 3, rig.now)
	assert.NoError(t, err, "alice second page")
	assert.Equal(t, 6, page.Total, "alice still pages her snapshot")
}

func TestBrowseSessionExpiry(t *testing.T) {
	rig := newRig(t)
	for i := 0; i < 4; i += 1 {
		rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	}

	filter := &house.Filter{QualityMask: 1 << 1}
	_, err := rig.house.Browse(alice, filter, nil, 0, 2, rig.now)
	assert.NoError(t, err, "first page")

	rig.list(t, seller, 1, 100, 0, 24*time.Hour)

	// the sweep drops idle sessions so the next offset request
	// materialises a fresh snapshot
	rig.house.Tick(rig.now.Add(6 * time.Minute))

	page, err := rig.house.Browse(alice, filter, nil, 2, 2, rig.now.Add(6*time.Minute))
	assert.NoError(t, err, "page after expiry")
	assert.Equal(t, 5, page.Total, "session was rebuilt")
}

func TestBrowseSortByBid(t *testing.T) {
	rig := newRig(t)
	cheap := rig.list(t, seller, 1, 50, 0, 24*time.Hour)
	dear := rig.list(t, seller, 1, 900, 0, 24*time.Hour)
	mid := rig.list(t, seller, 1, 400, 0, 24*time.Hour)

	order := house.SortOrder{{Column: house.SortByBid}}
	page, err := rig.house.Browse(alice, &house.Filter{QualityMask: 1 << 1}, order, 0, 10, rig.now)
	assert.NoError(t, err, "sorted browse")
	assert.Equal(t, 3, len(page.Postings), "all matched")
	assert.Equal(t, cheap.Id, page.Postings[0].Id, "cheapest first")
	assert.Equal(t, mid.Id, page.Postings[1].Id, "middle second")
	assert.Equal(t, dear.Id, page.Postings[2].Id, "dearest last")

	order = house.SortOrder{{Column: house.SortByBid, Descending: true}}
	page, err = rig.house.Browse(alice, &house.Filter{QualityMask: 1 << 1}, order, 0, 10, rig.now)
	assert.NoError(t, err, "descending browse")
	assert.Equal(t, dear.Id, page.Postings[0].Id, "dearest first")
}

func TestBrowseMissingItemHidden(t *testing.T) {
	rig := newRig(t)
	keep := rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	broken := rig.list(t, seller, 1, 100, 0, 24*time.Hour)

	// break the item reference behind the second posting
	rig.items.Remove(broken.ItemGuid)

	page, err := rig.house.Browse(alice, &house.Filter{QualityMask: 1 << 1}, nil, 0, 10, rig.now)
	assert.NoError(t, err, "browse with a broken record")
	assert.Equal(t, 1, page.Total, "broken posting hidden")
	assert.Equal(t, keep.Id, page.Postings[0].Id, "healthy posting served")
}
