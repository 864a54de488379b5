// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/catalog"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/fault"
	"github.com/bitmark-inc/auctiond/house"
	"github.com/bitmark-inc/auctiond/manager"
)

// Browse - type for the RPC
type Browse struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Manager *manager.Manager
}

// SearchFilter - wire form of the browse predicate
type SearchFilter struct {
	QualityMask       uint32           `json:"qualityMask"`
	ClassMask         uint32           `json:"classMask"`
	SubClassMask      map[uint8]uint32 `json:"subClassMask"`
	InventoryTypeMask uint32           `json:"inventoryTypeMask"`
	MinLevel          uint8            `json:"minLevel"`
	MaxLevel          uint8            `json:"maxLevel"`
	Name              string           `json:"name"`
	ExactName         bool             `json:"exactName"`
	Locale            catalog.Locale   `json:"locale"`
	UsableOnly        bool             `json:"usableOnly"`
}

// SearchArguments - one page of a browse
type SearchArguments struct {
	House     faction.Faction `json:"house"`
	Requester uint64          `json:"requester,string"`
	Trusted   bool            `json:"trusted"`
	Filter    *SearchFilter   `json:"filter"`
	Sort      []SortSpec      `json:"sort"`
	Offset    int             `json:"offset"`
	PageSize  int             `json:"pageSize"`
}

// SortSpec - one sort column on the wire
type SortSpec struct {
	Column     uint8 `json:"column"`
	Descending bool  `json:"descending"`
}

// SearchReply - one result page
type SearchReply struct {
	Postings   []PostingInfo `json:"postings"`
	Total      int           `json:"total"`
	RetryAfter string        `json:"retryAfter,omitempty"`
}

func wireFilter(f *SearchFilter) *house.Filter {
	if nil == f {
		return nil
	}
	return &house.Filter{
		QualityMask:       f.QualityMask,
		ClassMask:         f.ClassMask,
		SubClassMask:      f.SubClassMask,
		InventoryTypeMask: f.InventoryTypeMask,
		MinLevel:          f.MinLevel,
		MaxLevel:          f.MaxLevel,
		Name:              f.Name,
		ExactName:         f.ExactName,
		Locale:            f.Locale,
		UsableOnly:        f.UsableOnly,
	}
}

func wireSort(specs []SortSpec) house.SortOrder {
	order := make(house.SortOrder, 0, len(specs))
	for _, s := range specs {
		order = append(order, house.SortKey{
			Column:     house.SortColumn(s.Column),
			Descending: s.Descending,
		})
	}
	return order
}

// Search - one browse page; heavy requests are metered per requester
// and the reply carries the wait when the ledger pushes back
func (browse *Browse) Search(arguments *SearchArguments, reply *SearchReply) error {
	if err := rateLimit(browse.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.InvalidItem
	}

	h, err := browse.Manager.House(arguments.House)
	if nil != err {
		return err
	}

	now := time.Now().UTC()
	wait, err := h.ThrottleAcquire(arguments.Requester, arguments.Trusted, now)
	if wait > 0 {
		reply.RetryAfter = wait.String()
	}
	if nil != err {
		return err
	}

	page, err := h.Browse(arguments.Requester, wireFilter(arguments.Filter), wireSort(arguments.Sort), arguments.Offset, arguments.PageSize, now)
	if nil != err {
		return err
	}

	reply.Total = page.Total
	for _, p := range page.Postings {
		reply.Postings = append(reply.Postings, postingInfo(p, now))
	}
	return nil
}

// GetArguments - single posting lookup
type GetArguments struct {
	House     faction.Faction `json:"house"`
	PostingId uint64          `json:"postingId,string"`
}

// GetReply - the posting, if still visible
type GetReply struct {
	Posting PostingInfo `json:"posting"`
	Live    bool        `json:"live"`
}

// Get - fetch one posting; recently settled postings remain visible
// for a short grace period
func (browse *Browse) Get(arguments *GetArguments, reply *GetReply) error {
	if err := rateLimit(browse.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.InvalidItem
	}

	h, err := browse.Manager.House(arguments.House)
	if nil != err {
		return err
	}

	p, live := h.Lookup(arguments.PostingId)
	if nil == p {
		return fault.AuctionNotFound
	}
	reply.Posting = postingInfo(p, time.Now().UTC())
	reply.Live = live
	return nil
}
