// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/constants"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/fault"
	"github.com/bitmark-inc/auctiond/manager"
)

// Sync - type for the RPC
//
// passive mirrors walk the whole catalog in bounded batches and hand
// the returned tuple back unchanged on every call
type Sync struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Manager *manager.Manager
}

// SyncArguments - resume tuple plus batch size
type SyncArguments struct {
	House     faction.Faction `json:"house"`
	Requester uint64          `json:"requester,string"`
	Epoch     uint64          `json:"epoch,string"`
	Cursor    uint64          `json:"cursor,string"`
	Tombstone uint64          `json:"tombstone,string"`
	Count     int             `json:"count"`
}

// SyncReply - one batch with the tuple for the next call
type SyncReply struct {
	Postings  []PostingInfo `json:"postings"`
	Epoch     uint64        `json:"epoch,string"`
	Cursor    uint64        `json:"cursor,string"`
	Tombstone uint64        `json:"tombstone,string"`
}

// Next - fetch the next replication batch
func (sync *Sync) Next(arguments *SyncArguments, reply *SyncReply) error {
	if nil == arguments {
		return fault.InvalidItem
	}

	// an out of range count falls back to a full batch
	count := arguments.Count
	if count <= 0 || count > constants.ReplicationMaxBatch {
		count = constants.ReplicationMaxBatch
	}
	if err := rateLimitN(sync.Limiter, count, constants.ReplicationMaxBatch); nil != err {
		return err
	}

	h, err := sync.Manager.House(arguments.House)
	if nil != err {
		return err
	}

	now := time.Now().UTC()
	batch, state, err := h.Replicate(arguments.Requester, arguments.Epoch, arguments.Cursor, arguments.Tombstone, count, now)

	reply.Epoch = state.Epoch
	reply.Cursor = state.Cursor
	reply.Tombstone = state.Tombstone
	if nil != err {
		return err
	}
	for _, p := range batch {
		reply.Postings = append(reply.Postings, postingInfo(p, now))
	}
	return nil
}
