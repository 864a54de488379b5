// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house

import (
	"time"

	"github.com/bitmark-inc/auctiond/constants"
	"github.com/bitmark-inc/auctiond/fault"
	"github.com/bitmark-inc/auctiond/posting"
)

// per requester incremental sync position
//
// completed is tracked here and not on the wire tuple: a small batch
// can legitimately end on the oldest id, making cursor == tombstone
// mid sweep, so tuple equality alone cannot signal a finished pass
type replicationState struct {
	epoch       uint64
	cursor      uint64 // last posting id sent
	tombstone   uint64 // oldest id alive when the epoch started
	completed   bool   // the previous sweep reached the end
	nextAllowed time.Time
}

// ReplicationState - the resumable tuple a passive client must hand
// back unchanged on its next call
type ReplicationState struct {
	Epoch     uint64
	Cursor    uint64
	Tombstone uint64
}

// Replicate - incremental full catalog sync
//
// the first call of an epoch starts from the oldest posting; later
// calls must present the previously returned tuple unchanged or the
// request is ignored; a minimum delay between calls is enforced
// unless the previous sweep is still in progress
func (house *House) Replicate(requester uint64, epoch uint64, cursor uint64, tombstone uint64, count int, now time.Time) ([]*posting.Posting, ReplicationState, error) {
	house.Lock()
	defer house.Unlock()

	if count <= 0 || count > constants.ReplicationMaxBatch {
		count = constants.ReplicationMaxBatch
	}

	state := house.cursors[requester]

	if nil == state || 0 == epoch {
		// new epoch
		house.lastEpoch += 1
		state = &replicationState{
			epoch: house.lastEpoch,
		}
		if first := house.index.First(); nil != first {
			state.tombstone = first.Key()
		}
		house.cursors[requester] = state
	} else {
		// resumed epoch: the presented tuple must match exactly
		if epoch != state.epoch || cursor != state.cursor || tombstone != state.tombstone {
			return nil, ReplicationState{
				Epoch:     state.epoch,
				Cursor:    state.cursor,
				Tombstone: state.tombstone,
			}, fault.StaleReplicationState
		}

		if state.completed && now.Before(state.nextAllowed) {
			return nil, ReplicationState{
				Epoch:     state.epoch,
				Cursor:    state.cursor,
				Tombstone: state.tombstone,
			}, fault.HouseBusy
		}
	}

	// a completed sweep restarts from the beginning of the index
	start := state.cursor + 1
	if state.completed {
		start = 0
		state.completed = false
	}

	batch := []*posting.Posting(nil)
	node := house.index.Seek(start)
	for nil != node && len(batch) < count {
		batch = append(batch, node.Value().(*posting.Posting))
		node = node.Next()
	}

	if len(batch) > 0 {
		state.cursor = batch[len(batch)-1].Id
	}

	if nil == node {
		// sweep complete: recompute the tombstone, fold the cursor
		// onto it for the wire tuple and flag the pass finished
		state.tombstone = 0
		if first := house.index.First(); nil != first {
			state.tombstone = first.Key()
		}
		state.cursor = state.tombstone
		state.completed = true
	}

	state.nextAllowed = now.Add(constants.ReplicationDelay)

	return batch, ReplicationState{
		Epoch:     state.epoch,
		Cursor:    state.cursor,
		Tombstone: state.tombstone,
	}, nil
}
