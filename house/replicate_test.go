// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctiond/constants"
	"github.com/bitmark-inc/auctiond/fault"
)

const mirror = uint64(77)

func TestReplicateFullSweep(t *testing.T) {
	rig := newRig(t)
	for i := 0; i < 7; i += 1 {
		rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	}

	// first call opens an epoch and returns the first batch
	batch, state, err := rig.house.Replicate(mirror, 0, 0, 0, 3, rig.now)
	assert.NoError(t, err, "first batch")
	assert.Equal(t, 3, len(batch), "batch bound")
	assert.EqualValues(t, 1, batch[0].Id, "starts from the oldest")
	assert.EqualValues(t, 3, state.Cursor, "cursor after the batch")

	// hand the tuple back unchanged
	now := rig.now.Add(constants.ReplicationDelay)
	batch, state, err = rig.house.Replicate(mirror, state.Epoch, state.Cursor, state.Tombstone, 3, now)
	assert.NoError(t, err, "second batch")
	assert.EqualValues(t, 4, batch[0].Id, "resumes after the cursor")

	now = now.Add(constants.ReplicationDelay)
	batch, state, err = rig.house.Replicate(mirror, state.Epoch, state.Cursor, state.Tombstone, 3, now)
	assert.NoError(t, err, "final batch")
	assert.Equal(t, 1, len(batch), "remainder")
	assert.EqualValues(t, 7, batch[0].Id, "last posting")

	// sweep complete: cursor folded onto the tombstone
	assert.Equal(t, state.Tombstone, state.Cursor, "sweep finished")
}

func TestReplicateStaleTupleRejected(t *testing.T) {
	rig := newRig(t)
	for i := 0; i < 5; i += 1 {
		rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	}

	_, state, err := rig.house.Replicate(mirror, 0, 0, 0, 2, rig.now)
	assert.NoError(t, err, "first batch")

	// a doctored cursor is refused and the stored tuple returned
	now := rig.now.Add(constants.ReplicationDelay)
	batch, returned, err := rig.house.Replicate(mirror, state.Epoch, state.Cursor+1, state.Tombstone, 2, now)
	assert.Equal(t, fault.StaleReplicationState, err, "doctored tuple")
	assert.Equal(t, 0, len(batch), "no data on refusal")
	assert.Equal(t, state, returned, "true tuple handed back for recovery")
}

func TestReplicateDelayBetweenSweeps(t *testing.T) {
	rig := newRig(t)
	rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	rig.list(t, seller, 1, 100, 0, 24*time.Hour)

	// one call finishes the sweep
	_, state, err := rig.house.Replicate(mirror, 0, 0, 0, 10, rig.now)
	assert.NoError(t, err, "whole catalog in one batch")
	assert.Equal(t, state.Tombstone, state.Cursor, "sweep finished")

	// starting the next sweep immediately is refused
	_, _, err = rig.house.Replicate(mirror, state.Epoch, state.Cursor, state.Tombstone, 10, rig.now.Add(time.Second))
	assert.Equal(t, fault.HouseBusy, err, "too soon")

	// after the delay the next sweep starts from the beginning
	later := rig.now.Add(constants.ReplicationDelay + time.Second)
	batch, _, err := rig.house.Replicate(mirror, state.Epoch, state.Cursor, state.Tombstone, 10, later)
	assert.NoError(t, err, "next sweep")
	assert.Equal(t, 2, len(batch), "full sweep again")
	assert.EqualValues(t, 1, batch[0].Id, "restarts from the oldest")
}

func TestReplicateSingleItemBatches(t *testing.T) {
	rig := newRig(t)
	for i := 0; i < 3; i += 1 {
		rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	}

	// a batch of one ends the first call on the oldest id; the sweep
	// must still walk the whole catalog instead of restarting
	seen := make(map[uint64]bool)
	batch, state, err := rig.house.Replicate(mirror, 0, 0, 0, 1, rig.now)
	assert.NoError(t, err, "first batch")
	for _, p := range batch {
		seen[p.Id] = true
	}

	now := rig.now
	for i := 0; i < 6; i += 1 {
		now = now.Add(constants.ReplicationDelay + time.Second)
		batch, next, err := rig.house.Replicate(mirror, state.Epoch, state.Cursor, state.Tombstone, 1, now)
		assert.NoError(t, err, "batch %d", i)
		for _, p := range batch {
			seen[p.Id] = true
		}
		state = next
	}

	assert.Equal(t, 3, len(seen), "every posting replicated")
	for id := uint64(1); id <= 3; id += 1 {
		assert.True(t, seen[id], "posting %d replicated", id)
	}
}

func TestReplicateNewEpochResets(t *testing.T) {
	rig := newRig(t)
	rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	rig.list(t, seller, 1, 100, 0, 24*time.Hour)

	_, first, err := rig.house.Replicate(mirror, 0, 0, 0, 1, rig.now)
	assert.NoError(t, err, "first epoch")

	// epoch zero abandons the old position and starts over
	batch, second, err := rig.house.Replicate(mirror, 0, 0, 0, 1, rig.now.Add(time.Second))
	assert.NoError(t, err, "fresh epoch")
	assert.True(t, second.Epoch > first.Epoch, "epoch advanced")
	assert.EqualValues(t, 1, batch[0].Id, "restarted from the oldest")
}

func TestReplicatePerRequesterCursors(t *testing.T) {
	rig := newRig(t)
	for i := 0; i < 4; i += 1 {
		rig.list(t, seller, 1, 100, 0, 24*time.Hour)
	}

	_, aliceState, err := rig.house.Replicate(alice, 0, 0, 0, 2, rig.now)
	assert.NoError(t, err, "alice first batch")

	batch, _, err := rig.house.Replicate(bob, 0, 0, 0, 2, rig.now)
	assert.NoError(t, err, "bob first batch")
	assert.EqualValues(t, 1, batch[0].Id, "bob starts from the oldest")

	now := rig.now.Add(constants.ReplicationDelay)
	batch, _, err = rig.house.Replicate(alice, aliceState.Epoch, aliceState.Cursor, aliceState.Tombstone, 2, now)
	assert.NoError(t, err, "alice second batch")
	assert.EqualValues(t, 3, batch[0].Id, "alice resumes her own cursor")
}
