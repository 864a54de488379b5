// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/auctiond/fault"
)

// Transaction - an atomic batch of pool writes
//
// the engine mutates memory first and commits the matching rows
// afterwards, so a Transaction never reads
type Transaction interface {
	Begin() error
	Put(pool *PoolHandle, key []byte, value []byte)
	PutN(pool *PoolHandle, key []byte, value uint64)
	Delete(pool *PoolHandle, key []byte)
	Commit() error
	Abort()
}

type transaction struct {
	sync.Mutex
	batch *leveldb.Batch
	inUse bool
}

// NewTransaction - create a transaction bound to the open database
func NewTransaction() Transaction {
	return &transaction{
		batch: new(leveldb.Batch),
	}
}

// Begin - start accumulating writes
func (t *transaction) Begin() error {
	t.Lock()
	defer t.Unlock()
	if t.inUse {
		return fault.AlreadyInitialised
	}
	t.batch.Reset()
	t.inUse = true
	return nil
}

// Put - queue a write
func (t *transaction) Put(pool *PoolHandle, key []byte, value []byte) {
	t.Lock()
	t.batch.Put(pool.prefixKey(key), value)
	t.Unlock()
}

// PutN - queue a big endian uint64 write
func (t *transaction) PutN(pool *PoolHandle, key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	t.Put(pool, key, buffer)
}

// Delete - queue a delete
func (t *transaction) Delete(pool *PoolHandle, key []byte) {
	t.Lock()
	t.batch.Delete(pool.prefixKey(key))
	t.Unlock()
}

// Commit - atomically apply all queued writes
func (t *transaction) Commit() error {
	t.Lock()
	defer t.Unlock()

	if !t.inUse {
		return fault.NotInitialised
	}
	t.inUse = false

	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return fault.NotInitialised
	}
	if poolData.readOnly {
		return fault.NotAvailableInReadOnly
	}
	return poolData.db.Write(t.batch, nil)
}

// Abort - discard all queued writes
func (t *transaction) Abort() {
	t.Lock()
	t.batch.Reset()
	t.inUse = false
	t.Unlock()
}
