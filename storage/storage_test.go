// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/storage"
)

// test database file
const (
	databaseFileName = "test.leveldb"
	dir              = "testing"
)

func removeFiles() {
	_ = os.RemoveAll(databaseFileName)
	_ = os.RemoveAll(dir)
}

func TestMain(m *testing.M) {
	removeFiles()
	_ = os.Mkdir(dir, 0700)
	_ = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
	rc := m.Run()
	removeFiles()
	os.Exit(rc)
}

func setup(t *testing.T) {
	_ = os.RemoveAll(databaseFileName)
	err := storage.Initialise(databaseFileName, false)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	storage.Finalise()
	_ = os.RemoveAll(databaseFileName)
}

func TestPutGet(t *testing.T) {
	setup(t)
	defer teardown(t)

	key := storage.PostingKey(42)
	storage.Pool.Postings.Put(key, []byte("payload"))

	assert.True(t, storage.Pool.Postings.Has(key), "key present")
	assert.Equal(t, []byte("payload"), storage.Pool.Postings.Get(key), "value round trip")

	// pools are isolated by prefix
	assert.False(t, storage.Pool.Bidders.Has(key), "other pool unaffected")

	storage.Pool.Postings.Delete(key)
	assert.False(t, storage.Pool.Postings.Has(key), "deleted")
	assert.Nil(t, storage.Pool.Postings.Get(key), "get after delete")
}

func TestPutNGetN(t *testing.T) {
	setup(t)
	defer teardown(t)

	_, ok := storage.Pool.Metadata.GetN(storage.NextIdKey)
	assert.False(t, ok, "missing record")

	storage.Pool.Metadata.PutN(storage.NextIdKey, 9001)
	n, ok := storage.Pool.Metadata.GetN(storage.NextIdKey)
	assert.True(t, ok, "record present")
	assert.EqualValues(t, 9001, n, "numeric round trip")
}

func TestFetchInKeyOrder(t *testing.T) {
	setup(t)
	defer teardown(t)

	for _, id := range []uint64{5, 1, 3} {
		storage.Pool.Postings.Put(storage.PostingKey(id), []byte{byte(id)})
	}

	elements := storage.Pool.Postings.Fetch()
	assert.Equal(t, 3, len(elements), "all rows")
	assert.Equal(t, storage.PostingKey(1), elements[0].Key, "ascending keys")
	assert.Equal(t, storage.PostingKey(3), elements[1].Key, "ascending keys")
	assert.Equal(t, storage.PostingKey(5), elements[2].Key, "ascending keys")
}

func TestTransactionCommit(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx := storage.NewTransaction()
	assert.NoError(t, trx.Begin(), "begin")

	trx.Put(storage.Pool.Postings, storage.PostingKey(1), []byte("a"))
	trx.Put(storage.Pool.Bidders, storage.BidderKey(1, 77), []byte{})
	trx.PutN(storage.Pool.Metadata, storage.NextIdKey, 2)

	// nothing visible until commit
	assert.False(t, storage.Pool.Postings.Has(storage.PostingKey(1)), "pending write invisible")

	assert.NoError(t, trx.Commit(), "commit")
	assert.True(t, storage.Pool.Postings.Has(storage.PostingKey(1)), "committed")
	assert.True(t, storage.Pool.Bidders.Has(storage.BidderKey(1, 77)), "committed")
}

func TestTransactionAbort(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx := storage.NewTransaction()
	assert.NoError(t, trx.Begin(), "begin")
	trx.Put(storage.Pool.Postings, storage.PostingKey(9), []byte("x"))
	trx.Abort()

	assert.False(t, storage.Pool.Postings.Has(storage.PostingKey(9)), "aborted write discarded")
}

func TestSplitBidderKey(t *testing.T) {
	postingId, bidder, ok := storage.SplitBidderKey(storage.BidderKey(123, 456))
	assert.True(t, ok, "well formed key")
	assert.EqualValues(t, 123, postingId, "posting id")
	assert.EqualValues(t, 456, bidder, "bidder")

	_, _, ok = storage.SplitBidderKey([]byte("short"))
	assert.False(t, ok, "malformed key")
}

func TestReopenKeepsData(t *testing.T) {
	setup(t)
	storage.Pool.Postings.Put(storage.PostingKey(7), []byte("persist"))
	storage.Finalise()

	err := storage.Initialise(databaseFileName, false)
	assert.NoError(t, err, "reopen")
	defer teardown(t)

	assert.Equal(t, []byte("persist"), storage.Pool.Postings.Get(storage.PostingKey(7)), "survived reopen")
}
