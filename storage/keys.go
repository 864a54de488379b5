// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
)

// NextIdKey - metadata record holding the next posting id
var NextIdKey = []byte("next-posting-id")

// PostingKey - key for one posting row
func PostingKey(postingId uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, postingId)
	return key
}

// BidderKey - key for one historical bidder row
func BidderKey(postingId uint64, bidder uint64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], postingId)
	binary.BigEndian.PutUint64(key[8:], bidder)
	return key
}

// SplitBidderKey - decompose a bidder row key
func SplitBidderKey(key []byte) (uint64, uint64, bool) {
	if 16 != len(key) {
		return 0, 0, false
	}
	return binary.BigEndian.Uint64(key[:8]), binary.BigEndian.Uint64(key[8:]), true
}
