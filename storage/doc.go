// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the auction database
//
// maintains a single LevelDB database with prefixed key pools:
//
//	Postings  'P' ++ posting id       -> packed posting row
//	Bidders   'B' ++ posting id ++ bidder -> empty
//	Metadata  'M' ++ name             -> big endian uint64
//
// in-memory state is authoritative; every mutation is mirrored to
// the database through a Transaction committed after the in-memory
// change succeeded, and load-time recovery drops any row that fails
// to unpack
package storage
