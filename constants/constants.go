// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package constants - timing values shared by the auction engine
package constants

import (
	"time"
)

// the periodic sweep that settles due postings
const (
	TickInterval = 1 * time.Minute
)

// cached search results are dropped after the idle timeout with no
// access, and unconditionally after the hard timeout
const (
	SearchSessionIdleTimeout = 5 * time.Minute
	SearchSessionHardTimeout = 15 * time.Minute
)

// settled postings are kept for diffing against still-live search
// sessions, so retention must outlast the hard session timeout
const (
	RemovedRetention = SearchSessionHardTimeout + TickInterval
)

// browse request throttling
const (
	ThrottleWindow = 1 * time.Minute
	ThrottleQuota  = 300
)

// replication protocol
const (
	ReplicationDelay    = 5 * time.Second
	ReplicationMaxBatch = 50
)

// allowed auction durations
const (
	MinimumAuctionDuration = 1 * time.Hour
	MaximumAuctionDuration = 48 * time.Hour
)

// staging entries are force-expired if the seller never confirms
// funds
const (
	StagingTimeout       = 1 * time.Minute
	StagingSweepInterval = 15 * time.Second
)
