// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house

import (
	"time"

	"github.com/bitmark-inc/auctiond/constants"
	"github.com/bitmark-inc/auctiond/fault"
)

// per requester fixed window bucket
type throttleState struct {
	windowEnd time.Time
	remaining int
}

// minimum wait handed back on depletion; untrusted client paths get
// a longer back-off
const (
	throttleDelayTrusted   = 500 * time.Millisecond
	throttleDelayUntrusted = 2 * time.Second
)

// ThrottleAcquire - consume one request token for a requester
//
// returns a zero wait while the bucket has spare quota; the request
// that takes the last token succeeds but carries the wait until the
// window resets; once empty every request is refused with HouseBusy
// and the remaining wait
func (house *House) ThrottleAcquire(requester uint64, trusted bool, now time.Time) (time.Duration, error) {
	house.Lock()
	defer house.Unlock()

	state := house.throttles[requester]
	if nil == state {
		state = &throttleState{}
		house.throttles[requester] = state
	}

	if now.After(state.windowEnd) {
		state.windowEnd = now.Add(constants.ThrottleWindow)
		state.remaining = constants.ThrottleQuota
	}

	wait := state.windowEnd.Sub(now)
	floor := throttleDelayUntrusted
	if trusted {
		floor = throttleDelayTrusted
	}
	if wait < floor {
		wait = floor
	}

	if state.remaining <= 0 {
		return wait, fault.HouseBusy
	}

	state.remaining -= 1
	if 0 == state.remaining {
		// accepted, but the caller is told when to come back
		return wait, nil
	}
	return 0, nil
}
