// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet - money ledger collaborator
package wallet

import (
	"sync"

	"github.com/bitmark-inc/auctiond/coin"
	"github.com/bitmark-inc/auctiond/fault"
)

// Wallet - the money ledger the engine charges and credits
//
// the real ledger belongs to the character database; bid escrow is
// modelled as an immediate charge with refunds delivered by mail
type Wallet interface {
	HasFunds(actor uint64, amount coin.Coin) bool
	Modify(actor uint64, delta int64) error
}

// MemoryWallet - map backed ledger for tools and tests
type MemoryWallet struct {
	sync.RWMutex
	balances map[uint64]coin.Coin
}

// NewMemoryWallet - create an empty ledger
func NewMemoryWallet() *MemoryWallet {
	return &MemoryWallet{
		balances: make(map[uint64]coin.Coin),
	}
}

// Balance - current balance of an actor
func (w *MemoryWallet) Balance(actor uint64) coin.Coin {
	w.RLock()
	defer w.RUnlock()
	return w.balances[actor]
}

// HasFunds - true if the actor can afford the amount
func (w *MemoryWallet) HasFunds(actor uint64, amount coin.Coin) bool {
	w.RLock()
	defer w.RUnlock()
	return w.balances[actor] >= amount
}

// Modify - apply a signed delta to an actor balance
func (w *MemoryWallet) Modify(actor uint64, delta int64) error {
	w.Lock()
	defer w.Unlock()

	balance := w.balances[actor]
	if delta < 0 {
		debit := coin.Coin(-delta)
		if balance < debit {
			return fault.InsufficientFunds
		}
		w.balances[actor] = balance - debit
	} else {
		w.balances[actor] = balance + coin.Coin(delta)
	}
	return nil
}
