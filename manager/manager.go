// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package manager - the auction service
//
// owns one house per faction, allocates globally unique posting
// ids, stages multi item listings until funds are confirmed and
// drives the periodic settlement sweep; constructed explicitly and
// handed to callers, never a package singleton
package manager

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/background"
	"github.com/bitmark-inc/auctiond/constants"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/fault"
	"github.com/bitmark-inc/auctiond/house"
	"github.com/bitmark-inc/auctiond/staging"
	"github.com/bitmark-inc/auctiond/storage"
)

// Rates - money policy for all houses
type Rates struct {
	Consignment [faction.Count]float64 // per house listing rate
	GlobalCut   float64                // scales every consignment rate
}

// Manager - the auction clearing service
type Manager struct {
	sync.Mutex

	log        *logger.L
	houses     [faction.Count]*house.House
	staged     *staging.Area
	rates      Rates
	companions house.Collaborators
	nextId     uint64

	background *background.T
}

// New - construct the service and restore surviving postings from
// the database
func New(rates Rates, companions house.Collaborators) (*Manager, error) {

	m := &Manager{
		log:        logger.New("manager"),
		staged:     staging.New(),
		rates:      rates,
		companions: companions,
		nextId:     1,
	}
	if nil == m.log {
		return nil, fault.InvalidLoggerChannel
	}

	for f := faction.Faction(0); f < faction.Count; f += 1 {
		m.houses[f] = house.New(f, rates.Consignment[f], rates.GlobalCut, companions)
	}

	if err := m.load(); nil != err {
		return nil, err
	}

	m.log.Infof("starting…  next posting id: %d", m.nextId)
	return m, nil
}

// Start - launch the periodic sweep
func (m *Manager) Start() {
	m.background = background.Start(background.Processes{m}, nil)
}

// Stop - halt the periodic sweep
func (m *Manager) Stop() {
	if nil != m.background {
		m.background.Stop()
		m.background = nil
	}
	m.log.Info("finished")
	m.log.Flush()
}

// Run - the sweep loop
func (m *Manager) Run(args interface{}, shutdown <-chan struct{}) {
	ticker := time.NewTicker(constants.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-shutdown:
			return
		case now := <-ticker.C:
			m.Tick(now)
		}
	}
}

// Tick - settle every house and resolve abandoned staged listings
func (m *Manager) Tick(now time.Time) {
	for _, h := range m.houses {
		h.Tick(now)
	}
	m.resolveStaged(now)
}

// House - access one partition
func (m *Manager) House(f faction.Faction) (*house.House, error) {
	if !faction.Valid(f) {
		return nil, fault.InvalidFaction
	}
	return m.houses[f], nil
}

// NextId - allocate a posting id; monotonic, never reused, survives
// a restart through the metadata pool
func (m *Manager) NextId() uint64 {
	m.Lock()
	id := m.nextId
	m.nextId += 1
	next := m.nextId
	m.Unlock()

	if storage.Initialised() {
		storage.Pool.Metadata.PutN(storage.NextIdKey, next)
	}
	return id
}
