// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house_test

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/catalog"
	"github.com/bitmark-inc/auctiond/coin"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/house"
	"github.com/bitmark-inc/auctiond/mail"
	"github.com/bitmark-inc/auctiond/posting"
	"github.com/bitmark-inc/auctiond/wallet"
)

const (
	dir = "testing"
)

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func teardownTestLogger() {
	removeFiles()
}

func removeFiles() {
	_ = os.RemoveAll(dir)
}

func TestMain(m *testing.M) {
	setupTestLogger()
	rc := m.Run()
	teardownTestLogger()
	os.Exit(rc)
}

// mailer that just records everything sent
type recordingMailer struct {
	sync.Mutex
	messages []mail.Message
}

func (m *recordingMailer) Send(message mail.Message) {
	m.Lock()
	m.messages = append(m.messages, message)
	m.Unlock()
}

func (m *recordingMailer) all() []mail.Message {
	m.Lock()
	defer m.Unlock()
	return append([]mail.Message(nil), m.messages...)
}

func (m *recordingMailer) reset() {
	m.Lock()
	m.messages = nil
	m.Unlock()
}

// standard test rig: neutral house, 15% consignment, full cut
type testRig struct {
	house   *house.House
	mailer  *recordingMailer
	wallet  *wallet.MemoryWallet
	items   *catalog.MemoryItemStore
	catalog *catalog.MemoryCatalog
	now     time.Time
	nextId  uint64
}

const (
	testConsignmentRate = 0.15
	testGlobalCutRate   = 1.0

	seller = uint64(1000)
	alice  = uint64(2000)
	bob    = uint64(3000)
	carol  = uint64(4000)
)

func newRig(t *testing.T) *testRig {
	t.Helper()

	mailer := &recordingMailer{}
	funds := wallet.NewMemoryWallet()
	items := catalog.NewMemoryItemStore()
	templates := catalog.NewMemoryCatalog()

	templates.Define(&catalog.Template{
		Id:            1,
		Name:          map[catalog.Locale]string{catalog.LocaleDefault: "Copper Ore"},
		Quality:       1,
		Class:         7,
		SubClass:      7,
		RequiredLevel: 1,
		SellPrice:     5,
	})
	templates.Define(&catalog.Template{
		Id:            2,
		Name:          map[catalog.Locale]string{catalog.LocaleDefault: "Arcanite Reaper"},
		Quality:       4,
		Class:         2,
		SubClass:      1,
		InventoryType: 17,
		RequiredLevel: 60,
		SellPrice:     50000,
	})

	for _, actor := range []uint64{seller, alice, bob, carol} {
		funds.Modify(actor, 1000000)
	}

	h := house.New(faction.Neutral, testConsignmentRate, testGlobalCutRate, house.Collaborators{
		Mail:    mailer,
		Wallet:  funds,
		Items:   items,
		Catalog: templates,
		Usable:  catalog.AllowAll{},
	})

	return &testRig{
		house:   h,
		mailer:  mailer,
		wallet:  funds,
		items:   items,
		catalog: templates,
		now:     time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC),
		nextId:  1,
	}
}

// list one item: creates the item instance, charges nothing (the
// deposit is part of the posting record) and inserts the posting
func (rig *testRig) list(t *testing.T, owner uint64, templateId uint32, minBid coin.Coin, buyoutPrice coin.Coin, duration time.Duration) *posting.Posting {
	t.Helper()

	id := rig.nextId
	rig.nextId += 1

	itemGuid := 100000 + id
	rig.items.Add(itemGuid, &catalog.Item{
		Guid:     itemGuid,
		Template: templateId,
		Count:    1,
	})

	p, err := posting.New(id, faction.Neutral, owner, owner, itemGuid, minBid, buyoutPrice, 10, duration, rig.now)
	if nil != err {
		t.Fatalf("posting create error: %s", err)
	}
	if err := rig.house.Insert(p); nil != err {
		t.Fatalf("insert error: %s", err)
	}
	return p
}
