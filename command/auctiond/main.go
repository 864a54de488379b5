// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/catalog"
	"github.com/bitmark-inc/auctiond/house"
	"github.com/bitmark-inc/auctiond/mail"
	"github.com/bitmark-inc/auctiond/manager"
	"github.com/bitmark-inc/auctiond/mode"
	"github.com/bitmark-inc/auctiond/rpc"
	"github.com/bitmark-inc/auctiond/storage"
	"github.com/bitmark-inc/auctiond/version"
	"github.com/bitmark-inc/auctiond/wallet"
)

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, _, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version.Version)
	}

	if len(options["help"]) > 0 {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE", program)
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version.Version)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// set the initial system mode - before any background tasks are started
	err = mode.Initialise(theConfiguration.ReadOnly)
	if nil != err {
		log.Criticalf("mode initialise error: %s", err)
		exitwithstatus.Message("mode initialise error: %s", err)
	}
	defer mode.Finalise()

	// start the data storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, theConfiguration.ReadOnly)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// item templates; without a catalog nothing can be listed but
	// browsing and settlement of restored postings still work
	templates := catalog.NewMemoryCatalog()
	if "" != theConfiguration.CatalogFile {
		templates, err = loadCatalog(theConfiguration.CatalogFile)
		if nil != err {
			log.Criticalf("catalog load error: %s", err)
			exitwithstatus.Message("catalog load error: %s", err)
		}
	}

	// delivery and funds stay in process until the world server
	// adapters are wired in their place
	mailQueue := mail.NewQueue()
	go deliverMail(mailQueue, logger.New("mail"))

	companions := house.Collaborators{
		Mail:    mailQueue,
		Wallet:  wallet.NewMemoryWallet(),
		Items:   catalog.NewMemoryItemStore(),
		Catalog: templates,
		Usable:  catalog.AllowAll{},
	}

	log.Info("initialise manager")
	service, err := manager.New(manager.Rates{
		Consignment: theConfiguration.ConsignmentRates(),
		GlobalCut:   theConfiguration.Rates.GlobalCut,
	}, companions)
	if nil != err {
		log.Criticalf("manager initialise error: %s", err)
		exitwithstatus.Message("manager initialise error: %s", err)
	}
	service.Start()
	defer service.Stop()

	// now start the RPC listeners
	err = rpc.Initialise(&theConfiguration.ClientRPC, version.Version, service)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	// wait for CTRL-C before shutting down to allow manual testing
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)

	mode.Set(mode.Stopped)
	log.Info("shutting down…")
}

// deliverMail - drain the queue; actual transport belongs to the
// world server, here every message is just logged
func deliverMail(queue *mail.Queue, log *logger.L) {
	for message := range queue.Chan() {
		log.Infof("deliver: to %d  subject: %q  item: %d  money: %d", message.Recipient, message.Subject, message.ItemGuid, message.Money)
	}
}
