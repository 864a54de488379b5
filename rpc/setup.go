// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - JSON RPC surface of the auction service
//
// game world servers are the only expected clients so the transport
// is plain TCP on an internal network; each service meters its own
// request rate and the browse and command services additionally
// consult the per requester throttle ledger
package rpc

import (
	"net"
	netrpc "net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/counter"
	"github.com/bitmark-inc/auctiond/fault"
	"github.com/bitmark-inc/auctiond/manager"
	"github.com/bitmark-inc/auctiond/mode"
)

// per service rate limits
const (
	defaultRateLimit = 200 // requests per second
	defaultBurst     = 100
	syncRateLimit    = 1000 // batch entries per second
	syncBurst        = 250
)

// Configuration - configuration file data for RPC setup
type Configuration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
}

// globals
type rpcData struct {
	sync.RWMutex

	log       *logger.L
	listeners []net.Listener
	count     counter.Counter

	// set once during initialise
	initialised bool
}

// global data
var globalData rpcData

// Initialise - start serving on every configured address
func Initialise(configuration *Configuration, version string, m *manager.Manager) error {

	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	if configuration.MaximumConnections < 1 {
		log.Errorf("invalid maximum connection limit: %d", configuration.MaximumConnections)
		return fault.InvalidCount
	}

	server := createServer(log, version, m)

	for _, listen := range configuration.Listen {
		log.Infof("starting RPC server: %s", listen)
		listener, err := net.Listen("tcp", listen)
		if nil != err {
			log.Errorf("rpc server listen error: %s", err)
			return err
		}
		globalData.listeners = append(globalData.listeners, listener)
		go serveConnections(listener, server, configuration.MaximumConnections, log)
	}

	globalData.initialised = true
	return nil
}

// Finalise - stop accepting connections
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	for _, listener := range globalData.listeners {
		_ = listener.Close()
	}
	globalData.listeners = nil
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()
	return nil
}

func createServer(log *logger.L, version string, m *manager.Manager) *netrpc.Server {

	start := time.Now().UTC()
	server := netrpc.NewServer()

	_ = server.Register(&Auction{
		Log:          log,
		Limiter:      rate.NewLimiter(defaultRateLimit, defaultBurst),
		IsNormalMode: mode.Is,
		Manager:      m,
	})
	_ = server.Register(&Browse{
		Log:     log,
		Limiter: rate.NewLimiter(defaultRateLimit, defaultBurst),
		Manager: m,
	})
	_ = server.Register(&Sync{
		Log:     log,
		Limiter: rate.NewLimiter(syncRateLimit, syncBurst),
		Manager: m,
	})
	_ = server.Register(&Node{
		Log:     log,
		Limiter: rate.NewLimiter(defaultRateLimit, defaultBurst),
		Manager: m,
		Start:   start,
		Version: version,
		Count:   &globalData.count,
	})

	return server
}

func serveConnections(listen net.Listener, server *netrpc.Server, maximumConnections uint64, log *logger.L) {
	for {
		conn, err := listen.Accept()
		if nil != err {
			log.Errorf("rpc.server terminated: accept error: %s", err)
			break
		}
		if globalData.count.Increment() <= maximumConnections {
			go func() {
				server.ServeCodec(jsonrpc.NewServerCodec(conn))
				_ = conn.Close()
				globalData.count.Decrement()
			}()
		} else {
			globalData.count.Decrement()
			_ = conn.Close()
		}
	}
	log.Error("RPC accept terminated")
}
