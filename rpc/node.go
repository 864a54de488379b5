// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/counter"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/manager"
	"github.com/bitmark-inc/auctiond/mode"
)

// Node - type for the RPC
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Manager *manager.Manager
	Start   time.Time
	Version string
	Count   *counter.Counter
}

// InfoArguments - no parameters
type InfoArguments struct{}

// InfoReply - some information about this node
type InfoReply struct {
	Mode        string         `json:"mode"`
	Postings    map[string]int `json:"postings"`
	Connections uint64         `json:"connections"`
	Version     string         `json:"version"`
	Uptime      string         `json:"uptime"`
}

// Info - return some information about this node
func (node *Node) Info(arguments *InfoArguments, reply *InfoReply) error {
	if err := rateLimit(node.Limiter); nil != err {
		return err
	}

	reply.Mode = mode.String()
	reply.Postings = make(map[string]int)
	for f := faction.Faction(0); f < faction.Count; f += 1 {
		if h, err := node.Manager.House(f); nil == err {
			reply.Postings[f.String()] = h.Count()
		}
	}
	reply.Connections = node.Count.Uint64()
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	return nil
}
