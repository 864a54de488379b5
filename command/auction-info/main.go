// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
)

type RPCEmptyArguments struct{}

type RPCClient struct {
	Client *rpc.Client
}

// GetNodeInfo will get the daemon status from the auction rpc
func (r *RPCClient) GetNodeInfo() (json.RawMessage, error) {
	args := RPCEmptyArguments{}
	var reply json.RawMessage
	err := r.Client.Call("Node.Info", &args, &reply)
	return reply, err
}

// GetPosting will fetch one posting by id
func (r *RPCClient) GetPosting(house int, postingId uint64) (json.RawMessage, error) {
	args := struct {
		House     int    `json:"house"`
		PostingId string `json:"postingId"`
	}{
		House:     house,
		PostingId: strconv.FormatUint(postingId, 10),
	}
	var reply json.RawMessage
	err := r.Client.Call("Browse.Get", &args, &reply)
	return reply, err
}

func main() {
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "house", HasArg: getoptions.OPTIONAL_ARGUMENT, Short: 'H'},
		{Long: "posting", HasArg: getoptions.OPTIONAL_ARGUMENT, Short: 'p'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if err != nil {
		exitwithstatus.Message("option parse error: %s", err)
	}

	if len(options["help"]) > 0 {
		exitwithstatus.Message("usage: %s [--help] [--house=N --posting=ID] host:port", program)
	}

	if len(arguments) == 0 {
		exitwithstatus.Message("%s: missing host:port argument", program)
	}
	hostPort := arguments[0]

	conn, err := net.Dial("tcp", hostPort)
	if err != nil {
		exitwithstatus.Message("dial error: %s", err)
	}
	defer conn.Close()
	client := jsonrpc.NewClient(conn)

	r := RPCClient{client}
	var reply json.RawMessage

	if len(options["posting"]) > 0 {
		house := 0
		if len(options["house"]) > 0 {
			house, err = strconv.Atoi(options["house"][0])
			if err != nil {
				exitwithstatus.Message("incorrect house: %s", err)
			}
		}
		postingId, err := strconv.ParseUint(options["posting"][0], 10, 64)
		if err != nil {
			exitwithstatus.Message("incorrect posting id: %s", err)
		}
		reply, err = r.GetPosting(house, postingId)
		if err != nil {
			exitwithstatus.Message("rpc error: %s", err)
		}
	} else {
		reply, err = r.GetNodeInfo()
		if err != nil {
			exitwithstatus.Message("rpc error: %s", err)
		}
	}

	b, err := json.Marshal(reply)
	if err != nil {
		exitwithstatus.Message("incorrect json marshal: %s", err)
	}

	fmt.Printf("%s", b)
	os.Exit(0)
}
