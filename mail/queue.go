// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mail

// internal constants
const (
	queueSize = 1000
)

// Queue - buffered in-process mailer
//
// settlement must never block on delivery, so messages are queued
// and drained by whatever transport the server wires up; if the
// queue is full the oldest message is dropped
type Queue struct {
	queue chan Message
}

// NewQueue - create a mail queue
func NewQueue() *Queue {
	return &Queue{
		queue: make(chan Message, queueSize),
	}
}

// Send - queue a message for delivery
func (q *Queue) Send(message Message) {
	for {
		select {
		case q.queue <- message:
			return
		default:
			// drop the oldest to make room
			select {
			case <-q.queue:
			default:
			}
		}
	}
}

// Chan - channel to drain messages from
func (q *Queue) Chan() <-chan Message {
	return q.queue
}
