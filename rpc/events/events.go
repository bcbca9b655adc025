// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package events

import (
	"strings"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/identity"
	"github.com/bitmark-inc/identitycache/lifecycle"
	"github.com/bitmark-inc/identitycache/messagebus"
	"github.com/bitmark-inc/identitycache/rpc/ratelimit"
)

const (
	rateLimitEvents = 500
	rateBurstEvents = 200

	source = "rpc"
)

// limit for players in one seed call
const maximumSeed = 1000

// Seeder - marks already connected players online
type Seeder interface {
	Seed([]lifecycle.Player) error
}

// Events - type for RPC calls from the game server
//
// events are queued for the lifecycle adapter and applied in order
type Events struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Queue   *messagebus.Queue
	Seeder  Seeder
}

// New - create event RPC handler
func New(log *logger.L, queue *messagebus.Queue, seeder Seeder) *Events {
	return &Events{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitEvents, rateBurstEvents),
		Queue:   queue,
		Seeder:  seeder,
	}
}

// JoinArguments - a player connected
type JoinArguments struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuitArguments - a player disconnected
type QuitArguments struct {
	ID string `json:"id"`
}

// DisplayNameArguments - a display name change
type DisplayNameArguments struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Reply - result from all event calls
type Reply struct {
	Queued bool `json:"queued"`
}

// Join - queue a join event
func (e *Events) Join(arguments *JoinArguments, reply *Reply) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}
	id, err := identity.ParseID(arguments.ID)
	if nil != err {
		return err
	}
	if "" == strings.TrimSpace(arguments.Name) {
		return fault.ErrInvalidName
	}
	return e.send(lifecycle.Join{ID: id, Name: arguments.Name}, reply)
}

// Quit - queue a quit event
func (e *Events) Quit(arguments *QuitArguments, reply *Reply) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}
	id, err := identity.ParseID(arguments.ID)
	if nil != err {
		return err
	}
	return e.send(lifecycle.Quit{ID: id}, reply)
}

// DisplayName - queue a display name change
func (e *Events) DisplayName(arguments *DisplayNameArguments, reply *Reply) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}
	id, err := identity.ParseID(arguments.ID)
	if nil != err {
		return err
	}
	return e.send(lifecycle.DisplayName{ID: id, DisplayName: arguments.DisplayName}, reply)
}

// SeedArguments - every player connected when the game server
// (re)attaches
type SeedArguments struct {
	Players []JoinArguments `json:"players"`
}

// SeedReply - result from Seed
type SeedReply struct {
	Count int `json:"count"`
}

// Seed - mark the players online immediately, bypassing the queue
func (e *Events) Seed(arguments *SeedArguments, reply *SeedReply) error {
	if err := ratelimit.LimitN(e.Limiter, len(arguments.Players), maximumSeed); nil != err {
		return err
	}

	players := make([]lifecycle.Player, len(arguments.Players))
	for i, p := range arguments.Players {
		id, err := identity.ParseID(p.ID)
		if nil != err {
			return err
		}
		players[i] = lifecycle.Player{ID: id, Name: p.Name}
	}

	if err := e.Seeder.Seed(players); nil != err {
		return err
	}
	reply.Count = len(players)
	return nil
}

func (e *Events) send(item interface{}, reply *Reply) error {
	if err := e.Queue.Send(source, item); nil != err {
		e.Log.Warnf("event: %+v  error: %s", item, err)
		return err
	}
	reply.Queued = true
	return nil
}
