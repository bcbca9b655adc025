// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/identitycache/counter"
	"github.com/bitmark-inc/identitycache/manager"
	"github.com/bitmark-inc/identitycache/messagebus"
	"github.com/bitmark-inc/identitycache/rpc/events"
	"github.com/bitmark-inc/identitycache/rpc/identities"
	"github.com/bitmark-inc/identitycache/rpc/node"
)

// Create - an RPC server with all handlers registered
func Create(log *logger.L, version string, rpcCount *counter.Counter, executor manager.Executor, m *manager.Manager, queue *messagebus.Queue, seeder events.Seeder) *rpc.Server {
	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(identities.New(log, executor, m))
	_ = server.Register(events.New(log, queue, seeder))
	_ = server.Register(node.New(log, start, version, rpcCount, executor, m))

	return server
}
