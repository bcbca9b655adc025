// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls_test

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/identitycache/background"
	"github.com/bitmark-inc/identitycache/command/identity-cli/rpccalls"
	"github.com/bitmark-inc/identitycache/coordinator"
	"github.com/bitmark-inc/identitycache/counter"
	"github.com/bitmark-inc/identitycache/fixtures"
	"github.com/bitmark-inc/identitycache/lifecycle"
	"github.com/bitmark-inc/identitycache/manager"
	"github.com/bitmark-inc/identitycache/messagebus"
	"github.com/bitmark-inc/identitycache/rpc/listeners"
	"github.com/bitmark-inc/identitycache/rpc/server"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestClient(t *testing.T) {
	log := logger.New(fixtures.LogCategory)

	c := coordinator.New(log, 10)
	m := manager.New(manager.Configuration{StrictIndex: true}, nil, c, log)
	q := messagebus.New(10)
	a := lifecycle.New(q, c, m, nil, log)

	con := listeners.RPCConfiguration{
		MaximumConnections: 2,
		Listen:             []string{"127.0.0.1:0"},
	}
	count := counter.NewLimited(con.MaximumConnections)
	l, err := listeners.NewRPC(&con, log, count, server.Create(log, "test", count, c, m, q, a), nil)
	require.NoError(t, err)

	p := background.Start(background.Processes{c, a, l}, nil)
	defer p.Stop()
	<-l.Ready()

	var trace bytes.Buffer
	client, err := rpccalls.NewClient(l.Addresses()[0].String(), false, true, &trace)
	require.NoError(t, err)
	defer client.Close()

	id := fixtures.ID("ee", 5)
	reply, err := client.Join(id.String(), "Eve")
	require.NoError(t, err)
	assert.True(t, reply.Queued)
	assert.Contains(t, trace.String(), "Events.Join")

	_, err = client.DisplayName(id.String(), "§4Eve_Online")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		online, err := client.Online(10)
		return nil == err && 1 == len(online) && "§4Eve_Online" == online[0].DisplayName
	}, 5*time.Second, 10*time.Millisecond)

	e, err := client.Get(id.String(), false)
	require.NoError(t, err)
	assert.Equal(t, "Eve", e.Name)

	found, err := client.FindByName("eve-online", false, true, 10)
	require.NoError(t, err)
	require.Equal(t, 1, len(found))
	assert.Equal(t, id.String(), found[0].ID)

	found, err = client.FindByName("E", true, false, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, len(found))

	found, err = client.FindByIDPrefix("ee", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, len(found))

	info, err := client.Info()
	require.NoError(t, err)
	assert.Equal(t, "test", info.Version)

	_, err = client.Quit(id.String())
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		online, err := client.Online(10)
		return nil == err && 0 == len(online)
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, c.Do(m.Stop))
}
