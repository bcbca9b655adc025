// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/identitycache/configuration"
	"github.com/bitmark-inc/identitycache/fault"
)

type rpcSection struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections"`
	Listen             []string `gluamapper:"listen"`
}

type testConfiguration struct {
	DataDirectory string     `gluamapper:"data_directory"`
	UserCache     string     `gluamapper:"user_cache"`
	StrictIndex   bool       `gluamapper:"strict_index"`
	ClientRPC     rpcSection `gluamapper:"client_rpc"`
}

const script = `
local M = {}
M.data_directory = arg[0]:match("(.*/)")
M.user_cache = arg["server"] .. "/usercache.json"
M.strict_index = true
M.client_rpc = {
    maximum_connections = 7,
    listen = { "127.0.0.1:2150", "[::1]:2150" },
}
return M
`

func TestParseConfigurationFile(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "identityd.conf")
	require.NoError(t, os.WriteFile(fileName, []byte(script), 0600))

	var c testConfiguration
	err := configuration.ParseConfigurationFile(fileName, &c, map[string]string{"server": "/srv/game"})
	require.NoError(t, err)

	assert.Equal(t, dir+"/", c.DataDirectory)
	assert.Equal(t, "/srv/game/usercache.json", c.UserCache)
	assert.True(t, c.StrictIndex)
	assert.Equal(t, uint64(7), c.ClientRPC.MaximumConnections)
	assert.Equal(t, []string{"127.0.0.1:2150", "[::1]:2150"}, c.ClientRPC.Listen)
}

func TestParseConfigurationFileErrors(t *testing.T) {
	dir := t.TempDir()

	var c testConfiguration
	err := configuration.ParseConfigurationFile(filepath.Join(dir, "missing.conf"), &c, nil)
	assert.Error(t, err, "missing file")

	err = configuration.ParseConfigurationFile("any", c, nil)
	assert.Equal(t, fault.ErrInvalidStructPointer, err, "not a pointer")

	noTable := filepath.Join(dir, "none.conf")
	require.NoError(t, os.WriteFile(noTable, []byte(`return 42`), 0600))
	err = configuration.ParseConfigurationFile(noTable, &c, nil)
	assert.Equal(t, fault.ErrMissingParameters, err, "no table returned")

	broken := filepath.Join(dir, "broken.conf")
	require.NoError(t, os.WriteFile(broken, []byte(`return {`), 0600))
	err = configuration.ParseConfigurationFile(broken, &c, nil)
	assert.Error(t, err, "syntax error")
}

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/log", configuration.EnsureAbsolute("/data", "log"))
	assert.Equal(t, "/var/log", configuration.EnsureAbsolute("/data", "/var/log/"))
	assert.False(t, configuration.EnsureFileExists("/no/such/file"))
}
