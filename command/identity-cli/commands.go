// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/identitycache/storage"
)

var (
	errMissingID       = errors.New("id is required")
	errMissingName     = errors.New("name is required")
	errMissingPrefix   = errors.New("prefix is required")
	errMissingDatabase = errors.New("database is required")
)

func runGet(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id := c.String("id")
	if "" == id {
		return errMissingID
	}
	entry, err := m.client.Get(id, c.Bool("create"))
	if nil != err {
		return err
	}
	return printJson(m.w, entry)
}

func runFind(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	name := c.String("name")
	if "" == name {
		return errMissingName
	}
	entries, err := m.client.FindByName(name, c.Bool("prefix"), c.Bool("display"), c.Int("count"))
	if nil != err {
		return err
	}
	return printJson(m.w, entries)
}

func runFindID(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	prefix := c.String("prefix")
	if "" == prefix {
		return errMissingPrefix
	}
	entries, err := m.client.FindByIDPrefix(prefix, c.Int("count"))
	if nil != err {
		return err
	}
	return printJson(m.w, entries)
}

func runOnline(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	entries, err := m.client.Online(c.Int("count"))
	if nil != err {
		return err
	}
	return printJson(m.w, entries)
}

func runJoin(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id := c.String("id")
	if "" == id {
		return errMissingID
	}
	name := c.String("name")
	if "" == name {
		return errMissingName
	}
	reply, err := m.client.Join(id, name)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runQuit(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id := c.String("id")
	if "" == id {
		return errMissingID
	}
	reply, err := m.client.Quit(id)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runDisplayName(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id := c.String("id")
	if "" == id {
		return errMissingID
	}
	reply, err := m.client.DisplayName(id, c.String("name"))
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runInfo(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	info, err := m.client.Info()
	if nil != err {
		return err
	}
	return printJson(m.w, info)
}

type nameEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastSeen string `json:"lastSeen"`
}

// offline, leveldb only allows one process to open the database
func runNames(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	database := c.String("database")
	if "" == database {
		return errMissingDatabase
	}

	if m.verbose {
		fmt.Fprintf(m.e, "database: %q\n", database)
	}

	logging := logger.Configuration{
		Directory: os.TempDir(),
		File:      "identity-cli.log",
		Size:      1048576,
		Count:     10,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	if err := logger.Initialise(logging); nil != err {
		return err
	}
	defer logger.Finalise()

	store, err := storage.Open(database, storage.ReadOnly, logger.New("storage"))
	if nil != err {
		return err
	}
	defer store.Close()

	entries := []nameEntry{}
	err = store.Names(func(id uuid.UUID, r storage.Record) bool {
		entries = append(entries, nameEntry{
			ID:       id.String(),
			Name:     r.Name,
			LastSeen: time.Unix(r.LastSeen, 0).UTC().Format("2006-01-02 15:04:05"),
		})
		return true
	})
	if nil != err {
		return err
	}
	return printJson(m.w, entries)
}
