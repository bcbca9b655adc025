// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/identitycache/command/identity-cli/rpccalls"
)

type metadata struct {
	connect string
	useTLS  bool
	verbose bool
	client  *rpccalls.Client
	e       io.Writer
	w       io.Writer
}

const defaultConnect = "127.0.0.1:2150"

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "identity-cli"
	app.Usage = "query and drive an identityd"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: defaultConnect,
			Usage: " identityd host/IP and port, `HOST:PORT`",
		},
		cli.BoolFlag{
			Name:  "tls, t",
			Usage: " connect using TLS",
		},
	}

	countFlag := cli.IntFlag{
		Name:  "count, n",
		Value: 20,
		Usage: " maximum results `COUNT`",
	}
	idFlag := cli.StringFlag{
		Name:  "id, i",
		Value: "",
		Usage: "*identity `UUID`",
	}

	app.Commands = []cli.Command{
		{
			Name:      "get",
			Usage:     "show a cached identity",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				idFlag,
				cli.BoolFlag{
					Name:  "create",
					Usage: " create the identity if it is not cached",
				},
			},
			Action: runGet,
		},
		{
			Name:      "find",
			Usage:     "find identities by name",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, N",
					Value: "",
					Usage: "*player `NAME` or prefix",
				},
				cli.BoolFlag{
					Name:  "prefix, p",
					Usage: " match names starting with NAME",
				},
				cli.BoolFlag{
					Name:  "display, d",
					Usage: " also match online display names",
				},
				countFlag,
			},
			Action: runFind,
		},
		{
			Name:      "find-id",
			Usage:     "find identities by id prefix",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "prefix, p",
					Value: "",
					Usage: "*id `PREFIX`",
				},
				countFlag,
			},
			Action: runFindID,
		},
		{
			Name:   "online",
			Usage:  "list online players",
			Flags:  []cli.Flag{countFlag},
			Action: runOnline,
		},
		{
			Name:      "join",
			Usage:     "report a player connection",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				idFlag,
				cli.StringFlag{
					Name:  "name, N",
					Value: "",
					Usage: "*player `NAME`",
				},
			},
			Action: runJoin,
		},
		{
			Name:      "quit",
			Usage:     "report a player disconnection",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{idFlag},
			Action:    runQuit,
		},
		{
			Name:      "display-name",
			Usage:     "set the display name of an online player",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				idFlag,
				cli.StringFlag{
					Name:  "name, N",
					Value: "",
					Usage: " display `NAME`, blank to revert",
				},
			},
			Action: runDisplayName,
		},
		{
			Name:   "info",
			Usage:  "display identityd status",
			Action: runInfo,
		},
		{
			Name:      "names",
			Usage:     "dump the recorded names from a stopped identityd's database",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "database, D",
					Value: "",
					Usage: "*leveldb `DIRECTORY`",
				},
			},
			Action: runNames,
		},
		{
			Name:  "version",
			Usage: "display identity-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// connect unless the command works offline
	app.Before = func(c *cli.Context) error {
		m := &metadata{
			connect: c.GlobalString("connect"),
			useTLS:  c.GlobalBool("tls"),
			verbose: c.GlobalBool("verbose"),
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		c.App.Metadata["config"] = m

		switch c.Args().Get(0) {
		case "", "help", "h", "version", "names":
			return nil
		}

		if m.verbose {
			fmt.Fprintf(m.e, "connect: %s  tls: %v\n", m.connect, m.useTLS)
		}
		client, err := rpccalls.NewClient(m.connect, m.useTLS, m.verbose, m.e)
		if nil != err {
			return err
		}
		m.client = client
		return nil
	}

	app.After = func(c *cli.Context) error {
		m, ok := c.App.Metadata["config"].(*metadata)
		if ok && nil != m.client {
			m.client.Close()
		}
		return nil
	}

	return app
}
