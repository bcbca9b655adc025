// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/identitycache/background"
	"github.com/bitmark-inc/identitycache/coordinator"
	"github.com/bitmark-inc/identitycache/counter"
	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/lifecycle"
	"github.com/bitmark-inc/identitycache/manager"
	"github.com/bitmark-inc/identitycache/messagebus"
	"github.com/bitmark-inc/identitycache/metrics"
	"github.com/bitmark-inc/identitycache/resolver"
	"github.com/bitmark-inc/identitycache/rpc/certificate"
	"github.com/bitmark-inc/identitycache/rpc/listeners"
	"github.com/bitmark-inc/identitycache/rpc/server"
	"github.com/bitmark-inc/identitycache/storage"
	"github.com/bitmark-inc/identitycache/usercache"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "define", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'd'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// KEY=VALUE pairs passed to the configuration script
	variables := make(map[string]string)
	for _, d := range options["define"] {
		kv := strings.SplitN(d, "=", 2)
		if 2 != len(kv) || "" == kv[0] {
			exitwithstatus.Message("%s: define: %q is not KEY=VALUE", program, d)
		}
		variables[kv[0]] = kv[1]
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, variables)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("database: %q", theConfiguration.Database.Name)
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)

	// start the name store
	log.Info("initialise storage")
	store, err := storage.Open(theConfiguration.Database.Name, storage.ReadWrite, logger.New("storage"))
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	stats := metrics.New()

	// last known names: the server's user cache first, then the store
	sources := resolver.Chain{}
	var processes background.Processes
	if "" != theConfiguration.UserCache {
		log.Infof("user cache: %q", theConfiguration.UserCache)
		file, err := usercache.New(theConfiguration.UserCache, logger.New("usercache"))
		if nil != err {
			log.Criticalf("user cache error: %s", err)
			exitwithstatus.Message("user cache error: %s", err)
		}
		sources = append(sources, file)
		processes = append(processes, file)
	}
	sources = append(sources, store)

	// the coordinator owns the manager and is stopped last
	c := coordinator.New(logger.New("coordinator"), theConfiguration.CoordinatorQueue)
	owner := background.Start(background.Processes{c}, nil)
	defer owner.Stop()

	m := manager.New(theConfiguration.Manager, stats.InstrumentResolver(sources), c, logger.New("manager"))
	if _, err := m.RegisterRemovalListener(stats.OnRemoved); nil != err {
		log.Criticalf("register metrics error: %s", err)
		exitwithstatus.Message("register metrics error: %s", err)
	}
	defer func() {
		if err := c.Do(m.Stop); nil != err {
			log.Errorf("manager stop error: %s", err)
		}
	}()

	queue := messagebus.New(theConfiguration.QueueSize)
	adapter := lifecycle.New(queue, c, m, store, logger.New("lifecycle"))
	processes = append(processes, adapter)

	// client RPC, optionally over TLS
	var tlsConfig *tls.Config
	if "" != theConfiguration.ClientRPC.Certificate {
		var fingerprint [32]byte
		tlsConfig, fingerprint, err = certificate.Load(log, "client_rpc", theConfiguration.ClientRPC.Certificate, theConfiguration.ClientRPC.PrivateKey)
		if nil != err {
			exitwithstatus.Message("client_rpc certificate error: %s", err)
		}
		log.Infof("client_rpc: SHA3-256 fingerprint: %x", fingerprint)
	}
	rpcCount := counter.NewLimited(theConfiguration.ClientRPC.MaximumConnections)
	rpcServer := server.Create(logger.New("rpc"), version, rpcCount, c, m, queue, adapter)
	rpcListener, err := listeners.NewRPC(&theConfiguration.ClientRPC, logger.New("client_rpc"), rpcCount, rpcServer, tlsConfig)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	processes = append(processes, rpcListener)

	if "" != theConfiguration.Metrics.Listen {
		interval := time.Duration(theConfiguration.Metrics.SampleInterval) * time.Second
		processes = append(processes,
			metrics.NewSampler(stats, m, c, interval, logger.New("sampler")),
			metrics.NewServer(theConfiguration.Metrics.Listen, stats, logger.New("metrics")),
		)
	}

	p := background.Start(processes, nil)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	p.Stop()
}
