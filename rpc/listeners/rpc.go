// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/identitycache/counter"
	"github.com/bitmark-inc/identitycache/fault"
)

const (
	logName            = "client_rpc"
	minConnectionCount = 1
)

// RPCConfiguration - configuration file data for RPC setup
//
// TLS is used when both certificate and private key are given
type RPCConfiguration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

// Listener - JSON RPC listener, a background process
type Listener struct {
	log       *logger.L
	server    *rpc.Server
	count     *counter.Counter
	tlsConfig *tls.Config
	network   []string
	addresses []string

	sync.Mutex
	listeners []net.Listener
	ready     chan struct{}
}

// NewRPC - validate the configuration
//
// count tracks the open connections and should be created with
// counter.NewLimited(configuration.MaximumConnections)
func NewRPC(
	configuration *RPCConfiguration,
	log *logger.L,
	count *counter.Counter,
	server *rpc.Server,
	tlsConfig *tls.Config,
) (*Listener, error) {
	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", logName, configuration.MaximumConnections)
		return nil, fault.ErrMissingParameters
	}
	if 0 == len(configuration.Listen) {
		log.Errorf("missing %s listen", logName)
		return nil, fault.ErrMissingParameters
	}

	addresses := make([]string, len(configuration.Listen))
	copy(addresses, configuration.Listen)
	network, err := parseListenAddress(addresses, log)
	if nil != err {
		return nil, err
	}

	r := &Listener{
		log:       log,
		server:    server,
		count:     count,
		tlsConfig: tlsConfig,
		network:   network,
		addresses: addresses,
		ready:     make(chan struct{}),
	}
	return r, nil
}

// Addresses - the bound addresses, valid after Ready is closed
func (r *Listener) Addresses() []net.Addr {
	r.Lock()
	defer r.Unlock()
	a := make([]net.Addr, len(r.listeners))
	for i, l := range r.listeners {
		a[i] = l.Addr()
	}
	return a
}

// Ready - closed once every address has been bound, or failed
func (r *Listener) Ready() <-chan struct{} {
	return r.ready
}

// Run - background process
func (r *Listener) Run(args interface{}, shutdown <-chan struct{}) {
	var wg sync.WaitGroup

	r.Lock()
	for i, address := range r.addresses {
		r.log.Infof("starting RPC server: %s", address)
		l, err := net.Listen(r.network[i], address)
		if nil != err {
			r.log.Errorf("rpc server listen: %s  error: %s", address, err)
			continue
		}
		if nil != r.tlsConfig {
			l = tls.NewListener(l, r.tlsConfig)
		}
		r.listeners = append(r.listeners, l)

		wg.Add(1)
		go func(l net.Listener) {
			defer wg.Done()
			r.serve(l)
		}(l)
	}
	r.Unlock()
	close(r.ready)

	<-shutdown

	r.Lock()
	for _, l := range r.listeners {
		_ = l.Close()
	}
	r.Unlock()
	wg.Wait()

	r.log.Info("shutting down…")
	r.log.Flush()
}

func (r *Listener) serve(listen net.Listener) {
	for {
		conn, err := listen.Accept()
		if nil != err {
			r.log.Infof("rpc accept terminated: %s", err)
			return
		}
		if !r.count.Acquire() {
			r.log.Warnf("reject: %s  error: %s", conn.RemoteAddr(), fault.ErrTooManyConnections)
			_ = conn.Close()
			continue
		}
		go func() {
			r.server.ServeCodec(jsonrpc.NewServerCodec(conn))
			_ = conn.Close()
			r.count.Release()
		}()
	}
}

// convert "*:PORT" and bracketed forms, returning the network of each
func parseListenAddress(addrs []string, log *logger.L) ([]string, error) {
	parsed := make([]string, len(addrs))
	for i, listen := range addrs {
		host, port, err := net.SplitHostPort(listen)
		if nil != err {
			log.Errorf("rpc server listen: %q  error: %s", listen, err)
			return nil, err
		}

		switch {
		case "*" == host:
			// on the assumption that this will listen on tcp4 and tcp6
			addrs[i] = "[::]:" + port
			parsed[i] = "tcp"
			continue
		case strings.Contains(host, ":"):
			parsed[i] = "tcp6"
		default:
			parsed[i] = "tcp4"
		}

		if ip := net.ParseIP(host); nil == ip {
			log.Errorf("rpc server listen: %q  error: %s", listen, fault.ErrInvalidIPAddress)
			return nil, fault.ErrInvalidIPAddress
		}
	}
	return parsed, nil
}
