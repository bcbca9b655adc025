// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/identitycache/manager"
)

const (
	defaultSampleInterval = 10 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// Sampler - background process copying manager statistics to the
// gauges
type Sampler struct {
	log      *logger.L
	metrics  *Metrics
	manager  *manager.Manager
	executor manager.Executor
	interval time.Duration
}

// NewSampler - the manager is only read through the executor
func NewSampler(m *Metrics, mgr *manager.Manager, executor manager.Executor, interval time.Duration, log *logger.L) *Sampler {
	if interval <= 0 {
		interval = defaultSampleInterval
	}
	return &Sampler{
		log:      log,
		metrics:  m,
		manager:  mgr,
		executor: executor,
		interval: interval,
	}
}

// Sample - take one sample now
func (s *Sampler) Sample() error {
	var stats manager.Stats
	err := s.executor.Do(func() {
		stats = s.manager.Stats()
	})
	if nil != err {
		return err
	}
	s.metrics.Update(stats)
	return nil
}

// Run - background process
func (s *Sampler) Run(args interface{}, shutdown <-chan struct{}) {
	s.log.Info("starting…")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			if err := s.Sample(); nil != err {
				s.log.Warnf("sample error: %s", err)
			}
		}
	}

	s.log.Info("shutting down…")
	s.log.Flush()
}

// Server - background process serving /metrics
type Server struct {
	log    *logger.L
	server *http.Server
}

// NewServer - listen on address when run
func NewServer(address string, m *Metrics, log *logger.L) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		log: log,
		server: &http.Server{
			Addr:              address,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run - background process
func (s *Server) Run(args interface{}, shutdown <-chan struct{}) {
	s.log.Infof("listening on: %s", s.server.Addr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := s.server.ListenAndServe()
		if nil != err && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("serve: %s  error: %s", s.server.Addr, err)
		}
	}()

	select {
	case <-shutdown:
	case <-done:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); nil != err {
		s.log.Warnf("shutdown error: %s", err)
	}
	<-done

	s.log.Info("shutting down…")
	s.log.Flush()
}
