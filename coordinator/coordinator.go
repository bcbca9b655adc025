// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coordinator - a single goroutine that owns the identity
// cache
//
// the cache, its indexes and the online set are not synchronised, so
// every access from another goroutine is submitted here as a closure
// and run in submission order
package coordinator

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/identitycache/fault"
)

// DefaultQueueSize - tasks that may wait before Do/Post block
const DefaultQueueSize = 100

// Coordinator - executes submitted closures one at a time
type Coordinator struct {
	log     *logger.L
	tasks   chan func()
	stopped chan struct{}
}

// New - create a coordinator, it does nothing until Run is started
func New(log *logger.L, queueSize int) *Coordinator {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Coordinator{
		log:     log,
		tasks:   make(chan func(), queueSize),
		stopped: make(chan struct{}),
	}
}

// Do - run fn on the coordinator and wait for it to finish
//
// must not be called from the coordinator itself
func (c *Coordinator) Do(fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	if c.isStopped() {
		return fault.ErrCoordinatorStopped
	}
	select {
	case c.tasks <- task:
	case <-c.stopped:
		return fault.ErrCoordinatorStopped
	}

	select {
	case <-finished:
		return nil
	case <-c.stopped:
		// the task may have been the last one run
		select {
		case <-finished:
			return nil
		default:
			return fault.ErrCoordinatorStopped
		}
	}
}

// Post - queue fn without waiting for it
func (c *Coordinator) Post(fn func()) error {
	if c.isStopped() {
		return fault.ErrCoordinatorStopped
	}
	select {
	case c.tasks <- fn:
		return nil
	case <-c.stopped:
		return fault.ErrCoordinatorStopped
	}
}

func (c *Coordinator) isStopped() bool {
	select {
	case <-c.stopped:
		return true
	default:
		return false
	}
}

// Run - background process executing tasks until shutdown
//
// tasks still queued at shutdown are discarded
func (c *Coordinator) Run(args interface{}, shutdown <-chan struct{}) {
	c.log.Info("starting…")
	defer close(c.stopped)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case task := <-c.tasks:
			task()
		}
	}

	dropped := len(c.tasks)
	if dropped > 0 {
		c.log.Warnf("discarding %d queued tasks", dropped)
	}
	c.log.Info("shutting down…")
	c.log.Flush()
}
