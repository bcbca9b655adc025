// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lifecycle

import (
	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/bitmark-inc/identitycache/manager"
	"github.com/bitmark-inc/identitycache/messagebus"
)

// NameRecorder - persist the name a player connected with
type NameRecorder interface {
	SaveName(id uuid.UUID, name string) error
}

// Executor - runs a closure on the goroutine that owns the manager
type Executor interface {
	Do(func()) error
}

// Adapter - applies queued connection events to the manager
type Adapter struct {
	log      *logger.L
	queue    *messagebus.Queue
	executor Executor
	manager  *manager.Manager
	names    NameRecorder
}

// New - create an adapter, names may be nil
func New(queue *messagebus.Queue, executor Executor, m *manager.Manager, names NameRecorder, log *logger.L) *Adapter {
	return &Adapter{
		log:      log,
		queue:    queue,
		executor: executor,
		manager:  m,
		names:    names,
	}
}

// Seed - mark players that are already connected as online
func (a *Adapter) Seed(players []Player) error {
	err := a.executor.Do(func() {
		for _, p := range players {
			a.manager.OnConnect(p.ID, p.Name)
		}
	})
	if nil != err {
		return err
	}
	for _, p := range players {
		a.record(p.ID, p.Name)
	}
	a.log.Infof("seeded %d online players", len(players))
	return nil
}

// Run - background process consuming the queue until shutdown
func (a *Adapter) Run(args interface{}, shutdown <-chan struct{}) {
	a.log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-a.queue.Chan():
			a.process(item)
		}
	}

	a.queue.Release()
	a.log.Info("shutting down…")
	a.log.Flush()
}

// process - apply one event
func (a *Adapter) process(item messagebus.Message) {
	a.log.Debugf("from: %s  item: %+v", item.From, item.Item)

	var err error
	switch event := item.Item.(type) {

	case Join:
		err = a.executor.Do(func() {
			a.manager.OnConnect(event.ID, event.Name)
		})
		if nil == err {
			a.record(event.ID, event.Name)
		}

	case Quit:
		err = a.executor.Do(func() {
			a.manager.OnDisconnect(event.ID)
		})

	case DisplayName:
		var setErr error
		err = a.executor.Do(func() {
			setErr = a.manager.SetDisplayName(event.ID, event.DisplayName)
		})
		if nil == err && nil != setErr {
			a.log.Warnf("display name: %s  error: %s", event.ID, setErr)
		}

	default:
		a.log.Errorf("unknown item: %T from: %s", item.Item, item.From)
	}

	if nil != err {
		a.log.Errorf("item: %+v  error: %s", item.Item, err)
	}
}

// record - save the name outside the coordinator
func (a *Adapter) record(id uuid.UUID, name string) {
	if nil == a.names || "" == name {
		return
	}
	if err := a.names.SaveName(id, name); nil != err {
		a.log.Errorf("save name: %s  error: %s", id, err)
	}
}
