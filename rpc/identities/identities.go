// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identities

import (
	"iter"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/identity"
	"github.com/bitmark-inc/identitycache/manager"
	"github.com/bitmark-inc/identitycache/rpc/ratelimit"
)

const (
	rateLimitIdentities = 200
	rateBurstIdentities = 100

	// limit for count
	MaximumCount = 100
)

// Identities - type for RPC calls
//
// every manager access goes through the executor
type Identities struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Executor manager.Executor
	Manager  *manager.Manager
}

// New - create identity RPC handler
func New(log *logger.L, executor manager.Executor, m *manager.Manager) *Identities {
	return &Identities{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitIdentities, rateBurstIdentities),
		Executor: executor,
		Manager:  m,
	}
}

// Entry - one identity as seen by clients
type Entry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Online      bool   `json:"online"`
	DisplayName string `json:"displayName,omitempty"`
}

// ---

// GetArguments - arguments for Get and GetOrCreate
type GetArguments struct {
	ID string `json:"id"`
}

// GetReply - result from Get and GetOrCreate
type GetReply struct {
	Identity Entry `json:"identity"`
}

// Get - a cached identity, never creates one
func (ids *Identities) Get(arguments *GetArguments, reply *GetReply) error {
	if err := ratelimit.Limit(ids.Limiter); nil != err {
		return err
	}

	id, err := identity.ParseID(arguments.ID)
	if nil != err {
		return err
	}

	found := false
	err = ids.Executor.Do(func() {
		if u := ids.Manager.Get(id); nil != u {
			reply.Identity = ids.entry(u)
			found = true
		}
	})
	if nil != err {
		return err
	}
	if !found {
		return fault.ErrNotFound
	}
	return nil
}

// GetOrCreate - the cached identity or a new one
//
// the name is resolved away from the coordinator
func (ids *Identities) GetOrCreate(arguments *GetArguments, reply *GetReply) error {
	if err := ratelimit.Limit(ids.Limiter); nil != err {
		return err
	}

	id, err := identity.ParseID(arguments.ID)
	if nil != err {
		return err
	}

	var result <-chan *identity.Identity
	err = ids.Executor.Do(func() {
		result = ids.Manager.GetOrCreateAsync(id)
	})
	if nil != err {
		return err
	}

	u, ok := <-result
	if !ok {
		return fault.ErrCoordinatorStopped
	}

	err = ids.Executor.Do(func() {
		reply.Identity = ids.entry(u)
	})
	if nil != err {
		return err
	}
	ids.Log.Debugf("get or create: %s", u)
	return nil
}

// ---

// FindArguments - arguments for name searches
type FindArguments struct {
	Name         string `json:"name"`
	DisplayNames bool   `json:"displayNames"`
	Count        int    `json:"count"`
}

// PrefixArguments - arguments for id prefix search
type PrefixArguments struct {
	Prefix string `json:"prefix"`
	Count  int    `json:"count"`
}

// ListReply - result from searches
type ListReply struct {
	Identities []Entry `json:"identities"`
}

// FindByName - identities with exactly this name
func (ids *Identities) FindByName(arguments *FindArguments, reply *ListReply) error {
	if err := ratelimit.LimitN(ids.Limiter, arguments.Count, MaximumCount); nil != err {
		return err
	}
	if "" == arguments.Name {
		return fault.ErrInvalidName
	}
	return ids.collect(arguments.Count, reply, func() iter.Seq[*identity.Identity] {
		return ids.Manager.FindByName(arguments.Name, arguments.DisplayNames)
	})
}

// FindByNamePrefix - identities whose name starts with the prefix
func (ids *Identities) FindByNamePrefix(arguments *FindArguments, reply *ListReply) error {
	if err := ratelimit.LimitN(ids.Limiter, arguments.Count, MaximumCount); nil != err {
		return err
	}
	return ids.collect(arguments.Count, reply, func() iter.Seq[*identity.Identity] {
		return ids.Manager.FindByNamePrefix(arguments.Name, arguments.DisplayNames)
	})
}

// FindByIDPrefix - identities whose id starts with the prefix
func (ids *Identities) FindByIDPrefix(arguments *PrefixArguments, reply *ListReply) error {
	if err := ratelimit.LimitN(ids.Limiter, arguments.Count, MaximumCount); nil != err {
		return err
	}
	return ids.collect(arguments.Count, reply, func() iter.Seq[*identity.Identity] {
		return ids.Manager.FindByIDPrefix(arguments.Prefix)
	})
}

// ---

// OnlineArguments - arguments for Online
type OnlineArguments struct {
	Count int `json:"count"`
}

// Online - the connected players in id order
func (ids *Identities) Online(arguments *OnlineArguments, reply *ListReply) error {
	if err := ratelimit.LimitN(ids.Limiter, arguments.Count, MaximumCount); nil != err {
		return err
	}
	return ids.collect(arguments.Count, reply, func() iter.Seq[*identity.Identity] {
		return func(yield func(*identity.Identity) bool) {
			for _, u := range ids.Manager.Online() {
				if !yield(u) {
					return
				}
			}
		}
	})
}

// run a query on the coordinator and keep up to count results
func (ids *Identities) collect(count int, reply *ListReply, query func() iter.Seq[*identity.Identity]) error {
	entries := make([]Entry, 0, count)
	err := ids.Executor.Do(func() {
		for u := range query() {
			entries = append(entries, ids.entry(u))
			if len(entries) >= count {
				break
			}
		}
	})
	if nil != err {
		return err
	}
	reply.Identities = entries
	return nil
}

// must run on the coordinator
func (ids *Identities) entry(u *identity.Identity) Entry {
	e := Entry{
		ID:   u.ID().String(),
		Name: u.Name(),
	}
	if displayName, ok := ids.Manager.DisplayName(u.ID()); ok {
		e.Online = true
		if displayName != e.Name {
			e.DisplayName = displayName
		}
	}
	return e
}
