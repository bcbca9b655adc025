// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package index_test

import (
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/fixtures"
	"github.com/bitmark-inc/identitycache/identity"
	"github.com/bitmark-inc/identitycache/index"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func newIndex(strict bool) *index.Index {
	return index.New(logger.New(fixtures.LogCategory), strict)
}

func add(ix *index.Index, cached map[uuid.UUID]*identity.Identity, u *identity.Identity) {
	cached[u.ID()] = u
	ix.AddIDMapping(u)
	ix.AddNameMapping(u)
}

func ids(seq func(func(*identity.Identity) bool)) []uuid.UUID {
	result := []uuid.UUID{}
	for u := range seq {
		result = append(result, u.ID())
	}
	return result
}

func TestIDPrefixOrdering(t *testing.T) {
	ix := newIndex(true)
	cached := make(map[uuid.UUID]*identity.Identity)

	b1 := identity.New(fixtures.ID("b1", 1), "")
	a2 := identity.New(fixtures.ID("a2", 2), "")
	a1 := identity.New(fixtures.ID("a1", 1), "")
	for _, u := range []*identity.Identity{b1, a2, a1} {
		add(ix, cached, u)
	}

	assert.Equal(t, []uuid.UUID{a1.ID(), a2.ID()}, ids(ix.MatchByIDPrefix("a")))
	assert.Equal(t, []uuid.UUID{a1.ID(), a2.ID()}, ids(ix.MatchByIDPrefix("A")), "prefix not normalised")
	assert.Equal(t, []uuid.UUID{b1.ID()}, ids(ix.MatchByIDPrefix("b1")))
	assert.Equal(t, []uuid.UUID{a1.ID(), a2.ID(), b1.ID()}, ids(ix.MatchByIDPrefix("")))
	assert.Empty(t, ids(ix.MatchByIDPrefix("c")))

	assert.Equal(t, 3, ix.IDCount())
	assert.Equal(t, 0, ix.NameCount(), "unnamed identities indexed by name")
	require.NoError(t, ix.Check(cached))
}

func TestNamePrefix(t *testing.T) {
	ix := newIndex(true)
	cached := make(map[uuid.UUID]*identity.Identity)

	alice := identity.New(fixtures.ID("01", 1), "Alice")
	alicia := identity.New(fixtures.ID("02", 2), "alicia")
	bob := identity.New(fixtures.ID("03", 3), "Bob")
	for _, u := range []*identity.Identity{bob, alicia, alice} {
		add(ix, cached, u)
	}

	assert.Equal(t, []uuid.UUID{alice.ID(), alicia.ID()}, ids(ix.MatchByNamePrefix("ALI")))
	assert.Equal(t, []uuid.UUID{alice.ID()}, ids(ix.MatchByNamePrefix("alice")))
	assert.Equal(t, []uuid.UUID{bob.ID()}, ids(ix.MatchByName("BOB")))
	assert.Empty(t, ids(ix.MatchByName("bo")))
	assert.Equal(t, 3, ix.NameCount())
	require.NoError(t, ix.Check(cached))
}

func TestSharedBucket(t *testing.T) {
	ix := newIndex(true)
	cached := make(map[uuid.UUID]*identity.Identity)

	old := identity.New(fixtures.ID("01", 1), "Steve")
	current := identity.New(fixtures.ID("02", 2), "steve")
	add(ix, cached, old)
	add(ix, cached, current)

	assert.Equal(t, 1, ix.NameCount())
	assert.Equal(t, []uuid.UUID{old.ID(), current.ID()}, ids(ix.MatchByName("Steve")))

	ix.OnEntryRemoved(old.ID())
	delete(cached, old.ID())
	assert.Equal(t, []uuid.UUID{current.ID()}, ids(ix.MatchByName("steve")))
	require.NoError(t, ix.Check(cached))

	ix.OnEntryRemoved(current.ID())
	delete(cached, current.ID())
	assert.Equal(t, 0, ix.NameCount(), "empty bucket kept")
	require.NoError(t, ix.Check(cached))
}

// the old name is taken from the reverse map, not from the renamed identity
func TestRename(t *testing.T) {
	ix := newIndex(true)
	cached := make(map[uuid.UUID]*identity.Identity)

	u1 := identity.New(fixtures.ID("01", 1), "Alice")
	add(ix, cached, u1)

	u1.SetName("Bob")
	ix.UpdateNameMapping(u1)

	assert.Empty(t, ids(ix.MatchByNamePrefix("ali")))
	assert.Equal(t, []uuid.UUID{u1.ID()}, ids(ix.MatchByNamePrefix("bob")))
	name, ok := ix.RecordedName(u1.ID())
	assert.True(t, ok)
	assert.Equal(t, "bob", name)
	require.NoError(t, ix.Check(cached))

	// case change only keeps the same bucket
	u1.SetName("BOB")
	ix.UpdateNameMapping(u1)
	assert.Equal(t, 1, ix.NameCount())
	require.NoError(t, ix.Check(cached))

	// losing the name removes the entry
	u1.SetName("")
	ix.UpdateNameMapping(u1)
	assert.Equal(t, 0, ix.NameCount())
	require.NoError(t, ix.Check(cached))

	// gaining a name adds it
	u1.SetName("Carol")
	ix.UpdateNameMapping(u1)
	assert.Equal(t, []uuid.UUID{u1.ID()}, ids(ix.MatchByName("carol")))
	require.NoError(t, ix.Check(cached))
}

func TestRemovalIsIdempotent(t *testing.T) {
	ix := newIndex(true)
	cached := make(map[uuid.UUID]*identity.Identity)

	u := identity.New(fixtures.ID("01", 1), "Alex")
	add(ix, cached, u)

	assert.NotPanics(t, func() {
		ix.OnEntryRemoved(u.ID())
		ix.OnEntryRemoved(u.ID())
		ix.RemoveIDMapping(u.ID())
		ix.RemoveNameMapping(u.ID())
		ix.OnEntryRemoved(fixtures.ID("ff", 9))
	})
	delete(cached, u.ID())

	assert.Equal(t, 0, ix.IDCount())
	assert.Equal(t, 0, ix.NameCount())
	require.NoError(t, ix.Check(cached))
}

func TestCheckFindsOrphans(t *testing.T) {
	ix := newIndex(false)
	cached := make(map[uuid.UUID]*identity.Identity)

	u := identity.New(fixtures.ID("01", 1), "Alex")
	add(ix, cached, u)
	require.NoError(t, ix.Check(cached))

	// index entry without a cached identity
	delete(cached, u.ID())
	err := ix.Check(cached)
	assert.ErrorIs(t, err, fault.ErrIndexInconsistent)

	// cached identity without index entries
	other := identity.New(fixtures.ID("02", 2), "Other")
	ix.OnEntryRemoved(u.ID())
	cached[other.ID()] = other
	err = ix.Check(cached)
	assert.ErrorIs(t, err, fault.ErrIndexInconsistent)

	// renamed without updating the index
	ix.AddIDMapping(other)
	ix.AddNameMapping(other)
	require.NoError(t, ix.Check(cached))
	other.SetName("Renamed")
	err = ix.Check(cached)
	assert.ErrorIs(t, err, fault.ErrIndexInconsistent)
}

//go:noinline
func addUnreferenced(ix *index.Index, id uuid.UUID, name string) {
	u := identity.New(id, name)
	ix.AddIDMapping(u)
	ix.AddNameMapping(u)
}

// collected identities are skipped even before the index is repaired
func TestDeadHandlesSkipped(t *testing.T) {
	ix := newIndex(true)

	live := identity.New(fixtures.ID("a1", 1), "Alive")
	ix.AddIDMapping(live)
	ix.AddNameMapping(live)
	addUnreferenced(ix, fixtures.ID("a2", 2), "Alien")

	assert.Eventually(t, func() bool {
		runtime.GC()
		return 1 == len(ids(ix.MatchByIDPrefix("a")))
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, []uuid.UUID{live.ID()}, ids(ix.MatchByNamePrefix("ali")))
	assert.Equal(t, 2, ix.IDCount(), "dead entry removed without notification")

	ix.OnEntryRemoved(fixtures.ID("a2", 2))
	assert.Equal(t, 1, ix.IDCount())
	assert.Equal(t, 1, ix.NameCount())

	runtime.KeepAlive(live)
}

func TestEarlyStop(t *testing.T) {
	ix := newIndex(true)
	cached := make(map[uuid.UUID]*identity.Identity)
	for i := 0; i < 10; i += 1 {
		add(ix, cached, identity.New(fixtures.ID("0a", i), "same"))
	}

	n := 0
	for range ix.MatchByName("same") {
		n += 1
		if 3 == n {
			break
		}
	}
	assert.Equal(t, 3, n)

	n = 0
	for range ix.MatchByIDPrefix("0a") {
		n += 1
		if 4 == n {
			break
		}
	}
	assert.Equal(t, 4, n)
}
