// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package weakcache_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/weakcache"
)

// large enough and holding a pointer so it is never tiny-allocated
type item struct {
	name    string
	payload [4]int64
}

func newItem(name string) *item {
	return &item{name: name}
}

// store a value that nothing else references
//
//go:noinline
func putUnreferenced(c *weakcache.Cache[string, item], key string) {
	c.Put(key, newItem(key))
}

func collectUntil(t *testing.T, condition func() bool) {
	t.Helper()
	assert.Eventually(t, func() bool {
		runtime.GC()
		return condition()
	}, 5*time.Second, 10*time.Millisecond)
}

type removals struct {
	keys []string
}

func (r *removals) listener(key string) {
	r.keys = append(r.keys, key)
}

func TestPutGet(t *testing.T) {
	c := weakcache.New[string, item]()

	a := newItem("a")
	previous, replaced := c.Put("a", a)
	assert.Nil(t, previous)
	assert.False(t, replaced)

	assert.Same(t, a, c.Get("a"))
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
	assert.Nil(t, c.Get("b"))
	assert.Equal(t, 1, c.Len())

	runtime.KeepAlive(a)
}

func TestPutNilPanics(t *testing.T) {
	c := weakcache.New[string, item]()
	assert.PanicsWithValue(t, fault.ErrNilValue, func() {
		c.Put("a", nil)
	})
}

func TestReplaceNotifies(t *testing.T) {
	c := weakcache.New[string, item]()
	r := &removals{}
	_, err := c.RegisterRemovalListener(r.listener)
	require.NoError(t, err)

	a1 := newItem("a1")
	a2 := newItem("a2")
	c.Put("a", a1)
	previous, replaced := c.Put("a", a2)

	assert.True(t, replaced)
	assert.Same(t, a1, previous)
	assert.Same(t, a2, c.Get("a"))
	assert.Equal(t, []string{"a"}, r.keys, "replacement not reported once")

	runtime.KeepAlive(a1)
	runtime.KeepAlive(a2)
}

func TestRemoveAndClear(t *testing.T) {
	c := weakcache.New[string, item]()
	r := &removals{}
	_, err := c.RegisterRemovalListener(r.listener)
	require.NoError(t, err)

	a := newItem("a")
	b := newItem("b")
	d := newItem("d")
	c.Put("a", a)
	c.Put("b", b)
	c.Put("d", d)

	removed, ok := c.Remove("a")
	assert.True(t, ok)
	assert.Same(t, a, removed)
	assert.Nil(t, c.Get("a"))
	assert.Equal(t, []string{"a"}, r.keys)

	_, ok = c.Remove("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, r.keys, "missing key reported")

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.ElementsMatch(t, []string{"a", "b", "d"}, r.keys)

	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
	runtime.KeepAlive(d)
}

func TestCollectedValueIsRemoved(t *testing.T) {
	c := weakcache.New[string, item]()
	r := &removals{}
	_, err := c.RegisterRemovalListener(r.listener)
	require.NoError(t, err)

	kept := newItem("kept")
	c.Put("kept", kept)
	putUnreferenced(c, "gone")

	collectUntil(t, func() bool {
		c.Cleanup()
		return 1 == len(r.keys)
	})

	assert.Equal(t, []string{"gone"}, r.keys)
	assert.Nil(t, c.Get("gone"))
	assert.Same(t, kept, c.Get("kept"))
	assert.Equal(t, 1, c.Len())

	runtime.KeepAlive(kept)
}

// a late collection notice for a replaced value must not evict the
// value that replaced it
func TestStaleCollectionKeepsSuccessor(t *testing.T) {
	c := weakcache.New[string, item]()
	r := &removals{}
	_, err := c.RegisterRemovalListener(r.listener)
	require.NoError(t, err)

	putUnreferenced(c, "a")
	successor := newItem("successor")
	c.Put("a", successor)
	assert.Equal(t, []string{"a"}, r.keys, "replacement not reported")

	// give the first value every chance to be collected and queued
	for i := 0; i < 5; i += 1 {
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
	}
	c.Cleanup()

	assert.Same(t, successor, c.Get("a"))
	assert.Equal(t, []string{"a"}, r.keys, "stale entry reported twice")

	runtime.KeepAlive(successor)
}

func TestValues(t *testing.T) {
	c := weakcache.New[string, item]()
	a := newItem("a")
	b := newItem("b")
	c.Put("a", a)
	c.Put("b", b)
	putUnreferenced(c, "gone")

	collectUntil(t, func() bool {
		return 2 == c.Len()
	})

	names := []string{}
	for v := range c.Values() {
		names = append(names, v.name)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())

	// early termination
	n := 0
	for range c.Values() {
		n += 1
		break
	}
	assert.Equal(t, 1, n)

	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

func TestListeners(t *testing.T) {
	c := weakcache.New[string, item]()

	_, err := c.RegisterRemovalListener(nil)
	assert.Equal(t, fault.ErrNilListener, err)

	r1 := &removals{}
	r2 := &removals{}
	id1, err := c.RegisterRemovalListener(r1.listener)
	require.NoError(t, err)
	id2, err := c.RegisterRemovalListener(r2.listener)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	a := newItem("a")
	c.Put("a", a)
	c.Remove("a")
	assert.Equal(t, []string{"a"}, r1.keys)
	assert.Equal(t, []string{"a"}, r2.keys)

	assert.True(t, c.UnregisterRemovalListener(id1))
	assert.False(t, c.UnregisterRemovalListener(id1), "unregistered twice")

	c.Put("a", a)
	c.Remove("a")
	assert.Equal(t, []string{"a"}, r1.keys, "unregistered listener called")
	assert.Equal(t, []string{"a", "a"}, r2.keys)

	runtime.KeepAlive(a)
}

// a listener that panics does not prevent the others from running
func TestPanickingListener(t *testing.T) {
	c := weakcache.New[string, item]()

	var recovered []interface{}
	c.SetErrorHandler(func(key string, r interface{}) {
		recovered = append(recovered, r)
	})

	_, err := c.RegisterRemovalListener(func(key string) {
		panic("listener failed")
	})
	require.NoError(t, err)
	r := &removals{}
	_, err = c.RegisterRemovalListener(r.listener)
	require.NoError(t, err)

	a := newItem("a")
	c.Put("a", a)
	assert.NotPanics(t, func() {
		c.Remove("a")
	})

	assert.Equal(t, []string{"a"}, r.keys)
	assert.Equal(t, []interface{}{"listener failed"}, recovered)

	runtime.KeepAlive(a)
}

// a listener registered during notification is only called for later
// removals
func TestListenerRegisteredDuringNotification(t *testing.T) {
	c := weakcache.New[string, item]()

	late := &removals{}
	registered := false
	_, err := c.RegisterRemovalListener(func(key string) {
		if !registered {
			registered = true
			_, err := c.RegisterRemovalListener(late.listener)
			assert.NoError(t, err)
		}
	})
	require.NoError(t, err)

	a := newItem("a")
	b := newItem("b")
	c.Put("a", a)
	c.Put("b", b)

	c.Remove("a")
	assert.Empty(t, late.keys)

	c.Remove("b")
	assert.Equal(t, []string{"b"}, late.keys)

	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}
