// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coordinator_test

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/identitycache/background"
	"github.com/bitmark-inc/identitycache/coordinator"
	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/fixtures"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestDoRunsInOrder(t *testing.T) {
	c := coordinator.New(logger.New(fixtures.LogCategory), 10)
	p := background.Start(background.Processes{c}, nil)
	defer p.Stop()

	// unsynchronised state touched only on the coordinator
	values := []int{}

	var wg sync.WaitGroup
	for i := 0; i < 20; i += 1 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := c.Do(func() {
				values = append(values, n)
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	count := 0
	require.NoError(t, c.Do(func() {
		count = len(values)
	}))
	assert.Equal(t, 20, count)
}

func TestPost(t *testing.T) {
	c := coordinator.New(logger.New(fixtures.LogCategory), 0)
	p := background.Start(background.Processes{c}, nil)
	defer p.Stop()

	done := make(chan int, 1)
	require.NoError(t, c.Post(func() {
		done <- 42
	}))

	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("posted task did not run")
	}
}

func TestStopped(t *testing.T) {
	c := coordinator.New(logger.New(fixtures.LogCategory), 1)
	p := background.Start(background.Processes{c}, nil)
	require.NoError(t, c.Do(func() {}))
	p.Stop()

	assert.Equal(t, fault.ErrCoordinatorStopped, c.Do(func() {}))
	assert.Equal(t, fault.ErrCoordinatorStopped, c.Post(func() {}))
}
