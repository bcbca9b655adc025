// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/identitycache/fault"
)

var (
	ErrExistsOne       = fault.ExistsError("exists one ")
	ErrInvalidOne      = fault.InvalidError("invalid one")
	ErrNotFoundOne     = fault.NotFoundError("not found one")
	ErrPreconditionOne = fault.PreconditionError("precondition one")
	ErrProcessOne      = fault.ProcessError("process one")
)

// test that the error classes are distinct and survive wrapping
func TestClasses(t *testing.T) {
	errorList := []struct {
		err          error
		exists       bool
		invalid      bool
		notFound     bool
		precondition bool
		process      bool
	}{
		{ErrExistsOne, true, false, false, false, false},
		{ErrInvalidOne, false, true, false, false, false},
		{ErrNotFoundOne, false, false, true, false, false},
		{ErrPreconditionOne, false, false, false, true, false},
		{ErrProcessOne, false, false, false, false, true},
		{fault.ErrPreconditionFailed, false, false, false, true, false},
		{fault.ErrNotOnline, false, false, true, false, false},
		{fmt.Errorf("wrapped: %w", fault.ErrIndexInconsistent), false, false, false, false, true},
		{fmt.Errorf("wrapped: %w", fault.ErrNilListener), false, true, false, false, false},
	}

	for i, e := range errorList {
		assert.Equal(t, e.exists, fault.IsErrExists(e.err), "%d: exists: %s", i, e.err)
		assert.Equal(t, e.invalid, fault.IsErrInvalid(e.err), "%d: invalid: %s", i, e.err)
		assert.Equal(t, e.notFound, fault.IsErrNotFound(e.err), "%d: not found: %s", i, e.err)
		assert.Equal(t, e.precondition, fault.IsErrPrecondition(e.err), "%d: precondition: %s", i, e.err)
		assert.Equal(t, e.process, fault.IsErrProcess(e.err), "%d: process: %s", i, e.err)
	}
}

func TestPanicf(t *testing.T) {
	assert.PanicsWithValue(t, "bad entry: 42", func() {
		fault.Panicf("bad entry: %d", 42)
	})
}
