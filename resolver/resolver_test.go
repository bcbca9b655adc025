// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package resolver_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/identitycache/mocks"
	"github.com/bitmark-inc/identitycache/resolver"
)

func TestChainFirstNameWins(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	id := uuid.New()
	first := mocks.NewMockResolver(ctl)
	second := mocks.NewMockResolver(ctl)
	third := mocks.NewMockResolver(ctl)

	first.EXPECT().LastKnownName(id).Return("", resolver.ErrUnknown).Times(1)
	second.EXPECT().LastKnownName(id).Return("Second", nil).Times(1)
	third.EXPECT().LastKnownName(gomock.Any()).Times(0)

	name, err := resolver.Chain{first, second, third}.LastKnownName(id)
	require.NoError(t, err)
	assert.Equal(t, "Second", name)
}

func TestChainFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	id := uuid.New()
	broken := errors.New("broken source")

	failing := mocks.NewMockResolver(ctl)
	failing.EXPECT().LastKnownName(id).Return("", broken).Times(1)

	_, err := resolver.Chain{failing, resolver.None}.LastKnownName(id)
	assert.Equal(t, broken, err)

	_, err = resolver.Chain{}.LastKnownName(id)
	assert.Equal(t, resolver.ErrUnknown, err)
}

func TestFunc(t *testing.T) {
	r := resolver.Func(func(id uuid.UUID) (string, error) {
		return "name-" + id.String()[:4], nil
	})
	name, err := r.LastKnownName(uuid.MustParse("12345678-0000-4000-8000-000000000000"))
	require.NoError(t, err)
	assert.Equal(t, "name-1234", name)
}
