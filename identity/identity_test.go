// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/identity"
)

func TestIdentity(t *testing.T) {
	id := uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")

	u := identity.New(id, "Notch")
	assert.Equal(t, id, u.ID())
	assert.Equal(t, "Notch", u.Name())
	assert.True(t, u.HasName())
	assert.Equal(t, "Identity[id=069a79f4-44e9-4726-a5be-fca90e38aaf5, name=Notch]", u.String())
	assert.Equal(t, "Notch (069a79f4-44e9-4726-a5be-fca90e38aaf5)", u.PrettyString())

	u.SetName("  ")
	assert.False(t, u.HasName())
	assert.Equal(t, "069a79f4-44e9-4726-a5be-fca90e38aaf5", u.PrettyString())

	u.SetName("jeb_")
	assert.Equal(t, "jeb_", u.Name())
}

func TestEqualByIDOnly(t *testing.T) {
	id := uuid.New()
	u1 := identity.New(id, "first")
	u2 := identity.New(id, "second")
	u3 := identity.New(uuid.New(), "first")

	assert.True(t, u1.Equal(u2))
	assert.False(t, u1.Equal(u3))
	assert.False(t, u1.Equal(nil))

	var none *identity.Identity
	assert.True(t, none.Equal(nil))
}

func TestParseID(t *testing.T) {
	id, err := identity.ParseID(" 069A79F4-44E9-4726-A5BE-FCA90E38AAF5 ")
	require.NoError(t, err)
	assert.Equal(t, "069a79f4-44e9-4726-a5be-fca90e38aaf5", id.String())

	_, err = identity.ParseID("not-a-uuid")
	assert.ErrorIs(t, err, fault.ErrInvalidID)
	assert.True(t, fault.IsErrInvalid(err))
}

func TestNormalise(t *testing.T) {
	assert.Equal(t, "notch", identity.NormaliseName("NoTcH"))
	assert.Equal(t, "jeb_", identity.NormaliseName("Jeb_"))

	displayNames := []struct {
		in  string
		out string
	}{
		{"Notch", "notch"},
		{"  §cRed §lName  ", "red-name"},
		{"&aGreen_Name", "green-name"},
		{"a_ b", "a--b"},
		{"tab\tand  spaces", "tab-and-spaces"},
		{"§x§1§2§3§4§5§6Hex", "hex"},
		{"", ""},
	}
	for _, d := range displayNames {
		assert.Equal(t, d.out, identity.NormaliseDisplayName(d.in), "display name: %q", d.in)
	}

	assert.Equal(t, "069a79f4", identity.NormaliseID("069A79F4"))
	assert.Equal(t, "069a79f4-44e9-4726-a5be-fca90e38aaf5", identity.IDKey(uuid.MustParse("069A79F4-44E9-4726-A5BE-FCA90E38AAF5")))
}
