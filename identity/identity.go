// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identity - a known player, identified by a UUID and carrying
// the last name it was seen with
package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bitmark-inc/identitycache/fault"
)

// Identity - a known player
//
// the id never changes, the name may be updated by the manager
// whenever the player is seen with a different name
type Identity struct {
	id   uuid.UUID
	name string
}

// New - create an identity, an empty name means the name is unknown
func New(id uuid.UUID, name string) *Identity {
	return &Identity{
		id:   id,
		name: cleanName(name),
	}
}

// ID - the unique id
func (u *Identity) ID() uuid.UUID {
	return u.id
}

// Name - the last known name or "" if not known
func (u *Identity) Name() string {
	return u.name
}

// HasName - true if a name is known
func (u *Identity) HasName() bool {
	return "" != u.name
}

// SetName - record a new last known name
//
// only the manager calls this, it must also update its name index
func (u *Identity) SetName(name string) {
	u.name = cleanName(name)
}

// Equal - identities are the same if their ids match
func (u *Identity) Equal(other *Identity) bool {
	if nil == u || nil == other {
		return u == other
	}
	return u.id == other.id
}

// String - for logging
func (u *Identity) String() string {
	return fmt.Sprintf("Identity[id=%s, name=%s]", u.id, u.name)
}

// PrettyString - "name (id)" or just the id when no name is known
func (u *Identity) PrettyString() string {
	if "" == u.name {
		return u.id.String()
	}
	return u.name + " (" + u.id.String() + ")"
}

// ParseID - convert text to an id
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if nil != err {
		return uuid.Nil, fmt.Errorf("%w: %q", fault.ErrInvalidID, s)
	}
	return id, nil
}

func cleanName(name string) string {
	return strings.TrimSpace(name)
}
