// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package manager

import (
	"sort"

	"github.com/google/uuid"

	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/identity"
)

// OnConnect - a player has connected
//
// the identity is created if needed and pinned by the online set, a
// changed name is recorded and re-indexed
func (m *Manager) OnConnect(id uuid.UUID, name string) *identity.Identity {
	u := m.GetOrCreate(id)

	if _, ok := m.online[id]; ok {
		m.log.Warnf("connect: %s is already online", u)
	}
	m.online[id] = &onlineEntry{
		identity: u,
	}

	if "" != name && u.Name() != name {
		m.log.Infof("rename: %s  to: %q", u, name)
		u.SetName(name)
		m.index.UpdateNameMapping(u)
	}
	m.log.Debugf("connect: %s", u)
	return u
}

// OnDisconnect - a player has disconnected
//
// the identity may be reclaimed at any time afterwards
func (m *Manager) OnDisconnect(id uuid.UUID) {
	if _, ok := m.online[id]; !ok {
		m.log.Warnf("disconnect: %s was not online", id)
		return
	}
	delete(m.online, id)
	m.log.Debugf("disconnect: %s", id)
}

// SetDisplayName - the transient display name of an online player,
// an empty name reverts to the player name
func (m *Manager) SetDisplayName(id uuid.UUID, displayName string) error {
	entry, ok := m.online[id]
	if !ok {
		return fault.ErrNotOnline
	}
	entry.displayName = displayName
	return nil
}

// DisplayName - the display name of an online player
func (m *Manager) DisplayName(id uuid.UUID) (string, bool) {
	entry, ok := m.online[id]
	if !ok {
		return "", false
	}
	return entry.display(), true
}

// IsOnline - true if the player is connected
func (m *Manager) IsOnline(id uuid.UUID) bool {
	_, ok := m.online[id]
	return ok
}

// Online - the connected players in id order
func (m *Manager) Online() []*identity.Identity {
	entries := m.onlineEntries()
	result := make([]*identity.Identity, len(entries))
	for i, entry := range entries {
		result[i] = entry.identity
	}
	return result
}

// snapshot of the online set in id order
func (m *Manager) onlineEntries() []*onlineEntry {
	entries := make([]*onlineEntry, 0, len(m.online))
	for _, entry := range m.online {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return identity.IDKey(entries[i].identity.ID()) < identity.IDKey(entries[j].identity.ID())
	})
	return entries
}

func (e *onlineEntry) display() string {
	if "" != e.displayName {
		return e.displayName
	}
	return e.identity.Name()
}
