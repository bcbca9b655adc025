// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package manager

import (
	"iter"
	"strings"

	"github.com/google/uuid"

	"github.com/bitmark-inc/identitycache/identity"
)

// FindByIDPrefix - cached identities whose id text starts with prefix,
// in id order
func (m *Manager) FindByIDPrefix(prefix string) iter.Seq[*identity.Identity] {
	m.cache.Cleanup()
	return m.index.MatchByIDPrefix(prefix)
}

// FindByNamePrefix - cached identities whose name starts with prefix,
// in name order
//
// with includeDisplayNames the online players whose display name
// starts with the prefix follow, in id order, unless already yielded.
// Names are compared case insensitively, display names in their
// normalised form.
func (m *Manager) FindByNamePrefix(prefix string, includeDisplayNames bool) iter.Seq[*identity.Identity] {
	m.cache.Cleanup()
	normalised := identity.NormaliseDisplayName(prefix)
	return m.find(m.index.MatchByNamePrefix(prefix), includeDisplayNames, func(displayName string) bool {
		return strings.HasPrefix(identity.NormaliseDisplayName(displayName), normalised)
	})
}

// FindByName - cached identities with exactly this name, optionally
// followed by online players with this display name
func (m *Manager) FindByName(name string, includeDisplayNames bool) iter.Seq[*identity.Identity] {
	m.cache.Cleanup()
	normalised := identity.NormaliseDisplayName(name)
	return m.find(m.index.MatchByName(name), includeDisplayNames, func(displayName string) bool {
		return identity.NormaliseDisplayName(displayName) == normalised
	})
}

// chain the name index matches with online display name matches
func (m *Manager) find(byName iter.Seq[*identity.Identity], includeDisplayNames bool, displayMatch func(string) bool) iter.Seq[*identity.Identity] {
	if !includeDisplayNames {
		return byName
	}
	return func(yield func(*identity.Identity) bool) {
		seen := make(map[uuid.UUID]struct{})
		for u := range byName {
			seen[u.ID()] = struct{}{}
			if !yield(u) {
				return
			}
		}
		for _, entry := range m.onlineEntries() {
			if _, ok := seen[entry.identity.ID()]; ok {
				continue
			}
			if !displayMatch(entry.display()) {
				continue
			}
			if !yield(entry.identity) {
				return
			}
		}
	}
}
