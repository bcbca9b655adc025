// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	colourCode = regexp.MustCompile(`(?i)[§&][0-9a-fk-orx]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// NormaliseName - the key used by the name index
//
// player names are case insensitive and never contain whitespace or
// colour codes so folding the case is enough
func NormaliseName(name string) string {
	return strings.ToLower(name)
}

// NormaliseDisplayName - compare display names that may contain
// colour codes, spaces and underscores
//
// colour codes are removed, outer space trimmed, each underscore and
// each run of whitespace becomes a dash and the result is lower case
func NormaliseDisplayName(displayName string) string {
	s := StripColour(displayName)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "_", "-")
	s = whitespace.ReplaceAllString(s, "-")
	return strings.ToLower(s)
}

// NormaliseID - the key used by the id index, also applied to prefixes
func NormaliseID(id string) string {
	return strings.ToLower(id)
}

// IDKey - the id index key of an id
func IDKey(id uuid.UUID) string {
	return NormaliseID(id.String())
}

// StripColour - remove legacy § and & formatting codes
func StripColour(s string) string {
	return colourCode.ReplaceAllString(s, "")
}
