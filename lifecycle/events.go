// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package lifecycle - turn connection events into online set changes
package lifecycle

import (
	"github.com/google/uuid"
)

// Join - a player has connected with the given name
type Join struct {
	ID   uuid.UUID
	Name string
}

// Quit - a player has disconnected
type Quit struct {
	ID uuid.UUID
}

// DisplayName - an online player's display name has changed
type DisplayName struct {
	ID          uuid.UUID
	DisplayName string
}

// Player - a player that is already connected when the adapter starts
type Player = Join
