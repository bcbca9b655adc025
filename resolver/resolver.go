// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package resolver - sources of the last known name of an identity
package resolver

import (
	"github.com/google/uuid"

	"github.com/bitmark-inc/identitycache/fault"
)

// ErrUnknown - the source has no name for the id
var ErrUnknown = fault.ErrNameNotFound

// Resolver - find the last name an id was seen with
//
// may block on I/O, and may be called from any goroutine
type Resolver interface {
	LastKnownName(id uuid.UUID) (string, error)
}

// Func - adapt an ordinary function
type Func func(id uuid.UUID) (string, error)

// LastKnownName - call the function
func (f Func) LastKnownName(id uuid.UUID) (string, error) {
	return f(id)
}

// Chain - ask each resolver in turn, the first name found wins
//
// when no resolver knows the id the result is ErrUnknown unless one
// of them failed, in which case the first failure is returned
type Chain []Resolver

// LastKnownName - walk the chain
func (c Chain) LastKnownName(id uuid.UUID) (string, error) {
	var failure error
	for _, r := range c {
		name, err := r.LastKnownName(id)
		if nil == err && "" != name {
			return name, nil
		}
		if nil != err && !fault.IsErrNotFound(err) && nil == failure {
			failure = err
		}
	}
	if nil != failure {
		return "", failure
	}
	return "", ErrUnknown
}

// None - a resolver that never knows any name
var None = Func(func(uuid.UUID) (string, error) {
	return "", ErrUnknown
})
