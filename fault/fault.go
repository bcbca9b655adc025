// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type PreconditionError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised           = ExistsError("already initialised")
	ErrCertificateFileAlreadyExists = ExistsError("certificate file already exists")
	ErrCoordinatorStopped           = ProcessError("coordinator stopped")
	ErrDatabaseIsNewer              = ProcessError("database is newer than this program")
	ErrIndexInconsistent            = ProcessError("index is inconsistent")
	ErrInvalidCount                 = InvalidError("invalid count")
	ErrInvalidID                    = InvalidError("invalid identity id")
	ErrInvalidIPAddress             = InvalidError("invalid IP address")
	ErrInvalidLoggerChannel         = InvalidError("invalid logger channel")
	ErrInvalidName                  = InvalidError("invalid name")
	ErrInvalidStructPointer         = InvalidError("invalid struct pointer")
	ErrKeyFileAlreadyExists         = ExistsError("key file already exists")
	ErrMissingParameters            = InvalidError("missing parameters")
	ErrNameNotFound                 = NotFoundError("last known name not found")
	ErrNilListener                  = InvalidError("removal listener is nil")
	ErrNilValue                     = InvalidError("cache value is nil")
	ErrNotInitialised               = NotFoundError("not initialised")
	ErrNotOnline                    = NotFoundError("identity is not online")
	ErrNotFound                     = NotFoundError("identity not found")
	ErrPreconditionFailed           = PreconditionError("identity is not currently cached")
	ErrQueueReleased                = ProcessError("queue released")
	ErrRateLimiting                 = InvalidError("rate limiting")
	ErrTooManyConnections           = ProcessError("too many connections")
	ErrUnknownUserCacheEntry        = InvalidError("unknown user cache entry")
)

// Error - the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string       { return string(e) }
func (e InvalidError) Error() string      { return string(e) }
func (e NotFoundError) Error() string     { return string(e) }
func (e PreconditionError) Error() string { return string(e) }
func (e ProcessError) Error() string      { return string(e) }

// determine the class of an error, wrapped errors are unwrapped
func IsErrExists(e error) bool       { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool      { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool     { var t NotFoundError; return errors.As(e, &t) }
func IsErrPrecondition(e error) bool { var t PreconditionError; return errors.As(e, &t) }
func IsErrProcess(e error) bool      { var t ProcessError; return errors.As(e, &t) }
