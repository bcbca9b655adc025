// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared setup for package tests
package fixtures

import (
	"fmt"
	"os"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// SetupTestLogger - start a file logger in the package's testing directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the log files
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

// ID - a valid UUID whose text form starts with the hex digits of
// prefix followed by the decimal digits of n
//
// e.g. ID("a1", 7) is a1000000-0000-4000-8000-000000000007
func ID(prefix string, n int) uuid.UUID {
	tail := fmt.Sprintf("%012d", n)
	s := prefix + strings.Repeat("0", 8-len(prefix)) + "-0000-4000-8000-" + tail
	return uuid.MustParse(s)
}
