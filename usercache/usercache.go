// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package usercache - names from a game server's usercache.json
//
// the server rewrites the file as players join, the watcher reloads
// it whenever it changes so the resolver always answers from the
// latest copy
package usercache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/bitmark-inc/identitycache/fault"
)

// Entry - one element of the JSON array in the file
type Entry struct {
	Name      string `json:"name"`
	UUID      string `json:"uuid"`
	ExpiresOn string `json:"expiresOn"`
}

// File - the parsed contents of a user cache file
type File struct {
	sync.RWMutex
	log   *logger.L
	path  string
	names map[uuid.UUID]string
}

// New - read the file at path
func New(path string, log *logger.L) (*File, error) {
	absolute, err := filepath.Abs(filepath.Clean(path))
	if nil != err {
		return nil, err
	}
	f := &File{
		log:   log,
		path:  absolute,
		names: make(map[uuid.UUID]string),
	}
	if err := f.Reload(); nil != err {
		return nil, err
	}
	return f, nil
}

// Reload - read the file again, the previous contents are kept on error
func (f *File) Reload() error {
	data, err := os.ReadFile(f.path)
	if nil != err {
		return err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); nil != err {
		f.log.Errorf("parse: %s  error: %s", f.path, err)
		return err
	}

	names := make(map[uuid.UUID]string, len(entries))
	for _, e := range entries {
		id, err := uuid.Parse(e.UUID)
		if nil != err || "" == e.Name {
			f.log.Warnf("%s: entry: %+v  error: %s", f.path, e, fault.ErrUnknownUserCacheEntry)
			continue
		}
		names[id] = e.Name
	}

	f.Lock()
	f.names = names
	f.Unlock()

	f.log.Infof("loaded %d names from: %s", len(names), f.path)
	return nil
}

// LastKnownName - resolver interface
func (f *File) LastKnownName(id uuid.UUID) (string, error) {
	f.RLock()
	defer f.RUnlock()

	name, ok := f.names[id]
	if !ok {
		return "", fault.ErrNameNotFound
	}
	return name, nil
}

// Count - number of names loaded
func (f *File) Count() int {
	f.RLock()
	defer f.RUnlock()
	return len(f.names)
}

// Run - background process reloading the file when it changes
//
// the directory is watched since servers replace the file by renaming
// a new copy over it
func (f *File) Run(args interface{}, shutdown <-chan struct{}) {
	f.log.Info("starting…")

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		f.log.Errorf("new watcher error: %s", err)
		<-shutdown
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.path)); nil != err {
		f.log.Errorf("watch: %s  error: %s", f.path, err)
		<-shutdown
		return
	}

	base := filepath.Base(f.path)
loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event := <-watcher.Events:
			if filepath.Base(event.Name) != base || !isChange(event) {
				continue loop
			}
			f.log.Debugf("file event: %v", event)
			if err := f.Reload(); nil != err {
				f.log.Warnf("reload: %s  error: %s", f.path, err)
			}

		case err := <-watcher.Errors:
			f.log.Errorf("watcher error: %s", err)
		}
	}

	f.log.Info("shutting down…")
	f.log.Flush()
}

func isChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}
