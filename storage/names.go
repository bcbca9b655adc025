// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/identitycache/fault"
)

const namePrefix = 'N'

// Record - what is stored for one player
type Record struct {
	Name     string `json:"name"`
	LastSeen int64  `json:"lastSeen"`
}

func nameKey(id uuid.UUID) []byte {
	key := make([]byte, 0, 1+len(id))
	key = append(key, namePrefix)
	return append(key, id[:]...)
}

// LoadRecord - the stored record for id
func (s *Store) LoadRecord(id uuid.UUID) (Record, error) {
	key := nameKey(id)

	value, present, cached := s.cache.Get(string(key))
	if !cached {
		v, err := s.db.Get(key, nil)
		switch {
		case leveldb.ErrNotFound == err:
			s.cache.Set(dbDelete, string(key), nil)
		case nil != err:
			return Record{}, err
		default:
			s.cache.Set(dbPut, string(key), v)
			value = v
			present = true
		}
	}
	if !present {
		return Record{}, fault.ErrNameNotFound
	}

	var r Record
	if err := json.Unmarshal(value, &r); nil != err {
		return Record{}, fmt.Errorf("record: %s  error: %w", id, err)
	}
	return r, nil
}

// LoadName - the last known name for id
func (s *Store) LoadName(id uuid.UUID) (string, error) {
	r, err := s.LoadRecord(id)
	if nil != err {
		return "", err
	}
	return r.Name, nil
}

// LastKnownName - resolver interface
func (s *Store) LastKnownName(id uuid.UUID) (string, error) {
	return s.LoadName(id)
}

// SaveName - record name as the last name id was seen with
func (s *Store) SaveName(id uuid.UUID, name string) error {
	if "" == name {
		return fault.ErrInvalidName
	}
	value, err := json.Marshal(Record{
		Name:     name,
		LastSeen: time.Now().Unix(),
	})
	if nil != err {
		return err
	}

	key := nameKey(id)
	if err := s.db.Put(key, value, nil); nil != err {
		return err
	}
	s.cache.Set(dbPut, string(key), value)
	s.log.Debugf("saved: %s  name: %q", id, name)
	return nil
}

// DeleteName - forget id, not an error if it was unknown
func (s *Store) DeleteName(id uuid.UUID) error {
	key := nameKey(id)
	if err := s.db.Delete(key, nil); nil != err {
		return err
	}
	s.cache.Set(dbDelete, string(key), nil)
	return nil
}

// Names - visit every record in id order until fn returns false
func (s *Store) Names(fn func(id uuid.UUID, r Record) bool) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{namePrefix}), nil)
	defer iter.Release()

	for iter.Next() {
		key := iter.Key()
		id, err := uuid.FromBytes(key[1:])
		if nil != err {
			s.log.Warnf("skip bad key: %x  error: %s", key, err)
			continue
		}
		var r Record
		if err := json.Unmarshal(iter.Value(), &r); nil != err {
			s.log.Warnf("skip bad record: %s  error: %s", id, err)
			continue
		}
		if !fn(id, r) {
			break
		}
	}
	return iter.Error()
}
