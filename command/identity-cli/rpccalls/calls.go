// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/identitycache/rpc/events"
	"github.com/bitmark-inc/identitycache/rpc/identities"
	"github.com/bitmark-inc/identitycache/rpc/node"
)

// Get - a cached identity, optionally creating it
func (c *Client) Get(id string, create bool) (*identities.Entry, error) {
	method := "Identities.Get"
	if create {
		method = "Identities.GetOrCreate"
	}
	var reply identities.GetReply
	if err := c.call(method, &identities.GetArguments{ID: id}, &reply); err != nil {
		return nil, err
	}
	return &reply.Identity, nil
}

// FindByName - exact or prefix name search
func (c *Client) FindByName(name string, prefix bool, displayNames bool, count int) ([]identities.Entry, error) {
	method := "Identities.FindByName"
	if prefix {
		method = "Identities.FindByNamePrefix"
	}
	arguments := identities.FindArguments{
		Name:         name,
		DisplayNames: displayNames,
		Count:        count,
	}
	var reply identities.ListReply
	if err := c.call(method, &arguments, &reply); err != nil {
		return nil, err
	}
	return reply.Identities, nil
}

// FindByIDPrefix - id prefix search
func (c *Client) FindByIDPrefix(prefix string, count int) ([]identities.Entry, error) {
	var reply identities.ListReply
	if err := c.call("Identities.FindByIDPrefix", &identities.PrefixArguments{Prefix: prefix, Count: count}, &reply); err != nil {
		return nil, err
	}
	return reply.Identities, nil
}

// Online - the connected players
func (c *Client) Online(count int) ([]identities.Entry, error) {
	var reply identities.ListReply
	if err := c.call("Identities.Online", &identities.OnlineArguments{Count: count}, &reply); err != nil {
		return nil, err
	}
	return reply.Identities, nil
}

// Join - report a player connection
func (c *Client) Join(id string, name string) (*events.Reply, error) {
	var reply events.Reply
	if err := c.call("Events.Join", &events.JoinArguments{ID: id, Name: name}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Quit - report a player disconnection
func (c *Client) Quit(id string) (*events.Reply, error) {
	var reply events.Reply
	if err := c.call("Events.Quit", &events.QuitArguments{ID: id}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// DisplayName - report a display name change
func (c *Client) DisplayName(id string, displayName string) (*events.Reply, error) {
	var reply events.Reply
	if err := c.call("Events.DisplayName", &events.DisplayNameArguments{ID: id, DisplayName: displayName}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Info - request status from identityd
func (c *Client) Info() (*node.InfoReply, error) {
	var reply node.InfoReply
	if err := c.call("Node.Info", &node.InfoArguments{}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
