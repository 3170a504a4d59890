//----------------------------------------------------------------------
// This file is part of dtnsim.
//
// dtnsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// dtnsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//----------------------------------------------------------------------

package core

// ConnectionID addresses a Connection in a ConnectionArena. Interfaces
// keep an ordered list of IDs rather than pointers, so that the
// interface<->connection<->interface triangle never has to be walked or
// torn down as a reference cycle.
type ConnectionID uint64

// Connection is a single, currently-or-formerly-up link between two
// interfaces of the same type. Once torn down a Connection is removed
// from its arena and must not be consulted again.
type Connection struct {
	ID    ConnectionID
	ifA   NetworkInterface
	ifB   NetworkInterface
	up    bool
	speed int
}

// IsUp reports whether the connection is still live.
func (c *Connection) IsUp() bool { return c.up }

// Speed is the negotiated transfer speed: the lower of the two
// endpoints' transmitSpeed at the moment the connection was formed.
func (c *Connection) Speed() int { return c.speed }

// GetOtherInterface returns the endpoint of c that is not self, or nil if
// self is not one of c's two endpoints.
func (c *Connection) GetOtherInterface(self NetworkInterface) NetworkInterface {
	switch self {
	case c.ifA:
		return c.ifB
	case c.ifB:
		return c.ifA
	default:
		return nil
	}
}

// GetOtherNode returns the host at the far end of c from self, or nil if
// self is not one of c's two endpoint hosts.
func (c *Connection) GetOtherNode(self *DTNHost) *DTNHost {
	switch self {
	case c.ifA.Host():
		return c.ifB.Host()
	case c.ifB.Host():
		return c.ifA.Host()
	default:
		return nil
	}
}

// ConnectionArena owns the canonical Connection values for a run. The
// simulation loop is single-threaded and cooperative, so the arena needs
// no internal locking.
type ConnectionArena struct {
	next ConnectionID
	byID map[ConnectionID]*Connection
}

// NewConnectionArena returns an empty arena.
func NewConnectionArena() *ConnectionArena {
	return &ConnectionArena{byID: make(map[ConnectionID]*Connection)}
}

func (a *ConnectionArena) new(ifA, ifB NetworkInterface, speed int) *Connection {
	a.next++
	c := &Connection{ID: a.next, ifA: ifA, ifB: ifB, up: true, speed: speed}
	a.byID[c.ID] = c
	return c
}

func (a *ConnectionArena) get(id ConnectionID) *Connection {
	return a.byID[id]
}

func (a *ConnectionArena) remove(id ConnectionID) {
	delete(a.byID, id)
}

// Len reports how many connections are currently live, mainly for tests
// and diagnostics.
func (a *ConnectionArena) Len() int {
	return len(a.byID)
}
