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

import "fmt"

// Router is the callback surface a routing layer implements to learn
// about connection transitions on a host. Routing itself is out of
// scope for this module; DTNHost only guarantees that these hooks fire
// at the right moments.
type Router interface {
	ConnectionUp(c *Connection)
	ConnectionDown(c *Connection)
}

// MovementModel supplies a host's next location. Movement itself is an
// external collaborator: this module only defines the contract and a
// couple of trivial fixtures good enough to exercise it in tests.
type MovementModel interface {
	NextLocation(h *DTNHost, dt float64) Coord
}

// DTNHost is one simulated node: an address, a location, a set of radio
// interfaces, a per-host bus, and an optional router.
type DTNHost struct {
	ctx     *Context
	address int
	location Coord
	interfaces []NetworkInterface
	bus     *Bus
	router  Router
	movement MovementModel

	busPropsRegistered bool
}

// NewDTNHost builds a host at the given address (must equal its eventual
// index in World.hosts, the address-index invariant) and initial location.
// Interfaces are attached afterward via AddInterface.
func NewDTNHost(ctx *Context, address int, loc Coord) *DTNHost {
	return &DTNHost{
		ctx:      ctx,
		address:  address,
		location: loc,
		bus:      NewBus(ctx),
	}
}

func (h *DTNHost) Address() int    { return h.address }
func (h *DTNHost) Location() Coord { return h.location }
func (h *DTNHost) Bus() *Bus       { return h.bus }
func (h *DTNHost) Context() *Context { return h.ctx }

// SetRouter installs the routing layer's callback surface. nil is valid
// and means connection transitions are simply not observed.
func (h *DTNHost) SetRouter(r Router) { h.router = r }

// SetMovement installs the movement model driving Move.
func (h *DTNHost) SetMovement(m MovementModel) { h.movement = m }

// Interfaces returns the host's attached radios, in attachment order.
func (h *DTNHost) Interfaces() []NetworkInterface {
	return h.interfaces
}

// AddInterface attaches an interface to this host.
func (h *DTNHost) AddInterface(i NetworkInterface) {
	i.SetHost(h)
	h.interfaces = append(h.interfaces, i)
}

// ConnectionUp forwards a connection-formed notification to the router,
// if one is installed.
func (h *DTNHost) ConnectionUp(c *Connection) {
	if h.router != nil {
		h.router.ConnectionUp(c)
	}
}

// ConnectionDown forwards a connection-torn-down notification to the
// router, if one is installed.
func (h *DTNHost) ConnectionDown(c *Connection) {
	if h.router != nil {
		h.router.ConnectionDown(c)
	}
}

// Update drives every attached interface's update() pass. When
// simulateConnections is false the host is frozen: interfaces keep their
// existing connections exactly as they are (used to implement World's
// simulateConnectionsOnce sticky-off option).
func (h *DTNHost) Update(simulateConnections bool) {
	if !simulateConnections {
		return
	}
	for _, i := range h.interfaces {
		i.Update()
	}
}

// Move advances the host's location by dt according to its movement
// model (a no-op if none is installed), then tells every interface to
// re-synchronize with the connectivity optimizer.
func (h *DTNHost) Move(dt float64) {
	if h.movement == nil {
		return
	}
	h.location = h.movement.NextLocation(h, dt)
	for _, i := range h.interfaces {
		i.syncLocation()
	}
}

func (h *DTNHost) String() string {
	return fmt.Sprintf("Host#%d@%s", h.address, h.location)
}
