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

import "math/rand"

//----------------------------------------------------------------------
// NetworkInterface is modeled as an interface so that future radio
// variants (directional antennas, interference-aware radios, ...) can
// override update/connect/replicate while sharing baseInterface's state
// and bookkeeping. SimpleInterface is the one concrete variant this
// module ships.
//----------------------------------------------------------------------

// ActivenessHandler decides whether an interface is switched on at a
// given simulation time. jitter is the interface's own fixed per-run
// jitter draw, so that a fleet of otherwise-identical interfaces doesn't
// all flip on and off in lockstep.
type ActivenessHandler func(simTime float64, jitter int) bool

// AlwaysActive is the default handler: the interface is never switched
// off by schedule (it can still go inactive through Energy.value).
func AlwaysActive(simTime float64, jitter int) bool { return true }

// ActiveExcept builds a handler that is active everywhere except inside
// the given [from,to) windows (offset by the interface's jitter draw).
func ActiveExcept(windows ...[2]float64) ActivenessHandler {
	return func(simTime float64, jitter int) bool {
		t := simTime - float64(jitter)
		for _, w := range windows {
			if t >= w[0] && t < w[1] {
				return false
			}
		}
		return true
	}
}

// NetworkInterface is one radio attached to a DTNHost.
type NetworkInterface interface {
	Host() *DTNHost
	SetHost(h *DTNHost)
	InterfaceType() string
	TransmitRange() float64
	TransmitSpeed() int
	ScanInterval() float64
	Connections() []*Connection
	IsActive() bool
	IsScanning() bool
	Connect(other NetworkInterface) bool
	DestroyConnection(other NetworkInterface)
	Update()
	Replicate() NetworkInterface
	ModuleValueChanged(key string, value any)

	// unexported: package-internal bookkeeping, never called outside core.
	addConnectionID(id ConnectionID)
	removeConnectionID(id ConnectionID)
	hasConnectionID(id ConnectionID) bool
	syncLocation()
}

//----------------------------------------------------------------------

// baseInterface holds every piece of state and behavior that does not
// depend on the concrete radio variant. It is meant to be embedded, not
// used directly.
type baseInterface struct {
	self NetworkInterface

	ifType              string
	transmitRange       float64
	oldTransmitRange    float64
	transmitSpeed       int
	scanInterval        float64
	lastScanTime        float64
	activenessHandler   ActivenessHandler
	activenessJitterMax int
	activenessJitter    int
	activeState         bool

	connIDs   []ConnectionID
	host      *DTNHost
	optimizer ConnectivityOptimizer
	rng       *rand.Rand
}

// bind records the outer concrete value so that baseInterface methods can
// hand it to the arena/listeners/optimizer as the interface's own
// identity (Go has no implicit "self" across an embedded type).
func (b *baseInterface) bind(self NetworkInterface) {
	b.self = self
}

func (b *baseInterface) drawJitter() {
	if b.scanInterval > 0 {
		b.lastScanTime = b.rng.Float64() * b.scanInterval
	} else {
		b.lastScanTime = 0
	}
	if b.activenessJitterMax > 0 {
		b.activenessJitter = b.rng.Intn(b.activenessJitterMax)
	} else {
		b.activenessJitter = 0
	}
}

func (b *baseInterface) Host() *DTNHost            { return b.host }
func (b *baseInterface) InterfaceType() string     { return b.ifType }
func (b *baseInterface) TransmitRange() float64    { return b.transmitRange }
func (b *baseInterface) TransmitSpeed() int        { return b.transmitSpeed }
func (b *baseInterface) ScanInterval() float64     { return b.scanInterval }

// SetHost attaches the interface to a host, registering the three bus
// properties the first time any interface does so, subscribing to all
// three regardless, and joining the shared connectivity grid for its
// type if it transmits at all.
func (b *baseInterface) SetHost(h *DTNHost) {
	b.host = h
	if !h.busPropsRegistered {
		h.bus.AddProperty("Network.scanInterval", b.scanInterval)
		h.bus.AddProperty("Network.radioRange", b.transmitRange)
		h.bus.AddProperty("Network.speed", b.transmitSpeed)
		h.busPropsRegistered = true
	}
	h.bus.Subscribe("Network.scanInterval", b)
	h.bus.Subscribe("Network.radioRange", b)
	h.bus.Subscribe("Network.speed", b)
	if b.transmitRange > 0 {
		b.optimizer = h.ctx.Factory.GetGrid(b.ifType, b.transmitRange)
		b.optimizer.AddInterface(b.self)
	}
}

// ModuleValueChanged applies a bus-driven configuration change to this
// interface's own fields.
func (b *baseInterface) ModuleValueChanged(key string, value any) {
	switch key {
	case "Network.scanInterval":
		f, ok := value.(float64)
		if !ok {
			FatalfRun(b.host.ctx, "moduleValueChanged: %s expects float64, got %T", key, value)
		}
		b.scanInterval = f
	case "Network.speed":
		i, ok := value.(int)
		if !ok {
			FatalfRun(b.host.ctx, "moduleValueChanged: %s expects int, got %T", key, value)
		}
		b.transmitSpeed = i
	case "Network.radioRange":
		f, ok := value.(float64)
		if !ok {
			FatalfRun(b.host.ctx, "moduleValueChanged: %s expects float64, got %T", key, value)
		}
		b.transmitRange = f
	default:
		FatalfRun(b.host.ctx, "moduleValueChanged: unexpected key %q", key)
	}
}

// IsActive reports whether the interface is currently switched on: true
// unconditionally if no activeness handler is installed, otherwise the
// handler's verdict ANDed with the host's Energy.value gate. A true->false
// or false->true transition publishes the range change onto the host bus
// (0 going inactive, the stashed range coming back).
func (b *baseInterface) IsActive() bool {
	var active bool
	if b.activenessHandler == nil {
		active = true
	} else {
		active = b.activenessHandler(b.host.ctx.Clock.Get(), b.activenessJitter)
		if active {
			if v, ok := b.host.bus.GetProperty("Energy.value"); ok {
				if f, ok2 := v.(float64); ok2 && f <= 0 {
					active = false
				}
			}
		}
	}
	if active != b.activeState {
		if active {
			b.host.bus.UpdateProperty("Network.radioRange", b.oldTransmitRange)
		} else {
			b.oldTransmitRange = b.transmitRange
			b.host.bus.UpdateProperty("Network.radioRange", 0.0)
		}
		b.activeState = active
	}
	return active
}

// IsScanning reports whether this exact instant is one of the interface's
// fixed scan rounds. scanInterval == 0 means "always scanning while
// active". Before the interface's first scheduled round has arrived,
// isScanning is false.
func (b *baseInterface) IsScanning() bool {
	if !b.self.IsActive() {
		return false
	}
	if b.scanInterval == 0 {
		return true
	}
	t := b.host.ctx.Clock.Get()
	if t < b.lastScanTime {
		return false
	}
	if t > b.lastScanTime+b.scanInterval {
		b.lastScanTime = t
		return true
	}
	return t == b.lastScanTime
}

//----------------------------------------------------------------------
// Connection bookkeeping.
//----------------------------------------------------------------------

func (b *baseInterface) addConnectionID(id ConnectionID) {
	b.connIDs = append(b.connIDs, id)
}

func (b *baseInterface) removeConnectionID(id ConnectionID) {
	for i, cid := range b.connIDs {
		if cid == id {
			b.connIDs = append(b.connIDs[:i], b.connIDs[i+1:]...)
			return
		}
	}
}

func (b *baseInterface) hasConnectionID(id ConnectionID) bool {
	for _, cid := range b.connIDs {
		if cid == id {
			return true
		}
	}
	return false
}

// Connections resolves this interface's ordered connection IDs against
// the arena and returns the live Connection values.
func (b *baseInterface) Connections() []*Connection {
	out := make([]*Connection, 0, len(b.connIDs))
	for _, id := range b.connIDs {
		if c := b.host.ctx.Arena.get(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (b *baseInterface) connectionIDTo(other NetworkInterface) (ConnectionID, bool) {
	for _, id := range b.connIDs {
		c := b.host.ctx.Arena.get(id)
		if c != nil && c.GetOtherInterface(b.self) == other {
			return id, true
		}
	}
	return 0, false
}

func (b *baseInterface) hasConnectionTo(other NetworkInterface) bool {
	_, ok := b.connectionIDTo(other)
	return ok
}

// inRange delegates to the shared grid, which alone knows about any
// obstruction hook; transmitRange <= 0 on either side never connects
// regardless of distance.
func (b *baseInterface) inRange(other NetworkInterface) bool {
	if b.transmitRange <= 0 || other.TransmitRange() <= 0 {
		return false
	}
	if b.optimizer == nil {
		return false
	}
	return b.optimizer.InRange(b.self, other)
}

// Connect is the public connect hook: it validates compatibility, range
// and activeness before forming a link. Concrete variants with different
// compatibility rules can shadow this method.
func (b *baseInterface) Connect(other NetworkInterface) bool {
	if b.ifType != other.InterfaceType() {
		return false
	}
	if !b.self.IsActive() || !other.IsActive() {
		return false
	}
	if b.hasConnectionTo(other) {
		return false
	}
	if !b.inRange(other) {
		return false
	}
	b.doConnect(other)
	return true
}

func (b *baseInterface) doConnect(other NetworkInterface) {
	speed := b.transmitSpeed
	if s := other.TransmitSpeed(); s < speed {
		speed = s
	}
	con := b.host.ctx.Arena.new(b.self, other, speed)
	b.connIDs = append(b.connIDs, con.ID)
	other.addConnectionID(con.ID)
	oh, ot := b.host, other.Host()
	b.host.ctx.Listeners.fireConnUp(oh, ot)
	oh.ConnectionUp(con)
	ot.ConnectionUp(con)
}

// DestroyConnection tears down the live connection to other. Absence of
// the connection on either side is a fatal invariant violation: it means
// the bidirectionality invariant has already been broken somewhere else.
func (b *baseInterface) DestroyConnection(other NetworkInterface) {
	id, ok := b.connectionIDTo(other)
	if !ok {
		FatalfRun(b.host.ctx, "destroyConnection: no connection from host %d to host %d", b.host.Address(), other.Host().Address())
	}
	if !other.hasConnectionID(id) {
		FatalfRun(b.host.ctx, "destroyConnection: connection %d missing on peer host %d", id, other.Host().Address())
	}
	con := b.host.ctx.Arena.get(id)
	con.up = false
	oh, ot := b.host, other.Host()
	b.host.ctx.Listeners.fireConnDown(oh, ot)
	b.removeConnectionID(id)
	other.removeConnectionID(id)
	b.host.ctx.Arena.remove(id)
	oh.ConnectionDown(con)
	ot.ConnectionDown(con)
}

// Update is the public update hook. An inactive interface tears down
// every live connection; an active one first tears down every connection
// whose peer is no longer in range, then asks the connectivity optimizer
// for nearby candidates and connects or disconnects as range changes.
func (b *baseInterface) Update() {
	if !b.self.IsActive() {
		for _, c := range b.Connections() {
			if other := c.GetOtherInterface(b.self); other != nil {
				b.DestroyConnection(other)
			}
		}
		return
	}
	for _, c := range b.Connections() {
		if other := c.GetOtherInterface(b.self); other != nil && !b.inRange(other) {
			b.DestroyConnection(other)
		}
	}
	if b.optimizer == nil {
		return
	}
	for _, cand := range b.optimizer.GetNearInterfaces(b.self) {
		if cand.InterfaceType() != b.ifType {
			continue
		}
		connected := b.hasConnectionTo(cand)
		near := b.inRange(cand)
		switch {
		case connected && !near:
			b.DestroyConnection(cand)
		case !connected && b.self.IsScanning() && cand.IsActive() && near:
			b.doConnect(cand)
		}
	}
}

// syncLocation tells the connectivity optimizer that this interface's
// host has moved, so it can be re-bucketed.
func (b *baseInterface) syncLocation() {
	if b.optimizer != nil {
		b.optimizer.UpdateLocation(b.self)
	}
}

//----------------------------------------------------------------------
// SimpleInterface: the one concrete radio variant this module ships.
// It adds nothing to baseInterface's behavior beyond Replicate, which
// must know its own concrete Go type to construct a fresh copy.
//----------------------------------------------------------------------

// SimpleInterface is a symmetric, omnidirectional radio: any two
// SimpleInterfaces of matching type within range of each other (and
// both active, one of them scanning) can connect.
type SimpleInterface struct {
	baseInterface
}

// NewSimpleInterface builds a SimpleInterface, drawing its lastScanTime
// and activeness jitter from ctx's class-wide deterministic RNG.
func NewSimpleInterface(ctx *Context, ifType string, transmitRange float64, transmitSpeed int, scanInterval float64, handler ActivenessHandler, activenessJitterMax int) (*SimpleInterface, error) {
	if transmitRange < 0 {
		return nil, NewSettingsError("transmitRange", "must be >= 0")
	}
	if transmitSpeed < 0 {
		return nil, NewSettingsError("transmitSpeed", "must be >= 0")
	}
	if scanInterval < 0 {
		return nil, NewSettingsError("scanInterval", "must be >= 0")
	}
	if activenessJitterMax < 0 {
		return nil, NewSettingsError("activenessOffsetJitter", "must be >= 0")
	}
	s := &SimpleInterface{}
	s.ifType = ifType
	s.transmitRange = transmitRange
	s.oldTransmitRange = transmitRange
	s.transmitSpeed = transmitSpeed
	s.scanInterval = scanInterval
	s.activenessHandler = handler
	s.activenessJitterMax = activenessJitterMax
	s.activeState = true
	s.rng = ctx.JitterRNG
	s.bind(s)
	s.drawJitter()
	return s, nil
}

// Replicate returns a fresh SimpleInterface with the same configuration
// but its own connection list and a freshly drawn jitter (still taken
// from the shared class-wide RNG, so overall determinism is preserved).
func (s *SimpleInterface) Replicate() NetworkInterface {
	clone := &SimpleInterface{}
	clone.ifType = s.ifType
	clone.transmitRange = s.transmitRange
	clone.oldTransmitRange = s.transmitRange
	clone.transmitSpeed = s.transmitSpeed
	clone.scanInterval = s.scanInterval
	clone.activenessHandler = s.activenessHandler
	clone.activenessJitterMax = s.activenessJitterMax
	clone.activeState = true
	clone.rng = s.rng
	clone.bind(clone)
	clone.drawJitter()
	return clone
}
