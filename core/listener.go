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

// ConnectionListener is notified, synchronously, whenever two hosts
// connect or disconnect.
type ConnectionListener interface {
	HostsConnected(a, b *DTNHost)
	HostsDisconnected(a, b *DTNHost)
}

// UpdateListener is notified once per World tick, after the host-update
// pass, with the full host list.
type UpdateListener interface {
	Updated(hosts []*DTNHost)
}

// ListenerRegistry fans out connection and update events to every
// registered listener, in registration order.
type ListenerRegistry struct {
	conn []ConnectionListener
	upd  []UpdateListener
}

// NewListenerRegistry returns an empty registry.
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{}
}

func (r *ListenerRegistry) AddConnectionListener(l ConnectionListener) {
	r.conn = append(r.conn, l)
}

func (r *ListenerRegistry) AddUpdateListener(l UpdateListener) {
	r.upd = append(r.upd, l)
}

func (r *ListenerRegistry) fireConnUp(a, b *DTNHost) {
	for _, l := range r.conn {
		l.HostsConnected(a, b)
	}
}

func (r *ListenerRegistry) fireConnDown(a, b *DTNHost) {
	for _, l := range r.conn {
		l.HostsDisconnected(a, b)
	}
}

func (r *ListenerRegistry) fireUpdated(hosts []*DTNHost) {
	for _, l := range r.upd {
		l.Updated(hosts)
	}
}
