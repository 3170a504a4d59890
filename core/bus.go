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

//----------------------------------------------------------------------
// ModuleCommunicationBus is a per-host, late-bound property store. Keys
// are dotted strings ("Network.radioRange"); values are one of the three
// typed variants the spec recognizes (float64, int, bool). A property may
// be registered only once per host; subscribers are notified synchronously,
// in subscription order, whenever the value changes.
//----------------------------------------------------------------------

// Subscriber receives synchronous notifications of bus value changes.
type Subscriber interface {
	ModuleValueChanged(key string, value any)
}

// Bus is the per-host property store.
type Bus struct {
	ctx         *Context
	values      map[string]any
	subscribers map[string][]Subscriber
}

// NewBus returns an empty bus bound to ctx, so its fatal diagnostics carry
// ctx's RunID.
func NewBus(ctx *Context) *Bus {
	return &Bus{
		ctx:         ctx,
		values:      make(map[string]any),
		subscribers: make(map[string][]Subscriber),
	}
}

// AddProperty registers a new key with its initial value. Registering the
// same key twice is a programmer error and is fatal, mirroring the
// "unknown bus key" fatal path on the read side.
func (b *Bus) AddProperty(key string, value any) {
	if _, ok := b.values[key]; ok {
		FatalfRun(b.ctx, "bus: property %q already registered", key)
	}
	b.values[key] = value
}

// Subscribe registers s to be notified of future changes to key.
func (b *Bus) Subscribe(key string, s Subscriber) {
	b.subscribers[key] = append(b.subscribers[key], s)
}

// UpdateProperty sets a new value for key and synchronously notifies every
// subscriber, in subscription order. key must already be registered.
func (b *Bus) UpdateProperty(key string, value any) {
	if _, ok := b.values[key]; !ok {
		FatalfRun(b.ctx, "bus: unknown property %q", key)
	}
	b.values[key] = value
	for _, s := range b.subscribers[key] {
		s.ModuleValueChanged(key, value)
	}
}

// GetProperty returns the current value for key.
func (b *Bus) GetProperty(key string) (any, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Float64 returns the value for key as a float64, failing fatally if the
// key is absent or the wrong type. Meant for readers that know the bus
// contract and expect the key to be present.
func (b *Bus) Float64(key string) float64 {
	v, ok := b.values[key]
	if !ok {
		FatalfRun(b.ctx, "bus: unknown property %q", key)
	}
	f, ok := v.(float64)
	if !ok {
		FatalfRun(b.ctx, "bus: property %q is not a float64 (%T)", key, v)
	}
	return f
}

// String returns a human-readable dump, mainly for diagnostics.
func (b *Bus) String() string {
	return fmt.Sprintf("Bus{%d properties}", len(b.values))
}
