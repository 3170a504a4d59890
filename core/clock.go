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

import "math"

//----------------------------------------------------------------------
// SimClock is a monotonic scalar simulation time, expressed in seconds.
// It is mutated only by World (and World's warmup pass); every other
// component only reads it. One instance lives on each simulator Context
// rather than as a package global, so that more than one simulation run
// can exist in a process without interfering with each other.
//----------------------------------------------------------------------

// SimClock holds the current simulation time.
type SimClock struct {
	t float64
}

// NewSimClock returns a clock reset to zero.
func NewSimClock() *SimClock {
	return &SimClock{t: 0}
}

// Get returns the current simulation time.
func (c *SimClock) Get() float64 {
	return c.t
}

// GetInt returns the current simulation time, floored to an integer.
func (c *SimClock) GetInt() int64 {
	return int64(math.Floor(c.t))
}

// Set the simulation time directly.
func (c *SimClock) Set(t float64) {
	c.t = t
}

// Advance the simulation time by a (non-negative) delta.
func (c *SimClock) Advance(delta float64) {
	c.t += delta
}

// Reset the clock to zero, as done at the start of each run.
func (c *SimClock) Reset() {
	c.t = 0
}
