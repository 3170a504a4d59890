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

import (
	"math/rand"

	"github.com/google/uuid"
)

//----------------------------------------------------------------------
// Context carries every piece of process-wide state a run needs: the
// clock, the connection arena, the listener registry, the grid factory
// and the class-wide deterministic RNG. This replaces true package
// globals so more than one simulation can run in the same process
// without sharing state.
//----------------------------------------------------------------------

// JitterSeed is the fixed seed the class-wide RNG is reset to at the
// start of every run, so per-interface jitter and lastScanTime draws
// reproduce regardless of creation order across runs.
const JitterSeed = 0

// Context is the per-run simulator state bundle.
type Context struct {
	Clock     *SimClock
	Arena     *ConnectionArena
	Listeners *ListenerRegistry
	Factory   *GridFactory
	JitterRNG *rand.Rand

	runID string
}

// NewContext returns a freshly reset Context, ready for a new run.
func NewContext() *Context {
	return &Context{
		Clock:     NewSimClock(),
		Arena:     NewConnectionArena(),
		Listeners: NewListenerRegistry(),
		Factory:   NewGridFactory(),
		JitterRNG: rand.New(rand.NewSource(JitterSeed)),
	}
}

// RunID returns a stable identifier for this run, generated lazily on
// first use so a Context that is never inspected never pays for one.
// Threaded into FatalfRun's diagnostics so fatal logs from concurrent or
// sequential runs in the same process are distinguishable.
func (c *Context) RunID() string {
	if c.runID == "" {
		c.runID = uuid.NewString()
	}
	return c.runID
}

// Reset reinitializes every resettable subsystem: the clock goes back to
// zero, the connection arena and grid factory are emptied, and the
// class-wide RNG is reseeded, so a second run built on the same Context
// reproduces the first bit-for-bit. Registered listeners are kept.
func (c *Context) Reset() {
	c.Clock.Reset()
	c.Arena = NewConnectionArena()
	c.Factory = NewGridFactory()
	c.JitterRNG = rand.New(rand.NewSource(JitterSeed))
}
