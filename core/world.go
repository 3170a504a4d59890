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
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"
)

// World owns the simulation clock, the host list and every registered
// event queue, and drives the tick loop. The scheduling model is
// single-threaded cooperative: Update must only ever be called from one
// goroutine; Cancel is the one exception, safe to call from any goroutine.
type World struct {
	ctx   *Context
	cfg   *Config
	hosts []*DTNHost

	queues    []EventQueue
	scheduled *ScheduledUpdatesQueue

	simulateConnections bool

	cancelled atomic.Bool
	started   bool
	wallStart time.Time
}

// NewWorld builds a World over an already-constructed host list. Hosts
// must satisfy the address-index invariant (hosts[i].Address() == i)
// before the run starts; this is checked here, and GetNodeByAddress
// asserts it again on every lookup.
func NewWorld(ctx *Context, cfg *Config, hosts []*DTNHost) (*World, error) {
	for i, h := range hosts {
		if h.Address() != i {
			return nil, NewSettingsError("hosts", fmt.Sprintf("host at index %d carries address %d", i, h.Address()))
		}
	}
	w := &World{
		ctx:                 ctx,
		cfg:                 cfg,
		hosts:               hosts,
		simulateConnections: true,
		scheduled:           NewScheduledUpdatesQueue(),
	}
	w.queues = append(w.queues, w.scheduled)
	return w, nil
}

// Hosts returns the host list in address order.
func (w *World) Hosts() []*DTNHost { return w.hosts }

// Context returns the run's shared state bundle.
func (w *World) Context() *Context { return w.ctx }

// ScheduledUpdates returns the built-in forced-update queue, so callers
// can schedule a host-update pass at an arbitrary time without a real
// event.
func (w *World) ScheduledUpdates() *ScheduledUpdatesQueue { return w.scheduled }

// AddEventQueue registers an additional external event source. Queue
// registration order is the tie-break when two queues report the same
// NextEventsTime: first-registered wins.
func (w *World) AddEventQueue(q EventQueue) {
	w.queues = append(w.queues, q)
}

// AddConnectionListener registers l to be notified of every connection
// transition for the life of the run.
func (w *World) AddConnectionListener(l ConnectionListener) {
	w.ctx.Listeners.AddConnectionListener(l)
}

// AddUpdateListener registers l to be notified once per completed tick.
func (w *World) AddUpdateListener(l UpdateListener) {
	w.ctx.Listeners.AddUpdateListener(l)
}

// Cancel requests the simulation stop at the next host-update boundary.
// Safe to call from a goroutine other than the one driving Update.
func (w *World) Cancel() { w.cancelled.Store(true) }

// IsCancelled reports whether Cancel has been called.
func (w *World) IsCancelled() bool { return w.cancelled.Load() }

// RunID returns a stable identifier for this run, generated lazily on
// first use so a World that is never inspected never pays for one.
func (w *World) RunID() string { return w.ctx.RunID() }

// GetNodeByAddress returns hosts[a], asserting the address-index
// invariant on the way; an out-of-range address is a fatal invariant
// violation, not a recoverable error.
func (w *World) GetNodeByAddress(a int) *DTNHost {
	if a < 0 || a >= len(w.hosts) {
		FatalfRun(w.ctx, "getNodeByAddress: address %d out of range [0,%d)", a, len(w.hosts))
	}
	h := w.hosts[a]
	if h.Address() != a {
		FatalfRun(w.ctx, "getNodeByAddress: address-index invariant violated at index %d", a)
	}
	return h
}

// nextQueue scans every registered queue and returns the one with the
// smallest NextEventsTime; ties keep the earliest-registered queue,
// since later candidates only replace the current best on strict <.
func (w *World) nextQueue() (EventQueue, float64) {
	var best EventQueue
	bestT := math.Inf(1)
	for _, q := range w.queues {
		if t := q.NextEventsTime(); t < bestT {
			best, bestT = q, t
		}
	}
	return best, bestT
}

// hostUpdatePass runs host.Update(simulateConnections) over every host.
// When shuffle is true and randomization is enabled, a fresh RNG seeded
// with floor(simTime) orders a working copy of the host list; otherwise
// hosts are visited in their fixed insertion order.
func (w *World) hostUpdatePass(shuffle bool) {
	order := w.hosts
	if shuffle && w.cfg.Optimization.RandomizeUpdateOrder {
		order = make([]*DTNHost, len(w.hosts))
		copy(order, w.hosts)
		r := rand.New(rand.NewSource(w.ctx.Clock.GetInt()))
		r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	for _, h := range order {
		if w.cancelled.Load() {
			return
		}
		h.Update(w.simulateConnections)
	}
}

// Update runs one tick of length delta, in order: optional real-time
// pacing, event draining, a full-interval movement pass, the clock jump,
// the final host-update pass, and listener fan-out.
func (w *World) Update(delta float64) {
	if !w.started {
		w.wallStart = time.Now()
		w.started = true
	}
	if w.cfg.Optimization.Realtime {
		desired := time.Duration(w.ctx.Clock.Get()*1000) * time.Millisecond
		if elapsed := time.Since(w.wallStart); desired > elapsed {
			time.Sleep(desired - elapsed)
		}
	}

	now := w.ctx.Clock.Get()
	for {
		q, t := w.nextQueue()
		if q == nil || t > now+delta {
			break
		}
		w.ctx.Clock.Set(t)
		ev := q.NextEvent()
		ev.Process(w)
		w.hostUpdatePass(false)
		if w.cancelled.Load() {
			return
		}
	}

	for _, h := range w.hosts {
		h.Move(delta)
	}

	w.ctx.Clock.Set(now + delta)

	w.hostUpdatePass(true)
	if w.cancelled.Load() {
		return
	}
	if w.cfg.Optimization.SimulateConnectionsOnce && w.simulateConnections {
		w.simulateConnections = false
	}

	w.ctx.Listeners.fireUpdated(w.hosts)
}

// WarmupMovementModel advances the movement model alone, starting at
// -warmup and landing exactly on 0, without running events, host updates
// or listeners. Intended to settle a mobility pattern before t = 0.
func (w *World) WarmupMovementModel(warmup float64) {
	if warmup <= 0 {
		return
	}
	w.ctx.Clock.Set(-warmup)
	step := w.cfg.UpdateInterval
	for w.ctx.Clock.Get()+step < 0 {
		for _, h := range w.hosts {
			h.Move(step)
		}
		w.ctx.Clock.Advance(step)
	}
	if remaining := -w.ctx.Clock.Get(); remaining > 0 {
		for _, h := range w.hosts {
			h.Move(remaining)
		}
	}
	w.ctx.Clock.Set(0)
}

// Snapshot is a cheap diagnostic summary of the run's current state,
// useful for periodic progress reporting without walking the full host
// list by hand.
type Snapshot struct {
	Time        float64
	RunID       string
	Hosts       int
	Connections int
}

// Snapshot returns the current diagnostic summary.
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Time:        w.ctx.Clock.Get(),
		RunID:       w.RunID(),
		Hosts:       len(w.hosts),
		Connections: w.ctx.Arena.Len(),
	}
}
