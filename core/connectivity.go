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
	"hash/fnv"
	"math"
	"sort"
)

//----------------------------------------------------------------------
// ConnectivityOptimizer partitions the world into square cells of side
// >= the largest transmitRange ever registered for a given interface
// type, so that a near-neighbor query only has to look at the 3x3 block
// of cells around the querying interface. Cells are half-open: an
// interface exactly on a boundary belongs to the cell whose lower-bound
// coordinates it meets. The world does not wrap around.
//----------------------------------------------------------------------

// ConnectivityOptimizer answers "who might be near me?" queries and, since
// obstruction is a property of the spatial index and not of either
// interface, also judges whether two interfaces are in range of each other.
type ConnectivityOptimizer interface {
	AddInterface(i NetworkInterface)
	RemoveInterface(i NetworkInterface)
	UpdateLocation(i NetworkInterface)
	GetNearInterfaces(i NetworkInterface) []NetworkInterface
	InRange(a, b NetworkInterface) bool
}

// Obstruction reduces the effective transmit range between two points,
// e.g. to model an opaque wall. 1.0 means no obstruction; a value < 1e-8
// means "no line of sight at all". Supplements the binary in-range test
// without introducing graded interference: it only changes where the
// binary boundary falls, not the pass/fail nature of the test.
type Obstruction func(a, b Coord) float64

type cellKey struct {
	cx, cy int
}

// ConnectivityGrid is the concrete spatial-hash ConnectivityOptimizer.
type ConnectivityGrid struct {
	side    float64
	cells   map[cellKey]map[NetworkInterface]struct{}
	loc     map[NetworkInterface]cellKey
	obstruct Obstruction
}

// NewConnectivityGrid returns a grid whose cell side is side (must be >= the
// largest transmitRange it will ever index).
func NewConnectivityGrid(side float64) *ConnectivityGrid {
	if side <= 0 {
		side = 1
	}
	return &ConnectivityGrid{
		side:  side,
		cells: make(map[cellKey]map[NetworkInterface]struct{}),
		loc:   make(map[NetworkInterface]cellKey),
	}
}

// SetObstruction installs a line-of-sight attenuation hook; nil clears it.
func (g *ConnectivityGrid) SetObstruction(o Obstruction) {
	g.obstruct = o
}

func (g *ConnectivityGrid) cellOf(i NetworkInterface) cellKey {
	loc := i.Host().Location()
	return cellKey{
		cx: int(math.Floor(loc.X / g.side)),
		cy: int(math.Floor(loc.Y / g.side)),
	}
}

// AddInterface registers i at its host's current location.
func (g *ConnectivityGrid) AddInterface(i NetworkInterface) {
	key := g.cellOf(i)
	if g.cells[key] == nil {
		g.cells[key] = make(map[NetworkInterface]struct{})
	}
	g.cells[key][i] = struct{}{}
	g.loc[i] = key
}

// RemoveInterface removes i from the grid entirely.
func (g *ConnectivityGrid) RemoveInterface(i NetworkInterface) {
	key, ok := g.loc[i]
	if !ok {
		return
	}
	delete(g.cells[key], i)
	if len(g.cells[key]) == 0 {
		delete(g.cells, key)
	}
	delete(g.loc, i)
}

// UpdateLocation re-buckets i after its host has moved.
func (g *ConnectivityGrid) UpdateLocation(i NetworkInterface) {
	newKey := g.cellOf(i)
	oldKey, ok := g.loc[i]
	if ok && oldKey == newKey {
		return
	}
	if ok {
		delete(g.cells[oldKey], i)
		if len(g.cells[oldKey]) == 0 {
			delete(g.cells, oldKey)
		}
	}
	if g.cells[newKey] == nil {
		g.cells[newKey] = make(map[NetworkInterface]struct{})
	}
	g.cells[newKey][i] = struct{}{}
	g.loc[i] = newKey
}

// GetNearInterfaces returns every interface sharing i's cell or one of its
// 8 neighbors, excluding i itself, ordered by owning host address.
func (g *ConnectivityGrid) GetNearInterfaces(i NetworkInterface) []NetworkInterface {
	center := g.cellOf(i)
	var out []NetworkInterface
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			key := cellKey{center.cx + dx, center.cy + dy}
			for cand := range g.cells[key] {
				if cand != i {
					out = append(out, cand)
				}
			}
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Host().Address() < out[b].Host().Address()
	})
	return out
}

// InRange reports whether a and b are within each other's transmit range,
// using the *smaller* of the two ranges (an asymmetric-range pair is in
// range only as far as the weaker radio can reach) and, if an obstruction
// hook is installed, shrinking that range by the factor the hook reports
// for the segment between the two hosts.
func (g *ConnectivityGrid) InRange(a, b NetworkInterface) bool {
	limit := a.TransmitRange()
	if r := b.TransmitRange(); r < limit {
		limit = r
	}
	if limit <= 0 {
		return false
	}
	locA := a.Host().Location()
	locB := b.Host().Location()
	d2 := locA.Distance2(locB)
	if g.obstruct != nil {
		red := g.obstruct(locA, locB)
		if red < 1e-8 {
			return false
		}
		d2 /= red * red
	}
	return d2 <= limit*limit
}

//----------------------------------------------------------------------
// Factory: all interfaces sharing an interfacetype share one grid, sized
// to the maximum transmitRange ever registered for that type.
//----------------------------------------------------------------------

// GridFactory hands out a shared ConnectivityGrid per interface type,
// growing the grid's cell side as larger ranges are registered.
type GridFactory struct {
	grids map[uint32]*ConnectivityGrid
	ranges map[uint32]float64
}

// NewGridFactory returns an empty factory.
func NewGridFactory() *GridFactory {
	return &GridFactory{
		grids:  make(map[uint32]*ConnectivityGrid),
		ranges: make(map[uint32]float64),
	}
}

func hashType(ifType string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ifType))
	return h.Sum32()
}

// GetGrid returns the grid for ifType, creating it (or widening its cell
// side) as needed so that it can accommodate transmitRange.
func (f *GridFactory) GetGrid(ifType string, transmitRange float64) *ConnectivityGrid {
	key := hashType(ifType)
	if transmitRange <= 0 {
		transmitRange = 1
	}
	if cur, ok := f.ranges[key]; !ok || transmitRange > cur {
		f.ranges[key] = transmitRange
	}
	g, ok := f.grids[key]
	if !ok {
		g = NewConnectivityGrid(f.ranges[key])
		f.grids[key] = g
		return g
	}
	if f.ranges[key] > g.side {
		g.widen(f.ranges[key])
	}
	return g
}

// widen grows the cell side and rebuckets every currently indexed
// interface, since a cell side change invalidates every previous cell
// assignment.
func (g *ConnectivityGrid) widen(side float64) {
	g.side = side
	old := g.loc
	g.cells = make(map[cellKey]map[NetworkInterface]struct{})
	g.loc = make(map[NetworkInterface]cellKey)
	for i := range old {
		g.AddInterface(i)
	}
}
