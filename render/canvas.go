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

// Package render draws a one-off, file-based snapshot of a world. It has
// no live/interactive view and no event loop of its own: a debugging and
// test-fixture aid, not a feature of the simulation core.
package render

import (
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"dtnsim/core"
)

var (
	ColorHost       = "black"
	ColorHostActive = "blue"
	ColorHostDown   = "lightgray"
	ColorLink       = "red"
)

// Snapshot renders one static picture of a world's current host
// positions and live connections to an SVG file at path.
func Snapshot(path string, w *core.World, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return SnapshotTo(f, w, width, height)
}

// SnapshotTo renders the same picture as Snapshot to an arbitrary writer.
func SnapshotTo(out io.Writer, w *core.World, width, height int) error {
	canvas := svg.New(out)
	canvas.Start(width, height)
	defer canvas.End()

	canvas.Rect(0, 0, width, height, "fill:white;stroke:none")

	seen := make(map[core.ConnectionID]bool)
	for _, h := range w.Hosts() {
		for _, iface := range h.Interfaces() {
			for _, con := range iface.Connections() {
				if seen[con.ID] {
					continue
				}
				seen[con.ID] = true
				other := con.GetOtherNode(h)
				if other == nil {
					continue
				}
				a, b := h.Location(), other.Location()
				canvas.Line(xlate(a.X, width), xlate(a.Y, height), xlate(b.X, width), xlate(b.Y, height),
					"stroke:"+ColorLink+";stroke-width:1")
			}
		}
	}

	for _, h := range w.Hosts() {
		color := ColorHostDown
		for _, iface := range h.Interfaces() {
			if iface.IsActive() {
				color = ColorHostActive
				break
			}
		}
		loc := h.Location()
		canvas.Circle(xlate(loc.X, width), xlate(loc.Y, height), 4, "fill:"+color)
	}
	return nil
}

// xlate maps a world coordinate (assumed already within [0,bound)) onto
// an integer pixel coordinate; out-of-range coordinates are clamped
// rather than rejected, since a snapshot is a best-effort diagnostic.
func xlate(v float64, bound int) int {
	p := int(v)
	if p < 0 {
		return 0
	}
	if p >= bound {
		return bound - 1
	}
	return p
}
