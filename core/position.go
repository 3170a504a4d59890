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
)

// Coord is a point in the 2-D world.
type Coord struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two coordinates.
func (c Coord) Distance(o Coord) float64 {
	return math.Sqrt(c.Distance2(o))
}

// Distance2 returns the squared Euclidean distance (cheaper than Distance
// when only a threshold comparison is needed).
func (c Coord) Distance2(o Coord) float64 {
	dx := c.X - o.X
	dy := c.Y - o.Y
	return dx*dx + dy*dy
}

// String returns a human-readable representation.
func (c Coord) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", c.X, c.Y)
}
