// seehuhn.de/go/measure - area measurements for tiled raster images
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package shape computes geometric statistics for closed shapes made of
// one or more sub-paths.
//
// Curves are flattened to line segments with the fixed tolerance
// [Flatness] before any statistic is computed. Sub-paths are summed with
// their sign, so that a hole wound in the opposite direction to its
// outer ring subtracts from the area.
package shape

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Flatness is the maximum distance between a curve and the line segments
// used to approximate it, in path coordinates.
const Flatness = 0.5

// ErrInvalidGeometry is returned when a path cannot be interpreted as a
// sequence of closed sub-paths.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Ring is a closed sub-path after flattening. The edge from the last
// vertex back to the first is implicit.
type Ring []vec.Vec2

// Flatten converts p into a list of closed rings. Sub-paths which are not
// explicitly closed are closed implicitly. A segment directly after a
// close starts a new ring at the start point of the closed sub-path.
func Flatten(p *path.Data) ([]Ring, error) {
	if p == nil {
		return nil, nil
	}

	var rings []Ring
	var current Ring
	var start vec.Vec2 // start point of the most recent sub-path
	hasStart := false
	inSubpath := false
	finish := func() {
		if inSubpath && len(current) > 0 {
			rings = append(rings, current)
		}
		current = nil
		inSubpath = false
	}
	add := func(_, to vec.Vec2) {
		current = append(current, to)
	}

	coordIdx := 0
	for i, cmd := range p.Cmds {
		var need int
		switch cmd {
		case path.CmdMoveTo, path.CmdLineTo:
			need = 1
		case path.CmdQuadTo:
			need = 2
		case path.CmdCubeTo:
			need = 3
		case path.CmdClose:
			need = 0
		default:
			return nil, fmt.Errorf("command %d: unknown path command %v: %w", i, cmd, ErrInvalidGeometry)
		}
		if coordIdx+need > len(p.Coords) {
			return nil, fmt.Errorf("command %d: missing coordinates: %w", i, ErrInvalidGeometry)
		}
		if cmd != path.CmdMoveTo && cmd != path.CmdClose && !inSubpath {
			if !hasStart {
				return nil, fmt.Errorf("command %d: segment without current point: %w", i, ErrInvalidGeometry)
			}
			current = Ring{start}
			inSubpath = true
		}

		switch cmd {
		case path.CmdMoveTo:
			finish()
			start = p.Coords[coordIdx]
			hasStart = true
			current = Ring{start}
			inSubpath = true
		case path.CmdLineTo:
			current = append(current, p.Coords[coordIdx])
		case path.CmdQuadTo:
			last := current[len(current)-1]
			flattenQuadratic(last, p.Coords[coordIdx], p.Coords[coordIdx+1], add)
		case path.CmdCubeTo:
			last := current[len(current)-1]
			flattenCubic(last, p.Coords[coordIdx], p.Coords[coordIdx+1], p.Coords[coordIdx+2], add)
		case path.CmdClose:
			finish()
		}
		coordIdx += need
	}
	finish()

	return rings, nil
}

// flattenQuadratic flattens a quadratic Bézier and calls emit for each line segment.
// p0 is the start point (current point), p1 is control, p2 is endpoint.
func flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(from, to vec.Vec2)) {
	// e = (P0 - 2*P1 + P2) / 4
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)

	n := 1
	if errLen := e.Length(); errLen > Flatness {
		n = int(math.Ceil(math.Sqrt(errLen / Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		pt := p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic flattens a cubic Bézier and calls emit for each line segment.
// The segment count follows Wang's formula.
func flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2) // P0 - 2*P1 + P2
	d2 := p1.Sub(p2.Mul(2)).Add(p3) // P1 - 2*P2 + P3

	m := max(d1.Length(), d2.Length())
	n := 1
	if m > 0 {
		// n = ceil(sqrt(3 * m / (4 * ε)))
		nFloat := math.Sqrt(3 * m / (4 * Flatness))
		if nFloat > 1 {
			n = int(math.Ceil(nFloat))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		t2 := t * t
		pt := p0.Mul(omt2 * omt).Add(p1.Mul(3 * omt2 * t)).Add(p2.Mul(3 * omt * t2)).Add(p3.Mul(t2 * t))
		emit(prev, pt)
		prev = pt
	}
}
