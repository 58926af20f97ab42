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

package shape

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Stats holds the statistics of a closed shape.
type Stats struct {
	Area        float64
	Perimeter   float64
	NumVertices int

	// CentroidX and CentroidY are NaN if the centroid is undefined,
	// for example because the signed area vanishes.
	CentroidX float64
	CentroidY float64

	// Bounds is the bounding box of all vertices.
	// It is the zero rectangle if there are no vertices.
	Bounds rect.Rect
}

// HasCentroid reports whether the centroid is defined.
func (s *Stats) HasCentroid() bool {
	return !math.IsNaN(s.CentroidX) && !math.IsNaN(s.CentroidY)
}

// Compute returns the statistics of the shape formed by rings.
//
// Self-intersecting rings are not detected; the shoelace and centroid
// formulas are applied as they are.
func Compute(rings []Ring) Stats {
	return ComputeScaled(rings, 1, 1)
}

// ComputeScaled returns the statistics of the shape formed by rings after
// scaling x coordinates by sx and y coordinates by sy.
func ComputeScaled(rings []Ring, sx, sy float64) Stats {
	s := Stats{
		CentroidX: math.NaN(),
		CentroidY: math.NaN(),
	}

	// Coordinates are taken relative to the first vertex, which keeps the
	// cross products small for shapes far away from the origin.
	var ref vec.Vec2
	first := true
	for _, ring := range rings {
		if len(ring) > 0 {
			ref = vec.Vec2{X: ring[0].X * sx, Y: ring[0].Y * sy}
			break
		}
	}

	var signedArea2 float64 // twice the signed area
	var cx6, cy6 float64    // 6 * signed area * centroid, relative to ref
	for _, ring := range rings {
		n := len(ring)
		s.NumVertices += n
		for i := range n {
			p := vec.Vec2{X: ring[i].X * sx, Y: ring[i].Y * sy}
			q := vec.Vec2{X: ring[(i+1)%n].X * sx, Y: ring[(i+1)%n].Y * sy}

			if first {
				s.Bounds = rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
				first = false
			} else {
				s.Bounds.LLx = min(s.Bounds.LLx, p.X)
				s.Bounds.LLy = min(s.Bounds.LLy, p.Y)
				s.Bounds.URx = max(s.Bounds.URx, p.X)
				s.Bounds.URy = max(s.Bounds.URy, p.Y)
			}

			s.Perimeter += q.Sub(p).Length()

			x0, y0 := p.X-ref.X, p.Y-ref.Y
			x1, y1 := q.X-ref.X, q.Y-ref.Y
			cross := x0*y1 - x1*y0
			signedArea2 += cross
			cx6 += (x0 + x1) * cross
			cy6 += (y0 + y1) * cross
		}
	}

	s.Area = math.Abs(signedArea2 / 2)

	boundsArea := (s.Bounds.URx - s.Bounds.LLx) * (s.Bounds.URy - s.Bounds.LLy)
	if math.Abs(signedArea2/2) > centroidEpsilon*boundsArea && signedArea2 != 0 {
		cx := cx6/(3*signedArea2) + ref.X
		cy := cy6/(3*signedArea2) + ref.Y
		if !math.IsInf(cx, 0) && !math.IsInf(cy, 0) && !math.IsNaN(cx) && !math.IsNaN(cy) {
			s.CentroidX = cx
			s.CentroidY = cy
		}
	}

	return s
}

// UniformScale reports whether the pixel scales sx and sy are close enough
// that scaled areas and perimeters can be derived from the unscaled values
// as area*sx*sy and perimeter*(sx+sy)/2.
func UniformScale(sx, sy float64) bool {
	return scalar.EqualWithinRel(sx, sy, uniformScaleTolerance)
}

const (
	// centroidEpsilon is the smallest ratio between the absolute signed
	// area and the bounding box area for which a centroid is reported.
	centroidEpsilon = 1e-10

	// uniformScaleTolerance is the relative tolerance used by UniformScale.
	uniformScaleTolerance = 1e-4
)
