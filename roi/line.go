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

package roi

import (
	"math"
	"slices"
	"sync"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/measure/shape"
)

// Line is an open polyline.
// Its perimeter is the length of the polyline; its area is zero.
type Line struct {
	plane Plane
	pts   []vec.Vec2
	stats func() shape.Stats
}

// NewLine returns a straight line from (x0, y0) to (x1, y1).
func NewLine(x0, y0, x1, y1 float64, plane Plane) *Line {
	return newLine([]vec.Vec2{{X: x0, Y: y0}, {X: x1, Y: y1}}, plane)
}

// NewPolyline returns a line through the given vertices. The slice is copied.
func NewPolyline(pts []vec.Vec2, plane Plane) *Line {
	return newLine(slices.Clone(pts), plane)
}

func newLine(pts []vec.Vec2, plane Plane) *Line {
	r := &Line{plane: plane, pts: pts}
	r.stats = sync.OnceValue(r.computeStats)
	return r
}

func (r *Line) computeStats() shape.Stats {
	s := shape.Stats{
		NumVertices: len(r.pts),
		CentroidX:   math.NaN(),
		CentroidY:   math.NaN(),
		Bounds:      boundsOf(r.pts),
	}

	// The centroid of a polyline is the length-weighted mean of the
	// segment midpoints.
	var cx, cy float64
	for i := 1; i < len(r.pts); i++ {
		a, b := r.pts[i-1], r.pts[i]
		l := b.Sub(a).Length()
		s.Perimeter += l
		cx += l * (a.X + b.X) / 2
		cy += l * (a.Y + b.Y) / 2
	}
	if s.Perimeter > 0 {
		s.CentroidX = cx / s.Perimeter
		s.CentroidY = cy / s.Perimeter
	}
	return s
}

func (r *Line) IsPoint() bool { return false }
func (r *Line) IsLine() bool  { return true }
func (r *Line) IsArea() bool  { return false }

// IsEmpty reports whether the line has fewer than two vertices.
func (r *Line) IsEmpty() bool { return len(r.pts) < 2 }

func (r *Line) Plane() Plane { return r.plane }

func (r *Line) Stats() shape.Stats { return r.stats() }

func (r *Line) Centroid() vec.Vec2 {
	s := r.stats()
	return centroidOf(&s)
}

func (r *Line) Bounds() rect.Rect { return r.stats().Bounds }

// Length returns the length of the polyline.
func (r *Line) Length() float64 { return r.stats().Perimeter }

func (r *Line) Points() []vec.Vec2 { return r.pts }

// Path returns the polyline as an open path.
func (r *Line) Path() *path.Data {
	if len(r.pts) == 0 {
		return &path.Data{}
	}
	p := (&path.Data{}).MoveTo(r.pts[0])
	for _, pt := range r.pts[1:] {
		p = p.LineTo(pt)
	}
	return p
}

func (r *Line) Translate(dx, dy float64) ROI {
	if dx == 0 && dy == 0 {
		return r
	}
	return newLine(shifted(r.pts, dx, dy), r.plane)
}

func (r *Line) Duplicate() ROI {
	return newLine(slices.Clone(r.pts), r.plane)
}
