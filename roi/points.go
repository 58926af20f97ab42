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

// Points is a region consisting of isolated points.
type Points struct {
	plane Plane
	pts   []vec.Vec2
	stats func() shape.Stats
}

// NewPoints returns a point region. The slice is copied.
func NewPoints(pts []vec.Vec2, plane Plane) *Points {
	return newPoints(slices.Clone(pts), plane)
}

func newPoints(pts []vec.Vec2, plane Plane) *Points {
	r := &Points{plane: plane, pts: pts}
	r.stats = sync.OnceValue(r.computeStats)
	return r
}

func (r *Points) computeStats() shape.Stats {
	s := shape.Stats{
		NumVertices: len(r.pts),
		CentroidX:   math.NaN(),
		CentroidY:   math.NaN(),
		Bounds:      boundsOf(r.pts),
	}
	if len(r.pts) > 0 {
		var sum vec.Vec2
		for _, p := range r.pts {
			sum = sum.Add(p)
		}
		s.CentroidX = sum.X / float64(len(r.pts))
		s.CentroidY = sum.Y / float64(len(r.pts))
	}
	return s
}

func (r *Points) IsPoint() bool { return true }
func (r *Points) IsLine() bool  { return false }
func (r *Points) IsArea() bool  { return false }

// IsEmpty reports whether the region has no points.
func (r *Points) IsEmpty() bool { return len(r.pts) == 0 }

func (r *Points) Plane() Plane { return r.plane }

func (r *Points) Stats() shape.Stats { return r.stats() }

func (r *Points) Centroid() vec.Vec2 {
	s := r.stats()
	return centroidOf(&s)
}

func (r *Points) Bounds() rect.Rect { return r.stats().Bounds }

func (r *Points) Points() []vec.Vec2 { return r.pts }

// Path returns nil; point regions are rasterised by sampling.
func (r *Points) Path() *path.Data { return nil }

func (r *Points) Translate(dx, dy float64) ROI {
	if dx == 0 && dy == 0 {
		return r
	}
	return newPoints(shifted(r.pts, dx, dy), r.plane)
}

func (r *Points) Duplicate() ROI {
	return newPoints(slices.Clone(r.pts), r.plane)
}
