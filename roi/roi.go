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

// Package roi implements immutable regions of interest in image
// coordinates.
//
// A region is either a set of points, a line (polyline) or an area made
// of closed sub-paths. Regions never change after construction. Derived
// statistics are computed on first use and kept for the lifetime of the
// value. Two regions are the same region only if they are the same
// pointer; geometric equality is never tested.
package roi

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/measure/shape"
)

// ROI is a region of interest.
// All implementations in this package are pointer types, so that ROI
// values can be used as map keys with identity semantics.
type ROI interface {
	IsPoint() bool
	IsLine() bool
	IsArea() bool

	// IsEmpty reports whether the region covers nothing.
	IsEmpty() bool

	// Plane returns the image plane the region lives on.
	Plane() Plane

	// Stats returns the geometric statistics of the region.
	// The values are computed at most once.
	Stats() shape.Stats

	// Centroid returns the centroid of the region, or the centre of the
	// bounding box if the centroid is undefined.
	Centroid() vec.Vec2

	// Bounds returns the bounding box of the region.
	Bounds() rect.Rect

	// Points returns the vertices of the region: the points of a point
	// region, the vertices of a line, or the flattened vertices of all
	// sub-paths of an area concatenated. The caller must not modify the
	// returned slice.
	Points() []vec.Vec2

	// Path returns the outline used for rasterisation.
	// It is nil for point regions.
	Path() *path.Data

	// Translate returns the region shifted by (dx, dy).
	// Translating by (0, 0) returns the receiver.
	Translate(dx, dy float64) ROI

	// Duplicate returns a new region with the same geometry.
	Duplicate() ROI
}

// Plane identifies a 2D plane in a multi-dimensional image.
type Plane struct {
	C int // channel, or -1 for all channels
	Z int // z-slice
	T int // timepoint
}

// DefaultPlane is the first z-slice and timepoint, covering all channels.
var DefaultPlane = Plane{C: -1}

// FillRule selects how the interior of an area is determined.
type FillRule int

// These are the supported fill rules.
const (
	NonZero FillRule = iota
	EvenOdd
)

func (r FillRule) String() string {
	switch r {
	case NonZero:
		return "nonzero"
	case EvenOdd:
		return "evenodd"
	default:
		return "unknown"
	}
}

// centroidOf applies the bounding box fallback to s.
func centroidOf(s *shape.Stats) vec.Vec2 {
	if s.HasCentroid() {
		return vec.Vec2{X: s.CentroidX, Y: s.CentroidY}
	}
	return vec.Vec2{
		X: (s.Bounds.LLx + s.Bounds.URx) / 2,
		Y: (s.Bounds.LLy + s.Bounds.URy) / 2,
	}
}

// boundsOf returns the bounding box of pts.
func boundsOf(pts []vec.Vec2) rect.Rect {
	if len(pts) == 0 {
		return rect.Rect{}
	}
	b := rect.Rect{LLx: pts[0].X, LLy: pts[0].Y, URx: pts[0].X, URy: pts[0].Y}
	for _, p := range pts[1:] {
		b.LLx = min(b.LLx, p.X)
		b.LLy = min(b.LLy, p.Y)
		b.URx = max(b.URx, p.X)
		b.URy = max(b.URy, p.Y)
	}
	return b
}

// shifted returns a copy of pts translated by (dx, dy).
func shifted(pts []vec.Vec2, dx, dy float64) []vec.Vec2 {
	d := vec.Vec2{X: dx, Y: dy}
	res := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		res[i] = p.Add(d)
	}
	return res
}
