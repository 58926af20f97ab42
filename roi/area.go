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
	"fmt"
	"slices"
	"sync"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/measure/shape"
)

// kappa is the control point distance for approximating a quarter circle
// of radius 1 by a cubic Bézier curve.
const kappa = 0.5522847498307936

// Area is a region made of one or more closed sub-paths.
// Sub-paths wound against their enclosing ring form holes.
type Area struct {
	plane  Plane
	rule   FillRule
	rings  []shape.Ring
	path   *path.Data
	points func() []vec.Vec2
	stats  func() shape.Stats
}

// NewArea returns the area enclosed by p. Curves in p are flattened with
// tolerance [shape.Flatness]. An error wrapping [shape.ErrInvalidGeometry]
// is returned if p is malformed.
func NewArea(p *path.Data, rule FillRule, plane Plane) (*Area, error) {
	rings, err := shape.Flatten(p)
	if err != nil {
		return nil, fmt.Errorf("roi: %w", err)
	}
	return newArea(rings, rule, plane), nil
}

// NewPolygon returns a polygon with the given vertices. The closing edge
// is implicit.
func NewPolygon(pts []vec.Vec2, plane Plane) *Area {
	var rings []shape.Ring
	if len(pts) > 0 {
		rings = []shape.Ring{slices.Clone(pts)}
	}
	return newArea(rings, NonZero, plane)
}

// NewRectangle returns the rectangle with top-left corner (x, y).
func NewRectangle(x, y, width, height float64, plane Plane) *Area {
	ring := shape.Ring{
		{X: x, Y: y},
		{X: x + width, Y: y},
		{X: x + width, Y: y + height},
		{X: x, Y: y + height},
	}
	return newArea([]shape.Ring{ring}, NonZero, plane)
}

// NewEllipse returns the ellipse inscribed in the given rectangle.
func NewEllipse(x, y, width, height float64, plane Plane) *Area {
	rx, ry := width/2, height/2
	cx, cy := x+rx, y+ry
	kx, ky := kappa*rx, kappa*ry

	p := &path.Data{
		Cmds: []path.Command{
			path.CmdMoveTo,
			path.CmdCubeTo, path.CmdCubeTo, path.CmdCubeTo, path.CmdCubeTo,
			path.CmdClose,
		},
		Coords: []vec.Vec2{
			{X: cx + rx, Y: cy},
			{X: cx + rx, Y: cy + ky}, {X: cx + kx, Y: cy + ry}, {X: cx, Y: cy + ry},
			{X: cx - kx, Y: cy + ry}, {X: cx - rx, Y: cy + ky}, {X: cx - rx, Y: cy},
			{X: cx - rx, Y: cy - ky}, {X: cx - kx, Y: cy - ry}, {X: cx, Y: cy - ry},
			{X: cx + kx, Y: cy - ry}, {X: cx + rx, Y: cy - ky}, {X: cx + rx, Y: cy},
		},
	}
	rings, err := shape.Flatten(p)
	if err != nil {
		panic(err) // the path above is well-formed
	}
	return newArea(rings, NonZero, plane)
}

func newArea(rings []shape.Ring, rule FillRule, plane Plane) *Area {
	r := &Area{
		plane: plane,
		rule:  rule,
		rings: rings,
		path:  ringsPath(rings),
	}
	r.stats = sync.OnceValue(func() shape.Stats {
		return shape.Compute(r.rings)
	})
	r.points = sync.OnceValue(func() []vec.Vec2 {
		var pts []vec.Vec2
		for _, ring := range r.rings {
			pts = append(pts, ring...)
		}
		return pts
	})
	return r
}

// ringsPath converts flattened rings back into a closed path.
func ringsPath(rings []shape.Ring) *path.Data {
	p := &path.Data{}
	for _, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		p = p.MoveTo(ring[0])
		for _, pt := range ring[1:] {
			p = p.LineTo(pt)
		}
		p = p.Close()
	}
	return p
}

func (r *Area) IsPoint() bool { return false }
func (r *Area) IsLine() bool  { return false }
func (r *Area) IsArea() bool  { return true }

// IsEmpty reports whether the enclosed area is zero.
func (r *Area) IsEmpty() bool { return r.stats().Area == 0 }

func (r *Area) Plane() Plane { return r.plane }

// FillRule returns the rule used to decide which points are inside.
func (r *Area) FillRule() FillRule { return r.rule }

// Rings returns the flattened sub-paths. The caller must not modify them.
func (r *Area) Rings() []shape.Ring { return r.rings }

func (r *Area) Stats() shape.Stats { return r.stats() }

// Area returns the enclosed area in pixels.
func (r *Area) Area() float64 { return r.stats().Area }

// Perimeter returns the total length of all sub-paths.
func (r *Area) Perimeter() float64 { return r.stats().Perimeter }

// NumVertices returns the number of vertices after flattening.
func (r *Area) NumVertices() int { return r.stats().NumVertices }

func (r *Area) Centroid() vec.Vec2 {
	s := r.stats()
	return centroidOf(&s)
}

func (r *Area) Bounds() rect.Rect { return r.stats().Bounds }

// ScaledArea returns the area for a pixel of size pixelWidth × pixelHeight.
// For nearly equal pixel sizes the unscaled area is multiplied; this is
// an approximation if the sizes are not exactly equal.
func (r *Area) ScaledArea(pixelWidth, pixelHeight float64) float64 {
	if shape.UniformScale(pixelWidth, pixelHeight) {
		return r.Area() * pixelWidth * pixelHeight
	}
	return shape.ComputeScaled(r.rings, pixelWidth, pixelHeight).Area
}

// ScaledPerimeter returns the perimeter for a pixel of size
// pixelWidth × pixelHeight, using the same shortcut as ScaledArea.
func (r *Area) ScaledPerimeter(pixelWidth, pixelHeight float64) float64 {
	if shape.UniformScale(pixelWidth, pixelHeight) {
		return r.Perimeter() * (pixelWidth + pixelHeight) / 2
	}
	return shape.ComputeScaled(r.rings, pixelWidth, pixelHeight).Perimeter
}

func (r *Area) Points() []vec.Vec2 { return r.points() }

// Path returns the closed outline of all sub-paths.
// The caller must not modify the result.
func (r *Area) Path() *path.Data { return r.path }

func (r *Area) Translate(dx, dy float64) ROI {
	if dx == 0 && dy == 0 {
		return r
	}
	rings := make([]shape.Ring, len(r.rings))
	for i, ring := range r.rings {
		rings[i] = shifted(ring, dx, dy)
	}
	return newArea(rings, r.rule, r.plane)
}

func (r *Area) Duplicate() ROI {
	rings := make([]shape.Ring, len(r.rings))
	for i, ring := range r.rings {
		rings[i] = slices.Clone(ring)
	}
	return newArea(rings, r.rule, r.plane)
}
