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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/measure/roi"
	"seehuhn.de/go/measure/shape"
)

var fillCases = []TestCase{
	{
		Name:   "rectangle",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(rectangle(10, 10, 54, 54)), Rule: roi.NonZero},
		Area:   44 * 44,
	},
	{
		Name:   "triangle_nonzero",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(triangle(10, 50, 32, 10, 54, 50)), Rule: roi.NonZero},
		Area:   880,
	},
	{
		Name:   "triangle_evenodd",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(triangle(10, 50, 32, 10, 54, 50)), Rule: roi.EvenOdd},
		Area:   880,
	},
	{
		Name:   "offset_rectangle",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(rectangle(10.25, 10.5, 30.25, 20.5)), Rule: roi.NonZero},
		Area:   200,
	},
	{
		Name:   "clipped_rectangle",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(rectangle(-10, -10, 20, 20)), Rule: roi.NonZero},
		Area:   400,
	},
	{
		Name:      "star_nonzero",
		Width:     64,
		Height:    64,
		Op:     Fill{Rings: rings(fivePointStar(32, 32, 25)), Rule: roi.NonZero},
		Area:      starArea(25),
		Tolerance: 1e-3,
	},
	{
		Name:      "star_evenodd",
		Width:     64,
		Height:    64,
		Op:     Fill{Rings: rings(fivePointStar(32, 32, 25)), Rule: roi.EvenOdd},
		Area:      starArea(25) - pentagonArea(innerRadius(25)),
		Tolerance: 1e-3,
	},
}

var strokeCases = []TestCase{
	{
		// square caps extend the line by 4 at both ends
		Name:   "line_square",
		Width:  64,
		Height: 64,
		Op: Stroke{
			Points:     horizontalLine(10, 32, 54),
			Width:      8,
			MiterLimit: 10,
		},
		Area: 52 * 8,
	},
	{
		Name:   "corner_miter",
		Width:  64,
		Height: 64,
		Op: Stroke{
			Points:     corner(10, 10, 40, 10, 40, 40),
			Width:      4,
			MiterLimit: 10,
		},
		Area: 256,
	},
	{
		// the miter ratio of a right angle is √2
		Name:   "corner_miter_limit",
		Width:  64,
		Height: 64,
		Op: Stroke{
			Points:     corner(10, 10, 40, 10, 40, 40),
			Width:      4,
			MiterLimit: 1.4,
		},
		Area: 254,
	},
	{
		Name:   "zero_length",
		Width:  64,
		Height: 64,
		Op: Stroke{
			Points:     []vec.Vec2{pt(20.5, 20.5), pt(20.5, 20.5)},
			Width:      4,
			MiterLimit: 10,
		},
		Area: 16,
	},
	{
		Name:   "single_point",
		Width:  64,
		Height: 64,
		Op: Stroke{
			Points:     []vec.Vec2{pt(3, 3)},
			Width:      2,
			MiterLimit: 10,
		},
		Area: 4,
	},
}

var curveCases = []TestCase{
	{
		Name:   "circle",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(ellipse(32, 32, 20, 20)), Rule: roi.NonZero},
		Area:   polygonArea(ellipse(32, 32, 20, 20)),
	},
	{
		Name:   "ellipse",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(ellipse(32, 32, 25, 15)), Rule: roi.NonZero},
		Area:   polygonArea(ellipse(32, 32, 25, 15)),
	},
}

var subpathCases = []TestCase{
	{
		Name:   "ring_evenodd",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(ringShape(32, 32, 48, 24, false)), Rule: roi.EvenOdd},
		Area:   48*48 - 24*24,
	},
	{
		Name:   "ring_nonzero_reversed",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(ringShape(32, 32, 48, 24, true)), Rule: roi.NonZero},
		Area:   48*48 - 24*24,
	},
	{
		Name:   "ring_nonzero_same",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(ringShape(32, 32, 48, 24, false)), Rule: roi.NonZero},
		Area:   48 * 48,
	},
	{
		Name:   "overlap_nonzero",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(overlappingRectangles(10, 10, 30, 30, 20, 20, 40, 40)), Rule: roi.NonZero},
		Area:   700,
	},
	{
		Name:   "overlap_evenodd",
		Width:  64,
		Height: 64,
		Op:     Fill{Rings: rings(overlappingRectangles(10, 10, 30, 30, 20, 20, 40, 40)), Rule: roi.EvenOdd},
		Area:   600,
	},
}

// rectangle builds a closed axis-aligned rectangle.
func rectangle(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

// triangle builds a triangular path.
func triangle(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x3, y3)).
		Close()
}

// fivePointStar builds a self-intersecting five-pointed star.
func fivePointStar(cx, cy, r float64) *path.Data {
	var pts [5]vec.Vec2
	for i := range pts {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		pts[i] = pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	return (&path.Data{}).
		MoveTo(pts[0]).
		LineTo(pts[2]).
		LineTo(pts[4]).
		LineTo(pts[1]).
		LineTo(pts[3]).
		Close()
}

// innerRadius returns the circumradius of the pentagon inside a
// five-pointed star with outer radius r.
func innerRadius(r float64) float64 {
	return r * math.Cos(2*math.Pi/5) / math.Cos(math.Pi/5)
}

// starArea returns the area of a filled five-pointed star with outer
// radius r, as a decagon with alternating radii.
func starArea(r float64) float64 {
	return 5 * r * innerRadius(r) * math.Sin(math.Pi/5)
}

// pentagonArea returns the area of a regular pentagon with circumradius r.
func pentagonArea(r float64) float64 {
	return 2.5 * r * r * math.Sin(2*math.Pi/5)
}

// horizontalLine returns a horizontal polyline from (x1, y) to (x2, y).
func horizontalLine(x1, y, x2 float64) []vec.Vec2 {
	return []vec.Vec2{pt(x1, y), pt(x2, y)}
}

// corner returns a polyline with one corner.
func corner(x1, y1, x2, y2, x3, y3 float64) []vec.Vec2 {
	return []vec.Vec2{pt(x1, y1), pt(x2, y2), pt(x3, y3)}
}

// rings flattens p into polygons.
func rings(p *path.Data) []shape.Ring {
	res, err := shape.Flatten(p)
	if err != nil {
		panic(err)
	}
	return res
}

// polygonArea returns the area of the flattened outline of p.
func polygonArea(p *path.Data) float64 {
	return shape.Compute(rings(p)).Area
}

// ellipse builds an ellipse from four cubic Bézier curves.
func ellipse(cx, cy, rx, ry float64) *path.Data {
	const k = 0.5522847498307936
	kx, ky := k*rx, k*ry
	return (&path.Data{}).
		MoveTo(pt(cx+rx, cy)).
		CubeTo(pt(cx+rx, cy+ky), pt(cx+kx, cy+ry), pt(cx, cy+ry)).
		CubeTo(pt(cx-kx, cy+ry), pt(cx-rx, cy+ky), pt(cx-rx, cy)).
		CubeTo(pt(cx-rx, cy-ky), pt(cx-kx, cy-ry), pt(cx, cy-ry)).
		CubeTo(pt(cx+kx, cy-ry), pt(cx+rx, cy-ky), pt(cx+rx, cy)).
		Close()
}

// ringShape builds a square with a square hole, both centred at (cx, cy).
// If reversed is set, the hole is wound in the opposite direction.
func ringShape(cx, cy, outerSize, innerSize float64, reversed bool) *path.Data {
	o, i := outerSize/2, innerSize/2
	p := rectangle(cx-o, cy-o, cx+o, cy+o)
	if reversed {
		return p.
			MoveTo(pt(cx-i, cy-i)).
			LineTo(pt(cx-i, cy+i)).
			LineTo(pt(cx+i, cy+i)).
			LineTo(pt(cx+i, cy-i)).
			Close()
	}
	return p.
		MoveTo(pt(cx-i, cy-i)).
		LineTo(pt(cx+i, cy-i)).
		LineTo(pt(cx+i, cy+i)).
		LineTo(pt(cx-i, cy+i)).
		Close()
}

// overlappingRectangles builds two rectangles with the same winding.
func overlappingRectangles(x1a, y1a, x2a, y2a, x1b, y1b, x2b, y2b float64) *path.Data {
	p := rectangle(x1a, y1a, x2a, y2a)
	return p.
		MoveTo(pt(x1b, y1b)).
		LineTo(pt(x2b, y1b)).
		LineTo(pt(x2b, y2b)).
		LineTo(pt(x1b, y2b)).
		Close()
}
