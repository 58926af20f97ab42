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

// Package testcases provides shapes with known areas, shared by the tests
// of the rasterizer, the tile masks and the measurement manager.
package testcases

import (
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/measure/roi"
	"seehuhn.de/go/measure/shape"
)

// TestCase is a shape together with the exact area it covers.
type TestCase struct {
	Name   string    // lowercase a-z and _ only
	Width  int       // canvas width in pixels
	Height int       // canvas height in pixels
	Op     Operation // fill or stroke, including the geometry

	// Area is the covered area in square pixels, which equals the sum of
	// all coverage values.
	Area float64

	// Tolerance is the allowed absolute deviation from Area.
	Tolerance float64
}

// Operation is the rendering operation to apply.
// Coordinates are device coordinates.
type Operation interface {
	isOperation()
}

// Fill specifies a fill operation.
type Fill struct {
	Rings []shape.Ring
	Rule  roi.FillRule
}

func (Fill) isOperation() {}

// Stroke specifies a stroke of an open polyline.
type Stroke struct {
	Points     []vec.Vec2
	Width      float64 // line width (>0)
	MiterLimit float64 // miter limit
}

func (Stroke) isOperation() {}

// MaskCase is a region together with the number of tile pixels it selects.
type MaskCase struct {
	Name string
	ROI  roi.ROI

	// the tile window
	X, Y          float64
	Downsample    float64
	Width, Height int

	// Pixels is the expected number of mask pixels, up to Tolerance.
	Pixels    int
	Tolerance int
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
