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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/measure/roi"
)

var plane = roi.DefaultPlane

var areaMasks = []MaskCase{
	{
		Name:       "rectangle_aligned",
		ROI:        roi.NewRectangle(10, 10, 44, 44, plane),
		Downsample: 1, Width: 64, Height: 64,
		Pixels: 44 * 44,
	},
	{
		Name:       "rectangle_downsampled",
		ROI:        roi.NewRectangle(0, 0, 40, 20, plane),
		Downsample: 2, Width: 32, Height: 32,
		Pixels: 20 * 10,
	},
	{
		Name:       "rectangle_second_tile",
		ROI:        roi.NewRectangle(16, 0, 32, 16, plane),
		X:          32,
		Downsample: 1, Width: 32, Height: 32,
		Pixels: 16 * 16,
	},
	{
		// the left column is 3/4 covered, the right one 1/4
		Name:       "rectangle_quarter_pixel",
		ROI:        roi.NewRectangle(10.25, 10, 10, 10, plane),
		Downsample: 1, Width: 64, Height: 64,
		Pixels: 100,
	},
	{
		Name:       "rectangle_outside",
		ROI:        roi.NewRectangle(10, 10, 20, 20, plane),
		X:          100,
		Downsample: 1, Width: 64, Height: 64,
		Pixels: 0,
	},
	{
		// the outline is flattened to a 16-gon of area 1224.6
		Name:       "ellipse",
		ROI:        roi.NewEllipse(12, 12, 40, 40, plane),
		Downsample: 1, Width: 64, Height: 64,
		Pixels:    1225,
		Tolerance: 16,
	},
	{
		Name:       "ring_evenodd",
		ROI:        mustArea(ringShape(32, 32, 48, 24, false), roi.EvenOdd),
		Downsample: 1, Width: 64, Height: 64,
		Pixels: 48*48 - 24*24,
	},
	{
		Name:       "ring_nonzero",
		ROI:        mustArea(ringShape(32, 32, 48, 24, false), roi.NonZero),
		Downsample: 1, Width: 64, Height: 64,
		Pixels: 48 * 48,
	},
}

var lineMasks = []MaskCase{
	{
		// square caps extend the line to 4.75..24.75
		Name:       "horizontal",
		ROI:        roi.NewLine(5.25, 10.5, 24.25, 10.5, plane),
		Downsample: 1, Width: 64, Height: 64,
		Pixels: 20,
	},
	{
		Name:       "horizontal_downsampled",
		ROI:        roi.NewLine(10.5, 21, 48.5, 21, plane),
		Downsample: 2, Width: 32, Height: 32,
		Pixels: 20,
	},
	{
		Name:       "vertical",
		ROI:        roi.NewLine(10.5, 5.25, 10.5, 24.25, plane),
		Downsample: 1, Width: 64, Height: 64,
		Pixels: 20,
	},
}

var pointMasks = []MaskCase{
	{
		Name:       "one_outside",
		ROI:        roi.NewPoints([]vec.Vec2{pt(1.5, 1.5), pt(10.2, 3.9), pt(70, 5)}, plane),
		Downsample: 1, Width: 64, Height: 64,
		Pixels: 2,
	},
	{
		Name:       "same_pixel",
		ROI:        roi.NewPoints([]vec.Vec2{pt(5.1, 5.1), pt(5.9, 5.9)}, plane),
		Downsample: 1, Width: 64, Height: 64,
		Pixels: 1,
	},
	{
		Name:       "downsampled",
		ROI:        roi.NewPoints([]vec.Vec2{pt(3, 3), pt(5, 5)}, plane),
		Downsample: 4, Width: 16, Height: 16,
		Pixels: 2,
	},
	{
		// (31.5, 3) lies left of the tile and must not be rounded into it
		Name:       "left_of_tile",
		ROI:        roi.NewPoints([]vec.Vec2{pt(31.5, 3), pt(32, 3)}, plane),
		X:          32,
		Downsample: 1, Width: 32, Height: 32,
		Pixels: 1,
	},
}

func mustArea(p *path.Data, rule roi.FillRule) *roi.Area {
	a, err := roi.NewArea(p, rule, plane)
	if err != nil {
		panic(err)
	}
	return a
}
