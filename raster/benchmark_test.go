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

package raster

import (
	"fmt"
	"image"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/measure/roi"
)

// BenchmarkMaskEllipse benchmarks building the mask of an ellipse filling
// most of a tile.
func BenchmarkMaskEllipse(b *testing.B) {
	for _, size := range []int{64, 256, 1024} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			s := float64(size)
			r := roi.NewEllipse(0.05*s, 0.05*s, 0.9*s, 0.9*s, roi.DefaultPlane)
			m := NewMasker()
			w := Window{Downsample: 1, Width: size, Height: size}

			b.ReportAllocs()
			for b.Loop() {
				m.Mask(r, w)
			}
		})
	}
}

// BenchmarkVectorEllipse draws the same outline with x/image/vector.
func BenchmarkVectorEllipse(b *testing.B) {
	for _, size := range []int{64, 256, 1024} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			s := float64(size)
			p := roi.NewEllipse(0.05*s, 0.05*s, 0.9*s, 0.9*s, roi.DefaultPlane).Rings()
			z := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))

			b.ReportAllocs()
			for b.Loop() {
				z.Reset(size, size)
				drawVector(z, p)
				z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
			}
		})
	}
}
