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
	"image"
	"maps"
	"math"
	"slices"
	"testing"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/floats"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/measure/roi"
	"seehuhn.de/go/measure/shape"
	"seehuhn.de/go/measure/testcases"
)

// render rasterises a test case into a width×height coverage buffer.
func render(r *Rasterizer, tc testcases.TestCase) []float64 {
	r.Reset(rect.Rect{URx: float64(tc.Width), URy: float64(tc.Height)})

	buf := make([]float64, tc.Width*tc.Height)
	emit := func(y, xMin int, coverage []float32) {
		for i, c := range coverage {
			buf[y*tc.Width+xMin+i] = float64(c)
		}
	}

	switch op := tc.Op.(type) {
	case testcases.Fill:
		if op.Rule == roi.EvenOdd {
			r.FillEvenOdd(op.Rings, emit)
		} else {
			r.FillNonZero(op.Rings, emit)
		}
	case testcases.Stroke:
		r.Width = op.Width
		r.MiterLimit = op.MiterLimit
		r.Stroke(op.Points, emit)
	}
	return buf
}

func allCases() []testcases.TestCase {
	var cases []testcases.TestCase
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		cases = append(cases, testcases.All[category]...)
	}
	return cases
}

// TestCoverageArea checks that the coverage values of each test case add
// up to the area of the shape.
func TestCoverageArea(t *testing.T) {
	r := NewRasterizer(rect.Rect{})
	for _, tc := range allCases() {
		t.Run(tc.Name, func(t *testing.T) {
			buf := render(r, tc)
			got := floats.Sum(buf)

			tol := max(tc.Tolerance, 1e-3*tc.Area)
			if math.Abs(got-tc.Area) > tol {
				t.Errorf("covered area = %.4f, want %.4f ± %.4f", got, tc.Area, tol)
			}
			for i, c := range buf {
				if c < 0 || c > 1 {
					t.Fatalf("pixel %d: coverage %g outside [0, 1]", i, c)
				}
			}
		})
	}
}

// TestAgainstVector compares fill coverage with golang.org/x/image/vector
// for polygons filled with the nonzero rule.
func TestAgainstVector(t *testing.T) {
	names := map[string]bool{
		"rectangle":             true,
		"triangle_nonzero":      true,
		"offset_rectangle":      true,
		"star_nonzero":          true,
		"ring_nonzero_reversed": true,
		"ring_nonzero_same":     true,
		"overlap_nonzero":       true,
		"circle":                true,
		"ellipse":               true,
	}

	r := NewRasterizer(rect.Rect{})
	for _, tc := range allCases() {
		if !names[tc.Name] {
			continue
		}
		t.Run(tc.Name, func(t *testing.T) {
			ours := render(r, tc)

			z := vector.NewRasterizer(tc.Width, tc.Height)
			drawVector(z, tc.Op.(testcases.Fill).Rings)
			dst := image.NewAlpha(image.Rect(0, 0, tc.Width, tc.Height))
			z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

			bad := 0
			for i, c := range ours {
				theirs := float64(dst.Pix[i]) / 255
				if math.Abs(c-theirs) > 0.01 {
					bad++
				}
			}
			if bad > 0 {
				t.Errorf("%d pixels differ from x/image/vector", bad)
			}
		})
	}
}

func drawVector(z *vector.Rasterizer, rings []shape.Ring) {
	for _, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		z.MoveTo(float32(ring[0].X), float32(ring[0].Y))
		for _, p := range ring[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	}
}

func TestTriangleCoverage(t *testing.T) {
	triangle := []shape.Ring{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 1}}}

	clip := rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 1}
	r := NewRasterizer(clip)

	coverage := make([]float32, 10)
	emit := func(y, xMin int, cov []float32) {
		if y == 0 {
			for i, c := range cov {
				coverage[xMin+i] = c
			}
		}
	}

	r.FillNonZero(triangle, emit)

	const epsilon = 1e-6
	for x := range 10 {
		expected := float32(2*x+1) / 20.0 // 0.05, 0.15, ..., 0.95
		actual := coverage[x]
		if math.Abs(float64(actual-expected)) > epsilon {
			t.Errorf("pixel %d: expected coverage %.4f, got %.4f", x, expected, actual)
		}
	}
}

// TestLargePath exercises the active edge list by filling a shape whose
// bounding box exceeds the threshold for 2D buffers.
func TestLargePath(t *testing.T) {
	const size = 400
	p := []shape.Ring{box(10, 10, 390, 390)}

	r := NewRasterizer(rect.Rect{URx: size, URy: size})
	var total float64
	r.FillNonZero(p, func(y, xMin int, coverage []float32) {
		for _, c := range coverage {
			total += float64(c)
		}
	})
	if want := 380.0 * 380.0; math.Abs(total-want) > 1e-3*want {
		t.Errorf("covered area = %.2f, want %.2f", total, want)
	}
}

// TestCTM checks that a scaling CTM maps image space to device space.
func TestCTM(t *testing.T) {
	p := []shape.Ring{box(40, 40, 80, 80)}

	r := NewRasterizer(rect.Rect{URx: 32, URy: 32})
	// downsample 4, tile origin (32, 32)
	r.CTM = matrix.Matrix{0.25, 0, 0, 0.25, -8, -8}

	var total float64
	rows := map[int]bool{}
	r.FillNonZero(p, func(y, xMin int, coverage []float32) {
		rows[y] = true
		for _, c := range coverage {
			total += float64(c)
		}
	})
	if total != 100 {
		t.Errorf("covered area = %g, want 100", total)
	}
	for y := range rows {
		if y < 2 || y >= 12 {
			t.Errorf("unexpected row %d", y)
		}
	}
}

func TestEmptyPath(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 10, URy: 10})
	called := false
	emit := func(y, xMin int, coverage []float32) { called = true }

	r.FillNonZero(nil, emit)
	r.FillEvenOdd([]shape.Ring{{}, {{X: 1, Y: 1}}}, emit)
	r.Stroke(nil, emit)
	if called {
		t.Error("emit called for empty shape")
	}
}

func box(x0, y0, x1, y1 float64) shape.Ring {
	return shape.Ring{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// TestStrokeDoublingBack checks that a polyline which reverses direction
// is drawn once, not cancelled by the overlapping return path.
func TestStrokeDoublingBack(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 64, URy: 64})
	r.Width = 2
	pts := []vec.Vec2{{X: 10, Y: 20}, {X: 30, Y: 20}, {X: 20, Y: 20}}

	var total float64
	r.Stroke(pts, func(y, xMin int, coverage []float32) {
		for _, c := range coverage {
			total += float64(c)
		}
	})
	// The start cap reaches x = 9. The turning point at x = 30 is
	// bevelled, which adds nothing beyond the line.
	if want := 21.0 * 2; math.Abs(total-want) > 1e-3*want {
		t.Errorf("covered area = %.4f, want %.4f", total, want)
	}
}

// BenchmarkRasteriseAll measures steady-state performance by reusing a single
// Rasterizer across all test cases.
func BenchmarkRasteriseAll(b *testing.B) {
	cases := allCases()
	r := NewRasterizer(rect.Rect{})

	b.ResetTimer()
	for b.Loop() {
		for _, tc := range cases {
			render(r, tc)
		}
	}
}
