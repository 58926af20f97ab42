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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/measure/roi"
	"seehuhn.de/go/measure/shape"
)

// Mask pixel values.
const (
	Off = 0x00
	On  = 0xff
)

// maskThreshold is the minimum coverage for a pixel to be part of a mask.
const maskThreshold = 0.5

// Window describes the part of the image covered by one tile.
type Window struct {
	X, Y          float64 // top-left corner in full-resolution image coordinates
	Downsample    float64 // image pixels per tile pixel
	Width, Height int     // tile size in tile pixels
}

// area is implemented by regions with a closed outline.
type area interface {
	Rings() []shape.Ring
	FillRule() roi.FillRule
}

// Masker draws regions into binary tile masks.
// The mask buffer and the rasterizer are reused between calls, so a
// Masker must not be used concurrently.
type Masker struct {
	rast *Rasterizer
	buf  *image.Gray
}

// NewMasker returns a new Masker.
func NewMasker() *Masker {
	return &Masker{rast: NewRasterizer(rect.Rect{})}
}

// Mask returns a mask of size w.Width × w.Height in which the pixels
// belonging to r are set to [On] and all others to [Off].
//
// Areas are filled with their fill rule. Lines are stroked with a width of
// one tile pixel, square caps and miter joins. For point regions, the pixel containing each point is
// set. A pixel belongs to a filled or stroked region if at least half of
// it is covered.
//
// The returned image is only valid until the next call to Mask.
func (m *Masker) Mask(r roi.ROI, w Window) *image.Gray {
	mask := m.clear(w.Width, w.Height)
	if w.Width <= 0 || w.Height <= 0 || r.IsEmpty() {
		return mask
	}

	if r.IsPoint() {
		for _, p := range r.Points() {
			x := math.Floor((p.X - w.X) / w.Downsample)
			y := math.Floor((p.Y - w.Y) / w.Downsample)
			if x >= 0 && y >= 0 && x < float64(w.Width) && y < float64(w.Height) {
				mask.Pix[int(y)*mask.Stride+int(x)] = On
			}
		}
		return mask
	}

	rast := m.rast
	rast.Reset(rect.Rect{URx: float64(w.Width), URy: float64(w.Height)})
	rast.CTM = matrix.Matrix{
		1 / w.Downsample, 0,
		0, 1 / w.Downsample,
		-w.X / w.Downsample, -w.Y / w.Downsample,
	}

	emit := func(y, xMin int, coverage []float32) {
		row := mask.Pix[y*mask.Stride:]
		for i, c := range coverage {
			if c >= maskThreshold {
				row[xMin+i] = On
			}
		}
	}

	switch {
	case r.IsLine():
		rast.Width = w.Downsample
		rast.Stroke(r.Points(), emit)
	case r.IsArea():
		a, ok := r.(area)
		if !ok {
			break
		}
		if a.FillRule() == roi.EvenOdd {
			rast.FillEvenOdd(a.Rings(), emit)
		} else {
			rast.FillNonZero(a.Rings(), emit)
		}
	}
	return mask
}

// clear returns the mask buffer resized to w × h with all pixels off.
// The buffer is reallocated only if it is too small.
func (m *Masker) clear(w, h int) *image.Gray {
	w, h = max(w, 0), max(h, 0)
	n := w * h
	if m.buf == nil || cap(m.buf.Pix) < n {
		m.buf = image.NewGray(image.Rect(0, 0, w, h))
		return m.buf
	}
	pix := m.buf.Pix[:n]
	clear(pix)
	m.buf.Pix = pix
	m.buf.Stride = w
	m.buf.Rect = image.Rect(0, 0, w, h)
	return m.buf
}

// Count returns the number of pixels in mask which are set.
func Count(mask *image.Gray) int {
	n := 0
	for _, v := range mask.Pix {
		if v != Off {
			n++
		}
	}
	return n
}
