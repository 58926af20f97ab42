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

package tiles

import (
	"image"
	"image/color"
)

// Planar is a raster with float32 samples, stored pixel by pixel with all
// bands of a pixel next to each other.
type Planar struct {
	W, H, Bands int
	Pix         []float32
}

// NewPlanar allocates a zero-filled raster.
func NewPlanar(w, h, bands int) *Planar {
	return &Planar{W: w, H: h, Bands: bands, Pix: make([]float32, w*h*bands)}
}

func (p *Planar) Width() int    { return p.W }
func (p *Planar) Height() int   { return p.H }
func (p *Planar) NumBands() int { return p.Bands }

func (p *Planar) Sample(x, y, b int) float64 {
	return float64(p.Pix[(y*p.W+x)*p.Bands+b])
}

// Set sets band b of pixel (x, y) to v.
func (p *Planar) Set(x, y, b int, v float32) {
	p.Pix[(y*p.W+x)*p.Bands+b] = v
}

// Labels is a single-band raster of class indices.
type Labels struct {
	W, H int
	Pix  []uint8
}

// NewLabels allocates a raster with all pixels in class 0.
func NewLabels(w, h int) *Labels {
	return &Labels{W: w, H: h, Pix: make([]uint8, w*h)}
}

func (l *Labels) Width() int    { return l.W }
func (l *Labels) Height() int   { return l.H }
func (l *Labels) NumBands() int { return 1 }

func (l *Labels) Sample(x, y, _ int) float64 {
	return float64(l.Pix[y*l.W+x])
}

// Set sets the class of pixel (x, y).
func (l *Labels) Set(x, y int, class uint8) {
	l.Pix[y*l.W+x] = class
}

// FromImage wraps a decoded image as a raster.
//
// Paletted and gray-scale images have a single band, holding the palette
// index or the gray value. All other images have four bands holding the
// non-premultiplied red, green, blue and alpha values in the range 0-255.
func FromImage(img image.Image) Raster {
	return &imageRaster{img: img, b: img.Bounds()}
}

type imageRaster struct {
	img image.Image
	b   image.Rectangle
}

func (r *imageRaster) Width() int  { return r.b.Dx() }
func (r *imageRaster) Height() int { return r.b.Dy() }

func (r *imageRaster) NumBands() int {
	switch r.img.(type) {
	case *image.Paletted, *image.Gray, *image.Gray16:
		return 1
	default:
		return 4
	}
}

func (r *imageRaster) Sample(x, y, b int) float64 {
	x += r.b.Min.X
	y += r.b.Min.Y
	switch img := r.img.(type) {
	case *image.Paletted:
		return float64(img.ColorIndexAt(x, y))
	case *image.Gray:
		return float64(img.GrayAt(x, y).Y)
	case *image.Gray16:
		return float64(img.Gray16At(x, y).Y)
	}

	c := color.NRGBAModel.Convert(r.img.At(x, y)).(color.NRGBA)
	switch b {
	case 0:
		return float64(c.R)
	case 1:
		return float64(c.G)
	case 2:
		return float64(c.B)
	default:
		return float64(c.A)
	}
}
