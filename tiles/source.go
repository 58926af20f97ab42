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

// Package tiles describes tiled raster images produced by a pixel
// classifier, and provides two implementations: an in-memory source and
// a source reading one image file per tile.
//
// All tiles of a source have the same downsample factor. Coordinates in a
// [Request] are measured in pixels of the downsampled image; regions are
// given in full-resolution image coordinates.
package tiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested tile is not part of a source.
var ErrNotFound = errors.New("tile not found")

// ChannelType describes how the bands of a tile are to be interpreted.
type ChannelType int

// These are the supported channel types.
const (
	// Classification tiles have a single band holding a class index.
	Classification ChannelType = iota

	// Probability tiles have one band per class, holding a score.
	Probability

	// Feature tiles hold continuous values which cannot be measured as
	// class proportions.
	Feature
)

func (t ChannelType) String() string {
	switch t {
	case Classification:
		return "classification"
	case Probability:
		return "probability"
	case Feature:
		return "feature"
	default:
		return fmt.Sprintf("ChannelType(%d)", int(t))
	}
}

// ParseChannelType converts a channel type name, as returned by
// [ChannelType.String], back to a ChannelType.
func ParseChannelType(s string) (ChannelType, error) {
	switch strings.ToLower(s) {
	case "classification":
		return Classification, nil
	case "probability":
		return Probability, nil
	case "feature":
		return Feature, nil
	}
	return 0, fmt.Errorf("unknown channel type %q", s)
}

// Channel is one output class of a classifier.
type Channel struct {
	Name string

	// Transparent channels, for example a background class, are counted
	// but excluded from percentages and annotated areas.
	Transparent bool
}

// Calibration gives the physical size of a full-resolution pixel.
type Calibration struct {
	HasPixelSize bool
	PixelWidth   float64 // µm
	PixelHeight  float64 // µm
}

// Metadata describes a tiled image.
type Metadata struct {
	// Width and Height give the full-resolution image size in pixels.
	Width, Height int

	ZSlices    int
	Timepoints int

	Channels    []Channel
	ChannelType ChannelType
	Calibration Calibration

	// TileWidth and TileHeight give the size of a tile in downsampled
	// pixels. Tiles at the right and bottom edge may be smaller.
	TileWidth, TileHeight int

	// Downsample is the downsample factor of resolution level 0.
	Downsample float64
}

// Region is a rectangle in full-resolution image coordinates on one plane.
type Region struct {
	X, Y, Width, Height float64
	Z, T                int
}

// Request identifies one tile.
type Request struct {
	// TileX and TileY give the top-left corner of the tile in pixels of
	// the downsampled image.
	TileX, TileY int

	TileWidth, TileHeight int
	Z, T                  int
	Downsample            float64
}

// ImageX returns the left edge of the tile in full-resolution coordinates.
func (r Request) ImageX() float64 {
	return float64(r.TileX) * r.Downsample
}

// ImageY returns the top edge of the tile in full-resolution coordinates.
func (r Request) ImageY() float64 {
	return float64(r.TileY) * r.Downsample
}

func (r Request) String() string {
	return fmt.Sprintf("tile(x=%d, y=%d, w=%d, h=%d, z=%d, t=%d, ds=%g)",
		r.TileX, r.TileY, r.TileWidth, r.TileHeight, r.Z, r.T, r.Downsample)
}

// Raster gives access to the samples of one decoded tile.
type Raster interface {
	Width() int
	Height() int
	NumBands() int

	// Sample returns the value of band b at tile pixel (x, y).
	Sample(x, y, b int) float64
}

// Source is a tiled image produced by a pixel classifier.
//
// Implementations must be safe for concurrent use and must be comparable,
// since sources are used as cache keys.
type Source interface {
	Metadata() Metadata

	// AllTiles returns the requests for all tiles of the image, on all
	// planes.
	AllTiles() []Request

	// TilesOverlapping returns the requests for all tiles which intersect
	// the given region.
	TilesOverlapping(r Region) []Request

	// CachedTile returns a tile only if it can be provided without
	// blocking.
	CachedTile(req Request) (Raster, bool)

	// ReadTile returns a tile, reading or computing it if necessary.
	ReadTile(ctx context.Context, req Request) (Raster, error)
}
