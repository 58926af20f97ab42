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
	"errors"
	"math"
)

// LevelSize returns the size of the downsampled image in pixels.
func (m *Metadata) LevelSize() (w, h int) {
	w = int(math.Ceil(float64(m.Width) / m.Downsample))
	h = int(math.Ceil(float64(m.Height) / m.Downsample))
	return w, h
}

// Columns returns the number of tile columns.
func (m *Metadata) Columns() int {
	w, _ := m.LevelSize()
	return (w + m.TileWidth - 1) / m.TileWidth
}

// Rows returns the number of tile rows.
func (m *Metadata) Rows() int {
	_, h := m.LevelSize()
	return (h + m.TileHeight - 1) / m.TileHeight
}

// Tile returns the request for the tile in the given column and row.
func (m *Metadata) Tile(col, row, z, t int) (Request, bool) {
	if col < 0 || row < 0 || col >= m.Columns() || row >= m.Rows() ||
		z < 0 || z >= m.ZSlices || t < 0 || t >= m.Timepoints {
		return Request{}, false
	}
	w, h := m.LevelSize()
	x, y := col*m.TileWidth, row*m.TileHeight
	return Request{
		TileX:      x,
		TileY:      y,
		TileWidth:  min(m.TileWidth, w-x),
		TileHeight: min(m.TileHeight, h-y),
		Z:          z,
		T:          t,
		Downsample: m.Downsample,
	}, true
}

// Index returns the column and row of a tile request, and whether the
// request matches a tile of the grid exactly.
func (m *Metadata) Index(req Request) (col, row int, ok bool) {
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return 0, 0, false
	}
	col, row = req.TileX/m.TileWidth, req.TileY/m.TileHeight
	tile, ok := m.Tile(col, row, req.Z, req.T)
	return col, row, ok && tile == req
}

// AllTiles returns the requests for all tiles, ordered by plane, row and
// column.
func (m *Metadata) AllTiles() []Request {
	cols, rows := m.Columns(), m.Rows()
	res := make([]Request, 0, cols*rows*m.ZSlices*m.Timepoints)
	for t := range m.Timepoints {
		for z := range m.ZSlices {
			for row := range rows {
				for col := range cols {
					req, _ := m.Tile(col, row, z, t)
					res = append(res, req)
				}
			}
		}
	}
	return res
}

// TilesOverlapping returns the requests for all tiles intersecting r.
// A region of zero width or height still selects the tiles containing
// its edge.
func (m *Metadata) TilesOverlapping(r Region) []Request {
	if r.Z < 0 || r.Z >= m.ZSlices || r.T < 0 || r.T >= m.Timepoints {
		return nil
	}
	w, h := m.LevelSize()
	x0, x1 := levelSpan(r.X, r.Width, m.Downsample, w)
	y0, y1 := levelSpan(r.Y, r.Height, m.Downsample, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	var res []Request
	for row := y0 / m.TileHeight; row <= (y1-1)/m.TileHeight; row++ {
		for col := x0 / m.TileWidth; col <= (x1-1)/m.TileWidth; col++ {
			req, _ := m.Tile(col, row, r.Z, r.T)
			res = append(res, req)
		}
	}
	return res
}

// levelSpan converts an interval of image coordinates into a half-open
// interval of downsampled pixels, clamped to [0, size).
func levelSpan(pos, length, downsample float64, size int) (int, int) {
	lo := math.Floor(pos / downsample)
	hi := math.Ceil((pos + length) / downsample)
	if hi <= lo {
		hi = lo + 1
	}
	lo = max(lo, 0)
	hi = min(hi, float64(size))
	if lo >= hi {
		return 0, 0
	}
	return int(lo), int(hi)
}

// Validate checks that the metadata describe a usable tile grid.
func (m *Metadata) Validate() error {
	switch {
	case m.Width <= 0 || m.Height <= 0:
		return errors.New("image size must be positive")
	case m.TileWidth <= 0 || m.TileHeight <= 0:
		return errors.New("tile size must be positive")
	case !(m.Downsample > 0) || math.IsInf(m.Downsample, 0):
		return errors.New("downsample must be positive")
	case m.ZSlices <= 0 || m.Timepoints <= 0:
		return errors.New("number of z-slices and timepoints must be positive")
	case len(m.Channels) == 0:
		return errors.New("no channels")
	}
	return nil
}
