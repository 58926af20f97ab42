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
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/tiff" // classifier output is often written as TIFF
)

// DefaultPattern is the file name pattern used if none is given.
// The verbs are replaced by the tile column and row.
const DefaultPattern = "tile_%d_%d.png"

// Dir is a single-plane source reading one image file per tile.
// Decoded tiles are kept in a bounded least-recently-used cache.
type Dir struct {
	root    string
	pattern string
	meta    Metadata
	cache   *lru.Cache[Request, Raster]

	Log logrus.FieldLogger
}

// NewDir returns a source reading tiles from the directory root.
// File names are formed by applying pattern to the column and row of a
// tile. At most cacheSize decoded tiles are kept in memory.
func NewDir(root, pattern string, meta Metadata, cacheSize int) (*Dir, error) {
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("tiles: %w", err)
	}
	if meta.ZSlices != 1 || meta.Timepoints != 1 {
		return nil, errors.New("tiles: directory sources have exactly one plane")
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("tiles: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("tiles: %s is not a directory", root)
	}

	d := &Dir{
		root:    root,
		pattern: pattern,
		meta:    meta,
		Log:     logrus.StandardLogger(),
	}
	d.cache, err = lru.NewWithEvict(max(cacheSize, 1), func(req Request, _ Raster) {
		d.Log.WithField("tile", req.String()).Debug("tile evicted")
	})
	if err != nil {
		return nil, fmt.Errorf("tiles: %w", err)
	}
	return d, nil
}

func (d *Dir) Metadata() Metadata {
	return d.meta
}

func (d *Dir) AllTiles() []Request {
	return d.meta.AllTiles()
}

func (d *Dir) TilesOverlapping(r Region) []Request {
	return d.meta.TilesOverlapping(r)
}

func (d *Dir) CachedTile(req Request) (Raster, bool) {
	return d.cache.Get(req)
}

// ReadTile decodes the file for a tile. Files larger than the tile are
// cropped at the right and bottom; smaller files are an error.
func (d *Dir) ReadTile(ctx context.Context, req Request) (Raster, error) {
	if r, ok := d.cache.Get(req); ok {
		return r, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	col, row, ok := d.meta.Index(req)
	if !ok {
		return nil, fmt.Errorf("tiles: %s: %w", req, ErrNotFound)
	}
	name := filepath.Join(d.root, fmt.Sprintf(d.pattern, col, row))

	img, err := imaging.Open(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("tiles: %s: %w", name, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("tiles: decoding %s: %w", name, err)
	}

	b := img.Bounds()
	if b.Dx() < req.TileWidth || b.Dy() < req.TileHeight {
		return nil, fmt.Errorf("tiles: %s: image is %dx%d, tile needs %dx%d",
			name, b.Dx(), b.Dy(), req.TileWidth, req.TileHeight)
	}
	r := &imageRaster{
		img: img,
		b:   image.Rectangle{Min: b.Min, Max: b.Min.Add(image.Pt(req.TileWidth, req.TileHeight))},
	}

	d.cache.Add(req, r)
	d.Log.WithFields(logrus.Fields{
		"file":  name,
		"bands": r.NumBands(),
	}).Debug("tile decoded")
	return r, nil
}

// Purge drops all decoded tiles.
func (d *Dir) Purge() {
	d.cache.Purge()
}
