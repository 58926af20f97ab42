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

// Package measure computes class proportions and areas for regions of
// interest over the tiled output of a pixel classifier.
//
// A [Manager] finds the tiles covering a region, draws the region into a
// mask for every tile, and counts the classified pixels under the mask.
// The resulting [List] is cached per tile source and region, so that
// repeated queries for the same region are cheap.
package measure

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/measure/raster"
	"seehuhn.de/go/measure/roi"
	"seehuhn.de/go/measure/tiles"
)

// Object is an annotated object which can be measured.
type Object interface {
	// ROI returns the region of the object, or nil if it has none.
	ROI() roi.ROI

	// IsRoot reports whether the object stands for the whole image.
	IsRoot() bool
}

// Manager computes measurements for one tile source.
//
// A Manager is safe for concurrent use. Computations are serialised: at
// most one region is measured at a time.
type Manager struct {
	src       tiles.Source
	meta      tiles.Metadata
	cache     *Cache
	layout    *layout
	pixelArea float64
	units     string

	// root is the region used for the whole image, or nil if the source
	// has several z-slices and several timepoints.
	root roi.ROI

	mu sync.Mutex // serialises calculate

	log logrus.FieldLogger
}

// Option configures a [Manager].
type Option func(*Manager)

// WithCache sets the cache used to store measurement lists.
// By default, all managers share one cache.
func WithCache(c *Cache) Option {
	return func(m *Manager) { m.cache = c }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) { m.log = log }
}

// masks holds reusable tile masks. Each computation takes one Masker for
// its whole duration, so no Masker is ever used by two goroutines at once.
var masks = sync.Pool{
	New: func() any { return raster.NewMasker() },
}

// NewManager returns a manager for src.
//
// The area of a pixel is derived from the calibration of the source: if
// the physical pixel size is known, areas are given in mm^2, otherwise in
// px^2 of the full-resolution image.
func NewManager(src tiles.Source, opts ...Option) *Manager {
	m := &Manager{
		src:   src,
		meta:  src.Metadata(),
		cache: sharedCache,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	ds := m.meta.Downsample
	if cal := m.meta.Calibration; cal.HasPixelSize {
		scale := ds / 1000
		m.pixelArea = (cal.PixelWidth * scale) * (cal.PixelHeight * scale)
		m.units = "mm^2"
	} else {
		m.pixelArea = ds * ds
		m.units = "px^2"
	}

	if m.meta.ZSlices == 1 || m.meta.Timepoints == 1 {
		m.root = roi.NewRectangle(0, 0,
			float64(m.meta.Width), float64(m.meta.Height), roi.DefaultPlane)
	}

	m.layout = newLayout(m.meta.Channels, m.pixelArea, m.units)
	return m
}

// PixelArea returns the area of one pixel at the resolution of the tiles,
// together with its unit. The area is NaN if it cannot be determined.
func (m *Manager) PixelArea() (float64, string) {
	return m.pixelArea, m.units
}

// Root returns the region used to measure the whole image, or nil if
// the image has several z-slices and several timepoints.
func (m *Manager) Root() roi.ROI {
	return m.root
}

// Names returns the names of all measurements, in the order used by every
// [List] of this manager.
func (m *Manager) Names() []string {
	return append([]string(nil), m.layout.names...)
}

// Value returns the named measurement for an object. Objects without a
// region, and the root object, are measured over the whole image.
//
// If cachedOnly is set, only tiles which are available without blocking
// are used, and no value is returned if any tile is missing.
func (m *Manager) Value(ctx context.Context, obj Object, name string, cachedOnly bool) (float64, bool) {
	r := obj.ROI()
	if r == nil || obj.IsRoot() {
		r = m.root
	}
	return m.ROIValue(ctx, r, name, cachedOnly)
}

// ROIValue returns the named measurement for a region.
// No value is returned for unknown names, or if the measurement list
// cannot be computed.
func (m *Manager) ROIValue(ctx context.Context, r roi.ROI, name string, cachedOnly bool) (float64, bool) {
	if r == nil {
		return 0, false
	}
	l, ok := m.cache.get(m.src, r)
	if !ok {
		l, ok = m.Calculate(ctx, r, cachedOnly)
		if !ok {
			return 0, false
		}
	}
	return l.Get(name)
}

// Calculate returns the measurement list for a region, computing it if it
// is not cached. Computed lists are added to the cache.
//
// No list is returned if the source holds feature values, if the region
// covers no tiles, or if any tile cannot be obtained. Partial results are
// never returned or cached.
func (m *Manager) Calculate(ctx context.Context, r roi.ROI, cachedOnly bool) (*List, bool) {
	if r == nil {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// another caller may have computed the list while we were waiting
	if l, ok := m.cache.get(m.src, r); ok {
		m.log.Debug("measurement cache hit")
		return l, true
	}

	l, ok := m.calculate(ctx, r, cachedOnly)
	if !ok {
		return nil, false
	}
	m.cache.put(m.src, r, l)
	return l, true
}

type tileData struct {
	req  tiles.Request
	tile tiles.Raster
}

func (m *Manager) calculate(ctx context.Context, r roi.ROI, cachedOnly bool) (*List, bool) {
	if m.meta.ChannelType == tiles.Feature {
		m.log.WithField("type", m.meta.ChannelType).Debug("unsupported channel type")
		return nil, false
	}

	var requests []tiles.Request
	switch {
	case m.root != nil && r == m.root:
		requests = m.src.AllTiles()
	case !r.IsEmpty():
		requests = m.src.TilesOverlapping(m.regionOf(r))
	}
	if len(requests) == 0 {
		m.log.WithField("bounds", r.Bounds()).Debug("request empty")
		return nil, false
	}

	// Obtain all tiles before counting, so that nothing is counted
	// unless every tile is available.
	data := make([]tileData, 0, len(requests))
	for _, req := range requests {
		var tile tiles.Raster
		if cachedOnly {
			var ok bool
			tile, ok = m.src.CachedTile(req)
			if !ok {
				return nil, false
			}
		} else {
			var err error
			tile, err = m.src.ReadTile(ctx, req)
			if err != nil {
				m.log.WithFields(logrus.Fields{
					"tile":  req.String(),
					"error": err,
				}).Error("error requesting tile")
				return nil, false
			}
		}
		data = append(data, tileData{req: req, tile: tile})
	}

	channels := m.meta.Channels
	h := newHistogram(len(channels))
	masker := masks.Get().(*raster.Masker)
	defer masks.Put(masker)
	for _, d := range data {
		mask := masker.Mask(r, raster.Window{
			X:          d.req.ImageX(),
			Y:          d.req.ImageY(),
			Downsample: d.req.Downsample,
			Width:      d.tile.Width(),
			Height:     d.tile.Height(),
		})

		switch m.meta.ChannelType {
		case tiles.Classification:
			if skipped := h.addClassification(d.tile, mask); skipped > 0 {
				fields := logrus.Fields{
					"tile":     d.req.String(),
					"pixels":   skipped,
					"channels": len(channels),
				}
				if d.tile.NumBands() > 1 {
					fields["bands"] = d.tile.NumBands()
				}
				m.log.WithFields(fields).Error("class index out of range")
			}
		case tiles.Probability:
			h.addProbability(d.tile, mask)
		}
	}
	h.finish(channels)

	return m.layout.build(channels, h, m.pixelArea), true
}

// regionOf returns the image region whose tiles are needed to measure r.
// Lines are padded by the stroke width.
func (m *Manager) regionOf(r roi.ROI) tiles.Region {
	b := r.Bounds()
	pad := 0.0
	if r.IsLine() {
		pad = m.meta.Downsample
	}
	plane := r.Plane()
	return tiles.Region{
		X:      b.LLx - pad,
		Y:      b.LLy - pad,
		Width:  b.URx - b.LLx + 2*pad,
		Height: b.URy - b.LLy + 2*pad,
		Z:      plane.Z,
		T:      plane.T,
	}
}
