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

package measure

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"seehuhn.de/go/measure/roi"
	"seehuhn.de/go/measure/tiles"
)

// DefaultMaxSources is the number of tile sources kept by the shared
// cache.
const DefaultMaxSources = 16

// Cache holds measurement lists, keyed by tile source and region.
//
// Regions are compared by identity. At most a fixed number of sources are
// kept; when more sources are added, all lists of the least recently used
// source are dropped. Entries for a source which is no longer needed
// should be removed with [Cache.Purge].
//
// A Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex // serialises get-or-create of per-source maps
	sources *lru.Cache[tiles.Source, *sourceLists]

	Log logrus.FieldLogger
}

type sourceLists struct {
	mu    sync.Mutex
	lists map[roi.ROI]*List
}

// NewCache returns a cache holding lists for up to maxSources sources.
func NewCache(maxSources int) *Cache {
	c := &Cache{Log: logrus.StandardLogger()}
	// NewWithEvict only fails for non-positive sizes.
	c.sources, _ = lru.NewWithEvict(max(maxSources, 1), func(src tiles.Source, l *sourceLists) {
		l.mu.Lock()
		n := len(l.lists)
		l.mu.Unlock()
		c.Log.WithField("measurements", n).Debug("measurement cache: source dropped")
	})
	return c
}

// sharedCache is used by managers without an explicit cache.
var sharedCache = NewCache(DefaultMaxSources)

// get returns the cached list for r, if any.
func (c *Cache) get(src tiles.Source, r roi.ROI) (*List, bool) {
	l, ok := c.sources.Get(src)
	if !ok {
		return nil, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	list, ok := l.lists[r]
	return list, ok
}

// put stores the list for r.
func (c *Cache) put(src tiles.Source, r roi.ROI, list *List) {
	l := c.register(src)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lists[r] = list
}

// register makes sure that src has an entry and returns it.
func (c *Cache) register(src tiles.Source) *sourceLists {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.sources.Get(src); ok {
		return l
	}
	l := &sourceLists{lists: make(map[roi.ROI]*List)}
	c.sources.Add(src, l)
	return l
}

// Purge removes all lists for src.
func (c *Cache) Purge(src tiles.Source) {
	c.sources.Remove(src)
}

// Len returns the number of lists stored for src.
func (c *Cache) Len(src tiles.Source) int {
	l, ok := c.sources.Peek(src)
	if !ok {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lists)
}
