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
	"fmt"
	"sync"
)

// Memory is a source holding all tiles in memory.
//
// Tiles only become available to [Memory.CachedTile] after they have been
// read once, or after they have been marked with [Memory.Prewarm]. This
// mimics a source which computes tiles on demand.
type Memory struct {
	meta Metadata

	mu     sync.Mutex
	tiles  map[Request]Raster
	cached map[Request]bool
	reads  int
	fail   func(Request) error
}

// NewMemory returns an empty in-memory source.
func NewMemory(meta Metadata) (*Memory, error) {
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("tiles: %w", err)
	}
	return &Memory{
		meta:   meta,
		tiles:  make(map[Request]Raster),
		cached: make(map[Request]bool),
	}, nil
}

// Fill sets every tile of the source to the raster returned by gen.
func (m *Memory) Fill(gen func(req Request) Raster) {
	for _, req := range m.meta.AllTiles() {
		m.Put(req, gen(req))
	}
}

// Put stores the raster for one tile.
func (m *Memory) Put(req Request, r Raster) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiles[req] = r
}

// Prewarm marks the given tiles as cached.
// If no tiles are given, all tiles are marked.
func (m *Memory) Prewarm(reqs ...Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(reqs) == 0 {
		for req := range m.tiles {
			m.cached[req] = true
		}
		return
	}
	for _, req := range reqs {
		m.cached[req] = true
	}
}

// Evict removes the given tiles from the cache.
// If no tiles are given, the cache is cleared.
func (m *Memory) Evict(reqs ...Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(reqs) == 0 {
		clear(m.cached)
		return
	}
	for _, req := range reqs {
		delete(m.cached, req)
	}
}

// FailWith installs a function which is consulted before each blocking
// read. If it returns an error, the read fails with that error.
// Passing nil removes the function.
func (m *Memory) FailWith(fail func(Request) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

// Reads returns the number of successful calls to [Memory.ReadTile].
func (m *Memory) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *Memory) Metadata() Metadata {
	return m.meta
}

func (m *Memory) AllTiles() []Request {
	return m.meta.AllTiles()
}

func (m *Memory) TilesOverlapping(r Region) []Request {
	return m.meta.TilesOverlapping(r)
}

func (m *Memory) CachedTile(req Request) (Raster, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cached[req] {
		return nil, false
	}
	r, ok := m.tiles[req]
	return r, ok
}

func (m *Memory) ReadTile(ctx context.Context, req Request) (Raster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		if err := m.fail(req); err != nil {
			return nil, fmt.Errorf("tiles: reading %s: %w", req, err)
		}
	}
	r, ok := m.tiles[req]
	if !ok {
		return nil, fmt.Errorf("tiles: %s: %w", req, ErrNotFound)
	}
	m.reads++
	m.cached[req] = true
	return r, nil
}
