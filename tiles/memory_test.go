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
	"testing"
)

func TestMemoryCaching(t *testing.T) {
	src, err := NewMemory(testMetadata())
	if err != nil {
		t.Fatal(err)
	}
	src.Fill(func(req Request) Raster {
		return NewLabels(req.TileWidth, req.TileHeight)
	})

	req := src.AllTiles()[0]
	if _, ok := src.CachedTile(req); ok {
		t.Fatal("tile cached before first read")
	}

	ctx := context.Background()
	r, err := src.ReadTile(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width() != req.TileWidth || r.Height() != req.TileHeight {
		t.Errorf("tile is %dx%d, want %dx%d", r.Width(), r.Height(), req.TileWidth, req.TileHeight)
	}
	if _, ok := src.CachedTile(req); !ok {
		t.Error("tile not cached after read")
	}
	if src.Reads() != 1 {
		t.Errorf("%d reads, want 1", src.Reads())
	}

	src.Evict()
	if _, ok := src.CachedTile(req); ok {
		t.Error("tile still cached after Evict")
	}
	src.Prewarm()
	for _, req := range src.AllTiles() {
		if _, ok := src.CachedTile(req); !ok {
			t.Errorf("%s not cached after Prewarm", req)
		}
	}
	src.Evict(req)
	if _, ok := src.CachedTile(req); ok {
		t.Error("evicted tile still cached")
	}
}

func TestMemoryErrors(t *testing.T) {
	src, err := NewMemory(testMetadata())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	req := src.AllTiles()[0]
	if _, err := src.ReadTile(ctx, req); !errors.Is(err, ErrNotFound) {
		t.Errorf("reading a missing tile: got %v, want ErrNotFound", err)
	}

	src.Put(req, NewLabels(req.TileWidth, req.TileHeight))
	errBroken := errors.New("broken")
	src.FailWith(func(Request) error { return errBroken })
	if _, err := src.ReadTile(ctx, req); !errors.Is(err, errBroken) {
		t.Errorf("got %v, want injected error", err)
	}
	src.FailWith(nil)
	if _, err := src.ReadTile(ctx, req); err != nil {
		t.Errorf("read after removing failure: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := src.ReadTile(cancelled, req); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}

	if _, err := NewMemory(Metadata{}); err == nil {
		t.Error("NewMemory accepted invalid metadata")
	}
}
