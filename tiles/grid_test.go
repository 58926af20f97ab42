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
	"testing"
)

func testMetadata() Metadata {
	return Metadata{
		Width:       200,
		Height:      100,
		ZSlices:     1,
		Timepoints:  1,
		Channels:    []Channel{{Name: "Tumor"}, {Name: "Stroma"}},
		ChannelType: Classification,
		TileWidth:   32,
		TileHeight:  32,
		Downsample:  2,
	}
}

func TestGridSize(t *testing.T) {
	m := testMetadata()
	w, h := m.LevelSize()
	if w != 100 || h != 50 {
		t.Errorf("level size %dx%d, want 100x50", w, h)
	}
	if m.Columns() != 4 || m.Rows() != 2 {
		t.Errorf("grid %dx%d, want 4x2", m.Columns(), m.Rows())
	}

	// edge tiles are truncated
	req, ok := m.Tile(3, 1, 0, 0)
	if !ok {
		t.Fatal("tile (3, 1) missing")
	}
	if req.TileWidth != 4 || req.TileHeight != 18 {
		t.Errorf("edge tile is %dx%d, want 4x18", req.TileWidth, req.TileHeight)
	}
	if req.ImageX() != 192 || req.ImageY() != 64 {
		t.Errorf("edge tile origin (%g, %g), want (192, 64)", req.ImageX(), req.ImageY())
	}

	if _, ok := m.Tile(4, 0, 0, 0); ok {
		t.Error("tile (4, 0) should not exist")
	}
}

func TestAllTiles(t *testing.T) {
	m := testMetadata()
	m.ZSlices = 2
	all := m.AllTiles()
	if len(all) != 16 {
		t.Fatalf("got %d tiles, want 16", len(all))
	}

	area := 0
	seen := map[Request]bool{}
	for _, req := range all {
		if seen[req] {
			t.Errorf("duplicate tile %s", req)
		}
		seen[req] = true
		area += req.TileWidth * req.TileHeight
	}
	if area != 2*100*50 {
		t.Errorf("tiles cover %d pixels, want %d", area, 2*100*50)
	}
}

func TestTilesOverlapping(t *testing.T) {
	m := testMetadata()

	cases := []struct {
		name   string
		region Region
		want   int
	}{
		{"inside_one", Region{X: 2, Y: 2, Width: 10, Height: 10}, 1},
		{"across_columns", Region{X: 60, Y: 2, Width: 10, Height: 10}, 2},
		{"across_four", Region{X: 60, Y: 60, Width: 10, Height: 10}, 4},
		{"everything", Region{X: -10, Y: -10, Width: 500, Height: 500}, 8},
		{"zero_height", Region{X: 2, Y: 10, Width: 100, Height: 0}, 2},
		{"point", Region{X: 64, Y: 0}, 1},
		{"right_edge", Region{X: 0, Y: 0, Width: 64, Height: 64}, 1},
		{"outside", Region{X: 300, Y: 0, Width: 10, Height: 10}, 0},
		{"left_of_image", Region{X: -20, Y: 0, Width: 10, Height: 10}, 0},
		{"wrong_plane", Region{X: 2, Y: 2, Width: 10, Height: 10, Z: 1}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.TilesOverlapping(tc.region)
			if len(got) != tc.want {
				t.Errorf("got %d tiles, want %d: %v", len(got), tc.want, got)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	m := testMetadata()
	for _, req := range m.AllTiles() {
		col, row, ok := m.Index(req)
		if !ok {
			t.Errorf("%s not found in grid", req)
			continue
		}
		if back, _ := m.Tile(col, row, 0, 0); back != req {
			t.Errorf("round trip of %s gave %s", req, back)
		}
	}

	req, _ := m.Tile(1, 1, 0, 0)
	req.TileWidth = 7
	if _, _, ok := m.Index(req); ok {
		t.Error("modified request matched the grid")
	}
}

func TestValidate(t *testing.T) {
	m := testMetadata()
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	broken := []func(*Metadata){
		func(m *Metadata) { m.Width = 0 },
		func(m *Metadata) { m.TileHeight = -1 },
		func(m *Metadata) { m.Downsample = 0 },
		func(m *Metadata) { m.Timepoints = 0 },
		func(m *Metadata) { m.Channels = nil },
	}
	for i, f := range broken {
		m := testMetadata()
		f(&m)
		if m.Validate() == nil {
			t.Errorf("case %d: expected an error", i)
		}
	}
}

func TestParseChannelType(t *testing.T) {
	for _, ct := range []ChannelType{Classification, Probability, Feature} {
		got, err := ParseChannelType(ct.String())
		if err != nil || got != ct {
			t.Errorf("ParseChannelType(%q) = %v, %v", ct.String(), got, err)
		}
	}
	if _, err := ParseChannelType("colour"); err == nil {
		t.Error("expected an error for an unknown channel type")
	}
}
