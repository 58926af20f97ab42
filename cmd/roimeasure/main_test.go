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

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/measure/config"
	"seehuhn.de/go/measure/tiles"
)

const regions = `
rois:
  - name: left
    type: rectangle
    x: 0
    y: 0
    width: 10
    height: 10
  - name: across
    type: polygon
    points: [[20, 4], [44, 4], [44, 28], [20, 28]]
  - type: points
    points: [[1.5, 1.5], [2.5, 1.5], [100, 100]]
  - name: elsewhere
    type: rectangle
    x: 500
    y: 500
    width: 10
    height: 10
`

// setupProject writes tiles, a configuration and a region file into a
// temporary directory. Tile pixels in even columns have class 0, pixels
// in odd columns have class 1.
func setupProject(t *testing.T) (cfgPath, roiPath string) {
	t.Helper()
	dir := t.TempDir()
	tileDir := filepath.Join(dir, "tiles")
	if err := os.Mkdir(tileDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Source.Dir = "tiles"
	cfg.Source.Width = 64
	cfg.Source.Height = 32
	cfg.Source.TileWidth = 32
	cfg.Source.TileHeight = 32
	cfg.Source.Channels = []config.ChannelConfig{{Name: "Even"}, {Name: "Odd"}}
	cfgPath = filepath.Join(dir, "measure.yaml")
	if err := cfg.Save(cfgPath); err != nil {
		t.Fatal(err)
	}

	cfg.Source.Dir = tileDir
	meta, err := cfg.Metadata()
	if err != nil {
		t.Fatal(err)
	}
	for _, req := range meta.AllTiles() {
		img := image.NewGray(image.Rect(0, 0, req.TileWidth, req.TileHeight))
		for y := range req.TileHeight {
			for x := range req.TileWidth {
				img.SetGray(x, y, color.Gray{Y: uint8((req.TileX + x) % 2)})
			}
		}
		col, row, _ := meta.Index(req)
		name := filepath.Join(tileDir, fmt.Sprintf(tiles.DefaultPattern, col, row))
		if err := imaging.Save(img, name); err != nil {
			t.Fatal(err)
		}
	}

	roiPath = filepath.Join(dir, "regions.yaml")
	if err := os.WriteFile(roiPath, []byte(regions), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, roiPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNames(t *testing.T) {
	cfgPath, _ := setupProject(t)
	out, err := run(t, "names", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "Classifier: Even %\n" +
		"Classifier: Even area px^2\n" +
		"Classifier: Odd %\n" +
		"Classifier: Odd area px^2\n" +
		"Classifier: Total annotated area px^2\n" +
		"Classifier: Total quantified area px^2\n"
	if out != want {
		t.Errorf("names:\n%s\nwant:\n%s", out, want)
	}
}

func TestMeasure(t *testing.T) {
	cfgPath, roiPath := setupProject(t)
	out, err := run(t, "measure", "--config", cfgPath, "--roi", roiPath, "--whole-image")
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	want := []string{
		"Name\tType\tClassifier: Even %\tClassifier: Even area px^2\tClassifier: Odd %\tClassifier: Odd area px^2\tClassifier: Total annotated area px^2\tClassifier: Total quantified area px^2",
		"Image\timage\t50\t1024\t50\t1024\t2048\t2048",
		"left\tarea\t50\t50\t50\t50\t100\t100",
		"across\tarea\t50\t288\t50\t288\t576\t576",
		"points 3\tpoints\t50\t1\t50\t1\t2\t2",
		"elsewhere\tarea\t\t\t\t\t\t",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n%q\nwant\n%q", i, lines[i], want[i])
		}
	}
}

func TestMeasureCachedOnly(t *testing.T) {
	cfgPath, roiPath := setupProject(t)
	out, err := run(t, "measure", "--config", cfgPath, "--roi", roiPath, "--cached-only")
	if err != nil {
		t.Fatal(err)
	}
	// a fresh process has no decoded tiles
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n")[1:] {
		if !strings.HasSuffix(line, "\t\t\t\t\t\t") {
			t.Errorf("row with values: %q", line)
		}
	}

	measure, _, err := newRootCmd().Find([]string{"measure"})
	if err != nil {
		t.Fatal(err)
	}
	if u := measure.Flags().Lookup("cached-only").Usage; !strings.HasPrefix(u, "diagnostics:") {
		t.Errorf("--cached-only is not marked as a diagnostics flag: %q", u)
	}
}

func TestMeasureErrors(t *testing.T) {
	cfgPath, roiPath := setupProject(t)

	if _, err := run(t, "measure", "--config", cfgPath); err == nil {
		t.Error("missing --roi accepted")
	}
	if _, err := run(t, "measure", "--config", cfgPath, "--roi", roiPath+".missing"); err == nil {
		t.Error("missing region file accepted")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("rois:\n  - type: star\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "measure", "--config", cfgPath, "--roi", bad); err == nil {
		t.Error("unknown region type accepted")
	}

	// without a configuration file there is no image
	if _, err := run(t, "names", "--config", filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("missing configuration accepted")
	}
}
