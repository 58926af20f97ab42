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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/measure/tiles"
)

const example = `
source:
  dir: tiles
  width: 2000
  height: 1000
  tileWidth: 256
  tileHeight: 256
  downsample: 4
  channelType: probability
  channels:
    - name: Tumor
    - name: Stroma
    - name: Ignore*
      transparent: true
  pixelWidth: 0.25
  pixelHeight: 0.25
log:
  level: debug
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "measure.yaml")
	if err := os.WriteFile(path, []byte(example), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if cfg.Source.Dir != filepath.Join(dir, "tiles") {
		t.Errorf("tile directory %q", cfg.Source.Dir)
	}
	if cfg.Source.Pattern != tiles.DefaultPattern {
		t.Errorf("default pattern lost: %q", cfg.Source.Pattern)
	}
	if cfg.Cache.MaxSources != DefaultConfig().Cache.MaxSources {
		t.Errorf("default cache size lost: %d", cfg.Cache.MaxSources)
	}

	meta, err := cfg.Metadata()
	if err != nil {
		t.Fatal(err)
	}
	if meta.ChannelType != tiles.Probability {
		t.Errorf("channel type %s", meta.ChannelType)
	}
	if len(meta.Channels) != 3 || !meta.Channels[2].Transparent || meta.Channels[0].Transparent {
		t.Errorf("channels %v", meta.Channels)
	}
	if !meta.Calibration.HasPixelSize || meta.Calibration.PixelWidth != 0.25 {
		t.Errorf("calibration %v", meta.Calibration)
	}
	if meta.Downsample != 4 || meta.TileWidth != 256 {
		t.Errorf("grid %gx / %d", meta.Downsample, meta.TileWidth)
	}

	level, err := cfg.LogLevel()
	if err != nil || level != logrus.DebugLevel {
		t.Errorf("log level %v, %v", level, err)
	}
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level %q", cfg.Log.Level)
	}

	// the default configuration has no image
	if err := cfg.Validate(); err == nil {
		t.Error("default configuration is valid")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("source: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed file accepted")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Dir = "/data/tiles"
	cfg.Source.Width = 100
	cfg.Source.Height = 80
	cfg.Source.Channels = []ChannelConfig{{Name: "A"}, {Name: "B", Transparent: true}}

	path := filepath.Join(t.TempDir(), "sub", "measure.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Source.Dir != cfg.Source.Dir || got.Source.Width != 100 || len(got.Source.Channels) != 2 {
		t.Errorf("round trip changed the source: %+v", got.Source)
	}
	if err := got.Validate(); err != nil {
		t.Error(err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Source.Width = 10
		cfg.Source.Height = 10
		cfg.Source.Channels = []ChannelConfig{{Name: "A"}}
		return cfg
	}
	if err := valid().Validate(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"channel type", func(c *Config) { c.Source.ChannelType = "colour" }},
		{"no channels", func(c *Config) { c.Source.Channels = nil }},
		{"unnamed channel", func(c *Config) { c.Source.Channels = []ChannelConfig{{}} }},
		{"downsample", func(c *Config) { c.Source.Downsample = 0 }},
		{"half calibrated", func(c *Config) { c.Source.PixelWidth = 0.5 }},
		{"cache", func(c *Config) { c.Cache.MaxSources = 0 }},
		{"tile cache", func(c *Config) { c.Cache.Tiles = -1 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("invalid configuration accepted")
			}
		})
	}
}
