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

// Package config reads and writes the configuration of the roimeasure
// command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/measure"
	"seehuhn.de/go/measure/tiles"
)

// Config is the configuration of the roimeasure command.
type Config struct {
	Source SourceConfig `yaml:"source"`

	Cache struct {
		// MaxSources is the number of tile sources for which measurement
		// lists are kept.
		MaxSources int `yaml:"maxSources"`

		// Tiles is the number of decoded tiles kept in memory.
		Tiles int `yaml:"tiles"`
	} `yaml:"cache"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// SourceConfig describes a directory of classified tiles.
type SourceConfig struct {
	// Dir is the tile directory. A relative path is interpreted relative
	// to the directory of the configuration file.
	Dir string `yaml:"dir"`

	// Pattern is the file name pattern, applied to tile column and row.
	Pattern string `yaml:"pattern"`

	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	TileWidth  int     `yaml:"tileWidth"`
	TileHeight int     `yaml:"tileHeight"`
	Downsample float64 `yaml:"downsample"`

	ChannelType string          `yaml:"channelType"`
	Channels    []ChannelConfig `yaml:"channels"`

	// PixelWidth and PixelHeight give the size of a full-resolution pixel
	// in µm. Zero means uncalibrated.
	PixelWidth  float64 `yaml:"pixelWidth,omitempty"`
	PixelHeight float64 `yaml:"pixelHeight,omitempty"`
}

// ChannelConfig describes one output class.
type ChannelConfig struct {
	Name        string `yaml:"name"`
	Transparent bool   `yaml:"transparent,omitempty"`
}

// DefaultConfig returns a configuration with default values.
// The image size and the channels must always be configured.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Source.Dir = "."
	cfg.Source.Pattern = tiles.DefaultPattern
	cfg.Source.TileWidth = 512
	cfg.Source.TileHeight = 512
	cfg.Source.Downsample = 1
	cfg.Source.ChannelType = tiles.Classification.String()

	cfg.Cache.MaxSources = measure.DefaultMaxSources
	cfg.Cache.Tiles = 256

	cfg.Log.Level = "info"

	return cfg
}

// Load reads the configuration from a YAML file.
// If the file does not exist, the default configuration is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	if cfg.Source.Dir != "" && !filepath.IsAbs(cfg.Source.Dir) {
		cfg.Source.Dir = filepath.Join(filepath.Dir(path), cfg.Source.Dir)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %q: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if _, err := c.Metadata(); err != nil {
		return err
	}
	if c.Cache.MaxSources <= 0 {
		return errors.New("config: cache.maxSources must be positive")
	}
	if c.Cache.Tiles <= 0 {
		return errors.New("config: cache.tiles must be positive")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Metadata returns the description of the configured tile source.
func (c *Config) Metadata() (tiles.Metadata, error) {
	s := &c.Source

	ct, err := tiles.ParseChannelType(s.ChannelType)
	if err != nil {
		return tiles.Metadata{}, fmt.Errorf("config: source.channelType: %w", err)
	}

	meta := tiles.Metadata{
		Width:       s.Width,
		Height:      s.Height,
		ZSlices:     1,
		Timepoints:  1,
		ChannelType: ct,
		TileWidth:   s.TileWidth,
		TileHeight:  s.TileHeight,
		Downsample:  s.Downsample,
	}
	for _, ch := range s.Channels {
		if ch.Name == "" {
			return tiles.Metadata{}, errors.New("config: channel without a name")
		}
		meta.Channels = append(meta.Channels, tiles.Channel{Name: ch.Name, Transparent: ch.Transparent})
	}

	switch {
	case s.PixelWidth == 0 && s.PixelHeight == 0:
		// uncalibrated
	case s.PixelWidth > 0 && s.PixelHeight > 0:
		meta.Calibration = tiles.Calibration{
			HasPixelSize: true,
			PixelWidth:   s.PixelWidth,
			PixelHeight:  s.PixelHeight,
		}
	default:
		return tiles.Metadata{}, errors.New("config: pixel width and height must both be positive")
	}

	if err := meta.Validate(); err != nil {
		return tiles.Metadata{}, fmt.Errorf("config: %w", err)
	}
	return meta, nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}
