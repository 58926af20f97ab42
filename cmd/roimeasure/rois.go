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
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/measure/roi"
)

// roiFile is the YAML representation of a list of regions.
type roiFile struct {
	ROIs []roiEntry `yaml:"rois"`
}

// roiEntry describes one region. Rectangles and ellipses use the bounding
// box fields, all other types use Points.
type roiEntry struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	Points [][2]float64 `yaml:"points,omitempty"`

	Z int `yaml:"z,omitempty"`
	T int `yaml:"t,omitempty"`
}

type namedROI struct {
	name string
	roi  roi.ROI
}

func readROIs(path string) ([]namedROI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f roiFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}

	res := make([]namedROI, 0, len(f.ROIs))
	for i, s := range f.ROIs {
		r, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("%s: region %d: %w", path, i+1, err)
		}
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("%s %d", s.Type, i+1)
		}
		res = append(res, namedROI{name: name, roi: r})
	}
	return res, nil
}

func (s *roiEntry) build() (roi.ROI, error) {
	plane := roi.Plane{C: roi.DefaultPlane.C, Z: s.Z, T: s.T}

	pts := make([]vec.Vec2, len(s.Points))
	for i, p := range s.Points {
		pts[i] = vec.Vec2{X: p[0], Y: p[1]}
	}

	switch s.Type {
	case "rectangle":
		return roi.NewRectangle(s.X, s.Y, s.Width, s.Height, plane), nil
	case "ellipse":
		return roi.NewEllipse(s.X, s.Y, s.Width, s.Height, plane), nil
	case "polygon":
		if len(pts) < 3 {
			return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(pts))
		}
		return roi.NewPolygon(pts, plane), nil
	case "line":
		if len(pts) != 2 {
			return nil, fmt.Errorf("line needs 2 points, got %d", len(pts))
		}
		return roi.NewLine(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, plane), nil
	case "polyline":
		if len(pts) < 2 {
			return nil, fmt.Errorf("polyline needs at least 2 points, got %d", len(pts))
		}
		return roi.NewPolyline(pts, plane), nil
	case "points":
		return roi.NewPoints(pts, plane), nil
	}
	return nil, fmt.Errorf("unknown region type %q", s.Type)
}
