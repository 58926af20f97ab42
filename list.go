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
	"iter"
	"math"

	"seehuhn.de/go/measure/tiles"
)

// List is an immutable, ordered list of named measurements.
// All lists produced by one [Manager] have the same names in the same
// order.
type List struct {
	layout *layout
	values []float64
}

// layout holds the measurement names shared by all lists of a manager.
type layout struct {
	names []string
	index map[string]int
}

// Len returns the number of measurements.
func (l *List) Len() int {
	return len(l.values)
}

// Get returns the value of the named measurement. The value may be NaN
// if no pixels were counted.
func (l *List) Get(name string) (float64, bool) {
	i, ok := l.layout.index[name]
	if !ok {
		return 0, false
	}
	return l.values[i], true
}

// Names returns the measurement names in order.
func (l *List) Names() []string {
	return append([]string(nil), l.layout.names...)
}

// All iterates over the measurements in order.
func (l *List) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		for i, name := range l.layout.names {
			if !yield(name, l.values[i]) {
				return
			}
		}
	}
}

// newLayout returns the measurement names for the given channels.
// Area measurements are only included if the pixel area is known.
func newLayout(channels []tiles.Channel, pixelArea float64, units string) *layout {
	var names []string
	for _, ch := range channels {
		if ch.Transparent {
			continue
		}
		names = append(names, "Classifier: "+ch.Name+" %")
		if !math.IsNaN(pixelArea) {
			names = append(names, "Classifier: "+ch.Name+" area "+units)
		}
	}
	if !math.IsNaN(pixelArea) {
		names = append(names,
			"Classifier: Total annotated area "+units,
			"Classifier: Total quantified area "+units)
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	return &layout{names: names, index: index}
}

// build converts a histogram into a measurement list following the
// layout. Percentages are relative to the non-transparent pixels.
func (lt *layout) build(channels []tiles.Channel, h *histogram, pixelArea float64) *List {
	values := make([]float64, 0, len(lt.names))
	withoutIgnored := float64(h.totalWithoutIgnored)
	for c, ch := range channels {
		if ch.Transparent {
			continue
		}
		count := float64(h.counts[c])
		values = append(values, count/withoutIgnored*100)
		if !math.IsNaN(pixelArea) {
			values = append(values, count*pixelArea)
		}
	}
	if !math.IsNaN(pixelArea) {
		values = append(values,
			withoutIgnored*pixelArea,
			float64(h.total)*pixelArea)
	}
	return &List{layout: lt, values: values}
}
