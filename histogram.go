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
	"image"

	"seehuhn.de/go/measure/raster"
	"seehuhn.de/go/measure/tiles"
)

// histogram holds the number of masked pixels per channel.
type histogram struct {
	counts []uint64

	// total counts all masked pixels which were assigned to a channel,
	// totalWithoutIgnored excludes transparent channels.
	total               uint64
	totalWithoutIgnored uint64
}

func newHistogram(nChannels int) *histogram {
	return &histogram{counts: make([]uint64, nChannels)}
}

// addClassification counts the masked pixels of a classification tile,
// using band 0 as the class index. Pixels with a class outside the
// channel range are not counted; their number is returned.
func (h *histogram) addClassification(tile tiles.Raster, mask *image.Gray) (skipped int) {
	w, hgt := tile.Width(), tile.Height()
	n := float64(len(h.counts))
	for y := range hgt {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, m := range row {
			if m == raster.Off {
				continue
			}
			v := tile.Sample(x, y, 0)
			if !(v >= 0 && v < n) {
				skipped++
				continue
			}
			h.counts[int(v)]++
			h.total++
		}
	}
	return skipped
}

// addProbability counts the masked pixels of a probability tile. Each
// pixel is assigned to the first band with the largest value among the
// first min(channels, bands) bands.
func (h *histogram) addProbability(tile tiles.Raster, mask *image.Gray) {
	w, hgt := tile.Width(), tile.Height()
	n := min(len(h.counts), tile.NumBands())
	if n == 0 {
		return
	}
	for y := range hgt {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, m := range row {
			if m == raster.Off {
				continue
			}
			best := tile.Sample(x, y, 0)
			ind := 0
			for b := 1; b < n; b++ {
				if v := tile.Sample(x, y, b); v > best {
					best = v
					ind = b
				}
			}
			h.counts[ind]++
			h.total++
		}
	}
}

// finish computes the total without transparent channels.
func (h *histogram) finish(channels []tiles.Channel) {
	h.totalWithoutIgnored = 0
	for c, ch := range channels {
		if !ch.Transparent {
			h.totalWithoutIgnored += h.counts[c]
		}
	}
}
