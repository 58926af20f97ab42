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

package raster

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// strokeSegment is a line segment in image coordinates.
type strokeSegment struct {
	A, B vec.Vec2 // endpoints
	T    vec.Vec2 // unit tangent (A→B direction)
	N    vec.Vec2 // unit normal (90° CCW from T)
}

// Stroke renders the open polyline through pts using Width and
// MiterLimit. Ends get square caps, which extend the line by half the
// width. Corners get miter joins, and are bevelled where the miter would
// exceed MiterLimit. A polyline without any segment of non-zero length
// is drawn as an axis-aligned square of side Width around its first point.
//
// The emit callback receives coverage row-by-row; its slice argument is
// valid only during the call.
func (r *Rasterizer) Stroke(pts []vec.Vec2, emit func(y, xMin int, coverage []float32)) {
	if len(pts) == 0 {
		return
	}

	r.segs = r.segs[:0]
	for i := 1; i < len(pts); i++ {
		r.addStrokeSegment(pts[i-1], pts[i])
	}

	// All outlines go into one buffer and are filled together, so that
	// self-overlapping strokes are painted once.
	r.stroke = r.stroke[:0]
	r.strokeOffsets = r.strokeOffsets[:0]

	d := r.Width / 2
	if len(r.segs) == 0 {
		P := pts[0]
		r.strokeOffsets = append(r.strokeOffsets, 0)
		r.stroke = append(r.stroke,
			vec.Vec2{X: P.X - d, Y: P.Y - d},
			vec.Vec2{X: P.X + d, Y: P.Y - d},
			vec.Vec2{X: P.X + d, Y: P.Y + d},
			vec.Vec2{X: P.X - d, Y: P.Y + d},
		)
	} else {
		r.strokeOpen(r.segs, d)
		if len(r.stroke) >= 3 {
			r.strokeOffsets = append(r.strokeOffsets, 0)
		}
	}

	r.fillStrokeOutlines(emit)
}

// addStrokeSegment appends a line segment to the segment buffer.
// Segments of (almost) zero length are dropped.
func (r *Rasterizer) addStrokeSegment(a, b vec.Vec2) {
	d := b.Sub(a)
	length := d.Length()
	if length < zeroLengthThreshold {
		return
	}
	t := d.Mul(1 / length)
	n := vec.Vec2{X: -t.Y, Y: t.X}
	r.segs = append(r.segs, strokeSegment{A: a, B: b, T: t, N: n})
}

// cross returns the z component of the cross product of the unit
// tangents of two consecutive segments. Positive values are right turns
// in image coordinates (y pointing down).
func cross(s1, s2 *strokeSegment) float64 {
	return s1.T.X*s2.T.Y - s1.T.Y*s2.T.X
}

// strokeOpen appends the outline of an open polyline to r.stroke.
// The outline is a single polygon: the +N side is traversed forwards,
// the -N side backwards. Joins are placed on the outer side of each
// corner; on the inner side the two offset lines are intersected.
func (r *Rasterizer) strokeOpen(segs []strokeSegment, d float64) {
	first, last := &segs[0], &segs[len(segs)-1]

	r.addCap(first.A, first.T.Mul(-1), d)

	skip := false
	for i := range segs {
		seg := &segs[i]
		if !skip {
			r.stroke = append(r.stroke, seg.A.Add(seg.N.Mul(d)))
		}
		skip = false
		if i == len(segs)-1 {
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
			break
		}
		next := &segs[i+1]
		sinTheta := cross(seg, next)
		switch {
		case math.Abs(sinTheta) < collinearityThreshold:
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
		case sinTheta > 0:
			skip = r.addInnerIntersectionOrOffsets(seg.B, seg.T, next.T, seg.N, next.N, d, true)
		default:
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
			r.addJoin(seg.B, seg.T, next.T, d, true)
		}
	}

	r.addCap(last.B, last.T, d)

	skip = false
	for i := len(segs) - 1; i >= 0; i-- {
		seg := &segs[i]
		if !skip {
			r.stroke = append(r.stroke, seg.B.Sub(seg.N.Mul(d)))
		}
		skip = false
		if i == 0 {
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
			break
		}
		prev := &segs[i-1]
		sinTheta := cross(prev, seg)
		switch {
		case math.Abs(sinTheta) < collinearityThreshold:
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
		case sinTheta > 0:
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
			r.addJoin(seg.A, prev.T, seg.T, d, false)
		default:
			skip = r.addInnerIntersectionOrOffsets(seg.A, prev.T, seg.T, prev.N, seg.N, d, false)
		}
	}
}

// addCap adds a square cap at point P. T is the outward tangent direction
// and d is half the stroke width.
func (r *Rasterizer) addCap(P, T vec.Vec2, d float64) {
	N := vec.Vec2{X: -T.Y, Y: T.X}
	ext := P.Add(T.Mul(d))
	r.stroke = append(r.stroke, ext.Add(N.Mul(d)), ext.Sub(N.Mul(d)))
}

// innerIntersection returns the intersection point of the two inner
// offset lines at a corner. It fails for nearly collinear segments.
func innerIntersection(P, T1, T2 vec.Vec2, d float64, positiveSide bool) (vec.Vec2, bool) {
	cosTheta := T1.Dot(T2)
	if cosTheta > 1-1e-9 {
		return vec.Vec2{}, false
	}

	// cos(θ/2)
	halfAngle := math.Sqrt((1 + cosTheta) / 2)
	if halfAngle < 1e-9 {
		return vec.Vec2{}, false
	}

	N1 := vec.Vec2{X: -T1.Y, Y: T1.X}
	N2 := vec.Vec2{X: -T2.Y, Y: T2.X}
	dir := N1.Add(N2)
	if !positiveSide {
		dir = dir.Mul(-1)
	}
	l := dir.Length()
	if l < 1e-9 {
		return vec.Vec2{}, false
	}
	return P.Add(dir.Mul(d / (l * halfAngle))), true
}

// addInnerIntersectionOrOffsets handles the inner side of a corner.
// It reports whether the intersection point was used, in which case the
// caller must not add the offset point of the following segment.
func (r *Rasterizer) addInnerIntersectionOrOffsets(P, T1, T2, N1, N2 vec.Vec2, d float64, positiveSide bool) bool {
	if pt, ok := innerIntersection(P, T1, T2, d, positiveSide); ok {
		r.stroke = append(r.stroke, pt)
		return true
	}
	if positiveSide {
		r.stroke = append(r.stroke, P.Add(N1.Mul(d)), P.Add(N2.Mul(d)))
	} else {
		r.stroke = append(r.stroke, P.Sub(N1.Mul(d)), P.Sub(N2.Mul(d)))
	}
	return false
}

// addJoin adds a miter join at point P where the tangent changes from T1
// to T2, on the side selected by positiveSide. If the miter would exceed
// MiterLimit, nothing is added and the offset points added by the caller
// form a bevel.
func (r *Rasterizer) addJoin(P, T1, T2 vec.Vec2, d float64, positiveSide bool) {
	cosTheta := T1.Dot(T2)
	sinTheta := T1.X*T2.Y - T1.Y*T2.X
	if sinTheta > -collinearityThreshold && sinTheta < collinearityThreshold {
		return
	}

	if cosTheta < cuspCosineThreshold {
		// The polyline doubles back: draw two caps instead of a join.
		r.addCap(P, T1, d)
		r.addCap(P, T2.Mul(-1), d)
		return
	}

	// The miter length ratio is 1/cos(θ/2), where θ is the angle
	// between the tangents.
	const miterEpsilon = 1e-10
	cosHalf := math.Sqrt((1 + cosTheta) / 2)
	if cosHalf <= 0 || 1/cosHalf > r.MiterLimit+miterEpsilon {
		return
	}
	N1 := vec.Vec2{X: -T1.Y, Y: T1.X}
	N2 := vec.Vec2{X: -T2.Y, Y: T2.X}
	bisector := N1.Add(N2)
	if !positiveSide {
		bisector = bisector.Mul(-1)
	}
	if l := bisector.Length(); l > zeroLengthThreshold {
		r.stroke = append(r.stroke, P.Add(bisector.Mul(d/(l*cosHalf))))
	}
}

// fillStrokeOutlines fills all collected stroke polygons as one compound
// shape with the nonzero winding rule.
func (r *Rasterizer) fillStrokeOutlines(emit func(y, xMin int, coverage []float32)) {
	if len(r.strokeOffsets) == 0 {
		return
	}

	r.edges = r.edges[:0]
	r.edgeBBoxFirst = true
	for i, start := range r.strokeOffsets {
		end := len(r.stroke)
		if i+1 < len(r.strokeOffsets) {
			end = r.strokeOffsets[i+1]
		}
		r.addPolygon(r.stroke[start:end])
	}

	xMin, xMax, yMin, yMax, ok := r.clippedBBox()
	if !ok {
		return
	}
	r.fillEdges(xMin, xMax, yMin, yMax, fillNonZero, emit)
}
