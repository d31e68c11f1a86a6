package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Sub returns the vector from other to p.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Manhattan returns |X| + |Y|.
func (p Point) Manhattan() float64 {
	return math.Abs(p.X) + math.Abs(p.Y)
}

// Size is a width/height pair. It is used both for page dimensions in page
// units and for rendered bitmap dimensions in display pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether either dimension is non-positive.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// BBox is an axis-aligned rectangle in page coordinates with the origin at
// the top-left corner of the page. A well-formed BBox has X0 <= X1 and
// Y0 <= Y1.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewBBoxFromPoints creates a bounding box spanning two corner points given
// in any order.
func NewBBoxFromPoints(p1, p2 Point) BBox {
	return BBox{
		X0: math.Min(p1.X, p2.X),
		Y0: math.Min(p1.Y, p2.Y),
		X1: math.Max(p1.X, p2.X),
		Y1: math.Max(p1.Y, p2.Y),
	}
}

// Width returns X1 - X0
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns Y1 - Y0
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: (b.X0 + b.X1) / 2,
		Y: (b.Y0 + b.Y1) / 2,
	}
}

// Contains checks if a point is inside the bounding box (edges inclusive)
func (b BBox) Contains(p Point) bool {
	return p.X >= b.X0 && p.X <= b.X1 && p.Y >= b.Y0 && p.Y <= b.Y1
}

// Overlaps reports whether the interiors of two boxes intersect. Boxes that
// only share an edge do not overlap.
func (b BBox) Overlaps(other BBox) bool {
	return b.X0 < other.X1 && b.X1 > other.X0 &&
		b.Y0 < other.Y1 && b.Y1 > other.Y0
}

// Union returns the smallest box containing both boxes
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Expand grows the box by a margin on all sides
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X0: b.X0 - margin,
		Y0: b.Y0 - margin,
		X1: b.X1 + margin,
		Y1: b.Y1 + margin,
	}
}

// Translate moves the box by (dx, dy).
func (b BBox) Translate(dx, dy float64) BBox {
	return BBox{X0: b.X0 + dx, Y0: b.Y0 + dy, X1: b.X1 + dx, Y1: b.Y1 + dy}
}

// Normalize swaps coordinates so that X0 <= X1 and Y0 <= Y1.
func (b BBox) Normalize() BBox {
	if b.X0 > b.X1 {
		b.X0, b.X1 = b.X1, b.X0
	}
	if b.Y0 > b.Y1 {
		b.Y0, b.Y1 = b.Y1, b.Y0
	}
	return b
}

// ClampTo clamps every edge independently into [0,width] x [0,height].
// The box may shrink.
func (b BBox) ClampTo(width, height float64) BBox {
	return BBox{
		X0: clamp(b.X0, 0, width),
		Y0: clamp(b.Y0, 0, height),
		X1: clamp(b.X1, 0, width),
		Y1: clamp(b.Y1, 0, height),
	}
}

// ShiftInto moves the box back inside [0,width] x [0,height] without
// changing its size. A box larger than the page on an axis is pinned to 0
// and clipped on that axis.
func (b BBox) ShiftInto(width, height float64) BBox {
	b.X0, b.X1 = shiftAxis(b.X0, b.X1, width)
	b.Y0, b.Y1 = shiftAxis(b.Y0, b.Y1, height)
	return b
}

func shiftAxis(lo, hi, limit float64) (float64, float64) {
	size := hi - lo
	if size >= limit {
		return 0, limit
	}
	if lo < 0 {
		return 0, size
	}
	if hi > limit {
		return limit - size, limit
	}
	return lo, hi
}

// Within reports whether the box lies entirely inside [0,width] x [0,height].
func (b BBox) Within(width, height float64) bool {
	return b.X0 >= 0 && b.Y0 >= 0 && b.X1 <= width && b.Y1 <= height
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
