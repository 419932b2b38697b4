// Package geo holds the planar geometry used by the editor: points, axis-aligned
// rectangles, angles, distances and the affine transforms objects are drawn with.
// All values are in stage-local units (logical page units at scale 1).
package geo

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
)

// Point is a 2D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) xy() geom.XY {
	return geom.XY{X: p.X, Y: p.Y}
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return b.xy().Sub(a.xy()).Length()
}

// Angle returns the direction from origin to p in degrees, atan2(dy, dx).
func Angle(origin, p Point) float64 {
	d := p.Sub(origin)
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

// SegmentDistance returns the shortest distance from p to the segment a-b.
func SegmentDistance(p, a, b Point) float64 {
	if a == b {
		return Distance(p, a)
	}
	seq := geom.NewSequence([]float64{a.X, a.Y, b.X, b.Y}, geom.DimXY)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		return Distance(p, a)
	}
	pt, err := p.xy().AsPoint()
	if err != nil {
		return Distance(p, a)
	}
	d, ok := geom.Distance(pt.AsGeometry(), ls.AsGeometry())
	if !ok {
		return Distance(p, a)
	}
	return d
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromCorners returns the normalized rectangle spanned by two opposite corners,
// whatever the order they are given in.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// BoundsOf returns the smallest rectangle containing all points.
// It returns the zero Rect when called without points.
func BoundsOf(points ...Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// MaxSide returns the larger of width and height.
func (r Rect) MaxSide() float64 {
	return math.Max(r.Width, r.Height)
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

// Contains reports whether p lies inside r grown by tolerance on every side.
func (r Rect) Contains(p Point, tolerance float64) bool {
	return p.X >= r.X-tolerance && p.X <= r.X+r.Width+tolerance &&
		p.Y >= r.Y-tolerance && p.Y <= r.Y+r.Height+tolerance
}

// Inset returns r shrunk by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}
