// pkg/core/shapes.go
package core

import (
	"math"
	"strings"

	"github.com/scorelect/drillboard/internal/geo"
)

// Kind discriminates object variants. The values double as the wire "type" field.
type Kind string

const (
	KindCone      Kind = "cone"
	KindBall      Kind = "ball"
	KindPlayer    Kind = "player"
	KindLine      Kind = "line"
	KindSquare    Kind = "square"
	KindText      Kind = "text"
	KindParagraph Kind = "paragraph"
	KindPitch     Kind = "pitch"
)

// Kinds lists every variant in palette order.
var Kinds = []Kind{KindCone, KindBall, KindPlayer, KindLine, KindSquare, KindText, KindParagraph, KindPitch}

// Valid reports whether k names a known variant.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsMarker reports whether k is a point marker.
func (k Kind) IsMarker() bool {
	return k == KindCone || k == KindBall || k == KindPlayer
}

// TwoClick reports whether placing k takes two pointer-downs.
func (k Kind) TwoClick() bool {
	return k == KindLine || k == KindSquare
}

// Shape is the sum type of drawable primitives. The unexported methods seal it to
// this package: every variant is one of the structs below.
type Shape interface {
	Kind() Kind
	// Bounds is the axis-aligned box in local, pre-transform space.
	Bounds() geo.Rect
	// Pivot is the point rotation and scale are applied around.
	Pivot() geo.Point

	translate(dx, dy float64)
	clone() Shape
}

// Anchored is implemented by every variant positioned by a single (x, y).
type Anchored interface {
	Shape
	Anchor() geo.Point
	setAnchor(p geo.Point)
}

// Marker is a point marker centred on (X, Y).
type Marker struct {
	Type  Kind
	X, Y  float64
	Size  float64
	Color string
	Label string
}

func (m *Marker) Kind() Kind { return m.Type }

func (m *Marker) Bounds() geo.Rect {
	return geo.Rect{X: m.X - m.Size/2, Y: m.Y - m.Size/2, Width: m.Size, Height: m.Size}
}

func (m *Marker) Pivot() geo.Point { return geo.Pt(m.X, m.Y) }
func (m *Marker) Anchor() geo.Point { return geo.Pt(m.X, m.Y) }
func (m *Marker) setAnchor(p geo.Point) { m.X, m.Y = p.X, p.Y }
func (m *Marker) translate(dx, dy float64) { m.X += dx; m.Y += dy }
func (m *Marker) clone() Shape { c := *m; return &c }

// Line has no anchor; it is positioned by both endpoints.
type Line struct {
	Points      [4]float64
	Color       string
	StrokeWidth float64
}

func (l *Line) Kind() Kind { return KindLine }

// Start returns the first endpoint.
func (l *Line) Start() geo.Point { return geo.Pt(l.Points[0], l.Points[1]) }

// End returns the second endpoint.
func (l *Line) End() geo.Point { return geo.Pt(l.Points[2], l.Points[3]) }

// Length returns the distance between the endpoints.
func (l *Line) Length() float64 { return geo.Distance(l.Start(), l.End()) }

func (l *Line) Bounds() geo.Rect { return geo.BoundsOf(l.Start(), l.End()) }
func (l *Line) Pivot() geo.Point { return l.Bounds().Center() }

func (l *Line) translate(dx, dy float64) {
	l.Points[0] += dx
	l.Points[1] += dy
	l.Points[2] += dx
	l.Points[3] += dy
}

func (l *Line) clone() Shape { c := *l; return &c }

// Rect is the "square" variant, anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
	Color         string
}

func (r *Rect) Kind() Kind { return KindSquare }
func (r *Rect) Bounds() geo.Rect { return geo.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height} }
func (r *Rect) Pivot() geo.Point { return geo.Pt(r.X, r.Y) }
func (r *Rect) Anchor() geo.Point { return geo.Pt(r.X, r.Y) }
func (r *Rect) setAnchor(p geo.Point) { r.X, r.Y = p.X, p.Y }
func (r *Rect) translate(dx, dy float64) { r.X += dx; r.Y += dy }
func (r *Rect) clone() Shape { c := *r; return &c }

// Text is a single block of text anchored at its top-left corner.
type Text struct {
	X, Y     float64
	Text     string
	FontSize float64
	Fill     string
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) Bounds() geo.Rect {
	lines := strings.Split(t.Text, "\n")
	width := 0.0
	for _, line := range lines {
		width = math.Max(width, MeasureText(line, t.FontSize))
	}
	return geo.Rect{X: t.X, Y: t.Y, Width: width, Height: float64(len(lines)) * t.FontSize * LineHeight}
}

func (t *Text) Pivot() geo.Point { return geo.Pt(t.X, t.Y) }
func (t *Text) Anchor() geo.Point { return geo.Pt(t.X, t.Y) }
func (t *Text) setAnchor(p geo.Point) { t.X, t.Y = p.X, p.Y }
func (t *Text) translate(dx, dy float64) { t.X += dx; t.Y += dy }
func (t *Text) clone() Shape { c := *t; return &c }

// Paragraph is multi-line text wrapped to Width.
type Paragraph struct {
	X, Y     float64
	Text     string
	FontSize float64
	Fill     string
	Width    float64
}

func (p *Paragraph) Kind() Kind { return KindParagraph }

func (p *Paragraph) Bounds() geo.Rect {
	lines := Wrap(p.Text, p.Width, func(s string) float64 { return MeasureText(s, p.FontSize) })
	return geo.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: float64(len(lines)) * p.FontSize * LineHeight}
}

func (p *Paragraph) Pivot() geo.Point { return geo.Pt(p.X, p.Y) }
func (p *Paragraph) Anchor() geo.Point { return geo.Pt(p.X, p.Y) }
func (p *Paragraph) setAnchor(a geo.Point) { p.X, p.Y = a.X, a.Y }
func (p *Paragraph) translate(dx, dy float64) { p.X += dx; p.Y += dy }
func (p *Paragraph) clone() Shape { c := *p; return &c }

// Pitch is a background diagram. Subtype is captured from the document's sport
// when the pitch is placed and is not updated when the sport changes.
type Pitch struct {
	X, Y          float64
	Width, Height float64
	Subtype       Sport
}

func (p *Pitch) Kind() Kind { return KindPitch }
func (p *Pitch) Bounds() geo.Rect { return geo.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height} }
func (p *Pitch) Pivot() geo.Point { return geo.Pt(p.X, p.Y) }
func (p *Pitch) Anchor() geo.Point { return geo.Pt(p.X, p.Y) }
func (p *Pitch) setAnchor(a geo.Point) { p.X, p.Y = a.X, a.Y }
func (p *Pitch) translate(dx, dy float64) { p.X += dx; p.Y += dy }
func (p *Pitch) clone() Shape { c := *p; return &c }

var (
	_ Anchored = (*Marker)(nil)
	_ Shape    = (*Line)(nil)
	_ Anchored = (*Rect)(nil)
	_ Anchored = (*Text)(nil)
	_ Anchored = (*Paragraph)(nil)
	_ Anchored = (*Pitch)(nil)
)
