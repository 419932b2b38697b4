package render

import (
	"image/color"
	"math"

	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/pkg/core"
)

var (
	grass      = MustColor("#3A7D44")
	grassDark  = MustColor("#32703B")
	court      = MustColor("#D9A066")
	courtLines = MustColor("#5A3A1A")
)

// diagram is a field drawn in metres (yards for American football) and fitted into a tile.
type diagram struct {
	length, width float64
	surface       color.Color
	lines         color.Color
	markings      func(p *painter, m geo.Affine, d diagram)
}

func diagramFor(sport core.Sport) diagram {
	switch sport {
	case core.SportSoccer:
		return diagram{length: 105, width: 68, surface: grass, lines: color.White, markings: soccerMarkings}
	case core.SportBasketball:
		return diagram{length: 28, width: 15, surface: court, lines: courtLines, markings: basketballMarkings}
	case core.SportAmericanFootball:
		return diagram{length: 120, width: 53.3, surface: grass, lines: color.White, markings: americanFootballMarkings}
	}
	return diagram{length: 145, width: 90, surface: grass, lines: color.White, markings: gaaMarkings}
}

// draw fits the field into w×h pixels with a margin and strokes its markings.
func (d diagram) draw(p *painter, w, h int) {
	const margin = 0.05
	fw, fh := float64(w)*(1-2*margin), float64(h)*(1-2*margin)
	s := math.Min(fw/d.length, fh/d.width)
	ox := (float64(w) - d.length*s) / 2
	oy := (float64(h) - d.width*s) / 2
	m := geo.Scale(s, s).Then(geo.Translate(ox, oy))

	p.stroke(m, rectPoints(geo.Rect{Width: d.length, Height: d.width}), true, d.lineWidth(), d.lines, nil)
	p.stroke(m, []geo.Point{{X: d.length / 2}, {X: d.length / 2, Y: d.width}}, false, d.lineWidth(), d.lines, nil)
	d.markings(p, m, d)
}

func (d diagram) lineWidth() float64 {
	return d.length / 250
}

// mirror calls fn for the left end and again mirrored onto the right end.
func (d diagram) mirror(m geo.Affine, fn func(m geo.Affine)) {
	fn(m)
	flip := geo.Scale(-1, 1).Then(geo.Translate(d.length, 0))
	fn(flip.Then(m))
}

func (d diagram) hline(p *painter, m geo.Affine, x float64) {
	p.stroke(m, []geo.Point{{X: x}, {X: x, Y: d.width}}, false, d.lineWidth(), d.lines, nil)
}

func (d diagram) box(p *painter, m geo.Affine, depth, span float64) {
	top := (d.width - span) / 2
	p.stroke(m, []geo.Point{{X: 0, Y: top}, {X: depth, Y: top}, {X: depth, Y: top + span}, {X: 0, Y: top + span}}, false, d.lineWidth(), d.lines, nil)
}

func (d diagram) spot(p *painter, m geo.Affine, c geo.Point) {
	p.fill(m, circle(c, d.lineWidth()*1.5, 12), d.lines)
}

func gaaMarkings(p *painter, m geo.Affine, d diagram) {
	mid := d.width / 2
	d.mirror(m, func(m geo.Affine) {
		for _, x := range []float64{13, 20, 45, 65} {
			d.hline(p, m, x)
		}
		d.box(p, m, 4.5, 14)
		d.box(p, m, 13, 19)
		p.stroke(m, arc(geo.Pt(20, mid), 13, -90, 90, 32), false, d.lineWidth(), d.lines, nil)
		d.spot(p, m, geo.Pt(11, mid))
	})
	p.stroke(m, []geo.Point{{X: d.length/2 - 5, Y: mid}, {X: d.length/2 + 5, Y: mid}}, false, d.lineWidth(), d.lines, nil)
}

func soccerMarkings(p *painter, m geo.Affine, d diagram) {
	mid := d.width / 2
	center := geo.Pt(d.length/2, mid)
	p.stroke(m, circle(center, 9.15, 48), true, d.lineWidth(), d.lines, nil)
	d.spot(p, m, center)
	d.mirror(m, func(m geo.Affine) {
		d.box(p, m, 16.5, 40.32)
		d.box(p, m, 5.5, 18.32)
		d.spot(p, m, geo.Pt(11, mid))
		// the arc of the D outside the penalty area
		half := math.Acos(5.5/9.15) * 180 / math.Pi
		p.stroke(m, arc(geo.Pt(11, mid), 9.15, -half, half, 24), false, d.lineWidth(), d.lines, nil)
	})
}

func basketballMarkings(p *painter, m geo.Affine, d diagram) {
	mid := d.width / 2
	p.stroke(m, circle(geo.Pt(d.length/2, mid), 1.8, 32), true, d.lineWidth(), d.lines, nil)
	d.mirror(m, func(m geo.Affine) {
		d.box(p, m, 5.8, 4.9)
		p.stroke(m, arc(geo.Pt(5.8, mid), 1.8, -90, 90, 24), false, d.lineWidth(), d.lines, nil)
		basket := geo.Pt(1.575, mid)
		p.stroke(m, circle(basket, 0.225, 12), true, d.lineWidth(), d.lines, nil)
		// three-point line: straight sections 0.9 m in from the sidelines, then the arc
		side := mid - 0.9
		half := math.Asin(side/6.75) * 180 / math.Pi
		corner := basket.X + 6.75*math.Cos(half*math.Pi/180)
		p.stroke(m, []geo.Point{{X: 0, Y: 0.9}, {X: corner, Y: 0.9}}, false, d.lineWidth(), d.lines, nil)
		p.stroke(m, []geo.Point{{X: 0, Y: d.width - 0.9}, {X: corner, Y: d.width - 0.9}}, false, d.lineWidth(), d.lines, nil)
		p.stroke(m, arc(basket, 6.75, -half, half, 32), false, d.lineWidth(), d.lines, nil)
	})
}

func americanFootballMarkings(p *painter, m geo.Affine, d diagram) {
	d.mirror(m, func(m geo.Affine) {
		p.fill(m, rectPoints(geo.Rect{Width: 10, Height: d.width}), grassDark)
		d.hline(p, m, 10)
	})
	p.stroke(m, rectPoints(geo.Rect{Width: d.length, Height: d.width}), true, d.lineWidth(), d.lines, nil)
	for yard := 15.0; yard < 110; yard += 5 {
		d.hline(p, m, yard)
	}
	// hash marks every yard
	for yard := 11.0; yard < 110; yard++ {
		for _, y := range []float64{1, 20.2, 33.1, d.width - 1} {
			p.stroke(m, []geo.Point{{X: yard, Y: y - 0.4}, {X: yard, Y: y + 0.4}}, false, d.lineWidth()/2, d.lines, nil)
		}
	}
}
