package render

import (
	"image"
	"image/color"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/scorelect/drillboard/internal/geo"
)

// painter fills and strokes polygons on an RGBA image. Coordinates passed to it
// are mapped through a matrix into image pixels first.
type painter struct {
	dst    *image.RGBA
	filler *rasterx.Filler
	dasher *rasterx.Dasher
}

func newPainter(dst *image.RGBA) *painter {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	return &painter{
		dst:    dst,
		filler: rasterx.NewFiller(w, h, rasterx.NewScannerGV(w, h, dst, b)),
		dasher: rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, dst, b)),
	}
}

func fixedP(p geo.Point) fixed.Point26_6 {
	return rasterx.ToFixedP(p.X, p.Y)
}

// fill paints the closed polygon pts.
func (p *painter) fill(m geo.Affine, pts []geo.Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	p.filler.Clear()
	p.filler.SetColor(c)
	p.filler.Start(fixedP(m.Apply(pts[0])))
	for _, pt := range pts[1:] {
		p.filler.Line(fixedP(m.Apply(pt)))
	}
	p.filler.Stop(true)
	p.filler.Draw()
}

// stroke outlines pts. width and dashes are in local units and scaled with m.
func (p *painter) stroke(m geo.Affine, pts []geo.Point, closed bool, width float64, c color.Color, dashes []float64) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	k := scaleOf(m)
	var d []float64
	for _, v := range dashes {
		d = append(d, v*k)
	}
	p.dasher.Clear()
	p.dasher.SetStroke(fixed.Int26_6(width*k*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, d, 0)
	p.dasher.SetColor(c)
	p.dasher.Start(fixedP(m.Apply(pts[0])))
	for _, pt := range pts[1:] {
		p.dasher.Line(fixedP(m.Apply(pt)))
	}
	p.dasher.Stop(closed)
	p.dasher.Draw()
}

// blit draws src stretched over the local rectangle r, mapped through m.
func (p *painter) blit(m geo.Affine, r geo.Rect, src image.Image) {
	sb := src.Bounds()
	if sb.Empty() || r.Width <= 0 || r.Height <= 0 {
		return
	}
	a := geo.Translate(-float64(sb.Min.X), -float64(sb.Min.Y)).
		Then(geo.Scale(r.Width/float64(sb.Dx()), r.Height/float64(sb.Dy()))).
		Then(geo.Translate(r.X, r.Y)).
		Then(m)
	s2d := f64.Aff3{a.A, a.C, a.E, a.B, a.D, a.F}
	draw.BiLinear.Transform(p.dst, s2d, src, sb, draw.Over, nil)
}

// scaleOf is the mean linear scale factor of m.
func scaleOf(m geo.Affine) float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

// circle approximates a circle of radius r with n segments.
func circle(c geo.Point, r float64, n int) []geo.Point {
	return arc(c, r, 0, 360, n)[:n]
}

// arc returns n+1 points along the arc from start to end degrees, clockwise on a y-down page.
func arc(c geo.Point, r, start, end float64, n int) []geo.Point {
	pts := make([]geo.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := (start + (end-start)*float64(i)/float64(n)) * math.Pi / 180
		pts = append(pts, geo.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a)))
	}
	return pts
}

func rectPoints(r geo.Rect) []geo.Point {
	c := r.Corners()
	return c[:]
}
