package geo

import "math"

// Affine is a 2D affine transform mapping (x, y) to
// (A*x + C*y + E, B*x + D*y + F).
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Affine{A: 1, D: 1}

// Translate returns the translation by (dx, dy).
func Translate(dx, dy float64) Affine {
	return Affine{A: 1, D: 1, E: dx, F: dy}
}

// Rotate returns the rotation by deg degrees around the origin.
// Positive angles turn clockwise on a y-down page.
func Rotate(deg float64) Affine {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Affine{A: c, B: s, C: -s, D: c}
}

// Scale returns the scaling by (sx, sy) around the origin.
func Scale(sx, sy float64) Affine {
	return Affine{A: sx, D: sy}
}

// Then returns the transform applying m first and n second.
func (m Affine) Then(n Affine) Affine {
	return Affine{
		A: n.A*m.A + n.C*m.B,
		B: n.B*m.A + n.D*m.B,
		C: n.A*m.C + n.C*m.D,
		D: n.B*m.C + n.D*m.D,
		E: n.A*m.E + n.C*m.F + n.E,
		F: n.B*m.E + n.D*m.F + n.F,
	}
}

// Apply maps p through m.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Invert returns the inverse transform. A singular transform yields Identity and false.
func (m Affine) Invert() (Affine, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity, false
	}
	inv := Affine{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
	}
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv, true
}

// About returns scale then rotation applied around pivot, the order a node
// with rotation and scale attributes is drawn in.
func About(pivot Point, rotation, sx, sy float64) Affine {
	return Translate(-pivot.X, -pivot.Y).
		Then(Scale(sx, sy)).
		Then(Rotate(rotation)).
		Then(Translate(pivot.X, pivot.Y))
}

// TransformRect maps the corners of r through m and returns their bounding box.
func TransformRect(m Affine, r Rect) Rect {
	c := r.Corners()
	return BoundsOf(m.Apply(c[0]), m.Apply(c[1]), m.Apply(c[2]), m.Apply(c[3]))
}
