package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Pt(0, 0), Pt(3, 4)), 1e-9)
	assert.InDelta(t, 0.0, Distance(Pt(7, 7), Pt(7, 7)), 1e-9)
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{name: "east", p: Pt(10, 0), want: 0},
		{name: "south on y-down page", p: Pt(0, 10), want: 90},
		{name: "west", p: Pt(-10, 0), want: 180},
		{name: "north", p: Pt(0, -10), want: -90},
		{name: "diagonal", p: Pt(5, 5), want: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Angle(Pt(0, 0), tt.p), 1e-9)
		})
	}
}

func TestRectFromCorners_OrderIndependent(t *testing.T) {
	want := Rect{X: 10, Y: 20, Width: 30, Height: 40}

	assert.Equal(t, want, RectFromCorners(Pt(10, 20), Pt(40, 60)))
	assert.Equal(t, want, RectFromCorners(Pt(40, 60), Pt(10, 20)))
	assert.Equal(t, want, RectFromCorners(Pt(40, 20), Pt(10, 60)))
	assert.Equal(t, want, RectFromCorners(Pt(10, 60), Pt(40, 20)))
}

func TestBoundsOf(t *testing.T) {
	r := BoundsOf(Pt(5, 1), Pt(-2, 8), Pt(3, 3))
	assert.Equal(t, Rect{X: -2, Y: 1, Width: 7, Height: 7}, r)
	assert.Equal(t, Rect{}, BoundsOf())
}

func TestRect_CenterAndMaxSide(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 60}
	assert.Equal(t, Pt(20, 40), r.Center())
	assert.Equal(t, 60.0, r.MaxSide())
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, r.Contains(Pt(5, 5), 0))
	assert.True(t, r.Contains(Pt(10, 10), 0))
	assert.False(t, r.Contains(Pt(12, 5), 0))
	assert.True(t, r.Contains(Pt(12, 5), 2))
}

func TestSegmentDistance(t *testing.T) {
	a, b := Pt(0, 0), Pt(100, 0)

	assert.InDelta(t, 5.0, SegmentDistance(Pt(50, 5), a, b), 1e-9)
	assert.InDelta(t, 5.0, SegmentDistance(Pt(-3, 4), a, b), 1e-9)
	assert.InDelta(t, 5.0, SegmentDistance(Pt(3, 4), Pt(0, 0), Pt(0, 0)), 1e-9)
}

func TestSegmentDistance_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		a, b Point
		want float64
	}{
		{"duplicate endpoints", Pt(13, 7), Pt(10, 3), Pt(10, 3), 5},
		{"point on endpoint", Pt(10, 3), Pt(10, 3), Pt(10, 3), 0},
		{"vertical segment", Pt(4, 50), Pt(0, 0), Pt(0, 100), 4},
		{"past the end", Pt(0, 106), Pt(0, 0), Pt(0, 100), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SegmentDistance(tt.p, tt.a, tt.b), 1e-9)
		})
	}
}

func TestAffine_InvertRoundTrip(t *testing.T) {
	m := About(Pt(50, 50), 30, 2, 0.5)
	inv, ok := m.Invert()
	require.True(t, ok)

	p := Pt(12, -7)
	back := inv.Apply(m.Apply(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestAffine_SingularInvert(t *testing.T) {
	_, ok := Scale(0, 1).Invert()
	assert.False(t, ok)
}

func TestAbout_KeepsPivotFixed(t *testing.T) {
	pivot := Pt(100, 100)
	m := About(pivot, 73, 3, 3)
	got := m.Apply(pivot)
	assert.InDelta(t, pivot.X, got.X, 1e-9)
	assert.InDelta(t, pivot.Y, got.Y, 1e-9)
}

func TestTransformRect_Rotation90(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 20, Height: 10}
	got := TransformRect(About(r.Center(), 90, 1, 1), r)

	assert.InDelta(t, 5.0, got.X, 1e-9)
	assert.InDelta(t, -5.0, got.Y, 1e-9)
	assert.InDelta(t, 10.0, got.Width, 1e-9)
	assert.InDelta(t, 20.0, got.Height, 1e-9)
}

func TestRotate_Direction(t *testing.T) {
	p := Rotate(90).Apply(Pt(1, 0))
	assert.InDelta(t, 0.0, p.X, 1e-9)
	assert.InDelta(t, 1.0, p.Y, 1e-9)
	assert.False(t, math.IsNaN(p.X))
}
