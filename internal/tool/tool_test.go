package tool

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/pkg/core"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "obj-" + strconv.Itoa(n)
	}
}

func TestMachine_StartsIdle(t *testing.T) {
	m := New()

	assert.Equal(t, Idle, m.State())
	out, err := m.PointerDown(geo.Pt(1, 1))
	require.NoError(t, err)
	assert.False(t, out.Handled)
	assert.Nil(t, m.PointerMove(geo.Pt(2, 2)))
}

func TestMachine_Select(t *testing.T) {
	tests := []struct {
		kind  core.Kind
		state State
	}{
		{core.KindCone, ArmedSimple},
		{core.KindPlayer, ArmedSimple},
		{core.KindText, ArmedSimple},
		{core.KindParagraph, ArmedSimple},
		{core.KindPitch, ArmedSimple},
		{core.KindLine, ArmedLine},
		{core.KindSquare, ArmedRect},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			m := New()
			require.NoError(t, m.Select(tt.kind))
			assert.Equal(t, tt.state, m.State())
			assert.False(t, m.AwaitingSecondPoint())
		})
	}

	assert.ErrorIs(t, New().Select("arrow"), ErrUnknownKind)
}

func TestMachine_MarkerPlacement(t *testing.T) {
	m := New(WithIDGenerator(sequentialIDs()))
	require.NoError(t, m.Select(core.KindCone))

	out, err := m.PointerDown(geo.Pt(100, 100))
	require.NoError(t, err)
	require.NotNil(t, out.Object)

	obj := out.Object
	assert.Equal(t, "obj-1", obj.ID)
	assert.Equal(t, core.DefaultTransform, obj.Transform)
	marker := obj.Shape.(*core.Marker)
	assert.Equal(t, 100.0, marker.X)
	assert.Equal(t, 100.0, marker.Y)
	assert.Equal(t, 25.0, marker.Size)
	assert.Empty(t, marker.Color)
	assert.Equal(t, Idle, m.State())
}

func TestMachine_PlayerDefaultColor(t *testing.T) {
	m := New()
	require.NoError(t, m.Select(core.KindPlayer))

	out, err := m.PointerDown(geo.Pt(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "#000000", out.Object.Shape.(*core.Marker).Color)
}

func TestMachine_PitchCapturesSport(t *testing.T) {
	m := New()
	m.Sport = core.SportSoccer
	require.NoError(t, m.Select(core.KindPitch))

	out, err := m.PointerDown(geo.Pt(10, 20))
	require.NoError(t, err)

	m.Sport = core.SportBasketball
	pitch := out.Object.Shape.(*core.Pitch)
	assert.Equal(t, core.SportSoccer, pitch.Subtype)
	assert.Equal(t, 200.0, pitch.Width)
	assert.Equal(t, 150.0, pitch.Height)
}

func TestMachine_LineEndToEnd(t *testing.T) {
	m := New()
	require.NoError(t, m.Select(core.KindLine))

	out, err := m.PointerDown(geo.Pt(0, 0))
	require.NoError(t, err)
	assert.True(t, out.Handled)
	assert.Nil(t, out.Object)
	assert.True(t, m.AwaitingSecondPoint())

	preview := m.PointerMove(geo.Pt(50, 0))
	require.NotNil(t, preview)
	assert.InDelta(t, 50, preview.Length(), 1e-9)

	out, err = m.PointerDown(geo.Pt(100, 0))
	require.NoError(t, err)
	require.NotNil(t, out.Object)

	line := out.Object.Shape.(*core.Line)
	assert.Equal(t, [4]float64{0, 0, 100, 0}, line.Points)
	assert.Equal(t, "#FFA500", line.Color)
	assert.Equal(t, 3.0, line.StrokeWidth)
	assert.Nil(t, m.Preview())
	assert.Equal(t, Idle, m.State())
}

func TestMachine_RectOrderIndependent(t *testing.T) {
	place := func(a, b geo.Point) *core.Rect {
		m := New()
		require.NoError(t, m.Select(core.KindSquare))
		_, err := m.PointerDown(a)
		require.NoError(t, err)
		out, err := m.PointerDown(b)
		require.NoError(t, err)
		return out.Object.Shape.(*core.Rect)
	}

	forward := place(geo.Pt(10, 20), geo.Pt(110, 70))
	backward := place(geo.Pt(110, 70), geo.Pt(10, 20))

	assert.Equal(t, forward, backward)
	assert.Equal(t, &core.Rect{X: 10, Y: 20, Width: 100, Height: 50, Color: "#FFFF00"}, forward)
}

func TestMachine_DegenerateRejected(t *testing.T) {
	m := New()
	require.NoError(t, m.Select(core.KindSquare))
	_, err := m.PointerDown(geo.Pt(5, 5))
	require.NoError(t, err)

	out, err := m.PointerDown(geo.Pt(5, 50))
	assert.ErrorIs(t, err, ErrDegenerateShape)
	assert.Nil(t, out.Object)
	assert.Equal(t, Idle, m.State())
}

func TestMachine_DegenerateAllowedWhenDisabled(t *testing.T) {
	m := New(WithMinShapeSize(0))
	require.NoError(t, m.Select(core.KindLine))
	_, err := m.PointerDown(geo.Pt(5, 5))
	require.NoError(t, err)

	out, err := m.PointerDown(geo.Pt(5, 5))
	require.NoError(t, err)
	assert.NotNil(t, out.Object)
}

func TestMachine_CancelDiscardsFirstPoint(t *testing.T) {
	m := New()
	require.NoError(t, m.Select(core.KindLine))
	_, err := m.PointerDown(geo.Pt(0, 0))
	require.NoError(t, err)
	m.PointerMove(geo.Pt(3, 3))

	assert.True(t, m.Cancel())
	assert.Equal(t, Idle, m.State())
	assert.Nil(t, m.Preview())
	assert.False(t, m.AwaitingSecondPoint())
	assert.False(t, m.Cancel())
}

func TestMachine_Drop(t *testing.T) {
	m := New()
	require.NoError(t, m.Select(core.KindLine))

	obj, err := m.Drop(core.KindBall, geo.Pt(40, 60))
	require.NoError(t, err)
	assert.Equal(t, Idle, m.State())
	p, ok := obj.Anchor()
	require.True(t, ok)
	assert.Equal(t, geo.Pt(40, 60), p)

	obj, err = m.Drop(core.KindLine, geo.Pt(10, 10))
	require.NoError(t, err)
	assert.Equal(t, [4]float64{10, 10, 110, 10}, obj.Shape.(*core.Line).Points)

	_, err = m.Drop("arrow", geo.Pt(0, 0))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestMachine_TextEditing(t *testing.T) {
	m := New()

	require.True(t, m.BeginEdit("t1", "New Text"))
	assert.Equal(t, EditingText, m.State())
	assert.Equal(t, "New Text", m.Buffer())

	m.SetBuffer("Drill 2")
	id, text, ok := m.CommitEdit()
	require.True(t, ok)
	assert.Equal(t, "t1", id)
	assert.Equal(t, "Drill 2", text)
	assert.Equal(t, Idle, m.State())

	_, _, ok = m.CommitEdit()
	assert.False(t, ok)
}

func TestMachine_BeginEditRefusedWhenArmed(t *testing.T) {
	m := New()
	require.NoError(t, m.Select(core.KindCone))

	assert.False(t, m.BeginEdit("t1", "x"))
	assert.Equal(t, ArmedSimple, m.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "armed-line", ArmedLine.String())
	assert.Equal(t, "State(42)", State(42).String())
}
