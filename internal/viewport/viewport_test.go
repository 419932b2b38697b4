package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/pkg/core"
)

func TestLogicalSize(t *testing.T) {
	assert.Equal(t, Size{Width: 842, Height: 595}, LogicalSize(core.Landscape))
	assert.Equal(t, Size{Width: 595, Height: 842}, LogicalSize(core.Portrait))
}

func TestFit(t *testing.T) {
	tests := []struct {
		name      string
		o         core.Orientation
		container Size
		scale     float64
	}{
		{"exact", core.Landscape, Size{842, 595}, 1},
		{"width bound", core.Landscape, Size{421, 1000}, 0.5},
		{"height bound", core.Portrait, Size{2000, 421}, 0.5},
		{"empty container", core.Landscape, Size{0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Fit(tt.o, tt.container)
			assert.InDelta(t, tt.scale, v.Scale, 1e-9)
			r := v.Rendered()
			assert.LessOrEqual(t, r.Width, tt.container.Width+1e-9)
			assert.LessOrEqual(t, r.Height, tt.container.Height+1e-9)
		})
	}
}

func TestFit_PreservesAspect(t *testing.T) {
	v := Fit(core.Landscape, Size{1200, 1200})
	r := v.Rendered()

	assert.InDelta(t, 842.0/595.0, r.Width/r.Height, 1e-9)
	assert.InDelta(t, 0, v.Offset.X, 1e-9)
	assert.Greater(t, v.Offset.Y, 0.0)
}

func TestToStage_RoundTrip(t *testing.T) {
	v := Fit(core.Portrait, Size{1000, 1000})

	container := v.ToContainer(geo.Pt(100, 200))
	stage, ok := v.ToStage(container)
	require.True(t, ok)
	assert.InDelta(t, 100, stage.X, 1e-9)
	assert.InDelta(t, 200, stage.Y, 1e-9)
}

func TestToStage_ZeroScale(t *testing.T) {
	v := Fit(core.Landscape, Size{})

	_, ok := v.ToStage(geo.Pt(1, 1))
	assert.False(t, ok)
}

func TestOnPage(t *testing.T) {
	v := Fit(core.Landscape, Size{842, 595})

	assert.True(t, v.OnPage(geo.Pt(0, 0)))
	assert.True(t, v.OnPage(geo.Pt(842, 595)))
	assert.False(t, v.OnPage(geo.Pt(-1, 10)))
}
