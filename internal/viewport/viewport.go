package viewport

import (
	"math"

	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/pkg/core"
)

// Logical page sizes: A4 at 72 dpi.
const (
	A4Long  = 842.0
	A4Short = 595.0
)

// Size is a width and height pair.
type Size struct {
	Width  float64
	Height float64
}

// LogicalSize returns the page size in stage units for orientation.
func LogicalSize(o core.Orientation) Size {
	if o == core.Portrait {
		return Size{Width: A4Short, Height: A4Long}
	}
	return Size{Width: A4Long, Height: A4Short}
}

// Viewport maps between the container a page is shown in and the page's
// logical coordinate space. The zero value is unusable; call Fit.
type Viewport struct {
	Logical   Size
	Container Size
	Scale     float64
	// Offset of the rendered page inside the container, centering it on the free axis.
	Offset geo.Point
}

// Fit scales the logical page of orientation o into container, preserving aspect ratio.
// A container with a non-positive side yields scale 0.
func Fit(o core.Orientation, container Size) Viewport {
	logical := LogicalSize(o)
	scale := math.Min(container.Width/logical.Width, container.Height/logical.Height)
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 0
	}
	rendered := Size{Width: logical.Width * scale, Height: logical.Height * scale}
	return Viewport{
		Logical:   logical,
		Container: container,
		Scale:     scale,
		Offset: geo.Pt(
			(container.Width-rendered.Width)/2,
			(container.Height-rendered.Height)/2,
		),
	}
}

// Rendered returns the on-screen size of the page.
func (v Viewport) Rendered() Size {
	return Size{Width: v.Logical.Width * v.Scale, Height: v.Logical.Height * v.Scale}
}

// ToStage resolves a container pixel position to page coordinates.
// ok is false when the viewport has no area.
func (v Viewport) ToStage(p geo.Point) (geo.Point, bool) {
	if v.Scale == 0 {
		return geo.Point{}, false
	}
	return geo.Pt((p.X-v.Offset.X)/v.Scale, (p.Y-v.Offset.Y)/v.Scale), true
}

// ToContainer maps page coordinates to container pixels.
func (v Viewport) ToContainer(p geo.Point) geo.Point {
	return geo.Pt(p.X*v.Scale+v.Offset.X, p.Y*v.Scale+v.Offset.Y)
}

// OnPage reports whether the page coordinate p lies on the logical page.
func (v Viewport) OnPage(p geo.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= v.Logical.Width && p.Y <= v.Logical.Height
}
