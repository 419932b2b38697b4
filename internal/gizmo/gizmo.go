// Package gizmo lays out the four transform handles around a selected object
// and turns handle drags into transform changes.
package gizmo

import (
	"math"

	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/pkg/core"
)

const (
	// Margin is added to half the longest box side to place the handles.
	Margin = 20.0
	// MinScale is the smallest scale a resize drag produces.
	MinScale = 0.1
	// DefaultRadius is the pick radius of a handle.
	DefaultRadius = 10.0
)

// Handle identifies one of the gizmo handles.
type Handle int

const (
	None Handle = iota
	Move
	Rotate
	Resize
	Delete
)

func (h Handle) String() string {
	switch h {
	case Move:
		return "move"
	case Rotate:
		return "rotate"
	case Resize:
		return "resize"
	case Delete:
		return "delete"
	}
	return "none"
}

// Handles is the gizmo layout for one bounding box.
type Handles struct {
	Box    geo.Rect
	Center geo.Point
	Offset float64
}

// Layout places the handles around box, the object's rendered bounding box.
func Layout(box geo.Rect) Handles {
	return Handles{
		Box:    box,
		Center: box.Center(),
		Offset: box.MaxSide()/2 + Margin,
	}
}

// For lays out the handles of obj.
func For(obj *core.Object) Handles {
	return Layout(obj.RenderedBounds())
}

// Position returns where h is drawn.
func (hs Handles) Position(h Handle) geo.Point {
	c, off := hs.Center, hs.Offset
	switch h {
	case Move:
		return geo.Pt(c.X, c.Y-off)
	case Rotate:
		return geo.Pt(c.X+off, c.Y)
	case Resize:
		return geo.Pt(c.X+off, c.Y+off)
	case Delete:
		return geo.Pt(c.X-off, c.Y)
	}
	return c
}

// All returns the handles in drawing order.
func (hs Handles) All() []Handle {
	return []Handle{Move, Rotate, Resize, Delete}
}

// HandleAt returns the handle nearest to p within radius, or None.
func (hs Handles) HandleAt(p geo.Point, radius float64) Handle {
	best, bestDist := None, math.Inf(1)
	for _, h := range hs.All() {
		d := geo.Distance(p, hs.Position(h))
		if d <= radius && d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}

// Drag is an in-progress handle drag. It works on a private copy of the
// object; the document is only written with the value End returns.
type Drag struct {
	handle  Handle
	handles Handles
	radius  float64
	start   geo.Point
	origin  *core.Object
	preview *core.Object
	left    bool
}

// Begin starts dragging h of obj at pointer. obj is not modified.
func Begin(h Handle, handles Handles, obj *core.Object, pointer geo.Point, radius float64) *Drag {
	return &Drag{
		handle:  h,
		handles: handles,
		radius:  radius,
		start:   pointer,
		origin:  obj,
		preview: obj.Clone(),
	}
}

// Handle returns the dragged handle.
func (d *Drag) Handle() Handle { return d.handle }

// ObjectID returns the id of the dragged object.
func (d *Drag) ObjectID() string { return d.origin.ID }

// Preview returns the live preview object.
func (d *Drag) Preview() *core.Object { return d.preview }

// Move recomputes the preview for pointer p and returns it.
func (d *Drag) Move(p geo.Point) *core.Object {
	c := d.handles.Center
	switch d.handle {
	case Move:
		next := d.origin.Clone()
		delta := p.Sub(d.start)
		next.Translate(delta.X, delta.Y)
		d.preview = next
	case Rotate:
		d.preview.Rotation = geo.Angle(c, p)
	case Resize:
		s := ResizeScale(c, p, d.handles.Offset)
		d.preview.ScaleX, d.preview.ScaleY = s, s
	case Delete:
		if geo.Distance(p, d.handles.Position(Delete)) > d.radius {
			d.left = true
		}
	}
	return d.preview
}

// Result is the outcome of a finished drag.
type Result struct {
	// Object is the value to write to the document. It is nil for delete.
	Object *core.Object
	// Deleted is true when the delete handle was clicked.
	Deleted bool
}

// End finishes the drag at p. A move released where it started changes
// nothing and returns the zero Result.
func (d *Drag) End(p geo.Point) Result {
	switch {
	case d.handle == Delete:
		d.Move(p)
		return Result{Deleted: !d.left}
	case d.handle == Move && p == d.start:
		return Result{}
	}
	return Result{Object: d.Move(p)}
}

// ResizeScale is the uniform scale for a resize handle dragged to p.
func ResizeScale(center, p geo.Point, offset float64) float64 {
	if offset <= 0 {
		return 1
	}
	return math.Max(MinScale, geo.Distance(center, p)/offset)
}
