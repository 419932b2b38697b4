// pkg/core/object.go
package core

import (
	"errors"
	"image"
	"math"

	"github.com/scorelect/drillboard/internal/geo"
)

// ErrNoAnchor is returned when positioning a variant that has no single anchor.
var ErrNoAnchor = errors.New("object has no single anchor; translate it instead")

// Transform holds the attributes every variant is drawn with.
type Transform struct {
	Rotation float64 // degrees
	ScaleX   float64
	ScaleY   float64
}

// DefaultTransform is the transform of a freshly created object.
var DefaultTransform = Transform{Rotation: 0, ScaleX: 1, ScaleY: 1}

// TransformUpdate sets the non-nil components of a Transform.
type TransformUpdate struct {
	Rotation *float64
	ScaleX   *float64
	ScaleY   *float64
}

// Object is a drawable primitive placed on a page.
type Object struct {
	ID string
	Transform
	Shape Shape

	// Handle is the resolved image a renderer draws image-bearing variants with.
	// It never leaves the process: persistence strips it and loaders re-resolve it.
	Handle image.Image
}

// NewObject wraps shape with id and the default transform.
func NewObject(id string, shape Shape) *Object {
	return &Object{ID: id, Transform: DefaultTransform, Shape: shape}
}

// Kind returns the variant discriminator.
func (o *Object) Kind() Kind {
	return o.Shape.Kind()
}

// SetTransform applies the non-nil components of u.
func (o *Object) SetTransform(u TransformUpdate) {
	if u.Rotation != nil {
		o.Rotation = *u.Rotation
	}
	if u.ScaleX != nil {
		o.ScaleX = *u.ScaleX
	}
	if u.ScaleY != nil {
		o.ScaleY = *u.ScaleY
	}
}

// Anchor returns the (x, y) of anchored variants. ok is false for Line.
func (o *Object) Anchor() (p geo.Point, ok bool) {
	a, ok := o.Shape.(Anchored)
	if !ok {
		return geo.Point{}, false
	}
	return a.Anchor(), true
}

// SetPosition moves an anchored object so its anchor is (x, y).
func (o *Object) SetPosition(x, y float64) error {
	a, ok := o.Shape.(Anchored)
	if !ok {
		return ErrNoAnchor
	}
	a.setAnchor(geo.Pt(x, y))
	return nil
}

// Translate shifts the object by (dx, dy). A Line shifts both endpoints.
func (o *Object) Translate(dx, dy float64) {
	o.Shape.translate(dx, dy)
}

// Bounds returns the local, pre-transform bounding box.
func (o *Object) Bounds() geo.Rect {
	return o.Shape.Bounds()
}

// Matrix returns the transform mapping local coordinates to page coordinates.
func (o *Object) Matrix() geo.Affine {
	return geo.About(o.Shape.Pivot(), o.Rotation, o.ScaleX, o.ScaleY)
}

// RenderedBounds returns the axis-aligned box of the object as drawn.
func (o *Object) RenderedBounds() geo.Rect {
	return geo.TransformRect(o.Matrix(), o.Bounds())
}

// Contains reports whether p (page coordinates) hits the object. Lines are hit
// within half their stroke width or tolerance, whichever is larger.
func (o *Object) Contains(p geo.Point, tolerance float64) bool {
	m := o.Matrix()
	if l, ok := o.Shape.(*Line); ok {
		reach := math.Max(l.StrokeWidth/2, tolerance)
		return geo.SegmentDistance(p, m.Apply(l.Start()), m.Apply(l.End())) <= reach
	}
	inv, ok := m.Invert()
	if !ok {
		return false
	}
	return o.Bounds().Contains(inv.Apply(p), tolerance)
}

// Clone returns a deep copy of the object. The image handle is shared.
func (o *Object) Clone() *Object {
	c := *o
	c.Shape = o.Shape.clone()
	return &c
}
