// pkg/core/json.go
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// objectJSON is the flat wire record of an object. Variant fields that do not
// apply are omitted.
type objectJSON struct {
	ID          flexID    `json:"id"`
	Type        Kind      `json:"type"`
	X           *float64  `json:"x,omitempty"`
	Y           *float64  `json:"y,omitempty"`
	Points      []float64 `json:"points,omitempty"`
	Size        float64   `json:"size,omitempty"`
	Width       float64   `json:"width,omitempty"`
	Height      float64   `json:"height,omitempty"`
	Color       string    `json:"color,omitempty"`
	Label       string    `json:"label,omitempty"`
	Text        string    `json:"text,omitempty"`
	FontSize    float64   `json:"fontSize,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Subtype     Sport     `json:"subtype,omitempty"`
	Rotation    float64   `json:"rotation"`
	ScaleX      *float64  `json:"scaleX,omitempty"`
	ScaleY      *float64  `json:"scaleY,omitempty"`
}

// flexID accepts both string ids and the numeric timestamp ids of older sessions.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("object id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

func float(v float64) *float64 { return &v }

// MarshalJSON encodes the object as its flat wire record. Handle is never written.
func (o *Object) MarshalJSON() ([]byte, error) {
	rec := objectJSON{
		ID:       flexID(o.ID),
		Type:     o.Kind(),
		Rotation: o.Rotation,
		ScaleX:   float(o.ScaleX),
		ScaleY:   float(o.ScaleY),
	}
	switch s := o.Shape.(type) {
	case *Marker:
		rec.X, rec.Y = float(s.X), float(s.Y)
		rec.Size, rec.Color, rec.Label = s.Size, s.Color, s.Label
	case *Line:
		rec.Points = s.Points[:]
		rec.Color, rec.StrokeWidth = s.Color, s.StrokeWidth
	case *Rect:
		rec.X, rec.Y = float(s.X), float(s.Y)
		rec.Width, rec.Height, rec.Color = s.Width, s.Height, s.Color
	case *Text:
		rec.X, rec.Y = float(s.X), float(s.Y)
		rec.Text, rec.FontSize, rec.Fill = s.Text, s.FontSize, s.Fill
	case *Paragraph:
		rec.X, rec.Y = float(s.X), float(s.Y)
		rec.Text, rec.FontSize, rec.Fill, rec.Width = s.Text, s.FontSize, s.Fill, s.Width
	case *Pitch:
		rec.X, rec.Y = float(s.X), float(s.Y)
		rec.Width, rec.Height, rec.Subtype = s.Width, s.Height, s.Subtype
	default:
		return nil, fmt.Errorf("unknown shape %T", o.Shape)
	}
	return json.Marshal(rec)
}

// UnmarshalJSON decodes a flat wire record. Missing scales default to 1.
func (o *Object) UnmarshalJSON(data []byte) error {
	var rec objectJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	x, y := deref(rec.X), deref(rec.Y)
	switch {
	case rec.Type.IsMarker():
		o.Shape = &Marker{Type: rec.Type, X: x, Y: y, Size: rec.Size, Color: rec.Color, Label: rec.Label}
	case rec.Type == KindLine:
		if len(rec.Points) != 4 {
			return fmt.Errorf("line %s: expected 4 point values, got %d", rec.ID, len(rec.Points))
		}
		// older sessions stored the stroke width as "size"
		width := rec.StrokeWidth
		if width == 0 {
			width = rec.Size
		}
		l := &Line{Color: rec.Color, StrokeWidth: width}
		copy(l.Points[:], rec.Points)
		o.Shape = l
	case rec.Type == KindSquare:
		o.Shape = &Rect{X: x, Y: y, Width: rec.Width, Height: rec.Height, Color: rec.Color}
	case rec.Type == KindText:
		o.Shape = &Text{X: x, Y: y, Text: rec.Text, FontSize: rec.FontSize, Fill: rec.Fill}
	case rec.Type == KindParagraph:
		o.Shape = &Paragraph{X: x, Y: y, Text: rec.Text, FontSize: rec.FontSize, Fill: rec.Fill, Width: rec.Width}
	case rec.Type == KindPitch:
		o.Shape = &Pitch{X: x, Y: y, Width: rec.Width, Height: rec.Height, Subtype: rec.Subtype}
	default:
		return fmt.Errorf("object %s: unknown type %q", rec.ID, rec.Type)
	}

	o.ID = string(rec.ID)
	o.Rotation = rec.Rotation
	o.ScaleX, o.ScaleY = 1, 1
	if rec.ScaleX != nil {
		o.ScaleX = *rec.ScaleX
	}
	if rec.ScaleY != nil {
		o.ScaleY = *rec.ScaleY
	}
	o.Handle = nil
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// UnmarshalJSON decodes a document. Sessions saved before pages existed carry a
// top-level "objects" list, which becomes the first page.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var aux struct {
		plain
		Objects []*Object `json:"objects"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if err := checkObjects(aux.Objects); err != nil {
		return fmt.Errorf("objects: %w", err)
	}
	if err := ValidatePages(aux.Pages); err != nil {
		return err
	}
	*d = Document(aux.plain)

	if len(d.Pages) == 0 {
		page := NewPage()
		if aux.Objects != nil {
			page.Objects = aux.Objects
		}
		d.Pages = []*Page{page}
	}
	for _, p := range d.Pages {
		if p.BackgroundColor == "" {
			p.BackgroundColor = DefaultBackground
		}
		if p.Objects == nil {
			p.Objects = make([]*Object, 0)
		}
	}
	if d.Orientation == "" {
		d.Orientation = Landscape
	}
	return nil
}

// ValidatePages rejects decoded pages that are null or hold null objects.
func ValidatePages(pages []*Page) error {
	for i, p := range pages {
		if p == nil {
			return fmt.Errorf("page %d: %w: null page", i, ErrCorruptDocument)
		}
		if err := checkObjects(p.Objects); err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
	}
	return nil
}

func checkObjects(objs []*Object) error {
	for i, o := range objs {
		if o == nil {
			return fmt.Errorf("object %d: %w: null object", i, ErrCorruptDocument)
		}
	}
	return nil
}
