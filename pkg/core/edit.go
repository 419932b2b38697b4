package core

// Edit carries the field changes of the object properties dialog. Nil fields are
// left untouched; fields a variant does not have are ignored.
type Edit struct {
	Label    *string
	Size     *float64
	Color    *string
	Text     *string
	FontSize *float64
	Width    *float64
}

// pitchAspect keeps background diagrams at 4:3 when resized from the dialog.
const pitchAspect = 3.0 / 4.0

// ApplyEdit applies e to the object's variant fields.
func (o *Object) ApplyEdit(e Edit) {
	switch s := o.Shape.(type) {
	case *Marker:
		setString(&s.Label, e.Label)
		setFloat(&s.Size, e.Size)
		setString(&s.Color, e.Color)
	case *Line:
		setString(&s.Color, e.Color)
		setFloat(&s.StrokeWidth, e.Size)
	case *Rect:
		setString(&s.Color, e.Color)
	case *Text:
		setString(&s.Text, e.Text)
		setFloat(&s.FontSize, e.FontSize)
		setString(&s.Fill, e.Color)
	case *Paragraph:
		setString(&s.Text, e.Text)
		setFloat(&s.FontSize, e.FontSize)
		setString(&s.Fill, e.Color)
		setFloat(&s.Width, e.Width)
	case *Pitch:
		if e.Width != nil {
			s.Width = *e.Width
			s.Height = *e.Width * pitchAspect
		}
	}
}

// EditableText returns the text of Text and Paragraph objects.
func (o *Object) EditableText() (string, bool) {
	switch s := o.Shape.(type) {
	case *Text:
		return s.Text, true
	case *Paragraph:
		return s.Text, true
	}
	return "", false
}

// SetText replaces the text of Text and Paragraph objects and reports whether it did.
func (o *Object) SetText(text string) bool {
	switch s := o.Shape.(type) {
	case *Text:
		s.Text = text
		return true
	case *Paragraph:
		s.Text = text
		return true
	}
	return false
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
