package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/scorelect/drillboard/internal/editor"
	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/internal/viewport"
	"github.com/scorelect/drillboard/pkg/core"
)

// Page draws page in z-order onto s, without overlays.
func Page(s Surface, page *core.Page) {
	Frame(s, page, editor.Overlay{})
}

// Frame draws page and the session overlays: the live drag preview in place of
// the dragged object, the editing highlight, the tool preview and the gizmo.
func Frame(s Surface, page *core.Page, ov editor.Overlay) {
	if page == nil {
		return
	}
	s.Clear(page.BackgroundColor)
	for _, obj := range page.Objects {
		if ov.Dragged != nil && ov.Dragged.ID == obj.ID {
			obj = ov.Dragged
		}
		s.Draw(obj)
		if ov.Editing != "" && ov.Editing == obj.ID {
			s.Highlight(obj.RenderedBounds())
		}
	}
	if ov.Preview != nil {
		s.DrawPreview(*ov.Preview)
	}
	if ov.Handles != nil {
		s.DrawGizmo(*ov.Handles)
	}
}

var _ editor.Resolver = (*Resolver)(nil)

// View renders what the session shows in its container: the current page with
// overlays, scaled to fit and centered on a blank container. Without a
// viewport the page is drawn at scale 1.
func View(sess *editor.Session, fonts *Fonts) *image.RGBA {
	doc := sess.Document()
	v, ok := sess.Viewport()
	if !ok {
		v = viewport.Fit(doc.Orientation, viewport.LogicalSize(doc.Orientation))
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(v.Container.Width)), int(math.Ceil(v.Container.Height))))
	if v.Scale == 0 {
		return dst
	}

	page, err := doc.Page(sess.CurrentPage())
	if err != nil {
		return dst
	}
	r := NewRaster(v.Logical.Width, v.Logical.Height, v.Scale, fonts)
	Frame(r, page, sess.Overlay())

	origin := v.ToContainer(geo.Pt(0, 0))
	at := image.Pt(int(math.Round(origin.X)), int(math.Round(origin.Y)))
	draw.Draw(dst, r.Image().Bounds().Add(at), r.Image(), image.Point{}, draw.Src)
	return dst
}
