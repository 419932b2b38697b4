// Package render draws pages onto raster surfaces: vector shapes through
// rasterx, text through the Go fonts and resolved sprites through affine blits.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/internal/gizmo"
	"github.com/scorelect/drillboard/internal/tool"
	"github.com/scorelect/drillboard/pkg/core"
)

// Surface is what a page is drawn onto.
type Surface interface {
	Clear(background string)
	Draw(obj *core.Object)
	DrawPreview(p tool.Preview)
	DrawGizmo(hs gizmo.Handles)
	Highlight(box geo.Rect)
	Image() image.Image
}

// Overlay colors.
var (
	gizmoColor    = MustColor("#0096FF")
	highlightGray = MustColor("#888888")
	handleColors  = map[gizmo.Handle]color.Color{
		gizmo.Move:   MustColor("#0096FF"),
		gizmo.Rotate: MustColor("#2E9E44"),
		gizmo.Resize: MustColor("#FF8C00"),
		gizmo.Delete: MustColor("#E53935"),
	}
	previewDash = []float64{10, 5}
)

const rectStrokeWidth = 2

// Raster is a Surface backed by an RGBA image. Page units are multiplied by
// the pixel ratio.
type Raster struct {
	img    *image.RGBA
	ratio  float64
	device geo.Affine
	paint  *painter
	fonts  *Fonts
}

var _ Surface = (*Raster)(nil)

// NewRaster creates a surface for a page of the given logical size.
func NewRaster(width, height, pixelRatio float64, fonts *Fonts) *Raster {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	w := int(math.Ceil(width * pixelRatio))
	h := int(math.Ceil(height * pixelRatio))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return &Raster{
		img:    img,
		ratio:  pixelRatio,
		device: geo.Scale(pixelRatio, pixelRatio),
		paint:  newPainter(img),
		fonts:  fonts,
	}
}

// PixelRatio returns the device pixels per page unit.
func (r *Raster) PixelRatio() float64 { return r.ratio }

func (r *Raster) Image() image.Image { return r.img }

// Clear fills the surface with background, white if it cannot be parsed.
func (r *Raster) Clear(background string) {
	bg := ParseColor(background, color.White)
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// Draw paints obj with its transform applied.
func (r *Raster) Draw(obj *core.Object) {
	m := obj.Matrix().Then(r.device)
	switch s := obj.Shape.(type) {
	case *core.Marker:
		r.drawMarker(obj, s, m)
	case *core.Line:
		width := s.StrokeWidth
		if width <= 0 {
			width = tool.DefaultStyles.LineWidth
		}
		r.paint.stroke(m, []geo.Point{s.Start(), s.End()}, false, width, ParseColor(s.Color, LineColor), nil)
	case *core.Rect:
		r.paint.stroke(m, rectPoints(s.Bounds()), true, rectStrokeWidth, ParseColor(s.Color, RectColor), nil)
	case *core.Text:
		lines := strings.Split(s.Text, "\n")
		r.paint.textBlock(r.fonts, m, s.Anchor(), lines, s.FontSize, 0, AlignLeft, ParseColor(s.Fill, TextColor))
	case *core.Paragraph:
		var lines []string
		if r.fonts != nil {
			lines = r.fonts.Lines(s.Text, s.Width, s.FontSize)
		}
		r.paint.textBlock(r.fonts, m, s.Anchor(), lines, s.FontSize, s.Width, AlignLeft, ParseColor(s.Fill, TextColor))
	case *core.Pitch:
		if obj.Handle != nil {
			r.paint.blit(m, s.Bounds(), obj.Handle)
			return
		}
		d := diagramFor(s.Subtype)
		r.paint.fill(m, rectPoints(s.Bounds()), d.surface)
		r.paint.stroke(m, rectPoints(s.Bounds()), true, rectStrokeWidth, d.lines, nil)
	}
}

func (r *Raster) drawMarker(obj *core.Object, s *core.Marker, m geo.Affine) {
	box := s.Bounds()
	center := s.Anchor()
	switch {
	case s.Type == core.KindPlayer:
		fill := ParseColor(s.Color, PlayerColor)
		r.paint.fill(m, circle(center, s.Size/2, 48), fill)
		if s.Label != "" {
			size := s.Size / 2
			origin := geo.Pt(box.X, center.Y-size*core.LineHeight/2)
			r.paint.textBlock(r.fonts, m, origin, []string{s.Label}, size, s.Size, AlignCenter, color.White)
		}
		return
	case obj.Handle != nil:
		r.paint.blit(m, box, obj.Handle)
	case s.Type == core.KindCone:
		r.paint.blit(m, box, ConeSprite(MarkerSpriteSize))
	default:
		r.paint.blit(m, box, BallSprite(MarkerSpriteSize))
	}
	if s.Label != "" {
		origin := geo.Pt(box.X, center.Y-s.Size-s.Size/8)
		r.paint.textBlock(r.fonts, m, origin, []string{s.Label}, s.Size/2, s.Size, AlignCenter, TextColor)
	}
}

// DrawPreview draws the dashed rubber band of an in-progress line or rectangle.
func (r *Raster) DrawPreview(p tool.Preview) {
	c := ParseColor(p.Color, gizmoColor)
	switch p.Kind {
	case core.KindLine:
		r.paint.stroke(r.device, []geo.Point{p.From, p.To}, false, tool.DefaultStyles.LineWidth, c, previewDash)
	case core.KindSquare:
		r.paint.stroke(r.device, rectPoints(p.Rect()), true, rectStrokeWidth, c, previewDash)
	}
}

// DrawGizmo draws the selection box and the four handles.
func (r *Raster) DrawGizmo(hs gizmo.Handles) {
	r.paint.stroke(r.device, rectPoints(hs.Box), true, 1, gizmoColor, []float64{4, 4})
	for _, h := range hs.All() {
		pos := hs.Position(h)
		ring := circle(pos, gizmo.DefaultRadius, 32)
		r.paint.fill(r.device, ring, translucent(handleColors[h], 200))
		r.paint.stroke(r.device, ring, true, 1.5, color.White, nil)
	}
}

// Highlight outlines box, used for the object whose text is being edited.
func (r *Raster) Highlight(box geo.Rect) {
	r.paint.stroke(r.device, rectPoints(box.Inset(-2)), true, 1, highlightGray, []float64{3, 3})
}
