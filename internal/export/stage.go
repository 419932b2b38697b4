package export

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/scorelect/drillboard/internal/render"
	"github.com/scorelect/drillboard/internal/viewport"
	"github.com/scorelect/drillboard/pkg/core"
)

// ErrNothingShown is returned by Rasterize before any page was shown.
var ErrNothingShown = errors.New("stage has no page to rasterize")

// Stage kinds accepted by NewStage.
const (
	StageOffscreen = "offscreen"
	StageShared    = "shared"
)

// Stage displays one page at a time and captures it as a bitmap.
type Stage interface {
	// Show makes page the displayed page, laid out at size.
	Show(page *core.Page, size viewport.Size) error
	// Rasterize captures the displayed page with pixelRatio device pixels per unit.
	Rasterize(pixelRatio float64) (image.Image, error)
}

// NewStage returns the stage named kind for pages of orientation o. A shared
// stage keeps one surface at pixelRatio for the whole export.
func NewStage(kind string, o core.Orientation, pixelRatio float64, fonts *render.Fonts) (Stage, error) {
	switch kind {
	case StageOffscreen, "":
		return NewOffscreen(fonts), nil
	case StageShared:
		size := viewport.LogicalSize(o)
		return NewShared(render.NewRaster(size.Width, size.Height, pixelRatio, fonts)), nil
	}
	return nil, fmt.Errorf("unknown export stage %q", kind)
}

// Offscreen renders every page onto a fresh surface at capture time. Nothing is
// shared with the interactive view, so no settle delay is needed and no overlay
// can leak into the output.
type Offscreen struct {
	fonts *render.Fonts
	page  *core.Page
	size  viewport.Size
}

var _ Stage = (*Offscreen)(nil)

func NewOffscreen(fonts *render.Fonts) *Offscreen {
	return &Offscreen{fonts: fonts}
}

func (s *Offscreen) Show(page *core.Page, size viewport.Size) error {
	s.page = page
	s.size = size
	return nil
}

func (s *Offscreen) Rasterize(pixelRatio float64) (image.Image, error) {
	if s.page == nil {
		return nil, ErrNothingShown
	}
	surface := render.NewRaster(s.size.Width, s.size.Height, pixelRatio, s.fonts)
	render.Page(surface, s.page)
	return surface.Image(), nil
}

// Shared draws pages onto one long-lived surface, the way an on-screen stage
// is switched between pages. Captures at another pixel ratio are resampled.
type Shared struct {
	surface *render.Raster
	shown   bool
}

var _ Stage = (*Shared)(nil)

func NewShared(surface *render.Raster) *Shared {
	return &Shared{surface: surface}
}

// Show redraws the surface with page. The surface keeps the size it was created with.
func (s *Shared) Show(page *core.Page, _ viewport.Size) error {
	render.Page(s.surface, page)
	s.shown = true
	return nil
}

func (s *Shared) Rasterize(pixelRatio float64) (image.Image, error) {
	if !s.shown {
		return nil, ErrNothingShown
	}
	src := s.surface.Image()
	b := src.Bounds()
	k := pixelRatio / s.surface.PixelRatio()
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(b.Dx())*k+0.5), int(float64(b.Dy())*k+0.5)))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}
