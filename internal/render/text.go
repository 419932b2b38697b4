package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/pkg/core"
)

// Align is the horizontal alignment of a text block within its box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Fonts holds the Go Regular font and its faces by pixel size.
type Fonts struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewFonts parses the embedded Go Regular font.
func NewFonts() (*Fonts, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return &Fonts{font: f, faces: make(map[float64]font.Face)}, nil
}

// Face returns a face at size pixels, rounded to a quarter pixel.
func (f *Fonts) Face(size float64) (font.Face, error) {
	size = math.Max(1, math.Round(size*4)/4)
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face at %v: %w", size, err)
	}
	f.faces[size] = face
	return face, nil
}

// Measure returns the advance width of s at size, falling back to the model's
// estimate when no face can be built.
func (f *Fonts) Measure(s string, size float64) float64 {
	face, err := f.Face(size)
	if err != nil {
		return core.EstimateWidth(s, size)
	}
	return fixedToFloat(font.MeasureString(face, s))
}

// Install makes the document model measure text with these fonts, so bounds,
// hit-testing and gizmo handles line up with the drawn glyphs.
func (f *Fonts) Install() {
	core.SetMeasurer(f.Measure)
}

// Lines splits a paragraph into wrapped lines using real glyph widths.
func (f *Fonts) Lines(text string, width, size float64) []string {
	return core.Wrap(text, width, func(s string) float64 { return f.Measure(s, size) })
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// textBlock draws lines starting at the local point origin, each LineHeight apart.
// Glyphs are rasterized at the device scale of m and then mapped through m, so
// rotated and scaled text stays sharp.
func (p *painter) textBlock(fonts *Fonts, m geo.Affine, origin geo.Point, lines []string, size, boxWidth float64, align Align, c color.Color) {
	if fonts == nil || size <= 0 {
		return
	}
	k := math.Max(scaleOf(m), 1e-3)
	face, err := fonts.Face(size * k)
	if err != nil {
		return
	}
	metrics := face.Metrics()
	lineH := size * core.LineHeight
	for i, line := range lines {
		if line == "" {
			continue
		}
		adv := fixedToFloat(font.MeasureString(face, line))
		tw := int(math.Ceil(adv)) + 2
		th := int(math.Ceil(lineH * k))
		if tw <= 0 || th <= 0 {
			continue
		}
		tile := image.NewRGBA(image.Rect(0, 0, tw, th))
		baseline := (fixed.I(th) - metrics.Ascent - metrics.Descent) / 2
		d := font.Drawer{
			Dst:  tile,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.Point26_6{X: fixed.I(1), Y: baseline + metrics.Ascent},
		}
		d.DrawString(line)

		x := origin.X
		if align == AlignCenter {
			x += (boxWidth - adv/k) / 2
		}
		box := geo.Rect{X: x, Y: origin.Y + float64(i)*lineH, Width: float64(tw) / k, Height: float64(th) / k}
		p.blit(m, box, tile)
	}
}
