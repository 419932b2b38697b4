package tool

import (
	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/pkg/core"
)

// Defaults are the styles new objects are created with.
type Defaults struct {
	MarkerSize  float64
	PlayerColor string

	LineColor string
	LineWidth float64
	// DropLength is the length of a line placed by drag-and-drop.
	DropLength float64

	RectColor string
	// DropRectSize is the side of a rectangle placed by drag-and-drop.
	DropRectSize float64

	Text         string
	TextFontSize float64
	TextFill     string

	ParagraphText  string
	ParagraphWidth float64
	ParagraphSize  float64

	PitchWidth  float64
	PitchHeight float64
}

// DefaultStyles are the creation defaults of the editor palette.
var DefaultStyles = Defaults{
	MarkerSize:  25,
	PlayerColor: "#000000",

	LineColor:  "#FFA500",
	LineWidth:  3,
	DropLength: 100,

	RectColor:    "#FFFF00",
	DropRectSize: 50,

	Text:         "New Text",
	TextFontSize: 20,
	TextFill:     "#000000",

	ParagraphText:  "New paragraph",
	ParagraphWidth: 200,
	ParagraphSize:  16,

	PitchWidth:  200,
	PitchHeight: 150,
}

// anchored builds the single-click variant of kind at p.
func (d Defaults) anchored(kind core.Kind, p geo.Point, sport core.Sport) core.Shape {
	switch kind {
	case core.KindText:
		return &core.Text{X: p.X, Y: p.Y, Text: d.Text, FontSize: d.TextFontSize, Fill: d.TextFill}
	case core.KindParagraph:
		return &core.Paragraph{
			X: p.X, Y: p.Y,
			Text:     d.ParagraphText,
			FontSize: d.ParagraphSize,
			Fill:     d.TextFill,
			Width:    d.ParagraphWidth,
		}
	case core.KindPitch:
		return &core.Pitch{X: p.X, Y: p.Y, Width: d.PitchWidth, Height: d.PitchHeight, Subtype: sport}
	}
	m := &core.Marker{Type: kind, X: p.X, Y: p.Y, Size: d.MarkerSize}
	if kind == core.KindPlayer {
		m.Color = d.PlayerColor
	}
	return m
}

func (d Defaults) line(from, to geo.Point) *core.Line {
	return &core.Line{
		Points:      [4]float64{from.X, from.Y, to.X, to.Y},
		Color:       d.LineColor,
		StrokeWidth: d.LineWidth,
	}
}

func (d Defaults) rect(from, to geo.Point) *core.Rect {
	r := geo.RectFromCorners(from, to)
	return &core.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Color: d.RectColor}
}
