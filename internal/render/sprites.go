package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/pkg/core"
)

// Sprite resolutions. Markers and pitches are scaled to their object bounds when drawn.
const (
	MarkerSpriteSize  = 64
	PitchSpriteWidth  = 800
	PitchSpriteHeight = 600
)

// ConeSprite draws a training cone filling a square tile.
func ConeSprite(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	p := newPainter(img)
	s := float64(size)
	m := geo.Scale(s, s)

	body := []geo.Point{{X: 0.5, Y: 0.06}, {X: 0.82, Y: 0.86}, {X: 0.18, Y: 0.86}}
	p.fill(m, body, ConeColor)
	band := []geo.Point{{X: 0.39, Y: 0.34}, {X: 0.61, Y: 0.34}, {X: 0.67, Y: 0.5}, {X: 0.33, Y: 0.5}}
	p.fill(m, band, color.White)
	base := geo.Rect{X: 0.08, Y: 0.86, Width: 0.84, Height: 0.08}
	p.fill(m, rectPoints(base), shade(ConeColor, 0.3))
	return img
}

// BallSprite draws a football filling a square tile.
func BallSprite(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	p := newPainter(img)
	s := float64(size)
	m := geo.Scale(s, s)
	c := geo.Pt(0.5, 0.5)

	p.fill(m, circle(c, 0.46, 48), BallColor)
	p.stroke(m, circle(c, 0.46, 48), true, 0.05, color.Black, nil)
	p.fill(m, arc(c, 0.16, -90, 270, 5)[:5], color.Black)
	return img
}

// PitchSprite draws the line diagram for sport. Unknown sports get the GAA diagram.
func PitchSprite(sport core.Sport) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, PitchSpriteWidth, PitchSpriteHeight))
	d := diagramFor(sport)
	draw.Draw(img, img.Bounds(), image.NewUniform(d.surface), image.Point{}, draw.Src)
	d.draw(newPainter(img), PitchSpriteWidth, PitchSpriteHeight)
	return img
}
