package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorelect/drillboard/internal/cache"
	"github.com/scorelect/drillboard/internal/editor"
	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/internal/gizmo"
	"github.com/scorelect/drillboard/internal/tool"
	"github.com/scorelect/drillboard/internal/viewport"
	"github.com/scorelect/drillboard/pkg/core"
)

func rgb(img image.Image, x, y int) (r, g, b uint8) {
	cr, cg, cb, _ := img.At(x, y).RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8)
}

func newRaster(t *testing.T, ratio float64) *Raster {
	t.Helper()
	fonts, err := NewFonts()
	require.NoError(t, err)
	r := NewRaster(400, 300, ratio, fonts)
	r.Clear("#ffffff")
	return r
}

func darkPixels(img image.Image, area image.Rectangle) int {
	n := 0
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			r, g, b := rgb(img, x, y)
			if int(r)+int(g)+int(b) < 3*128 {
				n++
			}
		}
	}
	return n
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}},
		{"#0f0", color.RGBA{0, 255, 0, 255}},
		{"white", color.RGBA{255, 255, 255, 255}},
		{"", color.RGBA{1, 2, 3, 255}},
		{"not-a-color", color.RGBA{1, 2, 3, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := color.RGBAModel.Convert(ParseColor(tt.in, color.RGBA{1, 2, 3, 255}))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColor_Transparent(t *testing.T) {
	_, _, _, a := ParseColor("transparent", color.Black).RGBA()
	assert.Zero(t, a)
}

func TestRaster_SizeFollowsPixelRatio(t *testing.T) {
	r := newRaster(t, 2)
	assert.Equal(t, image.Rect(0, 0, 800, 600), r.Image().Bounds())
	assert.Equal(t, 2.0, r.PixelRatio())
}

func TestRaster_Clear(t *testing.T) {
	r := newRaster(t, 1)
	r.Clear("#123456")

	red, green, blue := rgb(r.Image(), 10, 10)
	assert.Equal(t, [3]uint8{0x12, 0x34, 0x56}, [3]uint8{red, green, blue})
}

func TestRaster_DrawPlayer(t *testing.T) {
	r := newRaster(t, 2)
	obj := core.NewObject("p1", &core.Marker{Type: core.KindPlayer, X: 100, Y: 100, Size: 40, Color: "#ff0000"})

	r.Draw(obj)

	red, green, blue := rgb(r.Image(), 210, 200)
	assert.Greater(t, red, uint8(200))
	assert.Less(t, green, uint8(60))
	assert.Less(t, blue, uint8(60))

	// outside the circle
	red, green, blue = rgb(r.Image(), 300, 300)
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{red, green, blue})
}

func TestRaster_DrawRectIsOutlined(t *testing.T) {
	r := newRaster(t, 1)
	obj := core.NewObject("r1", &core.Rect{X: 50, Y: 50, Width: 100, Height: 100, Color: "#0000ff"})

	r.Draw(obj)

	_, _, blue := rgb(r.Image(), 50, 100)
	red, _, _ := rgb(r.Image(), 50, 100)
	assert.Greater(t, blue, uint8(200))
	assert.Less(t, red, uint8(100))

	red, green, blue := rgb(r.Image(), 100, 100)
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{red, green, blue}, "interior stays transparent")
}

func TestRaster_DrawRotatedObject(t *testing.T) {
	r := newRaster(t, 1)
	obj := core.NewObject("p1", &core.Marker{Type: core.KindPlayer, X: 200, Y: 150, Size: 20, Color: "#000000"})
	obj.Rotation = 45
	obj.ScaleX, obj.ScaleY = 3, 3

	r.Draw(obj)

	// scaled about its center to a 60 unit circle
	assert.Positive(t, darkPixels(r.Image(), image.Rect(222, 148, 226, 152)))
}

func TestRaster_DrawText(t *testing.T) {
	r := newRaster(t, 1)
	obj := core.NewObject("t1", &core.Text{X: 10, Y: 10, Text: "Press high", FontSize: 20, Fill: "#000000"})

	r.Draw(obj)

	assert.Positive(t, darkPixels(r.Image(), image.Rect(10, 10, 130, 40)))
	assert.Zero(t, darkPixels(r.Image(), image.Rect(200, 100, 300, 200)))
}

func TestRaster_DrawParagraphWraps(t *testing.T) {
	r := newRaster(t, 1)
	obj := core.NewObject("t1", &core.Paragraph{X: 10, Y: 10, Text: "one two three four five six", FontSize: 16, Width: 60})

	r.Draw(obj)

	// the second line starts one line height below the first
	assert.Positive(t, darkPixels(r.Image(), image.Rect(10, 30, 70, 48)))
}

func TestRaster_DrawPitchUsesHandle(t *testing.T) {
	r := newRaster(t, 1)
	obj := core.NewObject("pitch", &core.Pitch{X: 100, Y: 100, Width: 200, Height: 150, Subtype: core.SportGAA})
	NewResolver(nil).Resolve(obj)
	require.NotNil(t, obj.Handle)

	r.Draw(obj)

	red, green, blue := rgb(r.Image(), 170, 130)
	assert.Greater(t, green, red)
	assert.Greater(t, green, blue)
}

func TestRaster_DrawConeWithoutHandle(t *testing.T) {
	r := newRaster(t, 1)
	obj := core.NewObject("c1", &core.Marker{Type: core.KindCone, X: 100, Y: 100, Size: 40})

	r.Draw(obj)

	red, green, blue := rgb(r.Image(), 100, 110)
	assert.Greater(t, red, uint8(200))
	assert.Less(t, blue, uint8(100))
	assert.Less(t, green, red)
}

func TestRaster_DrawPreviewAndGizmo(t *testing.T) {
	r := newRaster(t, 1)

	r.DrawPreview(tool.Preview{Kind: core.KindLine, From: geo.Pt(10, 10), To: geo.Pt(200, 10), Color: "#000000"})
	assert.Positive(t, darkPixels(r.Image(), image.Rect(10, 8, 200, 12)))

	hs := gizmo.Layout(geo.Rect{X: 150, Y: 100, Width: 40, Height: 40})
	r.DrawGizmo(hs)
	del := hs.Position(gizmo.Delete)
	red, green, _ := rgb(r.Image(), int(del.X), int(del.Y))
	assert.Greater(t, int(red), int(green)+50)
}

func TestFrame_DrawsDraggedPreviewInPlace(t *testing.T) {
	r := newRaster(t, 1)
	page := core.NewPage()
	obj := core.NewObject("p1", &core.Marker{Type: core.KindPlayer, X: 100, Y: 100, Size: 30, Color: "#000000"})
	page.Add(obj)

	moved := obj.Clone()
	moved.Translate(150, 0)
	Frame(r, page, editor.Overlay{Dragged: moved})

	assert.Positive(t, darkPixels(r.Image(), image.Rect(248, 98, 252, 102)))
	assert.Zero(t, darkPixels(r.Image(), image.Rect(98, 98, 102, 102)))
	assert.Equal(t, 100.0, obj.Shape.(*core.Marker).X, "document object untouched")
}

func TestPage_UsesBackground(t *testing.T) {
	r := newRaster(t, 1)
	page := core.NewPage()
	page.BackgroundColor = "#000000"

	Page(r, page)

	assert.Equal(t, r.Image().Bounds().Dx()*r.Image().Bounds().Dy(), darkPixels(r.Image(), r.Image().Bounds()))
}

func TestResolver_SharesSprites(t *testing.T) {
	handles := cache.NewHandles()
	res := NewResolver(handles)

	a := core.NewObject("a", &core.Marker{Type: core.KindCone, X: 1, Y: 1, Size: 25})
	b := core.NewObject("b", &core.Marker{Type: core.KindCone, X: 5, Y: 5, Size: 25})
	res.Resolve(a)
	res.Resolve(b)

	require.NotNil(t, a.Handle)
	assert.Same(t, a.Handle, b.Handle)
	assert.Equal(t, 1, handles.Len())
}

func TestResolver_Keys(t *testing.T) {
	tests := []struct {
		name  string
		shape core.Shape
		key   string
	}{
		{"cone", &core.Marker{Type: core.KindCone}, "cone"},
		{"ball", &core.Marker{Type: core.KindBall}, "ball"},
		{"player", &core.Marker{Type: core.KindPlayer}, ""},
		{"line", &core.Line{}, ""},
		{"soccer pitch", &core.Pitch{Subtype: core.SportSoccer}, "pitch/Soccer"},
		{"unknown sport", &core.Pitch{Subtype: "Hurling"}, "pitch/GAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := core.NewObject("x", tt.shape)
			assert.Equal(t, tt.key, HandleKey(obj))

			NewResolver(nil).Resolve(obj)
			assert.Equal(t, tt.key != "", obj.Handle != nil)
		})
	}
}

func TestPitchSprite_AllSports(t *testing.T) {
	for _, sport := range core.Sports {
		img := PitchSprite(sport)
		assert.Equal(t, image.Rect(0, 0, PitchSpriteWidth, PitchSpriteHeight), img.Bounds(), sport)
	}
}

func TestFonts_MeasureAndWrap(t *testing.T) {
	fonts, err := NewFonts()
	require.NoError(t, err)

	short := fonts.Measure("ab", 20)
	long := fonts.Measure("abcdef", 20)
	assert.Positive(t, short)
	assert.Greater(t, long, short)

	width := math.Max(fonts.Measure("one two", 16), fonts.Measure("three four", 16)) + 1
	lines := fonts.Lines("one two three four", width, 16)
	assert.Equal(t, []string{"one two", "three four"}, lines)
}

func TestFonts_InstallAlignsTextBounds(t *testing.T) {
	fonts, err := NewFonts()
	require.NoError(t, err)
	fonts.Install()
	t.Cleanup(func() { core.SetMeasurer(nil) })

	obj := core.NewObject("t", &core.Text{X: 10, Y: 10, Text: "Press high", FontSize: 20})
	assert.InDelta(t, fonts.Measure("Press high", 20), obj.Bounds().Width, 1e-9)
	assert.NotEqual(t, core.EstimateWidth("Press high", 20), obj.Bounds().Width)
}

func TestView_LetterboxesPageWithOverlays(t *testing.T) {
	fonts, err := NewFonts()
	require.NoError(t, err)
	doc := core.NewDocument("View", core.SportGAA, core.Landscape)
	doc.Pages[0].BackgroundColor = "#000000"
	sess := editor.New(doc)
	v := sess.Resize(viewport.Size{Width: 842, Height: 800})

	require.NoError(t, sess.Drop(core.KindBall, geo.Pt(300, 300)))
	obj := doc.Pages[0].Objects[0]
	require.NoError(t, sess.SelectObject(obj.ID))

	img := View(sess, fonts)
	assert.Equal(t, image.Rect(0, 0, 842, 800), img.Bounds())

	_, _, _, a := img.At(10, 50).RGBA()
	assert.Zero(t, a, "letterbox stays blank")
	r, g, b := rgb(img, 10, 200)
	assert.Zero(t, int(r)+int(g)+int(b), "page background")

	del := v.ToContainer(gizmo.For(obj).Position(gizmo.Delete))
	red, green, _ := rgb(img, int(math.Round(del.X)), int(math.Round(del.Y)))
	assert.Greater(t, int(red), int(green)+50, "gizmo drawn at its container position")
}

func TestView_WithoutViewport(t *testing.T) {
	doc := core.NewDocument("View", core.SportGAA, core.Portrait)
	img := View(editor.New(doc), nil)
	assert.Equal(t, image.Rect(0, 0, 595, 842), img.Bounds())
}
