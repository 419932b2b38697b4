package core

import (
	"strings"
	"sync/atomic"
)

// LineHeight is the line advance as a multiple of the font size.
const LineHeight = 1.2

// averageGlyphWidth approximates a proportional font's advance per rune, as a
// fraction of the font size. It is used until a renderer installs a Measurer.
const averageGlyphWidth = 0.6

// EstimateWidth approximates the rendered width of s at fontSize.
func EstimateWidth(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * averageGlyphWidth
}

// Measurer returns the advance width of s at fontSize.
type Measurer func(s string, fontSize float64) float64

var measurer atomic.Pointer[Measurer]

// SetMeasurer makes text and paragraph bounds use m, typically the glyph
// metrics of the font the renderer draws with. nil restores EstimateWidth.
func SetMeasurer(m Measurer) {
	if m == nil {
		measurer.Store(nil)
		return
	}
	measurer.Store(&m)
}

// MeasureText returns the width of s at fontSize with the installed measurer.
func MeasureText(s string, fontSize float64) float64 {
	if m := measurer.Load(); m != nil {
		return (*m)(s, fontSize)
	}
	return EstimateWidth(s, fontSize)
}

// Wrap breaks text into lines no wider than width according to measure.
// Explicit newlines always break; a single word wider than width gets a line of its own.
func Wrap(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, w := range words[1:] {
			candidate := current + " " + w
			if width > 0 && measure(candidate) > width {
				lines = append(lines, current)
				current = w
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}
	return lines
}
