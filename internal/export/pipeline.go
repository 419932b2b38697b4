// Package export walks every page of a document, captures each one through a
// Stage and collects the bitmaps into a paginated output.
package export

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/scorelect/drillboard/internal/viewport"
	"github.com/scorelect/drillboard/pkg/core"
)

// DefaultPixelRatio is the capture resolution relative to page units.
const DefaultPixelRatio = 2

// PageStat describes one captured page.
type PageStat struct {
	Index    int
	Width    int
	Height   int
	Duration time.Duration
}

// Recorder receives export timings.
type Recorder interface {
	RecordPage(ctx context.Context, doc *core.Document, stat PageStat)
	RecordExport(ctx context.Context, doc *core.Document, pages int, took time.Duration, err error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPixelRatio sets the capture pixel ratio.
func WithPixelRatio(r float64) Option {
	return func(p *Pipeline) {
		if r > 0 {
			p.pixelRatio = r
		}
	}
}

// WithSettleDelay waits d after showing each page before capturing it. Stages
// shared with an interactive view need it; off-screen stages do not.
func WithSettleDelay(d time.Duration) Option {
	return func(p *Pipeline) { p.settle = d }
}

// WithRecorder reports page and export timings to r.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// Pipeline exports documents one page at a time, in page order.
type Pipeline struct {
	stage      Stage
	writer     PageWriter
	pixelRatio float64
	settle     time.Duration
	recorder   Recorder
	log        *slog.Logger
}

// New returns a pipeline capturing through stage into writer.
func New(stage Stage, writer PageWriter, opts ...Option) *Pipeline {
	p := &Pipeline{
		stage:      stage,
		writer:     writer,
		pixelRatio: DefaultPixelRatio,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run captures every page of doc and closes the writer. The context is checked
// between pages; a cancelled export leaves the writer unclosed.
func (p *Pipeline) Run(ctx context.Context, doc *core.Document) (err error) {
	start := time.Now()
	done := 0
	defer func() {
		if p.recorder != nil {
			p.recorder.RecordExport(ctx, doc, done, time.Since(start), err)
		}
	}()

	size := viewport.LogicalSize(doc.Orientation)
	for i, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("export stopped before page %d: %w", i+1, err)
		}
		img, took, err := p.capture(ctx, page, size)
		if err != nil {
			return fmt.Errorf("capturing page %d: %w", i+1, err)
		}
		if err := p.writer.AddPage(img, size); err != nil {
			return err
		}
		done++

		b := img.Bounds()
		p.log.DebugContext(ctx, "page exported", "page", i+1, "pages", len(doc.Pages), "width", b.Dx(), "height", b.Dy(), "duration", took)
		if p.recorder != nil {
			p.recorder.RecordPage(ctx, doc, PageStat{Index: i, Width: b.Dx(), Height: b.Dy(), Duration: took})
		}
	}
	return p.writer.Close()
}

func (p *Pipeline) capture(ctx context.Context, page *core.Page, size viewport.Size) (image.Image, time.Duration, error) {
	start := time.Now()
	if err := p.stage.Show(page, size); err != nil {
		return nil, 0, err
	}
	if p.settle > 0 {
		t := time.NewTimer(p.settle)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, 0, ctx.Err()
		}
	}
	img, err := p.stage.Rasterize(p.pixelRatio)
	if err != nil {
		return nil, 0, err
	}
	return img, time.Since(start), nil
}
