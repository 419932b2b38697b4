package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/scorelect/drillboard/internal/viewport"
	"github.com/scorelect/drillboard/pkg/core"
)

// PageWriter collects page bitmaps into a paginated output.
type PageWriter interface {
	// AddPage appends img, captured from a page of the given logical size.
	AddPage(img image.Image, size viewport.Size) error
	// Close finishes the output. No pages may be added afterwards.
	Close() error
}

const mmPerPoint = 25.4 / 72

// PDFWriter lays each bitmap onto its own A4 page in the document's orientation.
type PDFWriter struct {
	pdf   *gofpdf.Fpdf
	out   io.Writer
	pages int
}

var _ PageWriter = (*PDFWriter)(nil)

// NewPDFWriter writes the finished PDF to out on Close.
func NewPDFWriter(out io.Writer, o core.Orientation, title string) *PDFWriter {
	orientation := "L"
	if o == core.Portrait {
		orientation = "P"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetCreator("drillboard", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	return &PDFWriter{pdf: pdf, out: out}
}

// AddPage scales the bitmap to fill the A4 page while keeping its aspect ratio.
func (w *PDFWriter) AddPage(img image.Image, size viewport.Size) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding page %d: %w", w.pages+1, err)
	}

	name := fmt.Sprintf("page-%d", w.pages+1)
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	w.pdf.AddPage()
	w.pdf.RegisterImageOptionsReader(name, opts, &buf)

	pageW, pageH := w.pdf.GetPageSize()
	imgW, imgH := size.Width*mmPerPoint, size.Height*mmPerPoint
	fit := math.Min(pageW/imgW, pageH/imgH)
	w.pdf.ImageOptions(name, 0, 0, imgW*fit, imgH*fit, false, opts, 0, "")

	if err := w.pdf.Error(); err != nil {
		return fmt.Errorf("adding page %d: %w", w.pages+1, err)
	}
	w.pages++
	return nil
}

// Pages returns the number of pages added so far.
func (w *PDFWriter) Pages() int { return w.pages }

func (w *PDFWriter) Close() error {
	if err := w.pdf.Output(w.out); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
