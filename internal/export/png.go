package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/scorelect/drillboard/internal/viewport"
)

// PNGWriter writes one PNG file per page into a directory, named
// <base>-<n>.png counting from 1.
type PNGWriter struct {
	dir   string
	base  string
	files []string
}

var _ PageWriter = (*PNGWriter)(nil)

func NewPNGWriter(dir, base string) *PNGWriter {
	return &PNGWriter{dir: dir, base: base}
}

func (w *PNGWriter) AddPage(img image.Image, _ viewport.Size) error {
	path := filepath.Join(w.dir, fmt.Sprintf("%s-%d.png", w.base, len(w.files)+1))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	w.files = append(w.files, path)
	return nil
}

// Files returns the paths written so far.
func (w *PNGWriter) Files() []string { return w.files }

func (w *PNGWriter) Close() error { return nil }
