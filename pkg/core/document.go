// pkg/core/document.go
package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrLastPage is returned when deleting the only page of a document.
	ErrLastPage = errors.New("a document must keep at least one page")
	// ErrPageOutOfRange is returned for page indexes outside the document.
	ErrPageOutOfRange = errors.New("page index out of range")
	// ErrObjectNotFound is returned when an object id is not on the page.
	ErrObjectNotFound = errors.New("object not found")
	// ErrCorruptDocument is returned when decoding a document with null pages or objects.
	ErrCorruptDocument = errors.New("corrupt document")
)

// DefaultBackground is the background color of new pages.
const DefaultBackground = "#ffffff"

// Orientation applies to every page of a document.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// ParseOrientation accepts "landscape" or "portrait" in any case.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case Landscape, Portrait:
		return o, nil
	}
	return "", fmt.Errorf("unknown orientation: %q", s)
}

// Sport selects the background diagram drawn for pitch objects.
type Sport string

const (
	SportGAA              Sport = "GAA"
	SportSoccer           Sport = "Soccer"
	SportBasketball       Sport = "Basketball"
	SportAmericanFootball Sport = "AmericanFootball"
)

// Sports lists the known sports.
var Sports = []Sport{SportGAA, SportSoccer, SportBasketball, SportAmericanFootball}

// ParseSport matches s against the known sports in any case. Unknown values are
// kept verbatim; renderers fall back to a plain pitch for them.
func ParseSport(s string) Sport {
	s = strings.TrimSpace(s)
	for _, known := range Sports {
		if strings.EqualFold(string(known), s) {
			return known
		}
	}
	return Sport(s)
}

// Page is one sheet of a document. Objects are in z-order: later objects draw on top.
type Page struct {
	BackgroundColor string    `json:"backgroundColor"`
	Objects         []*Object `json:"objects"`
}

// NewPage returns an empty page with the default background.
func NewPage() *Page {
	return &Page{BackgroundColor: DefaultBackground, Objects: make([]*Object, 0)}
}

// Add appends obj on top of the page.
func (p *Page) Add(obj *Object) {
	p.Objects = append(p.Objects, obj)
}

// Find returns the object with id and its z-index.
func (p *Page) Find(id string) (*Object, int) {
	for i, obj := range p.Objects {
		if obj.ID == id {
			return obj, i
		}
	}
	return nil, -1
}

// Remove deletes the object with id and reports whether it was present.
func (p *Page) Remove(id string) bool {
	_, i := p.Find(id)
	if i < 0 {
		return false
	}
	p.Objects = append(p.Objects[:i], p.Objects[i+1:]...)
	return true
}

// Replace swaps the stored object with the same ID for obj.
func (p *Page) Replace(obj *Object) bool {
	_, i := p.Find(obj.ID)
	if i < 0 {
		return false
	}
	p.Objects[i] = obj
	return true
}

// BringToFront moves the object with id to the top of the z-order.
func (p *Page) BringToFront(id string) bool {
	obj, i := p.Find(id)
	if i < 0 {
		return false
	}
	p.Objects = append(p.Objects[:i], p.Objects[i+1:]...)
	p.Objects = append(p.Objects, obj)
	return true
}

// Document is an ordered collection of pages sharing one orientation.
type Document struct {
	ID          string      `json:"id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Sport       Sport       `json:"sport"`
	Orientation Orientation `json:"orientation"`
	Pages       []*Page     `json:"pages"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewDocument returns a document with a single empty page.
func NewDocument(title string, sport Sport, orientation Orientation) *Document {
	if orientation == "" {
		orientation = Landscape
	}
	if sport == "" {
		sport = SportGAA
	}
	return &Document{
		Title:       title,
		Sport:       sport,
		Orientation: orientation,
		Pages:       []*Page{NewPage()},
	}
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Page returns page i.
func (d *Document) Page(i int) (*Page, error) {
	if i < 0 || i >= len(d.Pages) {
		return nil, fmt.Errorf("page %d of %d: %w", i, len(d.Pages), ErrPageOutOfRange)
	}
	return d.Pages[i], nil
}

// AddPage appends an empty page and returns its index.
func (d *Document) AddPage() int {
	d.Pages = append(d.Pages, NewPage())
	return len(d.Pages) - 1
}

// DeletePage removes page i. The only remaining page cannot be deleted.
func (d *Document) DeletePage(i int) error {
	if i < 0 || i >= len(d.Pages) {
		return fmt.Errorf("page %d of %d: %w", i, len(d.Pages), ErrPageOutOfRange)
	}
	if len(d.Pages) == 1 {
		return ErrLastPage
	}
	d.Pages = append(d.Pages[:i], d.Pages[i+1:]...)
	return nil
}

// FindObject locates an object anywhere in the document.
func (d *Document) FindObject(id string) (obj *Object, page int, ok bool) {
	for pi, p := range d.Pages {
		if o, _ := p.Find(id); o != nil {
			return o, pi, true
		}
	}
	return nil, -1, false
}

// StripHandles drops every resolved image handle before persistence.
func (d *Document) StripHandles() {
	for _, p := range d.Pages {
		for _, obj := range p.Objects {
			obj.Handle = nil
		}
	}
}

// Clone returns a deep copy of the document. Image handles are shared.
func (d *Document) Clone() *Document {
	c := *d
	c.Pages = make([]*Page, len(d.Pages))
	for i, p := range d.Pages {
		np := &Page{BackgroundColor: p.BackgroundColor, Objects: make([]*Object, len(p.Objects))}
		for j, obj := range p.Objects {
			np.Objects[j] = obj.Clone()
		}
		c.Pages[i] = np
	}
	return &c
}
