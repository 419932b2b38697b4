package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scorelect/drillboard/pkg/core"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrTitleRequired is returned when saving a document without a title.
	ErrTitleRequired = errors.New("document title is required")
)

// Backend is the interface all storage implementations must satisfy.
// Save never modifies the document it is given.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Save stores doc and returns its id, assigning one to new documents.
	Save(ctx context.Context, doc *core.Document) (string, error)
	// Load returns a copy of the stored document.
	Load(ctx context.Context, id string) (*core.Document, error)
	// List returns a summary of every stored document, most recently updated first.
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
}

// Summary describes a stored document without its pages.
type Summary struct {
	ID          string
	Title       string
	Sport       core.Sport
	Orientation core.Orientation
	Pages       int
	Objects     int
	UpdatedAt   time.Time
}

// Summarize builds the summary of doc.
func Summarize(doc *core.Document) Summary {
	objects := 0
	for _, p := range doc.Pages {
		objects += len(p.Objects)
	}
	return Summary{
		ID:          doc.ID,
		Title:       doc.Title,
		Sport:       doc.Sport,
		Orientation: doc.Orientation,
		Pages:       len(doc.Pages),
		Objects:     objects,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// Prepare validates doc and returns the copy a backend stores: handles
// stripped, an id assigned if missing and timestamps set from now.
func Prepare(doc *core.Document, now time.Time) (*core.Document, error) {
	if doc == nil || strings.TrimSpace(doc.Title) == "" {
		return nil, ErrTitleRequired
	}
	c := doc.Clone()
	c.StripHandles()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return c, nil
}
