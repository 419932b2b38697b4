// Package memory keeps documents in a map and, when an output directory is
// configured, mirrors each one to a JSON snapshot that is read back on Init.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/scorelect/drillboard/internal/config"
	"github.com/scorelect/drillboard/internal/storage"
	"github.com/scorelect/drillboard/pkg/core"
)

// Backend stores documents in memory and snapshots them to JSON files
type Backend struct {
	cfg  config.MemoryConfig
	docs map[string]*core.Document
	now  func() time.Time
	mu   sync.RWMutex
}

var _ storage.Backend = (*Backend)(nil)

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:  cfg,
		docs: make(map[string]*core.Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Init loads the snapshots found in the output directory
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	docs, err := b.readSnapshots()
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, doc := range docs {
		b.docs[doc.ID] = doc
	}
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// Save stores a copy of doc and writes its snapshot.
func (b *Backend) Save(ctx context.Context, doc *core.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	saved, err := storage.Prepare(doc, b.now())
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.docs[saved.ID]; ok {
		saved.CreatedAt = prev.CreatedAt
	}
	if b.cfg.OutputDir != "" {
		if err := b.writeSnapshot(saved); err != nil {
			return "", err
		}
	}
	b.docs[saved.ID] = saved
	return saved.ID, nil
}

// Load returns a copy of the document with id
func (b *Backend) Load(ctx context.Context, id string) (*core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	doc, ok := b.docs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return doc.Clone(), nil
}

// List returns summaries, most recently updated first
func (b *Backend) List(ctx context.Context) ([]storage.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]storage.Summary, 0, len(b.docs))
	for _, doc := range b.docs {
		out = append(out, storage.Summarize(doc))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Delete removes the document and its snapshot
func (b *Backend) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.docs[id]; !ok {
		return storage.ErrNotFound
	}
	if b.cfg.OutputDir != "" {
		if err := b.removeSnapshot(id); err != nil {
			return err
		}
	}
	delete(b.docs, id)
	return nil
}
